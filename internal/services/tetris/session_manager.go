package tetris

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/database"
)

// TickInterval はゲームの 1 ティックの実時間です。全セッション共通。
const TickInterval = 125 * time.Millisecond

// Client はWebSocket接続を持つ単一のクライアントを表します。
type Client struct {
	UserID string          // このクライアントに紐づくユーザーのID
	Conn   *websocket.Conn // クライアントとの実際のWebSocketコネクション
	Send   chan []byte     // クライアントへメッセージを送信するためのバッファ付きチャネル
	RoomID string          // このクライアントが現在参加しているルームのID
	closed bool            // チャネルが閉じられたかどうかのフラグ
	mu     sync.Mutex      // closedフラグ保護用
}

// SafeSend は安全にチャネルにメッセージを送信します（closedチェック付き）
func (c *Client) SafeSend(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false // 既に閉じられている
	}

	select {
	case c.Send <- message:
		return true // 送信成功
	default:
		return false // チャネルがフル
	}
}

// SafeClose は安全にチャネルを閉じます
func (c *Client) SafeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// GameSession は 1 つのルームとそのプレイヤーのゲーム状態を保持します。
type GameSession struct {
	ID        string           `json:"id"`         // セッションID (UUID)
	Player    *PlayerGameState `json:"-"`          // プレイヤーのゲーム状態
	Status    string           `json:"status"`     // "waiting", "playing", "finished"
	StartedAt time.Time        `json:"started_at"` // プレイ開始日時
	EndedAt   time.Time        `json:"ended_at"`   // セッション終了日時
}

// PlayerInputEvent はクライアントからの操作入力を表す構造体です。
// WebSocketを通じてサーバーに送信されます。
type PlayerInputEvent struct {
	UserID string `json:"user_id"` // 操作を行ったプレイヤーのID
	Action string `json:"action"`  // "move_left", "rotate_cw", "hard_drop" など
}

// GameSnapshot はWebSocket送信用のセッション状態です。
// 毎ティックの更新後にルーム内の全クライアントへ送られます。
type GameSnapshot struct {
	RoomID    string          `json:"room_id"`
	Status    string          `json:"status"`
	Player    *PlayerSnapshot `json:"player"`
	StartedAt time.Time       `json:"started_at,omitempty"`
	EndedAt   time.Time       `json:"ended_at,omitempty"`
}

// SessionManager はゲームセッションとWebSocketクライアント接続の全体を管理します。
// これはアプリケーション内でシングルトンとして動作することが想定されます。
// 全セッションのティック進行は Run の単一ゴルーチンが駆動するため、
// ゲーム状態そのものにロックは不要です。
type SessionManager struct {
	sessions    map[string]*GameSession // roomID -> GameSession のマップ
	clients     map[string]*Client      // userID -> Client のマップ
	register    chan *Client            // 新しいクライアント接続の登録リクエスト用チャネル
	unregister  chan *Client            // クライアント切断の登録解除リクエスト用チャネル
	inputEvents chan PlayerInputEvent   // クライアントからのプレイヤー操作入力を受け取るチャネル
	quit        chan struct{}           // シャットダウン用チャネル
	mu          sync.RWMutex            // sessions と clients マップへのアクセス保護用
	resultRepo  database.ResultRepository
}

// NewSessionManager は新しい SessionManager インスタンスを作成し、
// そのメインイベントループをバックグラウンドで開始します。
//
// Parameters:
//   - resultRepo: ゲーム結果を保存するリポジトリ(nil の場合は保存しない)
//
// Returns:
//   - *SessionManager: 初期化されたセッションマネージャーのポインタ
func NewSessionManager(resultRepo database.ResultRepository) *SessionManager {
	sm := &SessionManager{
		sessions:    make(map[string]*GameSession),
		clients:     make(map[string]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inputEvents: make(chan PlayerInputEvent, 512),
		quit:        make(chan struct{}),
		resultRepo:  resultRepo,
	}
	go sm.Run()
	return sm
}

// Run は SessionManager のメインイベントループです。
// クライアントの登録/解除とプレイヤー入力を処理し、ティックタイマーで
// 全セッションのゲーム状態を進めてブロードキャストします。
func (sm *SessionManager) Run() {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-sm.register:
			sm.mu.Lock()
			sm.clients[client.UserID] = client
			session, ok := sm.sessions[client.RoomID]
			if ok && session.Status == "waiting" {
				// 接続が確立したらプレイ開始。開始操作を積んでおけば
				// 次のティックで状態機械が初期化とスポーンを行う。
				session.Status = "playing"
				session.StartedAt = time.Now()
				session.Player.SubmitAction(ActionStartOrReset)
				log.Printf("[SessionManager] Game session %s started for player %s", session.ID, client.UserID)
			}
			sm.mu.Unlock()
			log.Printf("[SessionManager] Client registered: %s (Room: %s)", client.UserID, client.RoomID)

		case client := <-sm.unregister:
			sm.mu.Lock()
			if registeredClient, ok := sm.clients[client.UserID]; ok && registeredClient == client {
				registeredClient.SafeClose()
				delete(sm.clients, client.UserID)
				log.Printf("[SessionManager] Client unregistered: %s (Room: %s)", client.UserID, client.RoomID)
			}
			sm.mu.Unlock()
			sm.EndGameSession(client.RoomID)

		case event := <-sm.inputEvents:
			sm.mu.RLock()
			client, clientExists := sm.clients[event.UserID]
			var session *GameSession
			if clientExists {
				session = sm.sessions[client.RoomID]
			}
			sm.mu.RUnlock()

			if session == nil || session.Status != "playing" {
				log.Printf("[SessionManager] Dropping input from user %s (no active session)", event.UserID)
				continue
			}
			if session.Player.UserID != event.UserID {
				log.Printf("[SessionManager] Input from unknown user %s in room %s", event.UserID, client.RoomID)
				continue
			}

			action, ok := ParseAction(event.Action)
			if !ok {
				log.Printf("[SessionManager] Unknown action %q from user %s", event.Action, event.UserID)
				continue
			}
			session.Player.SubmitAction(action)

		case <-ticker.C:
			sm.advanceSessions()

		case <-sm.quit:
			log.Printf("[SessionManager] Shutdown signal received, stopping main loop")
			return
		}
	}
}

// advanceSessions は全てのプレイ中セッションを 1 ティック進め、
// 更新後の状態をブロードキャストします。
func (sm *SessionManager) advanceSessions() {
	sm.mu.RLock()
	active := make([]*GameSession, 0, len(sm.sessions))
	for _, session := range sm.sessions {
		if session.Status == "playing" {
			active = append(active, session)
		}
	}
	sm.mu.RUnlock()

	for _, session := range active {
		session.Player.AdvanceTick()

		// ゲームオーバーの瞬間だけ結果を記録する。
		// リアクションフラグは 1 ティックしか立たないので二重保存にならない。
		if session.Player.Reactions().GameOver {
			log.Printf("[SessionManager] Player %s hit game over in room %s (score: %d)",
				session.Player.UserID, session.ID, session.Player.Score)
			sm.saveResult(session.Player)
		}

		sm.broadcastSnapshot(session)
	}
}

// saveResult はゲーム結果をデータベースに保存します。
// リポジトリが設定されていない場合は何もしません。
func (sm *SessionManager) saveResult(state *PlayerGameState) {
	if sm.resultRepo == nil {
		return
	}
	userID := state.UserID
	score := state.Score
	lines := state.LinesCleared
	level := state.Level
	go func() {
		if _, err := sm.resultRepo.CreateResult(nil, userID, score, lines, level); err != nil {
			log.Printf("[SessionManager] Failed to save result for user %s: %v", userID, err)
		}
	}()
}

// broadcastSnapshot はセッションの現在状態をルーム内の全クライアントに送信します。
func (sm *SessionManager) broadcastSnapshot(session *GameSession) {
	snapshot := &GameSnapshot{
		RoomID:    session.ID,
		Status:    session.Status,
		Player:    session.Player.Snapshot(),
		StartedAt: session.StartedAt,
		EndedAt:   session.EndedAt,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("[SessionManager] Error marshaling game snapshot for room %s: %v", session.ID, err)
		return
	}

	sm.mu.RLock()
	for _, client := range sm.clients {
		if client.RoomID == session.ID {
			if !client.SafeSend(payload) {
				log.Printf("[SessionManager] Failed to send to client %s (channel closed or full)", client.UserID)
			}
		}
	}
	sm.mu.RUnlock()
}

// CreateSession は新しいゲームセッションを作成します。
// セッションは WebSocket 接続が確立するまで "waiting" のままです。
//
// Parameters:
//   - userID: プレイヤーのユーザーID
//
// Returns:
//   - string: 作成されたルームのID
//   - error: エラーが発生した場合
func (sm *SessionManager) CreateSession(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	// 同じユーザーの古いセッションは破棄する
	for roomID, session := range sm.sessions {
		if session.Player.UserID == userID {
			delete(sm.sessions, roomID)
			log.Printf("[SessionManager] Discarded stale session %s for user %s", roomID, userID)
		}
	}

	roomID := uuid.New().String()
	sm.sessions[roomID] = &GameSession{
		ID:     roomID,
		Player: NewPlayerGameState(userID, time.Now().UnixNano()),
		Status: "waiting",
	}
	log.Printf("[SessionManager] Created new game session: %s for player %s", roomID, userID)
	return roomID, nil
}

// RegisterClient は新しいWebSocketクライアントをSessionManagerに登録します。
//
// Parameters:
//   - roomID: クライアントが参加するルームのID
//   - userID: クライアントのユーザーID
//   - conn: WebSocketコネクション
//
// Returns:
//   - error: ルームが存在しない、または本人のルームでない場合
func (sm *SessionManager) RegisterClient(roomID, userID string, conn *websocket.Conn) error {
	sm.mu.Lock()
	session, ok := sm.sessions[roomID]
	if !ok {
		sm.mu.Unlock()
		return errors.New("room not found")
	}
	if session.Player.UserID != userID {
		sm.mu.Unlock()
		return errors.New("room belongs to another user")
	}

	// 既存の接続があれば先にクリーンアップ（再接続対応）
	if existingClient, exists := sm.clients[userID]; exists {
		log.Printf("[SessionManager] Replacing existing connection for user %s", userID)
		if existingClient.Conn != nil {
			existingClient.Conn.Close()
		}
		existingClient.SafeClose()
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 512),
		RoomID: roomID,
	}
	sm.mu.Unlock()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(300 * time.Second)) // Pong受信時にタイムアウトリセット
		return nil
	})

	go sm.readPump(client)
	go client.writePump()

	sm.register <- client
	return nil
}

// readPump はクライアントからのWebSocketメッセージを読み込み、 inputEvents チャネルに送信します。
func (sm *SessionManager) readPump(client *Client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SessionManager] Panic in readPump for user %s: %v", client.UserID, r)
		}
		sm.unregister <- client
		if client.Conn != nil {
			client.Conn.Close()
		}
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[SessionManager] WebSocket unexpected close error for user %s: %v", client.UserID, err)
			}
			return
		}
		if len(message) == 0 {
			continue
		}

		var inputEvent PlayerInputEvent
		if err := json.Unmarshal(message, &inputEvent); err != nil {
			log.Printf("[SessionManager] Failed to unmarshal input message from %s: %v", client.UserID, err)
			continue
		}
		inputEvent.UserID = client.UserID // 受信したメッセージのUserIDを上書き（なりすまし対策）

		select {
		case sm.inputEvents <- inputEvent:
		default:
			log.Printf("[SessionManager] Input events channel is full, dropping message from user %s", client.UserID)
		}
	}
}

// writePump は Client の Send チャネルからのメッセージをWebSocketコネクションに書き込みます。
// クライアントごとにこのゴルーチンが動作します。
func (c *Client) writePump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Client] Panic in writePump for user %s: %v", c.UserID, r)
		}
		if c.Conn != nil {
			c.Conn.Close()
		}
	}()

	// ピング送信のタイマー設定（コネクションの生存確認用）
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// マネージャーがチャネルを閉じた場合 (クライアントの登録解除時など)
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Client] Error writing message for user %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// EndGameSession はゲームセッションを終了させ、セッションをクリーンアップします。
//
// Parameters:
//   - roomID: 終了するルームのID
func (sm *SessionManager) EndGameSession(roomID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[roomID]
	if !ok {
		return
	}
	if session.Status == "finished" {
		return
	}

	session.Status = "finished"
	session.EndedAt = time.Now()
	delete(sm.sessions, roomID)
	log.Printf("[SessionManager] Game session %s ended.", roomID)
}

// GetGameSession は指定されたルームIDのゲームセッションを取得します。
// 主にハンドラーからセッション情報を取得するために使用されます。
func (sm *SessionManager) GetGameSession(roomID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[roomID]
	return session, ok
}

// Shutdown はSessionManagerを安全にシャットダウンします
func (sm *SessionManager) Shutdown() {
	close(sm.quit)

	sm.mu.Lock()
	for userID, client := range sm.clients {
		log.Printf("[SessionManager] Disconnecting client %s", userID)
		if client.Conn != nil {
			client.Conn.Close()
		}
		client.SafeClose()
	}
	sm.clients = make(map[string]*Client)
	sm.sessions = make(map[string]*GameSession)
	sm.mu.Unlock()

	log.Printf("[SessionManager] Shutdown complete")
}
