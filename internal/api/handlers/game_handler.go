package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/database"
	"github.com/hackathon-melon-soda/tetcore-backend/internal/services/tetris"
)

// upgrader はHTTP接続をWebSocketプロトコルにアップグレードするための設定です。
// CheckOrigin はクロスオリジンリクエストを許可するかどうかを制御します。
// 開発中は true で良いですが、本番環境では適切な Origin チェックを行うべきです。
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// すべてのOriginからの接続を許可 (開発用)
		// 本番環境では、フロントエンドのドメインなどを厳密にチェックしてください。
		return true
	},
}

// GameHandler はゲーム関連のHTTPリクエスト（部屋作成、状態取得、WebSocket接続）を処理します。
type GameHandler struct {
	sessionManager *tetris.SessionManager    // ゲームセッションの管理サービス
	dbService      *database.DatabaseService // データベースサービス
}

// NewGameHandler は新しい GameHandler インスタンスを作成します。
//
// Parameters:
//   sm : セッションマネージャーへのポインタ
//   db : データベースサービスへのポインタ
// Returns:
//   *GameHandler: 新しく作成された GameHandler のポインタ
func NewGameHandler(sm *tetris.SessionManager, db *database.DatabaseService) *GameHandler {
	return &GameHandler{
		sessionManager: sm,
		dbService:      db,
	}
}

// ExtractUserIDFromContext はリクエストのコンテキストからユーザーIDを抽出します。
func ExtractUserIDFromContext(r *http.Request) (string, error) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		return "", fmt.Errorf("ユーザーIDがコンテキストに見つかりません")
	}
	return userID, nil
}

// WriteErrorResponse はエラーレスポンスをJSON形式で書き込みます。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WriteJSONResponse はJSONレスポンスを書き込みます。
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// CreateRoom は新しいゲームセッション（部屋）を作成するためのHTTPハンドラーです。
// 認証済みユーザーIDをキーに、セッションマネージャーに部屋の作成を依頼します。
func (h *GameHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	// ユーザー認証情報をコンテキストから取得する
	userID, err := ExtractUserIDFromContext(r)
	if err != nil {
		// 認証ミドルウェアが適用されていない場合、テスト用のユーザーIDを使用
		log.Printf("[GameHandler] No user ID in context, using test user ID")
		userID = "test-user-123"
	}

	// セッションマネージャーに新しいルームの作成を依頼
	roomID, err := h.sessionManager.CreateSession(userID)
	if err != nil {
		log.Printf("[GameHandler] Failed to create room for user %s: %v", userID, err)
		WriteErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("ルームの作成に失敗しました: %v", err))
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]string{"room_id": roomID, "message": "ルームを作成しました"})
}

// GetRoomStatus は特定のルームの現在の状態を返すハンドラーです。（デバッグやルーム一覧表示用）
func (h *GameHandler) GetRoomStatus(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]
	if roomID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "ルームIDが必要です")
		return
	}

	session, ok := h.sessionManager.GetGameSession(roomID)
	if !ok {
		WriteErrorResponse(w, http.StatusNotFound, "指定されたルームは見つかりませんでした")
		return
	}

	WriteJSONResponse(w, http.StatusOK, session)
}

// HandleWebSocketConnection はHTTP接続をWebSocketプロトコルにアップグレードし、
// その後、WebSocketメッセージの送受信をセッションマネージャーに引き渡します。
// このエンドポイントにはルームIDが含まれます。
func (h *GameHandler) HandleWebSocketConnection(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]
	if roomID == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "WebSocket接続にはルームIDが必要です")
		return
	}

	// HTTP接続をWebSocket接続にアップグレード
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[GameHandler] Failed to upgrade to websocket for room %s: %v", roomID, err)
		return // アップグレード失敗時はエラーログのみ
	}
	// ここでは閉じない。SessionManagerが管理するため。

	log.Printf("[GameHandler] WebSocket upgraded for room %s.", roomID)

	// 認証メッセージを待つ
	conn.SetReadDeadline(time.Now().Add(10 * time.Second)) // 10秒のタイムアウト

	userID, err := h.awaitAuthMessage(conn)
	if err != nil {
		log.Printf("[GameHandler] WebSocket auth failed for room %s: %v", roomID, err)
		conn.Close()
		return
	}

	// タイムアウトを解除
	conn.SetReadDeadline(time.Time{})

	// SessionManager に新しいWebSocket接続を登録
	err = h.sessionManager.RegisterClient(roomID, userID, conn)
	if err != nil {
		log.Printf("[GameHandler] Failed to register client %s to room %s: %v", userID, roomID, err)
		conn.Close() // 登録失敗時はコネクションを閉じる
		return
	}

	// RegisterClient内で readPump と writePump ゴルーチンが開始されるため、
	// ここではそれ以上の処理は不要です。ハンドラーは単にコネクションを引き渡すだけです。
}

// awaitAuthMessage は接続直後の認証メッセージ {"type":"auth","token":...} を待ち、
// トークンを検証してユーザーIDを返します。認証成功時には auth_success を返信します。
func (h *GameHandler) awaitAuthMessage(conn *websocket.Conn) (string, error) {
	_, message, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("認証メッセージの読み込みに失敗しました: %w", err)
	}

	var authMsg struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(message, &authMsg); err != nil {
		return "", fmt.Errorf("認証メッセージのパースに失敗しました: %w", err)
	}
	if authMsg.Type != "auth" {
		conn.WriteJSON(map[string]string{"error": "Expected auth message"})
		return "", fmt.Errorf("unexpected message type: %s", authMsg.Type)
	}

	var userID string
	if authMsg.Token == "BYPASS_AUTH" && os.Getenv("BYPASS_AUTH") == "true" {
		// テスト用: 認証をバイパスして固定ユーザーとして扱う
		userID = "test-user-123"
		log.Printf("[GameHandler] Using BYPASS_AUTH for user: %s", userID)
	} else {
		userID, err = verifyJWT(authMsg.Token)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": "Invalid token"})
			return "", err
		}
		log.Printf("[GameHandler] Successfully authenticated user via JWT: %s", userID)
	}

	// 認証成功レスポンスを送信
	conn.WriteJSON(map[string]string{"type": "auth_success", "message": "Authentication successful"})
	return userID, nil
}

// verifyJWT はJWTトークンを検証し、'sub' クレームからユーザーIDを取り出します。
// auth_middleware.go と同じ検証ロジックです。
func verifyJWT(token string) (string, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	// Bearerプレフィックスを除去
	tokenString := token
	if len(tokenString) > 7 && tokenString[0:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	// JWTの検証とパース
	parsedToken, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// アルゴリズムがHMACであることを確認
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("JWT parse error: %w", err)
	}
	if !parsedToken.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	// ユーザーIDは 'sub' (Subject) クレームにUUIDとして格納されます。
	userID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("JWT claims missing 'sub' (userID) or wrong type: %v", claims["sub"])
	}
	return userID, nil
}
