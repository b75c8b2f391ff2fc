package tetris

import (
	"math/rand"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/models/tetris"
)

// Phase はゲーム進行の状態です。
type Phase int

const (
	PhaseAwaitingStart Phase = iota // 開始操作待ち
	PhasePlaying                    // プレイ中
	PhaseExploding                  // ライン消去の演出待ち
	PhaseGameOver                   // ゲームオーバー
)

// String はクライアント送信用のフェーズ名を返します。
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseExploding:
		return "exploding"
	case PhaseGameOver:
		return "game_over"
	default:
		return "awaiting_start"
	}
}

// Reactions は直前のティックで発生した 1 回限りのイベントフラグです。
// 演出用のトリガーとしてクライアントに送信され、毎ティック先頭でクリアされます。
type Reactions struct {
	LockedDown   bool `json:"locked_down"`   // ピースが盤面に固定された
	Moved        bool `json:"moved"`         // ピースが移動または回転した
	Held         bool `json:"held"`          // ホールドが成立した
	HoldFailed   bool `json:"hold_failed"`   // ホールドが拒否された
	ScoredTetris bool `json:"scored_tetris"` // 4 ライン消しが成立した
	GameOver     bool `json:"game_over"`     // このティックでゲームオーバーになった
}

const (
	// ExplosionDelayTicks はライン消去から行の詰めまでの演出ティック数。
	ExplosionDelayTicks = 8
	// LinesPerLevel はレベルが 1 上がるのに必要な消去ライン数。
	LinesPerLevel = 10
	// MaxClearRows は一度の固定で消去され得る最大ライン数。
	MaxClearRows = 4
)

// clearScores は同時消去ライン数ごとの基礎スコア係数です。
var clearScores = [MaxClearRows]int{100, 300, 500, 800}

// PlayerGameState は単一プレイヤーのテトリスゲーム状態です。
// 全ての更新は AdvanceTick を通じて 1 ティックずつ進み、
// このティック同期の外から状態を書き換えてはいけません。
type PlayerGameState struct {
	UserID       string
	Board        tetris.Board
	CurrentPiece *tetris.Piece
	Score        int
	LinesCleared int
	Level        int
	Phase        Phase

	heldPiece *tetris.Tetromino
	holdUsed  bool

	sequencer *Sequencer
	rng       *rand.Rand

	gravityTimer   int
	explodingRows  []int
	explosionTimer int
	lockPause      bool
	backToBack     bool

	pending   actionSet
	reactions Reactions
	changed   map[tetris.Index]struct{}
}

// NewPlayerGameState は開始操作待ちの初期状態を作成します。
//
// Parameters:
//   - userID: プレイヤーのユーザーID
//   - seed: 乱数シード(同じシードなら出現順が再現される)
//
// Returns:
//   - *PlayerGameState: 初期化されたゲーム状態のポインタ
func NewPlayerGameState(userID string, seed int64) *PlayerGameState {
	source := rand.NewSource(seed)
	return &PlayerGameState{
		UserID:  userID,
		Level:   1,
		Phase:   PhaseAwaitingStart,
		rng:     rand.New(source),
		changed: make(map[tetris.Index]struct{}),
	}
}

// SubmitAction は次のティックで処理する操作を登録します。
// 同一ティック内に複数の操作が登録された場合、優先順位の最も高い
// 実行可能な操作だけが採用されます。
func (s *PlayerGameState) SubmitAction(a Action) {
	if a == ActionNone {
		return
	}
	s.pending.add(a)
}

// CellShape は指定マスを占有しているテトリミノを返します。
//
// Returns:
//   - tetris.Tetromino: マスを占有しているテトリミノ
//   - bool: 空マスの場合は false
func (s *PlayerGameState) CellShape(idx tetris.Index) (tetris.Tetromino, bool) {
	return s.Board.At(idx).Tetromino()
}

// PeekNext は k 個先に出現するテトリミノを返します。k は 0..2。
//
// Returns:
//   - tetris.Tetromino: k 個先のテトリミノ
//   - bool: ゲーム未開始でキューが存在しない場合は false
func (s *PlayerGameState) PeekNext(k int) (tetris.Tetromino, bool) {
	if s.sequencer == nil || k < 0 || k >= LookaheadCount {
		return 0, false
	}
	return s.sequencer.Peek(k), true
}

// Held はホールド中のテトリミノを返します。
//
// Returns:
//   - tetris.Tetromino: ホールド中のテトリミノ
//   - bool: ホールドが空の場合は false
func (s *PlayerGameState) Held() (tetris.Tetromino, bool) {
	if s.heldPiece == nil {
		return 0, false
	}
	return *s.heldPiece, true
}

// IsGameOver はゲームオーバー状態かどうかを返します。
func (s *PlayerGameState) IsGameOver() bool {
	return s.Phase == PhaseGameOver
}

// Reactions は直前のティックで発生したイベントフラグを返します。
// 次の AdvanceTick までの間、何度呼んでも同じ値を返します。
func (s *PlayerGameState) Reactions() Reactions {
	return s.reactions
}

// ChangedCells は直前のティックで表示内容が変わったマスの一覧を返します。
// 描画側はこの差分だけを再描画すればよい。
func (s *PlayerGameState) ChangedCells() []tetris.Index {
	cells := make([]tetris.Index, 0, len(s.changed))
	for idx := range s.changed {
		cells = append(cells, idx)
	}
	return cells
}

// markCell は指定マスを再描画対象に追加します。
func (s *PlayerGameState) markCell(idx tetris.Index) {
	if idx.Row >= 0 && idx.Row < tetris.BoardRows && idx.Col >= 0 && idx.Col < tetris.BoardCols {
		s.changed[idx] = struct{}{}
	}
}

// markPiece はピースの占有マスを再描画対象に追加します。
func (s *PlayerGameState) markPiece(p tetris.Piece) {
	for _, idx := range p.Cells() {
		s.markCell(idx)
	}
}

// PieceSnapshot は送信用の操作中ピース情報です。
type PieceSnapshot struct {
	Type   string   `json:"type"`
	Facing string   `json:"facing"`
	Cells  [][2]int `json:"cells"` // [row, col] の組
}

// PlayerSnapshot は WebSocket 送信用の軽量なゲーム状態です。
// 内部状態への参照を持たないため、ロック外で安全にシリアライズできます。
type PlayerSnapshot struct {
	UserID       string         `json:"user_id"`
	Board        tetris.Board   `json:"board"`
	CurrentPiece *PieceSnapshot `json:"current_piece"`
	NextPieces   []string       `json:"next_pieces"`
	HeldPiece    string         `json:"held_piece,omitempty"`
	Score        int            `json:"score"`
	LinesCleared int            `json:"lines_cleared"`
	Level        int            `json:"level"`
	Phase        string         `json:"phase"`
	IsGameOver   bool           `json:"is_game_over"`
	Reactions    Reactions      `json:"reactions"`
}

// Snapshot は現在の状態から送信用スナップショットを作成します。
func (s *PlayerGameState) Snapshot() *PlayerSnapshot {
	snap := &PlayerSnapshot{
		UserID:       s.UserID,
		Board:        s.Board,
		Score:        s.Score,
		LinesCleared: s.LinesCleared,
		Level:        s.Level,
		Phase:        s.Phase.String(),
		IsGameOver:   s.IsGameOver(),
		Reactions:    s.reactions,
	}
	if s.CurrentPiece != nil {
		p := *s.CurrentPiece
		cells := make([][2]int, 0, 4)
		for _, idx := range p.Cells() {
			cells = append(cells, [2]int{idx.Row, idx.Col})
		}
		snap.CurrentPiece = &PieceSnapshot{
			Type:   p.Tetromino.String(),
			Facing: p.Facing.String(),
			Cells:  cells,
		}
	}
	if s.sequencer != nil {
		snap.NextPieces = make([]string, 0, LookaheadCount)
		for k := 0; k < LookaheadCount; k++ {
			snap.NextPieces = append(snap.NextPieces, s.sequencer.Peek(k).String())
		}
	}
	if s.heldPiece != nil {
		snap.HeldPiece = s.heldPiece.String()
	}
	return snap
}
