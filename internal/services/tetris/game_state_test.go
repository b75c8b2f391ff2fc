package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/models/tetris"
)

func TestNewPlayerGameState(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 1)

	// 基本的なフィールドの検証
	assert.Equal(t, "test-user-1", state.UserID)
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, 0, state.LinesCleared)
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, PhaseAwaitingStart, state.Phase)
	assert.False(t, state.IsGameOver())
	assert.Nil(t, state.CurrentPiece)

	// 開始前はキューもホールドも存在しない
	_, ok := state.PeekNext(0)
	assert.False(t, ok)
	_, ok = state.Held()
	assert.False(t, ok)
}

func TestStartSpawnsFirstPiece(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 1)
	state.SubmitAction(ActionStartOrReset)
	state.AdvanceTick()

	assert.Equal(t, PhasePlaying, state.Phase)
	if assert.NotNil(t, state.CurrentPiece) {
		assert.Equal(t, tetris.SpawnIndex, state.CurrentPiece.Pos)
		assert.Equal(t, tetris.DirUp, state.CurrentPiece.Facing)
	}

	// 先読みは 3 つまで参照できる
	for k := 0; k < LookaheadCount; k++ {
		_, ok := state.PeekNext(k)
		assert.True(t, ok, "PeekNext(%d) should be available after start", k)
	}
	_, ok := state.PeekNext(LookaheadCount)
	assert.False(t, ok)
}

// TestStartIgnoredActions は開始前の操作が無視されることをテストします。
func TestStartIgnoredActions(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 1)

	state.SubmitAction(ActionMoveLeft)
	state.SubmitAction(ActionHardDrop)
	state.AdvanceTick()

	assert.Equal(t, PhaseAwaitingStart, state.Phase)
	assert.Nil(t, state.CurrentPiece)
	assert.Equal(t, 0, state.Score)
}

// TestQueryIdempotence はティック間のクエリが冪等であることをテストします。
func TestQueryIdempotence(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 2)
	state.SubmitAction(ActionStartOrReset)
	state.AdvanceTick()
	state.SubmitAction(ActionSoftDrop)
	state.AdvanceTick()

	first := state.Reactions()
	second := state.Reactions()
	assert.Equal(t, first, second)

	score1, score2 := state.Score, state.Score
	assert.Equal(t, score1, score2)

	next1, _ := state.PeekNext(0)
	next2, _ := state.PeekNext(0)
	assert.Equal(t, next1, next2)

	cells1 := len(state.ChangedCells())
	cells2 := len(state.ChangedCells())
	assert.Equal(t, cells1, cells2)
}

// TestReactionsAreOneShot はイベントフラグが次のティックでクリアされることをテストします。
func TestReactionsAreOneShot(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 3)
	state.SubmitAction(ActionStartOrReset)
	state.AdvanceTick()

	state.SubmitAction(ActionHardDrop)
	state.AdvanceTick()
	assert.True(t, state.Reactions().LockedDown)

	state.AdvanceTick()
	assert.False(t, state.Reactions().LockedDown, "reaction flags must only survive one tick")
}

// TestChangedCellsTracksMovement は移動したピースの差分マスが記録されることをテストします。
func TestChangedCellsTracksMovement(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 4)
	state.SubmitAction(ActionStartOrReset)
	state.AdvanceTick()

	before := *state.CurrentPiece
	state.SubmitAction(ActionMoveLeft)
	state.AdvanceTick()
	after := *state.CurrentPiece

	changed := make(map[tetris.Index]bool)
	for _, idx := range state.ChangedCells() {
		changed[idx] = true
	}
	for _, idx := range before.Cells() {
		assert.True(t, changed[idx], "vacated cell %v should be marked for redraw", idx)
	}
	for _, idx := range after.Cells() {
		assert.True(t, changed[idx], "newly occupied cell %v should be marked for redraw", idx)
	}
}

func TestSnapshot(t *testing.T) {
	state := NewPlayerGameState("test-user-1", 5)
	state.SubmitAction(ActionStartOrReset)
	state.AdvanceTick()
	state.SubmitAction(ActionHold)
	state.AdvanceTick()

	snap := state.Snapshot()

	assert.Equal(t, "test-user-1", snap.UserID)
	assert.Equal(t, "playing", snap.Phase)
	assert.Len(t, snap.NextPieces, LookaheadCount)
	assert.NotEmpty(t, snap.HeldPiece)
	if assert.NotNil(t, snap.CurrentPiece) {
		assert.Len(t, snap.CurrentPiece.Cells, 4)
	}
	assert.True(t, snap.Reactions.Held)
}
