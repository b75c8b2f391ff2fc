package tetris

import (
	"math/rand"
	"testing"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/models/tetris"
)

// TestSequencerBagPermutation は各バッグが 7 種全てを 1 回ずつ含むことをテストします。
func TestSequencerBagPermutation(t *testing.T) {
	seq := NewSequencer(rand.New(rand.NewSource(1)))

	// 連続する 10 バッグ分を検証する
	for bag := 0; bag < 10; bag++ {
		seen := make(map[tetris.Tetromino]int)
		for i := 0; i < tetris.NumTetrominoes; i++ {
			seen[seq.Next()]++
		}
		if len(seen) != tetris.NumTetrominoes {
			t.Fatalf("Bag %d: expected all %d shapes, but got %d distinct", bag, tetris.NumTetrominoes, len(seen))
		}
		for shape, count := range seen {
			if count != 1 {
				t.Errorf("Bag %d: expected %v exactly once, but got %d", bag, shape, count)
			}
		}
	}
}

// TestSequencerPeek は先読みが状態を変えず、取得順と一致することをテストします。
func TestSequencerPeek(t *testing.T) {
	seq := NewSequencer(rand.New(rand.NewSource(42)))

	for step := 0; step < 20; step++ {
		var ahead [LookaheadCount]tetris.Tetromino
		for k := 0; k < LookaheadCount; k++ {
			ahead[k] = seq.Peek(k)
		}
		// Peek を繰り返しても結果は変わらない
		for k := 0; k < LookaheadCount; k++ {
			if got := seq.Peek(k); got != ahead[k] {
				t.Fatalf("Step %d: expected Peek(%d) to be stable, but %v became %v", step, k, ahead[k], got)
			}
		}
		if got := seq.Next(); got != ahead[0] {
			t.Fatalf("Step %d: expected Next to return %v, but got %v", step, ahead[0], got)
		}
		if got := seq.Peek(0); got != ahead[1] {
			t.Fatalf("Step %d: expected the queue to shift to %v, but got %v", step, ahead[1], got)
		}
	}
}

// TestSequencerDeterministic は同じシードから同じ出現順が得られることをテストします。
func TestSequencerDeterministic(t *testing.T) {
	a := NewSequencer(rand.New(rand.NewSource(7)))
	b := NewSequencer(rand.New(rand.NewSource(7)))

	for i := 0; i < 50; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("Draw %d: expected identical sequences, but got %v and %v", i, x, y)
		}
	}
}
