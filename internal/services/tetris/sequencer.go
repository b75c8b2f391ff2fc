package tetris

import (
	"math/rand"

	"github.com/hackathon-melon-soda/tetcore-backend/internal/models/tetris"
)

// LookaheadCount はクライアントに公開する先読みピース数です。
const LookaheadCount = 3

// Sequencer は 7-bag 方式でテトリミノの出現順を管理します。
// 7 種 1 組のバッグを 2 つ連結して保持し、先読みがバッグ境界で
// 途切れないようにします。
type Sequencer struct {
	sequence [2 * tetris.NumTetrominoes]tetris.Tetromino
	index    int
	rng      *rand.Rand
}

// NewSequencer は乱数生成器を受け取り、2 バッグ分を初期生成します。
//
// Parameters:
//   - rng: バッグのシャッフルに使う乱数生成器
//
// Returns:
//   - *Sequencer: 初期化済みのシーケンサー
func NewSequencer(rng *rand.Rand) *Sequencer {
	s := &Sequencer{rng: rng}
	s.refillBag(0)
	s.refillBag(tetris.NumTetrominoes)
	return s
}

// refillBag は sequence の start から 7 要素を新しい順列で埋めます。
// Fisher-Yates シャッフルで 7 種全てを一様ランダムに並べます。
func (s *Sequencer) refillBag(start int) {
	bag := s.sequence[start : start+tetris.NumTetrominoes]
	for i, t := range tetris.AllTetrominoes() {
		bag[i] = t
	}
	s.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
}

// Next は現在位置のテトリミノを返して 1 つ進めます。
// 先頭バッグを使い切ったら後続バッグを前詰めし、空いた後半へ
// 新しいバッグを生成します。
//
// Returns:
//   - tetris.Tetromino: 出現するテトリミノ
func (s *Sequencer) Next() tetris.Tetromino {
	t := s.sequence[s.index]
	s.index++
	if s.index >= tetris.NumTetrominoes {
		copy(s.sequence[:tetris.NumTetrominoes], s.sequence[tetris.NumTetrominoes:])
		s.refillBag(tetris.NumTetrominoes)
		s.index -= tetris.NumTetrominoes
	}
	return t
}

// Peek は k 個先のテトリミノを状態を変えずに返します。
// k は 0 以上 LookaheadCount 未満であること。
func (s *Sequencer) Peek(k int) tetris.Tetromino {
	return s.sequence[s.index+k]
}
