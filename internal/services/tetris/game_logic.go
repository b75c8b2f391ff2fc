package tetris

import (
	"github.com/hackathon-melon-soda/tetcore-backend/internal/models/tetris"
)

// down は 1 行下への平行移動オフセットです。
var down = tetris.Offset{Row: 1}

// gravityDelay はレベルに応じた自動落下の間隔(ティック数)を返します。
// レベルが上がるほど短くなり、レベル 11 以降は毎ティック落下します。
func gravityDelay(level int) int {
	switch {
	case level >= 11:
		return 1
	case level == 10:
		return 2
	case level == 9:
		return 3
	case level == 8:
		return 4
	case level == 7:
		return 5
	case level == 6:
		return 6
	case level >= 4:
		return 7
	case level >= 2:
		return 8
	default:
		return 16
	}
}

// AdvanceTick は状態機械を 1 ティック進めます。
// 登録済みの操作を最大 1 つ消費し、操作が実行されなかった場合のみ
// 重力または固定処理が走ります。呼び出し後、イベントフラグと
// 再描画差分はこのティックの内容に置き換わります。
func (s *PlayerGameState) AdvanceTick() {
	s.reactions = Reactions{}
	s.changed = make(map[tetris.Index]struct{})

	pending := s.pending
	s.pending.clear()

	switch s.Phase {
	case PhaseAwaitingStart, PhaseGameOver:
		// 開始操作以外は受け付けない
		if pending.has(ActionStartOrReset) {
			s.startGame()
		}
	case PhaseExploding:
		if pending.has(ActionStartOrReset) {
			s.startGame()
			return
		}
		s.advanceExplosion()
	case PhasePlaying:
		s.advancePlaying(pending)
	}
}

// startGame は全ての状態を初期化してプレイを開始します。
// プレイ中の再スタートにも使われます。
func (s *PlayerGameState) startGame() {
	s.Board.Reset()
	s.Score = 0
	s.LinesCleared = 0
	s.Level = 1
	s.heldPiece = nil
	s.holdUsed = false
	s.backToBack = false
	s.explodingRows = nil
	s.explosionTimer = 0
	s.lockPause = false
	s.CurrentPiece = nil
	s.sequencer = NewSequencer(s.rng)
	s.Phase = PhasePlaying

	// 盤面全体が描き直しになる
	for row := 0; row < tetris.BoardRows; row++ {
		for col := 0; col < tetris.BoardCols; col++ {
			s.markCell(tetris.Index{Row: row, Col: col})
		}
	}

	s.spawnPiece(s.sequencer.Next())
}

// advancePlaying はプレイ中の 1 ティック分の処理です。
// 優先順位の高い順に保留中の操作を試し、実行できた時点でこのティックは
// 終わります。どの操作も実行されなかった場合は重力処理に移ります。
func (s *PlayerGameState) advancePlaying(pending actionSet) {
	if s.lockPause {
		// 固定直後の 1 ティックはピースを出さずに空ける。
		// この間に演出側が固定アニメーションを再生する。
		if pending.has(ActionStartOrReset) {
			s.startGame()
			return
		}
		s.lockPause = false
		s.spawnPiece(s.sequencer.Next())
		return
	}

	for _, a := range actionPriority {
		if !pending.has(a) {
			continue
		}
		if s.executeAction(a) {
			return
		}
	}

	s.applyGravity()
}

// executeAction は操作を 1 つ実行し、成立したかどうかを返します。
// 不成立の操作は優先順位で次点の操作に譲ります。
func (s *PlayerGameState) executeAction(a Action) bool {
	switch a {
	case ActionMoveLeft:
		return s.movePiece(tetris.Offset{Col: -1})
	case ActionMoveRight:
		return s.movePiece(tetris.Offset{Col: 1})
	case ActionRotateCW:
		return s.rotatePiece(tetris.RotateCW)
	case ActionRotateCCW:
		return s.rotatePiece(tetris.RotateCCW)
	case ActionSoftDrop:
		return s.softDrop()
	case ActionHardDrop:
		return s.hardDrop()
	case ActionHold:
		return s.holdPiece()
	case ActionStartOrReset:
		s.startGame()
		return true
	default:
		return false
	}
}

// movePiece はピースを指定オフセットへ平行移動します。
func (s *PlayerGameState) movePiece(o tetris.Offset) bool {
	p := *s.CurrentPiece
	if !s.Board.CanTranslate(p, o) {
		return false
	}
	s.markPiece(p)
	moved := p.Translated(o)
	*s.CurrentPiece = moved
	s.markPiece(moved)
	s.reactions.Moved = true
	s.nudgeGravity()
	return true
}

// rotatePiece はキック補正付きでピースを回転します。
func (s *PlayerGameState) rotatePiece(r tetris.Rotation) bool {
	p := *s.CurrentPiece
	rotated, ok := s.Board.RotationKick(p, r)
	if !ok {
		return false
	}
	s.markPiece(p)
	*s.CurrentPiece = rotated
	s.markPiece(rotated)
	s.reactions.Moved = true
	s.nudgeGravity()
	return true
}

// nudgeGravity は着地寸前の操作に 1 ティックの猶予を与えます。
// 重力タイマーが尽きた状態で移動や回転が成立した場合のみ適用されます。
func (s *PlayerGameState) nudgeGravity() {
	if s.gravityTimer == 0 {
		s.gravityTimer = 1
	}
}

// softDrop はピースを 1 行落下させ、落下分のスコアを加算します。
func (s *PlayerGameState) softDrop() bool {
	p := *s.CurrentPiece
	if !s.Board.CanTranslate(p, down) {
		return false
	}
	s.markPiece(p)
	dropped := p.Translated(down)
	*s.CurrentPiece = dropped
	s.markPiece(dropped)
	s.Score += s.Level
	s.gravityTimer = gravityDelay(s.Level)
	s.reactions.Moved = true
	return true
}

// hardDrop はピースを着地位置まで一気に落として即座に固定します。
func (s *PlayerGameState) hardDrop() bool {
	p := *s.CurrentPiece
	dist := s.Board.DropDistance(p)
	s.Score += 2 * s.Level * dist
	s.markPiece(p)
	dropped := p.Translated(tetris.Offset{Row: dist})
	*s.CurrentPiece = dropped
	s.lockDown()
	return true
}

// holdPiece は操作中のピースをホールドと入れ替えます。
// ホールドはピース 1 つにつき 1 回だけ使え、権利は次の固定で回復します。
func (s *PlayerGameState) holdPiece() bool {
	if s.holdUsed {
		s.reactions.HoldFailed = true
		return false
	}
	current := s.CurrentPiece.Tetromino
	s.markPiece(*s.CurrentPiece)

	var next tetris.Tetromino
	if s.heldPiece != nil {
		next = *s.heldPiece
	} else {
		next = s.sequencer.Next()
	}
	held := current
	s.heldPiece = &held
	s.holdUsed = true
	s.reactions.Held = true
	s.spawnPiece(next)
	return true
}

// applyGravity は重力タイマーを進め、尽きていればピースを 1 行落とします。
// 落下できない場合はその場で固定します。
func (s *PlayerGameState) applyGravity() {
	if s.gravityTimer > 0 {
		s.gravityTimer--
		return
	}
	p := *s.CurrentPiece
	if s.Board.CanTranslate(p, down) {
		s.markPiece(p)
		dropped := p.Translated(down)
		*s.CurrentPiece = dropped
		s.markPiece(dropped)
		s.gravityTimer = gravityDelay(s.Level)
		return
	}
	s.lockDown()
}

// lockDown は操作中のピースを盤面に固定し、ライン消去の判定を行います。
// 消去対象があれば演出フェーズに移り、なければ 1 ティックの間を
// 置いてから次のピースが出現します。
func (s *PlayerGameState) lockDown() {
	p := *s.CurrentPiece
	s.Board.Lock(p)
	s.markPiece(p)
	s.CurrentPiece = nil
	s.holdUsed = false
	s.reactions.LockedDown = true

	rows := s.fullRows()
	if len(rows) > 0 {
		s.explodingRows = rows
		s.explosionTimer = ExplosionDelayTicks
		s.Phase = PhaseExploding
		for _, row := range rows {
			for col := 0; col < tetris.BoardCols; col++ {
				s.markCell(tetris.Index{Row: row, Col: col})
			}
		}
		return
	}
	s.lockPause = true
}

// fullRows は全て埋まった行を上から順に並べて返します。
// 走査は下から行い、一度に消えるのは最大 MaxClearRows 行です。
func (s *PlayerGameState) fullRows() []int {
	var rows []int
	for row := tetris.BoardRows - 1; row >= 0 && len(rows) < MaxClearRows; row-- {
		if s.Board.IsRowFilled(row) {
			rows = append(rows, row)
		}
	}
	// 上の行から順に詰めれば、残りの行番号が途中でずれない
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}

// advanceExplosion は消去演出のカウントダウンを進め、完了時に行を詰めて
// スコアを加算し、次のピースを出現させます。
func (s *PlayerGameState) advanceExplosion() {
	s.explosionTimer--
	if s.explosionTimer > 0 {
		// 演出中は消去対象の行を毎ティック再描画させる
		for _, row := range s.explodingRows {
			for col := 0; col < tetris.BoardCols; col++ {
				s.markCell(tetris.Index{Row: row, Col: col})
			}
		}
		return
	}

	for _, row := range s.explodingRows {
		s.Board.CollapseRow(row)
	}
	lowest := s.explodingRows[len(s.explodingRows)-1]
	for row := 0; row <= lowest; row++ {
		for col := 0; col < tetris.BoardCols; col++ {
			s.markCell(tetris.Index{Row: row, Col: col})
		}
	}

	s.applyClearScore(len(s.explodingRows))
	s.explodingRows = nil
	s.Phase = PhasePlaying
	s.spawnPiece(s.sequencer.Next())
}

// applyClearScore は消去ライン数に応じたスコアとレベルを更新します。
// 4 ライン消しが連続した場合はバック・トゥ・バックの 1.5 倍が乗ります。
func (s *PlayerGameState) applyClearScore(n int) {
	base := s.Level * clearScores[n-1]
	if n == MaxClearRows {
		if s.backToBack {
			base = int(float64(base) * 1.5)
		}
		s.reactions.ScoredTetris = true
	}
	s.backToBack = n == MaxClearRows
	s.Score += base
	s.LinesCleared += n
	s.Level = s.LinesCleared/LinesPerLevel + 1
}

// spawnPiece は次のピースを出現位置に置き、重力タイマーを初期化します。
// 出現位置かその 1 行下が既に塞がっている場合はゲームオーバーです。
func (s *PlayerGameState) spawnPiece(t tetris.Tetromino) {
	p := tetris.NewPiece(t)
	s.CurrentPiece = &p
	s.gravityTimer = gravityDelay(s.Level)
	s.markPiece(p)

	if !s.Board.CanPlace(p) || !s.Board.CanPlace(p.Translated(down)) {
		s.Phase = PhaseGameOver
		s.reactions.GameOver = true
	}
}
