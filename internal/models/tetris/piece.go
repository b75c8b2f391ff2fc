package tetris

// SpawnIndex は新規ピースの中心セルの出現位置。バッファ領域の最下行の中央。
var SpawnIndex = Index{Row: BufferRows - 1, Col: 4}

// Piece は盤面上で操作中のテトリミノを表す。
// 中心セルの位置と向きだけを持ち、占有セルは都度計算する。
type Piece struct {
	Tetromino Tetromino
	Pos       Index
	Facing    Direction
}

// NewPiece は指定したテトリミノを出現位置と上向きで生成する。
func NewPiece(t Tetromino) Piece {
	return Piece{Tetromino: t, Pos: SpawnIndex, Facing: DirUp}
}

// Cells はピースが占有する 4 マスの盤面座標を返す。
//
// Returns:
//   - [4]Index: 占有セルの座標(盤面外を含み得る)
func (p Piece) Cells() [4]Index {
	offsets := p.Tetromino.OrientedOffsets(p.Facing)
	var cells [4]Index
	for i, o := range offsets {
		cells[i] = p.Pos.Offsetted(o)
	}
	return cells
}

// Translated は中心位置を指定したオフセットだけ動かしたピースを返す。
func (p Piece) Translated(o Offset) Piece {
	p.Pos = p.Pos.Offsetted(o)
	return p
}

// RotatedBare はキック補正なしで向きだけを回したピースを返す。
// 盤面に対する合法性は考慮しない。
func (p Piece) RotatedBare(r Rotation) Piece {
	p.Facing = p.Facing.Rotated(r)
	return p
}

// CanPlace はピースの占有セルが全て盤面の範囲内かつ空マスかどうかを返す。
//
// Parameters:
//   - p: 判定対象のピース
//
// Returns:
//   - bool: 配置可能なら true
func (b *Board) CanPlace(p Piece) bool {
	for _, idx := range p.Cells() {
		if !b.IsInBoundsAndEmpty(idx) {
			return false
		}
	}
	return true
}

// CanTranslate はピースを指定オフセットだけ平行移動できるかどうかを返す。
func (b *Board) CanTranslate(p Piece, o Offset) bool {
	return b.CanPlace(p.Translated(o))
}

// RotationKick は SRS のキックテーブルに従って回転後の合法な配置を探す。
// テーブルの先頭から順に試し、最初に成立した候補を採用する。
//
// Parameters:
//   - p: 回転前のピース
//   - r: 回転方向
//
// Returns:
//   - Piece: 採用された回転後のピース(失敗時は回転前のまま)
//   - bool: いずれかのキックが成立した場合は true
func (b *Board) RotationKick(p Piece, r Rotation) (Piece, bool) {
	if p.Tetromino == TetO {
		// O ピースは回転しても形が変わらないためキックしない。
		return p, true
	}
	rotated := p.RotatedBare(r)
	for _, kick := range KickTests(p.Tetromino, p.Facing, r) {
		candidate := rotated.Translated(kick)
		if b.CanPlace(candidate) {
			return candidate, true
		}
	}
	return p, false
}

// DropDistance はピースが着地するまでに落下できる行数を返す。
// 既に着地している場合は 0 を返す。
func (b *Board) DropDistance(p Piece) int {
	dist := 0
	for b.CanPlace(p.Translated(Offset{Row: dist + 1})) {
		dist++
	}
	return dist
}

// Lock はピースの占有セルを盤面に固定する。配置可能な状態で呼ぶこと。
func (b *Board) Lock(p Piece) {
	for _, idx := range p.Cells() {
		b.SetCell(idx, p.Tetromino)
	}
}
