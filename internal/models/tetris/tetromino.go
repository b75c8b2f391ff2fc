package tetris

// Tetromino はテトリミノの種類を表します。
type Tetromino int

const (
	TetI Tetromino = iota // 0: I-ミノ
	TetJ                  // 1: J-ミノ
	TetL                  // 2: L-ミノ
	TetO                  // 3: O-ミノ
	TetS                  // 4: S-ミノ
	TetT                  // 5: T-ミノ
	TetZ                  // 6: Z-ミノ
)

// NumTetrominoes はテトリミノの種類数です。
const NumTetrominoes = 7

// tetrominoOffsets は各テトリミノの DirUp 向きにおける、中心からの相対座標4つを定義します。
// 行は下方向が正なので、-1 の行は中心の1つ上を指します。
// O-ミノだけは真の 2x2 ブロックで、回転しても中心がずれません。
var tetrominoOffsets = [NumTetrominoes][4]Offset{
	TetI: {{0, -1}, {0, 0}, {0, 1}, {0, 2}},
	TetJ: {{-1, -1}, {0, -1}, {0, 0}, {0, 1}},
	TetL: {{0, -1}, {0, 0}, {0, 1}, {-1, 1}},
	TetO: {{0, 0}, {-1, 0}, {-1, 1}, {0, 1}},
	TetS: {{0, -1}, {0, 0}, {-1, 0}, {-1, 1}},
	TetT: {{0, -1}, {0, 0}, {0, 1}, {-1, 0}},
	TetZ: {{-1, -1}, {-1, 0}, {0, 0}, {0, 1}},
}

// AllTetrominoes は全テトロミノを列挙順で返します。バッグ生成などに使います。
func AllTetrominoes() [NumTetrominoes]Tetromino {
	return [NumTetrominoes]Tetromino{TetI, TetJ, TetL, TetO, TetS, TetT, TetZ}
}

// Offsets は DirUp 向きでの中心からの相対座標4つを返します。
func (t Tetromino) Offsets() [4]Offset {
	return tetrominoOffsets[t]
}

// OrientedOffsets は指定された向きに回転した状態での相対座標4つを返します。
// O-ミノは回転しない（常に DirUp の形状を使う）点に注意してください。
func (t Tetromino) OrientedOffsets(d Direction) [4]Offset {
	offsets := tetrominoOffsets[t]
	if t == TetO || d == DirUp {
		return offsets
	}
	for i, o := range offsets {
		offsets[i] = o.Oriented(d)
	}
	return offsets
}

// String はテトロミノの文字列表現（"I", "J" など）を返します。
func (t Tetromino) String() string {
	switch t {
	case TetI:
		return "I"
	case TetJ:
		return "J"
	case TetL:
		return "L"
	case TetO:
		return "O"
	case TetS:
		return "S"
	case TetT:
		return "T"
	case TetZ:
		return "Z"
	default:
		return "I"
	}
}

// ParseTetromino は文字列のテトロミノ表現（"I", "O" など）を Tetromino に変換します。
func ParseTetromino(s string) (Tetromino, bool) {
	switch s {
	case "I":
		return TetI, true
	case "J":
		return TetJ, true
	case "L":
		return TetL, true
	case "O":
		return TetO, true
	case "S":
		return TetS, true
	case "T":
		return TetT, true
	case "Z":
		return TetZ, true
	default:
		return TetI, false
	}
}
