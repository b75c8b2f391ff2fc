package tetris

// BoardCols は盤面の列数。
const BoardCols = 10

// BoardRows は盤面の総行数。上半分はバッファ領域で表示されない。
const BoardRows = 40

// VisibleRows は表示対象となる下半分の行数。
const VisibleRows = 20

// BufferRows は盤面上部の非表示バッファ行数。
const BufferRows = BoardRows - VisibleRows

// Cell は盤面の 1 マスの状態。0 は空、それ以外は固定済みテトリミノを表す。
type Cell int

// CellEmpty は空マスを表す値。
const CellEmpty Cell = 0

// CellOf は指定したテトリミノに対応するセル値を返す。
//
// Parameters:
//   - t: テトリミノの種類
//
// Returns:
//   - Cell: 対応するセル値(空セルとは必ず異なる)
func CellOf(t Tetromino) Cell {
	return Cell(t) + 1
}

// Tetromino はセル値から元のテトリミノを復元する。
//
// Returns:
//   - Tetromino: セルに固定されているテトリミノ
//   - bool: セルが空の場合は false
func (c Cell) Tetromino() (Tetromino, bool) {
	if c == CellEmpty {
		return 0, false
	}
	return Tetromino(c - 1), true
}

// Board はテトリスの盤面。行 0 が最上部、行 BoardRows-1 が床に接する。
// ゼロ値は全マス空の盤面としてそのまま使える。
type Board [BoardRows][BoardCols]Cell

// IsInBounds は指定位置が盤面の範囲内かどうかを返す。
func (b *Board) IsInBounds(idx Index) bool {
	return idx.Row >= 0 && idx.Row < BoardRows && idx.Col >= 0 && idx.Col < BoardCols
}

// IsEmpty は指定位置のマスが空かどうかを返す。範囲外の位置を渡してはならない。
func (b *Board) IsEmpty(idx Index) bool {
	return b[idx.Row][idx.Col] == CellEmpty
}

// IsInBoundsAndEmpty は指定位置が範囲内かつ空マスかどうかを返す。
// ピースの配置可否判定はこの述語を使う。
func (b *Board) IsInBoundsAndEmpty(idx Index) bool {
	return b.IsInBounds(idx) && b.IsEmpty(idx)
}

// At は指定位置のセル値を返す。範囲外の位置を渡してはならない。
func (b *Board) At(idx Index) Cell {
	return b[idx.Row][idx.Col]
}

// SetCell は指定位置にテトリミノを固定する。範囲外の位置を渡してはならない。
func (b *Board) SetCell(idx Index, t Tetromino) {
	b[idx.Row][idx.Col] = CellOf(t)
}

// IsRowFilled は指定行の全マスが埋まっているかどうかを返す。
func (b *Board) IsRowFilled(row int) bool {
	for col := 0; col < BoardCols; col++ {
		if b[row][col] == CellEmpty {
			return false
		}
	}
	return true
}

// CountFilled は指定行の埋まっているマス数を返す。
func (b *Board) CountFilled(row int) int {
	n := 0
	for col := 0; col < BoardCols; col++ {
		if b[row][col] != CellEmpty {
			n++
		}
	}
	return n
}

// CollapseRow は指定行を消去し、それより上の行を 1 行ずつ下へ詰める。
// 最上行は空行になる。
//
// Parameters:
//   - row: 消去する行番号
func (b *Board) CollapseRow(row int) {
	for r := row; r > 0; r-- {
		b[r] = b[r-1]
	}
	b[0] = [BoardCols]Cell{}
}

// Reset は盤面を全マス空の状態に戻す。
func (b *Board) Reset() {
	*b = Board{}
}
