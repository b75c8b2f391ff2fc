package tetris

import "testing"

// TestBoardZeroValue はゼロ値の盤面が全マス空であることをテストします。
func TestBoardZeroValue(t *testing.T) {
	var b Board
	for row := 0; row < BoardRows; row++ {
		if b.CountFilled(row) != 0 {
			t.Fatalf("Expected row %d of a zero board to be empty", row)
		}
	}
}

// TestCellRoundTrip はセル値とテトリミノの相互変換をテストします。
func TestCellRoundTrip(t *testing.T) {
	for _, tet := range AllTetrominoes() {
		cell := CellOf(tet)
		if cell == CellEmpty {
			t.Fatalf("Expected cell of %v to differ from the empty cell", tet)
		}
		got, ok := cell.Tetromino()
		if !ok || got != tet {
			t.Errorf("Expected cell of %v to round-trip, but got %v (ok=%v)", tet, got, ok)
		}
	}

	if _, ok := CellEmpty.Tetromino(); ok {
		t.Error("Expected the empty cell not to yield a tetromino.")
	}
}

// TestBoardBoundsAndEmpty は範囲判定と空マス判定をテストします。
func TestBoardBoundsAndEmpty(t *testing.T) {
	var b Board
	inside := Index{Row: BoardRows - 1, Col: 0}
	if !b.IsInBoundsAndEmpty(inside) {
		t.Errorf("Expected %v to be in bounds and empty", inside)
	}

	outside := []Index{
		{Row: -1, Col: 0},
		{Row: BoardRows, Col: 0},
		{Row: 0, Col: -1},
		{Row: 0, Col: BoardCols},
	}
	for _, idx := range outside {
		if b.IsInBoundsAndEmpty(idx) {
			t.Errorf("Expected %v to be out of bounds", idx)
		}
	}

	b.SetCell(inside, TetI)
	if b.IsInBoundsAndEmpty(inside) {
		t.Errorf("Expected %v to be occupied after SetCell", inside)
	}
	if got := b.At(inside); got != CellOf(TetI) {
		t.Errorf("Expected cell at %v to be %v, but got %v", inside, CellOf(TetI), got)
	}
}

// TestIsRowFilled は行の充填判定をテストします。
func TestIsRowFilled(t *testing.T) {
	var b Board
	row := BoardRows - 1
	for col := 0; col < BoardCols-1; col++ {
		b.SetCell(Index{Row: row, Col: col}, TetT)
	}
	if b.IsRowFilled(row) {
		t.Error("Expected a row with one hole not to be filled.")
	}
	if got := b.CountFilled(row); got != BoardCols-1 {
		t.Errorf("Expected %d filled cells, but got %d", BoardCols-1, got)
	}

	b.SetCell(Index{Row: row, Col: BoardCols - 1}, TetT)
	if !b.IsRowFilled(row) {
		t.Error("Expected a fully set row to be filled.")
	}
}

// TestCollapseRow は行の消去と上部の詰めをテストします。
func TestCollapseRow(t *testing.T) {
	var b Board
	bottom := BoardRows - 1

	// 最下行を埋め、その 1 つ上に目印のブロックを置く
	for col := 0; col < BoardCols; col++ {
		b.SetCell(Index{Row: bottom, Col: col}, TetI)
	}
	marker := Index{Row: bottom - 1, Col: 3}
	b.SetCell(marker, TetZ)

	b.CollapseRow(bottom)

	// 目印のブロックが 1 行落ちていることを確認
	if got := b.At(Index{Row: bottom, Col: 3}); got != CellOf(TetZ) {
		t.Errorf("Expected marker to fall to the bottom row, but got cell %v", got)
	}
	if b.CountFilled(bottom) != 1 {
		t.Errorf("Expected only the marker on the bottom row, but got %d cells", b.CountFilled(bottom))
	}
	if b.CountFilled(0) != 0 {
		t.Error("Expected the top row to be empty after a collapse.")
	}
}

// TestBoardReset は盤面の全消去をテストします。
func TestBoardReset(t *testing.T) {
	var b Board
	b.SetCell(Index{Row: 5, Col: 5}, TetL)
	b.Reset()
	if b.CountFilled(5) != 0 {
		t.Error("Expected the board to be empty after Reset.")
	}
}
