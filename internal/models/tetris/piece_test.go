package tetris

import "testing"

// TestNewPiece は新規ピースの初期状態をテストします。
func TestNewPiece(t *testing.T) {
	p := NewPiece(TetT)
	if p.Pos != SpawnIndex {
		t.Errorf("Expected spawn position %v, but got %v", SpawnIndex, p.Pos)
	}
	if p.Facing != DirUp {
		t.Errorf("Expected spawn facing %v, but got %v", DirUp, p.Facing)
	}
}

// TestPieceCells はピースの占有セル計算をテストします。
func TestPieceCells(t *testing.T) {
	p := Piece{Tetromino: TetO, Pos: Index{Row: 10, Col: 4}, Facing: DirUp}
	want := map[Index]bool{
		{Row: 10, Col: 4}: true,
		{Row: 9, Col: 4}:  true,
		{Row: 9, Col: 5}:  true,
		{Row: 10, Col: 5}: true,
	}
	for _, idx := range p.Cells() {
		if !want[idx] {
			t.Errorf("Unexpected occupied cell %v", idx)
		}
		delete(want, idx)
	}
	if len(want) != 0 {
		t.Errorf("Expected cells %v to be occupied, but they were not", want)
	}
}

// TestCanPlace は配置可否の判定をテストします。
func TestCanPlace(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetI, Pos: Index{Row: 20, Col: 4}, Facing: DirUp}
	if !b.CanPlace(p) {
		t.Error("Expected an I piece on an empty board to be placeable.")
	}

	// 左端を中心にすると横向き I は盤面外にはみ出す
	p.Pos.Col = 0
	if b.CanPlace(p) {
		t.Error("Expected an I piece overhanging the left wall not to be placeable.")
	}

	// 占有セルと重なる場合も配置できない
	p.Pos.Col = 4
	b.SetCell(Index{Row: 20, Col: 5}, TetJ)
	if b.CanPlace(p) {
		t.Error("Expected a piece overlapping a locked cell not to be placeable.")
	}
}

// TestCanTranslate は平行移動の可否判定をテストします。
func TestCanTranslate(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetO, Pos: Index{Row: BoardRows - 1, Col: 4}, Facing: DirUp}

	if !b.CanTranslate(p, Offset{Col: -1}) {
		t.Error("Expected the piece to be able to move left.")
	}
	if b.CanTranslate(p, Offset{Row: 1}) {
		t.Error("Expected the piece on the floor not to move down.")
	}
	// 移動判定は元のピースを変更しない
	if p.Pos != (Index{Row: BoardRows - 1, Col: 4}) {
		t.Errorf("Expected CanTranslate not to mutate the piece, but position is %v", p.Pos)
	}
}

// TestRotationKickNoObstruction は障害物のない回転が無補正で成立することをテストします。
func TestRotationKickNoObstruction(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetT, Pos: Index{Row: 20, Col: 4}, Facing: DirUp}

	rotated, ok := b.RotationKick(p, RotateCW)
	if !ok {
		t.Fatal("Expected rotation on an open board to succeed.")
	}
	if rotated.Facing != DirRight {
		t.Errorf("Expected facing %v, but got %v", DirRight, rotated.Facing)
	}
	if rotated.Pos != p.Pos {
		t.Errorf("Expected the first kick to leave the position at %v, but got %v", p.Pos, rotated.Pos)
	}
}

// TestRotationKickWall は壁際の回転がキック補正されることをテストします。
func TestRotationKickWall(t *testing.T) {
	var b Board
	// 左端の縦向き I を回転させると無補正では壁を突き抜けるため、
	// キック候補のいずれかで盤面内に収まる
	p := Piece{Tetromino: TetI, Pos: Index{Row: 20, Col: 0}, Facing: DirRight}

	rotated, ok := b.RotationKick(p, RotateCW)
	if !ok {
		t.Fatal("Expected a wall kick to succeed for a vertical I at the wall.")
	}
	if rotated.Facing != DirDown {
		t.Errorf("Expected facing %v, but got %v", DirDown, rotated.Facing)
	}
	if !b.CanPlace(rotated) {
		t.Error("Expected the kicked piece to rest on a legal position.")
	}
	if rotated.Pos == p.Pos {
		t.Error("Expected the kick to shift the piece away from the wall.")
	}
}

// TestRotationKickBlocked は全候補が塞がれた回転が失敗することをテストします。
func TestRotationKickBlocked(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetT, Pos: Index{Row: 20, Col: 4}, Facing: DirUp}

	// ピースの現在の占有セル以外を全て埋めて回転先を塞ぐ
	occupied := make(map[Index]bool)
	for _, idx := range p.Cells() {
		occupied[idx] = true
	}
	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			idx := Index{Row: row, Col: col}
			if !occupied[idx] {
				b.SetCell(idx, TetJ)
			}
		}
	}

	rotated, ok := b.RotationKick(p, RotateCW)
	if ok {
		t.Error("Expected rotation to fail when every kick target is blocked.")
	}
	if rotated != p {
		t.Errorf("Expected the piece to be unchanged after a failed rotation, but got %+v", rotated)
	}
}

// TestRotationKickO は O ミノの回転が常に成立し状態を変えないことをテストします。
func TestRotationKickO(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetO, Pos: Index{Row: 20, Col: 4}, Facing: DirUp}

	rotated, ok := b.RotationKick(p, RotateCW)
	if !ok {
		t.Error("Expected O piece rotation to always succeed.")
	}
	if rotated != p {
		t.Errorf("Expected O piece rotation to be a no-op, but got %+v", rotated)
	}
}

// TestDropDistance は着地までの落下距離の計算をテストします。
func TestDropDistance(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetO, Pos: Index{Row: 10, Col: 4}, Facing: DirUp}

	// O ミノの最下セルは中心行なので、床まで BoardRows-1-10 行落下できる
	if got, want := b.DropDistance(p), BoardRows-1-10; got != want {
		t.Errorf("Expected drop distance %d, but got %d", want, got)
	}

	// 落下先に障害物を置くと距離が縮む
	b.SetCell(Index{Row: 30, Col: 4}, TetL)
	if got, want := b.DropDistance(p), 30-1-10; got != want {
		t.Errorf("Expected drop distance %d with an obstacle, but got %d", want, got)
	}

	// 床に接しているピースの距離は 0
	p.Pos.Row = BoardRows - 1
	b.Reset()
	if got := b.DropDistance(p); got != 0 {
		t.Errorf("Expected drop distance 0 on the floor, but got %d", got)
	}
}

// TestLock はピースの盤面への固定をテストします。
func TestLock(t *testing.T) {
	var b Board
	p := Piece{Tetromino: TetS, Pos: Index{Row: BoardRows - 1, Col: 4}, Facing: DirUp}

	b.Lock(p)
	for _, idx := range p.Cells() {
		if got := b.At(idx); got != CellOf(TetS) {
			t.Errorf("Expected cell %v to hold %v, but got %v", idx, CellOf(TetS), got)
		}
	}
}
