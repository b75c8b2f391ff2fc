package tetris

import "testing"

// TestDirectionRotated は向きの回転遷移をテストします。
func TestDirectionRotated(t *testing.T) {
	// 時計回りで U -> R -> D -> L -> U と一巡することを確認
	d := DirUp
	order := []Direction{DirRight, DirDown, DirLeft, DirUp}
	for i, want := range order {
		d = d.Rotated(RotateCW)
		if d != want {
			t.Errorf("CW step %d: expected %v, but got %v", i+1, want, d)
		}
	}

	// 反時計回りで U -> L -> D -> R -> U と一巡することを確認
	d = DirUp
	order = []Direction{DirLeft, DirDown, DirRight, DirUp}
	for i, want := range order {
		d = d.Rotated(RotateCCW)
		if d != want {
			t.Errorf("CCW step %d: expected %v, but got %v", i+1, want, d)
		}
	}
}

// TestDirectionRotatedRoundTrip は時計回りと反時計回りが互いに逆操作であることをテストします。
func TestDirectionRotatedRoundTrip(t *testing.T) {
	for d := DirUp; d < NumDirections; d++ {
		if got := d.Rotated(RotateCW).Rotated(RotateCCW); got != d {
			t.Errorf("Expected CW then CCW to restore %v, but got %v", d, got)
		}
		if got := d.Rotated(RotateCCW).Rotated(RotateCW); got != d {
			t.Errorf("Expected CCW then CW to restore %v, but got %v", d, got)
		}
	}
}

// TestOffsetRotated はオフセットの 90 度回転をテストします。
func TestOffsetRotated(t *testing.T) {
	o := Offset{Row: -1, Col: 2}

	cw := o.RotatedCW()
	if cw != (Offset{Row: 2, Col: 1}) {
		t.Errorf("Expected CW rotation to be {2 1}, but got %v", cw)
	}

	ccw := o.RotatedCCW()
	if ccw != (Offset{Row: -2, Col: -1}) {
		t.Errorf("Expected CCW rotation to be {-2 -1}, but got %v", ccw)
	}

	// 4 回転すると元に戻ることを確認
	r := o
	for i := 0; i < 4; i++ {
		r = r.RotatedCW()
	}
	if r != o {
		t.Errorf("Expected four CW rotations to restore %v, but got %v", o, r)
	}
}

// TestOffsetOriented は向きに応じたオフセットの変換をテストします。
func TestOffsetOriented(t *testing.T) {
	o := Offset{Row: -1, Col: 0}

	cases := []struct {
		dir  Direction
		want Offset
	}{
		{DirUp, Offset{Row: -1, Col: 0}},
		{DirRight, Offset{Row: 0, Col: 1}},
		{DirDown, Offset{Row: 1, Col: 0}},
		{DirLeft, Offset{Row: 0, Col: -1}},
	}
	for _, c := range cases {
		if got := o.Oriented(c.dir); got != c.want {
			t.Errorf("Oriented(%v): expected %v, but got %v", c.dir, c.want, got)
		}
	}
}
