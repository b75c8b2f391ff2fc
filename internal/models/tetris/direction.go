package tetris

// Direction はテトリミノの向き（回転状態）を表します。
// スポーン時の向きが DirUp で、時計回りに DirRight → DirDown → DirLeft と続きます。
type Direction int

const (
	DirUp    Direction = iota // 0: スポーン時の向き
	DirRight                  // 1: 時計回りに90度
	DirDown                   // 2: 180度
	DirLeft                   // 3: 反時計回りに90度
)

// NumDirections は向きの総数です。
const NumDirections = 4

// Rotation は90度回転の方向（時計回り/反時計回り）を表します。
type Rotation int

const (
	RotateCW  Rotation = iota // 時計回り
	RotateCCW                 // 反時計回り
)

// Rotated は指定された回転方向に90度回転したあとの向きを返します。
// 時計回りは +1、反時計回りは +3 (mod 4) で求まります。
func (d Direction) Rotated(r Rotation) Direction {
	if r == RotateCW {
		return (d + 1) % NumDirections
	}
	return (d + 3) % NumDirections
}

// String は向きの文字列表現（"U", "R", "D", "L"）を返します。
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "U"
	case DirRight:
		return "R"
	case DirDown:
		return "D"
	case DirLeft:
		return "L"
	default:
		return "U"
	}
}

// Offset はテトリミノの中心からの相対座標 (行, 列) を表します。
// 行は下方向、列は右方向が正です。
type Offset struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// RotatedCW はこのオフセットを時計回りに90度回転した結果を返します。
// 回転公式: (r, c) → (c, -r)
func (o Offset) RotatedCW() Offset {
	return Offset{Row: o.Col, Col: -o.Row}
}

// RotatedCCW はこのオフセットを反時計回りに90度回転した結果を返します。
// 回転公式: (r, c) → (-c, r)
func (o Offset) RotatedCCW() Offset {
	return Offset{Row: -o.Col, Col: o.Row}
}

// Oriented は DirUp 基準で定義されたオフセットを、指定された向きまで回転した結果を返します。
// DirDown は時計回り2回、DirLeft は反時計回り1回の合成です。
func (o Offset) Oriented(d Direction) Offset {
	switch d {
	case DirRight:
		return o.RotatedCW()
	case DirDown:
		return o.RotatedCW().RotatedCW()
	case DirLeft:
		return o.RotatedCCW()
	default:
		return o
	}
}

// Index はボード上の (行, 列) 座標を表します。
type Index struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Offsetted はこの座標にオフセットを加えた座標を返します。
func (i Index) Offsetted(o Offset) Index {
	return Index{Row: i.Row + o.Row, Col: i.Col + o.Col}
}
