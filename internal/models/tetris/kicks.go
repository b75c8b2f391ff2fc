package tetris

// Super Rotation System (SRS) のウォールキックテーブルです。
// 回転がそのままでは衝突する場合、ここに定義された5つの候補オフセットを
// テーブル順（インデックス 0..4）に試し、最初に成功したものを採用します。
// この順序はスコアや操作感の正しさに直結するため、標準SRSのキックデータと
// 厳密に一致させる必要があります。
//
// 値は標準SRSの (x, y) 表記を、行が下方向に増える本実装の (dRow, dCol) 表記へ
// 変換したものです（dCol = x, dRow = -y）。I-ミノは専用テーブルを使い、
// O-ミノはキック不要（その場回転が常に成功）です。

// NumKickTests は1回の回転で試すキックオフセットの数です。
const NumKickTests = 5

// kickKey はキックテーブルの検索キー（回転前の向き × 回転方向）です。
type kickKey struct {
	from Direction
	rot  Rotation
}

// kicksJLSTZ は I-ミノと O-ミノ以外の5種が使う標準キックテーブルです。
var kicksJLSTZ = map[kickKey][NumKickTests]Offset{
	{DirUp, RotateCW}:    {{0, 0}, {0, -1}, {-1, -1}, {2, 0}, {2, -1}},   // 0->R
	{DirRight, RotateCW}: {{0, 0}, {0, 1}, {1, 1}, {-2, 0}, {-2, 1}},     // R->2
	{DirDown, RotateCW}:  {{0, 0}, {0, 1}, {-1, 1}, {2, 0}, {2, 1}},      // 2->L
	{DirLeft, RotateCW}:  {{0, 0}, {0, -1}, {1, -1}, {-2, 0}, {-2, -1}},  // L->0
	{DirUp, RotateCCW}:   {{0, 0}, {0, 1}, {-1, 1}, {2, 0}, {2, 1}},      // 0->L
	{DirRight, RotateCCW}: {{0, 0}, {0, 1}, {1, 1}, {-2, 0}, {-2, 1}},    // R->0
	{DirDown, RotateCCW}: {{0, 0}, {0, -1}, {-1, -1}, {2, 0}, {2, -1}},   // 2->R
	{DirLeft, RotateCCW}: {{0, 0}, {0, -1}, {1, -1}, {-2, 0}, {-2, -1}},  // L->2
}

// kicksI は I-ミノ専用のキックテーブルです。
var kicksI = map[kickKey][NumKickTests]Offset{
	{DirUp, RotateCW}:    {{0, 0}, {0, -2}, {0, 1}, {1, -2}, {-2, 1}},    // 0->R
	{DirRight, RotateCW}: {{0, 0}, {0, -1}, {0, 2}, {-2, -1}, {1, 2}},    // R->2
	{DirDown, RotateCW}:  {{0, 0}, {0, 2}, {0, -1}, {-1, 2}, {2, -1}},    // 2->L
	{DirLeft, RotateCW}:  {{0, 0}, {0, 1}, {0, -2}, {2, 1}, {-1, -2}},    // L->0
	{DirUp, RotateCCW}:   {{0, 0}, {0, -1}, {0, 2}, {-2, -1}, {1, 2}},    // 0->L
	{DirRight, RotateCCW}: {{0, 0}, {0, 2}, {0, -1}, {-1, 2}, {2, -1}},   // R->0
	{DirDown, RotateCCW}: {{0, 0}, {0, 1}, {0, -2}, {2, 1}, {-1, -2}},    // 2->R
	{DirLeft, RotateCCW}: {{0, 0}, {0, -2}, {0, 1}, {1, -2}, {-2, 1}},    // L->2
}

// KickTests は指定されたテトロミノが向き from から回転方向 r へ回転するときに
// 試すキックオフセットの列を順序通りに返します。
// O-ミノで呼び出してはいけません（キック検索自体が不要なため）。
func KickTests(t Tetromino, from Direction, r Rotation) [NumKickTests]Offset {
	if t == TetI {
		return kicksI[kickKey{from, r}]
	}
	return kicksJLSTZ[kickKey{from, r}]
}
