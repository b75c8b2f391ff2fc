package tetris

// Action はプレイヤーが 1 ティックに要求できる操作の種類です。
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionRotateCW
	ActionRotateCCW
	ActionSoftDrop
	ActionHardDrop
	ActionHold
	ActionStartOrReset
)

// actionPriority は同一ティックに複数の操作が要求された場合の解決順です。
// 先頭に近いものほど優先され、実行できたものだけが消費されます。
var actionPriority = []Action{
	ActionMoveLeft,
	ActionMoveRight,
	ActionRotateCW,
	ActionRotateCCW,
	ActionSoftDrop,
	ActionHardDrop,
	ActionHold,
	ActionStartOrReset,
}

// String は操作名を WebSocket メッセージで使う文字列表現で返します。
func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionRotateCW:
		return "rotate_cw"
	case ActionRotateCCW:
		return "rotate_ccw"
	case ActionSoftDrop:
		return "soft_drop"
	case ActionHardDrop:
		return "hard_drop"
	case ActionHold:
		return "hold"
	case ActionStartOrReset:
		return "start"
	default:
		return "none"
	}
}

// ParseAction はクライアントから受信した操作文字列を Action に変換します。
//
// Parameters:
//   - s: 操作を表す文字列 ("move_left", "hard_drop" など)
//
// Returns:
//   - Action: 対応する操作
//   - bool: 未知の文字列の場合は false
func ParseAction(s string) (Action, bool) {
	switch s {
	case "move_left":
		return ActionMoveLeft, true
	case "move_right":
		return ActionMoveRight, true
	case "rotate_cw", "rotate":
		return ActionRotateCW, true
	case "rotate_ccw":
		return ActionRotateCCW, true
	case "soft_drop":
		return ActionSoftDrop, true
	case "hard_drop":
		return ActionHardDrop, true
	case "hold":
		return ActionHold, true
	case "start", "new_game":
		return ActionStartOrReset, true
	case "none", "":
		return ActionNone, true
	default:
		return ActionNone, false
	}
}

// actionSet は 1 ティック分の保留中操作の集合です。
// 同じ操作が複数回要求されても 1 回分として扱います。
type actionSet uint16

func (s actionSet) has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

func (s *actionSet) add(a Action) {
	*s |= 1 << uint(a)
}

func (s *actionSet) clear() {
	*s = 0
}
