package game

import "github.com/gdamore/tcell/v2"

// Action represents a player-requested cabinet action.
type Action uint8

const (
	ActionNone Action = iota
	ActionInsertCoin
	ActionMoveLeft
	ActionMoveRight
	ActionGrab
	ActionCollection
	ActionQuit
)

// keyToAction maps a tcell key event to a cabinet action.
func keyToAction(ev *tcell.EventKey) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyLeft:
		return ActionMoveLeft
	case tcell.KeyRight:
		return ActionMoveRight
	case tcell.KeyEnter:
		return ActionInsertCoin
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	}

	// Rune keys.
	switch ev.Rune() {
	case 'h', 'H', 'a', 'A':
		return ActionMoveLeft
	case 'l', 'L', 'd', 'D':
		return ActionMoveRight
	case ' ':
		return ActionGrab
	case 'c', 'C':
		return ActionInsertCoin
	case 'i', 'I':
		return ActionCollection
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// actionToDirection converts a move action to a claw direction.
func actionToDirection(a Action) (Direction, bool) {
	switch a {
	case ActionMoveLeft:
		return Left, true
	case ActionMoveRight:
		return Right, true
	}
	return 0, false
}
