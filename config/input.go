package config

import "github.com/hajimehoshi/ebiten/v2"

// ActionID represents a logical game action
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionSprint
	ActionCrouch
	ActionJump
	ActionDodgeRoll
	ActionAutoWalk
	ActionCount // Must be last - used for array sizing
)

// String returns the action name for logs and binding persistence.
func (a ActionID) String() string {
	switch a {
	case ActionMoveUp:
		return "move_up"
	case ActionMoveDown:
		return "move_down"
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionSprint:
		return "sprint"
	case ActionCrouch:
		return "crouch"
	case ActionJump:
		return "jump"
	case ActionDodgeRoll:
		return "dodge_roll"
	case ActionAutoWalk:
		return "auto_walk"
	default:
		return "none"
	}
}

// InputBinding represents the key bindings for a single action
type InputBinding struct {
	Keys []ebiten.Key
}

// InputConfig holds all input mappings
type InputConfig struct {
	Bindings map[ActionID]InputBinding
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		Bindings: map[ActionID]InputBinding{
			ActionMoveUp: {
				Keys: []ebiten.Key{ebiten.KeyW, ebiten.KeyUp},
			},
			ActionMoveDown: {
				Keys: []ebiten.Key{ebiten.KeyS, ebiten.KeyDown},
			},
			ActionMoveLeft: {
				Keys: []ebiten.Key{ebiten.KeyA, ebiten.KeyLeft},
			},
			ActionMoveRight: {
				Keys: []ebiten.Key{ebiten.KeyD, ebiten.KeyRight},
			},
			ActionSprint: {
				Keys: []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShiftRight},
			},
			ActionCrouch: {
				Keys: []ebiten.Key{ebiten.KeyControlLeft, ebiten.KeyC},
			},
			ActionJump: {
				Keys: []ebiten.Key{ebiten.KeySpace},
			},
			ActionDodgeRoll: {
				Keys: []ebiten.Key{ebiten.KeyR},
			},
			ActionAutoWalk: {
				Keys: []ebiten.Key{ebiten.KeyQ},
			},
		},
	}
}
