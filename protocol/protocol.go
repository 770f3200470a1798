// Package protocol defines the wire types shared with the game server by
// contract. It must have zero dependencies on ebiten or any graphics library
// so headless tools (bots, load harnesses) stay headless. Field layouts are
// frozen: the server serializes these rows byte-for-byte.
package protocol

// EntityID identifies a world entity (tree, stone, structure, animal).
type EntityID uint64

// PlayerID identifies a connected player account.
type PlayerID uint64

// FacingDirection is the four-way sprite facing derived from movement.
type FacingDirection uint8

const (
	FacingDown FacingDirection = iota
	FacingUp
	FacingLeft
	FacingRight
)

// String returns the lowercase wire name of the direction.
func (f FacingDirection) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	default:
		return "down"
	}
}

// EffectType identifies a timed status effect on a player.
type EffectType uint8

const (
	EffectNone EffectType = iota
	EffectExhausted
	EffectBleeding
	EffectWarmth
	EffectRegeneration
)

// String returns the lowercase wire name of the effect.
func (e EffectType) String() string {
	switch e {
	case EffectExhausted:
		return "exhausted"
	case EffectBleeding:
		return "bleeding"
	case EffectWarmth:
		return "warmth"
	case EffectRegeneration:
		return "regeneration"
	default:
		return "none"
	}
}
