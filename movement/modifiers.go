// Package movement owns the local player's predicted position. Each frame
// it samples input, applies the server-mirrored speed rules, resolves the
// displacement against collision shapes, and updates facing. The server
// never corrects the result; it only acknowledges it.
package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/protocol"
)

// ModifierInputs are the per-frame facts the speed rules read. All
// timestamps are server-clock milliseconds.
type ModifierInputs struct {
	KnockedOut bool
	Crouching  bool
	OnWater    bool
	Sprinting  bool
	Exhausted  bool

	JumpStartedAtMs int64
	DodgeRoll       *protocol.DodgeRoll
	NowMs           int64
}

// SpeedDecision is the resolved multiplier plus its side channels: an
// optional direction override while dodge rolling, and whether sprint
// actually applied (for the effective-sprint flag sent to the server).
type SpeedDecision struct {
	Multiplier        float64
	DirectionOverride *mgl64.Vec2
	SprintApplied     bool
	DodgeRolling      bool
}

// DecideSpeed applies the speed rules in their fixed precedence order.
// The order mirrors the server reducer exactly: knockout excludes sprint
// and dodge entirely, dodge excludes sprint, and the crouch, exhaustion
// and water penalties stack on top of whichever branch won.
func DecideSpeed(in ModifierInputs) SpeedDecision {
	d := SpeedDecision{Multiplier: 1.0}

	switch {
	case in.KnockedOut:
		d.Multiplier *= cfg.Movement.KnockedOutPenalty

	case dodgeRollActive(in):
		d.Multiplier *= cfg.Movement.DodgeRollMultiplier
		d.DodgeRolling = true
		if dir, ok := dodgeRollDirection(in.DodgeRoll); ok {
			d.DirectionOverride = &dir
		}

	case in.Sprinting:
		d.Multiplier *= cfg.Movement.SprintMultiplier
		d.SprintApplied = true
	}

	if in.Crouching {
		d.Multiplier *= cfg.Movement.CrouchSpeedPenalty
	}
	if in.Exhausted {
		d.Multiplier *= cfg.Movement.ExhaustedSpeedPenalty
	}
	if in.OnWater && !jumpWindowActive(in) {
		d.Multiplier *= cfg.Movement.WaterSpeedPenalty
	}

	return d
}

// dodgeRollActive reports whether the roll window is still open. A missing
// row simply means the feature is inactive this frame.
func dodgeRollActive(in ModifierInputs) bool {
	if in.DodgeRoll == nil {
		return false
	}
	elapsed := in.NowMs - in.DodgeRoll.StartedAtMs
	return elapsed < cfg.Movement.DodgeRollDurationMs
}

// dodgeRollDirection is the server-recorded start-to-target vector. Input
// wobble mid-roll never bends the trajectory.
func dodgeRollDirection(roll *protocol.DodgeRoll) (mgl64.Vec2, bool) {
	dir := mgl64.Vec2{roll.TargetX - roll.StartX, roll.TargetY - roll.StartY}
	l := dir.Len()
	if l == 0 {
		return mgl64.Vec2{}, false
	}
	return dir.Mul(1 / l), true
}

// jumpWindowActive reports whether the player is mid-jump, which suspends
// the water penalty while airborne over it.
func jumpWindowActive(in ModifierInputs) bool {
	if in.JumpStartedAtMs == 0 {
		return false
	}
	elapsed := in.NowMs - in.JumpStartedAtMs
	return elapsed >= 0 && elapsed < cfg.Movement.JumpDurationMs
}
