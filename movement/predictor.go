package movement

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/SeloSlav/saltgrass-client/collision"
	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/input"
	"github.com/SeloSlav/saltgrass-client/protocol"
	"github.com/SeloSlav/saltgrass-client/world"
)

// movedEpsilon separates real movement from floating-point residue.
const movedEpsilon = 1e-6

// StepResult is what one predictor frame produced. Active is false when
// the local player row has not arrived yet and the frame was a no-op.
type StepResult struct {
	Active   bool
	Position mgl64.Vec2
	Facing   protocol.FacingDirection

	Moved        bool
	Collided     bool
	DodgeRolling bool
	KnockedOut   bool

	// Sprint flag as it actually applied: input sprint, really moving,
	// and not knocked out. This is what goes on the wire.
	SprintingEffective bool
}

// Predictor advances the local player's predicted position. It is the
// only writer of that position; server rows seed it once and afterwards
// only acknowledge it.
type Predictor struct {
	log     *zap.SugaredLogger
	state   *world.State
	builder *collision.Builder

	pos         mgl64.Vec2
	facing      protocol.FacingDirection
	initialized bool

	autoWalk    bool
	autoWalkDir mgl64.Vec2
}

// NewPredictor returns a predictor reading the given world cache.
func NewPredictor(log *zap.SugaredLogger, state *world.State) *Predictor {
	return &Predictor{
		log:     log,
		state:   state,
		builder: collision.NewBuilder(state),
		facing:  protocol.FacingDown,
	}
}

// Position returns the current predicted position.
func (p *Predictor) Position() mgl64.Vec2 {
	return p.pos
}

// Facing returns the current facing direction.
func (p *Predictor) Facing() protocol.FacingDirection {
	return p.facing
}

// Initialized reports whether the first server row has seeded the
// predicted position.
func (p *Predictor) Initialized() bool {
	return p.initialized
}

// AutoWalking reports whether the auto-walk assist is feeding input.
func (p *Predictor) AutoWalking() bool {
	return p.autoWalk
}

// ToggleAutoWalk flips the auto-walk assist. Enabling it locks in the
// current facing as the walk direction; any genuine directional input
// cancels it again.
func (p *Predictor) ToggleAutoWalk() {
	if p.autoWalk {
		p.autoWalk = false
		return
	}
	p.autoWalk = true
	p.autoWalkDir = FacingVector(p.facing)
}

// Step advances the prediction by one frame. dt is the elapsed wall time
// in seconds; it is capped so a tab suspend or GC pause cannot teleport
// the player.
func (p *Predictor) Step(sample input.Sample, dt float64, now time.Time) StepResult {
	row, ok := p.state.LocalPlayer()
	if !ok {
		return StepResult{}
	}

	if !p.initialized {
		p.pos = mgl64.Vec2{row.X, row.Y}
		p.initialized = true
		p.log.Infof("prediction seeded at (%.1f, %.1f)", row.X, row.Y)
	}

	nowMs := p.state.EstimatedServerTimeMs(now)

	// --- Direction (input, auto-walk, dodge override) ---
	dir := sample.Direction
	if dir.Len() > 0 {
		if p.autoWalk {
			p.autoWalk = false
			p.log.Debugf("auto-walk cancelled by input")
		}
	} else if p.autoWalk {
		dir = p.autoWalkDir
	}

	var roll *protocol.DodgeRoll
	if r, ok := p.state.ActiveDodgeRoll(row.ID); ok {
		roll = &r
	}

	// --- Speed decision ---
	decision := DecideSpeed(ModifierInputs{
		KnockedOut:      row.IsKnockedOut,
		Crouching:       row.IsCrouching,
		OnWater:         row.IsOnWater,
		Sprinting:       sample.Sprinting,
		Exhausted:       p.state.HasEffect(row.ID, protocol.EffectExhausted, nowMs),
		JumpStartedAtMs: row.JumpStartedAtMs,
		DodgeRoll:       roll,
		NowMs:           nowMs,
	})
	if decision.DirectionOverride != nil {
		dir = *decision.DirectionOverride
	}

	if dir.Len() == 0 {
		// Idle frame: position and facing hold.
		return StepResult{
			Active:     true,
			Position:   p.pos,
			Facing:     p.facing,
			KnockedOut: row.IsKnockedOut,
		}
	}

	// --- Advance and resolve ---
	if dt > cfg.Movement.MaxFrameDelta {
		dt = cfg.Movement.MaxFrameDelta
	}
	displacement := dir.Mul(cfg.Movement.PlayerSpeed * decision.Multiplier * dt)
	target := p.pos.Add(displacement)

	shapes := p.builder.ShapesFor(row.ID, p.pos, target, cfg.Collision.PlayerRadius)
	resolved := collision.Resolve(p.pos, target, cfg.Collision.PlayerRadius, shapes)

	moved := resolved.Position.Sub(p.pos).Len() > movedEpsilon

	// Facing follows the attempted movement, not the collision-adjusted
	// one, so a pushback never flips the sprite away from the obstacle.
	p.facing = DeriveFacing(p.facing, displacement, row.IsKnockedOut)
	p.pos = resolved.Position

	return StepResult{
		Active:             true,
		Position:           p.pos,
		Facing:             p.facing,
		Moved:              moved,
		Collided:           resolved.Collided,
		DodgeRolling:       decision.DodgeRolling,
		KnockedOut:         row.IsKnockedOut,
		SprintingEffective: decision.SprintApplied && moved,
	}
}
