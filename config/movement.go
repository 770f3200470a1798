package config

// MovementConfig contains all movement tuning values.
// Mirrored from the server's movement reducer and must match it exactly,
// otherwise prediction drifts and every ack shows a divergence.
type MovementConfig struct {
	// Base speed in pixels per second
	PlayerSpeed float64

	// Multipliers (applied per the precedence rules in movement/modifiers.go)
	SprintMultiplier      float64
	CrouchSpeedPenalty    float64
	KnockedOutPenalty     float64
	DodgeRollMultiplier   float64
	WaterSpeedPenalty     float64
	ExhaustedSpeedPenalty float64

	// Timed windows (milliseconds, measured against server timestamps)
	DodgeRollDurationMs int64
	JumpDurationMs      int64

	// Frame pacing
	MaxFrameDelta float64 // seconds; deltas above this are capped (tab-out protection)
	MinFrameDelta float64 // seconds; frames arriving sooner are skipped
}

// FacingConfig contains facing-direction derivation thresholds.
type FacingConfig struct {
	// Minimum per-frame displacement magnitude before facing updates
	Threshold float64
	// Lower threshold while knocked out (crawl speed barely moves)
	KnockedOutThreshold float64
}

// Movement is the global movement configuration
var Movement MovementConfig

// Facing is the global facing configuration
var Facing FacingConfig

func init() {
	Movement = MovementConfig{
		PlayerSpeed: 120.0,

		SprintMultiplier:      1.6,
		CrouchSpeedPenalty:    0.5,
		KnockedOutPenalty:     0.15,
		DodgeRollMultiplier:   2.5,
		WaterSpeedPenalty:     0.6,
		ExhaustedSpeedPenalty: 0.75,

		DodgeRollDurationMs: 500,
		JumpDurationMs:      400,

		MaxFrameDelta: 0.1,
		MinFrameDelta: 1.0 / 60.0,
	}

	Facing = FacingConfig{
		Threshold:           0.5,
		KnockedOutThreshold: 0.05,
	}
}
