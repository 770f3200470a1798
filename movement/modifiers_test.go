package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

func activeRoll(nowMs int64) *protocol.DodgeRoll {
	return &protocol.DodgeRoll{
		PlayerID:    1,
		StartX:      100,
		StartY:      100,
		TargetX:     400,
		TargetY:     100,
		StartedAtMs: nowMs - 100,
	}
}

func TestDecideSpeedPrecedence(t *testing.T) {
	now := int64(10_000)

	tests := []struct {
		name string
		in   ModifierInputs
		want float64
	}{
		{
			name: "base",
			in:   ModifierInputs{NowMs: now},
			want: 1.0,
		},
		{
			name: "sprint",
			in:   ModifierInputs{Sprinting: true, NowMs: now},
			want: 1.6,
		},
		{
			name: "knockout excludes sprint",
			in:   ModifierInputs{KnockedOut: true, Sprinting: true, NowMs: now},
			want: 0.15,
		},
		{
			name: "knockout excludes dodge",
			in:   ModifierInputs{KnockedOut: true, DodgeRoll: activeRoll(now), NowMs: now},
			want: 0.15,
		},
		{
			name: "dodge excludes sprint",
			in:   ModifierInputs{Sprinting: true, DodgeRoll: activeRoll(now), NowMs: now},
			want: 2.5,
		},
		{
			name: "expired dodge falls back to sprint",
			in: ModifierInputs{
				Sprinting: true,
				DodgeRoll: &protocol.DodgeRoll{StartX: 100, StartY: 100, TargetX: 400, TargetY: 100, StartedAtMs: now - 600},
				NowMs:     now,
			},
			want: 1.6,
		},
		{
			name: "crouch stacks on sprint",
			in:   ModifierInputs{Sprinting: true, Crouching: true, NowMs: now},
			want: 0.8,
		},
		{
			name: "crouch stacks on knockout",
			in:   ModifierInputs{KnockedOut: true, Crouching: true, NowMs: now},
			want: 0.075,
		},
		{
			name: "exhaustion stacks on sprint",
			in:   ModifierInputs{Sprinting: true, Exhausted: true, NowMs: now},
			want: 1.2,
		},
		{
			name: "water slows",
			in:   ModifierInputs{OnWater: true, NowMs: now},
			want: 0.6,
		},
		{
			name: "jump clears the water penalty",
			in:   ModifierInputs{OnWater: true, JumpStartedAtMs: now - 200, NowMs: now},
			want: 1.0,
		},
		{
			name: "landed jump restores the water penalty",
			in:   ModifierInputs{OnWater: true, JumpStartedAtMs: now - 500, NowMs: now},
			want: 0.6,
		},
		{
			name: "future jump timestamp does not clear water",
			in:   ModifierInputs{OnWater: true, JumpStartedAtMs: now + 1000, NowMs: now},
			want: 0.6,
		},
		{
			name: "everything at once while knocked out",
			in: ModifierInputs{
				KnockedOut: true, Sprinting: true, Crouching: true,
				Exhausted: true, OnWater: true, NowMs: now,
			},
			want: 0.15 * 0.5 * 0.75 * 0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideSpeed(tt.in)
			assert.InDelta(t, tt.want, got.Multiplier, 1e-12)
		})
	}
}

func TestDecideSpeedFlags(t *testing.T) {
	now := int64(10_000)

	t.Run("sprint applied only when sprint wins", func(t *testing.T) {
		assert.True(t, DecideSpeed(ModifierInputs{Sprinting: true, NowMs: now}).SprintApplied)
		assert.False(t, DecideSpeed(ModifierInputs{Sprinting: true, KnockedOut: true, NowMs: now}).SprintApplied)
		assert.False(t, DecideSpeed(ModifierInputs{Sprinting: true, DodgeRoll: activeRoll(now), NowMs: now}).SprintApplied)
	})

	t.Run("dodge override follows the server vector", func(t *testing.T) {
		d := DecideSpeed(ModifierInputs{DodgeRoll: activeRoll(now), NowMs: now})
		assert.True(t, d.DodgeRolling)
		require.NotNil(t, d.DirectionOverride)
		assert.InDelta(t, 1.0, d.DirectionOverride.X(), 1e-12)
		assert.InDelta(t, 0.0, d.DirectionOverride.Y(), 1e-12)
	})

	t.Run("degenerate dodge vector has no override", func(t *testing.T) {
		roll := &protocol.DodgeRoll{StartX: 100, StartY: 100, TargetX: 100, TargetY: 100, StartedAtMs: now - 100}
		d := DecideSpeed(ModifierInputs{DodgeRoll: roll, NowMs: now})
		assert.True(t, d.DodgeRolling)
		assert.Nil(t, d.DirectionOverride)
		assert.InDelta(t, 2.5, d.Multiplier, 1e-12)
	})

	t.Run("roll boundary is exclusive", func(t *testing.T) {
		roll := &protocol.DodgeRoll{StartX: 100, StartY: 100, TargetX: 400, TargetY: 100, StartedAtMs: now - 500}
		d := DecideSpeed(ModifierInputs{DodgeRoll: roll, NowMs: now})
		assert.False(t, d.DodgeRolling)
		assert.InDelta(t, 1.0, d.Multiplier, 1e-12)
	})
}
