package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

func TestApplyUpsertsAndDeletes(t *testing.T) {
	s := NewState()
	at := time.Unix(100, 0)

	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		Players: []protocol.Player{
			{ID: 1, Name: "a", X: 10},
			{ID: 2, Name: "b", X: 20},
		},
		Trees: []protocol.Tree{{ID: 5, X: 50, Health: 100}},
	}, at)

	assert.Equal(t, 2, s.Players.Len())
	row, ok := s.Players.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", row.Name)

	// Update one row, delete the other, damage the tree.
	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1100,
		Players:      []protocol.Player{{ID: 1, Name: "a", X: 15}},
		PlayersGone:  []protocol.PlayerID{2},
		Trees:        []protocol.Tree{{ID: 5, X: 50, Health: 40}},
	}, at.Add(100*time.Millisecond))

	assert.Equal(t, 1, s.Players.Len())
	row, _ = s.Players.Get(1)
	assert.Equal(t, 15.0, row.X)
	tree, _ := s.Trees.Get(5)
	assert.Equal(t, int32(40), tree.Health)
}

func TestApplySameDeltaUpsertThenDelete(t *testing.T) {
	s := NewState()
	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		Players:      []protocol.Player{{ID: 3, Name: "ghost"}},
		PlayersGone:  []protocol.PlayerID{3},
	}, time.Unix(100, 0))

	_, ok := s.Players.Get(3)
	assert.False(t, ok, "a delete in the same delta wins over its upsert")
}

func TestLocalPlayer(t *testing.T) {
	s := NewState()

	_, ok := s.LocalPlayer()
	assert.False(t, ok, "no local row before the welcome")

	s.SetLocalPlayerID(7)
	_, ok = s.LocalPlayer()
	assert.False(t, ok, "id known but row not replicated yet")

	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		Players:      []protocol.Player{{ID: 7, Name: "me"}},
	}, time.Unix(100, 0))

	row, ok := s.LocalPlayer()
	require.True(t, ok)
	assert.Equal(t, "me", row.Name)
}

func TestEstimatedServerTime(t *testing.T) {
	s := NewState()
	at := time.Unix(100, 0)

	t.Run("before any delta", func(t *testing.T) {
		assert.Equal(t, at.UnixMilli(), s.EstimatedServerTimeMs(at))
	})

	s.Apply(protocol.StateDelta{ServerTimeMs: 50_000}, at)

	t.Run("extrapolates from arrival", func(t *testing.T) {
		assert.Equal(t, int64(50_000), s.EstimatedServerTimeMs(at))
		assert.Equal(t, int64(50_700), s.EstimatedServerTimeMs(at.Add(700*time.Millisecond)))
	})

	t.Run("older delta does not rewind the clock", func(t *testing.T) {
		s.Apply(protocol.StateDelta{ServerTimeMs: 40_000}, at.Add(time.Second))
		assert.Equal(t, int64(50_000), s.ServerTimeMs())
	})
}

func TestHasEffect(t *testing.T) {
	s := NewState()
	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		ActiveEffects: []protocol.ActiveEffect{
			{ID: 1, PlayerID: 7, Type: protocol.EffectExhausted, ExpiresAtMs: 2000},
			{ID: 2, PlayerID: 7, Type: protocol.EffectBleeding, ExpiresAtMs: 9000},
			{ID: 3, PlayerID: 8, Type: protocol.EffectExhausted, ExpiresAtMs: 9000},
		},
	}, time.Unix(100, 0))

	assert.True(t, s.HasEffect(7, protocol.EffectExhausted, 1500))
	assert.False(t, s.HasEffect(7, protocol.EffectExhausted, 2000), "expiry is exclusive")
	assert.False(t, s.HasEffect(7, protocol.EffectWarmth, 1500), "wrong type")
	assert.False(t, s.HasEffect(9, protocol.EffectExhausted, 1500), "wrong player")
	assert.True(t, s.HasEffect(8, protocol.EffectExhausted, 1500))
}

func TestPruneExpiredEffects(t *testing.T) {
	s := NewState()
	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		ActiveEffects: []protocol.ActiveEffect{
			{ID: 1, PlayerID: 7, Type: protocol.EffectExhausted, ExpiresAtMs: 2000},
			{ID: 2, PlayerID: 7, Type: protocol.EffectBleeding, ExpiresAtMs: 9000},
		},
	}, time.Unix(100, 0))

	assert.Equal(t, 1, s.PruneExpiredEffects(5000))
	assert.Equal(t, 1, s.Effects.Len())
	assert.Equal(t, 0, s.PruneExpiredEffects(5000), "second prune finds nothing")

	_, ok := s.Effects.Get(2)
	assert.True(t, ok, "live effect must survive the prune")
}

func TestActiveDodgeRoll(t *testing.T) {
	s := NewState()

	_, ok := s.ActiveDodgeRoll(7)
	assert.False(t, ok)

	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		DodgeRolls: []protocol.DodgeRoll{
			{PlayerID: 7, StartX: 1, StartY: 2, TargetX: 3, TargetY: 4, StartedAtMs: 900},
		},
	}, time.Unix(100, 0))

	roll, ok := s.ActiveDodgeRoll(7)
	require.True(t, ok)
	assert.Equal(t, 3.0, roll.TargetX)

	s.Apply(protocol.StateDelta{
		ServerTimeMs:   1600,
		DodgeRollsGone: []protocol.PlayerID{7},
	}, time.Unix(101, 0))

	_, ok = s.ActiveDodgeRoll(7)
	assert.False(t, ok)
}
