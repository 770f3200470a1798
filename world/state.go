// Package world caches the replicated server state the simulation reads
// each frame. All collections are ordered maps so iteration order is
// stable across frames. State is mutated only on the simulation goroutine;
// the network layer hands deltas over a channel instead of writing here.
package world

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

// State is the client-side view of the replicated tables.
type State struct {
	Players        *orderedmap.OrderedMap[protocol.PlayerID, protocol.Player]
	Trees          *orderedmap.OrderedMap[protocol.EntityID, protocol.Tree]
	Stones         *orderedmap.OrderedMap[protocol.EntityID, protocol.Stone]
	StorageBoxes   *orderedmap.OrderedMap[protocol.EntityID, protocol.StorageBox]
	Shelters       *orderedmap.OrderedMap[protocol.EntityID, protocol.Shelter]
	Furnaces       *orderedmap.OrderedMap[protocol.EntityID, protocol.Furnace]
	RainCollectors *orderedmap.OrderedMap[protocol.EntityID, protocol.RainCollector]
	Barrels        *orderedmap.OrderedMap[protocol.EntityID, protocol.Barrel]
	WildAnimals    *orderedmap.OrderedMap[protocol.EntityID, protocol.WildAnimal]
	Effects        *orderedmap.OrderedMap[uint64, protocol.ActiveEffect]
	DodgeRolls     *orderedmap.OrderedMap[protocol.PlayerID, protocol.DodgeRoll]

	localID      protocol.PlayerID
	serverTimeMs int64
	receivedAt   time.Time
}

// NewState returns an empty world cache.
func NewState() *State {
	return &State{
		Players:        orderedmap.NewOrderedMap[protocol.PlayerID, protocol.Player](),
		Trees:          orderedmap.NewOrderedMap[protocol.EntityID, protocol.Tree](),
		Stones:         orderedmap.NewOrderedMap[protocol.EntityID, protocol.Stone](),
		StorageBoxes:   orderedmap.NewOrderedMap[protocol.EntityID, protocol.StorageBox](),
		Shelters:       orderedmap.NewOrderedMap[protocol.EntityID, protocol.Shelter](),
		Furnaces:       orderedmap.NewOrderedMap[protocol.EntityID, protocol.Furnace](),
		RainCollectors: orderedmap.NewOrderedMap[protocol.EntityID, protocol.RainCollector](),
		Barrels:        orderedmap.NewOrderedMap[protocol.EntityID, protocol.Barrel](),
		WildAnimals:    orderedmap.NewOrderedMap[protocol.EntityID, protocol.WildAnimal](),
		Effects:        orderedmap.NewOrderedMap[uint64, protocol.ActiveEffect](),
		DodgeRolls:     orderedmap.NewOrderedMap[protocol.PlayerID, protocol.DodgeRoll](),
	}
}

// SetLocalPlayerID records which player row belongs to this client.
func (s *State) SetLocalPlayerID(id protocol.PlayerID) {
	s.localID = id
}

// LocalPlayerID returns the local player's id, zero before the welcome.
func (s *State) LocalPlayerID() protocol.PlayerID {
	return s.localID
}

// LocalPlayer returns the local player row if it has arrived.
func (s *State) LocalPlayer() (protocol.Player, bool) {
	if s.localID == 0 {
		return protocol.Player{}, false
	}
	return s.Players.Get(s.localID)
}

// ServerTimeMs returns the server timestamp of the last applied delta.
func (s *State) ServerTimeMs() int64 {
	return s.serverTimeMs
}

// EstimatedServerTimeMs extrapolates the server clock from the last delta.
// Timed windows (effects, dodge rolls, jumps) are judged against this so
// client clock skew does not shift them.
func (s *State) EstimatedServerTimeMs(now time.Time) int64 {
	if s.serverTimeMs == 0 {
		return now.UnixMilli()
	}
	return s.serverTimeMs + now.Sub(s.receivedAt).Milliseconds()
}

// Apply merges one transaction's row changes into the cache. Within each
// table upserts land before deletes, so a row inserted and removed in the
// same transaction ends up removed.
func (s *State) Apply(delta protocol.StateDelta, receivedAt time.Time) {
	if delta.ServerTimeMs > s.serverTimeMs {
		s.serverTimeMs = delta.ServerTimeMs
		s.receivedAt = receivedAt
	}

	for _, row := range delta.Players {
		s.Players.Set(row.ID, row)
	}
	for _, id := range delta.PlayersGone {
		s.Players.Delete(id)
	}

	for _, row := range delta.Trees {
		s.Trees.Set(row.ID, row)
	}
	for _, id := range delta.TreesGone {
		s.Trees.Delete(id)
	}

	for _, row := range delta.Stones {
		s.Stones.Set(row.ID, row)
	}
	for _, id := range delta.StonesGone {
		s.Stones.Delete(id)
	}

	for _, row := range delta.StorageBoxes {
		s.StorageBoxes.Set(row.ID, row)
	}
	for _, id := range delta.StorageBoxesGone {
		s.StorageBoxes.Delete(id)
	}

	for _, row := range delta.Shelters {
		s.Shelters.Set(row.ID, row)
	}
	for _, id := range delta.SheltersGone {
		s.Shelters.Delete(id)
	}

	for _, row := range delta.Furnaces {
		s.Furnaces.Set(row.ID, row)
	}
	for _, id := range delta.FurnacesGone {
		s.Furnaces.Delete(id)
	}

	for _, row := range delta.RainCollectors {
		s.RainCollectors.Set(row.ID, row)
	}
	for _, id := range delta.RainCollectorsGone {
		s.RainCollectors.Delete(id)
	}

	for _, row := range delta.Barrels {
		s.Barrels.Set(row.ID, row)
	}
	for _, id := range delta.BarrelsGone {
		s.Barrels.Delete(id)
	}

	for _, row := range delta.WildAnimals {
		s.WildAnimals.Set(row.ID, row)
	}
	for _, id := range delta.WildAnimalsGone {
		s.WildAnimals.Delete(id)
	}

	for _, row := range delta.ActiveEffects {
		s.Effects.Set(row.ID, row)
	}
	for _, id := range delta.ActiveEffectsGone {
		s.Effects.Delete(id)
	}

	for _, row := range delta.DodgeRolls {
		s.DodgeRolls.Set(row.PlayerID, row)
	}
	for _, id := range delta.DodgeRollsGone {
		s.DodgeRolls.Delete(id)
	}
}

// HasEffect reports whether the player currently has an unexpired effect of
// the given type. Expiry is judged against server time so a delta the
// server forgot to send does not leave a phantom effect active.
func (s *State) HasEffect(player protocol.PlayerID, t protocol.EffectType, nowMs int64) bool {
	for el := s.Effects.Front(); el != nil; el = el.Next() {
		eff := el.Value
		if eff.PlayerID != player || eff.Type != t {
			continue
		}
		if eff.ExpiresAtMs > nowMs {
			return true
		}
	}
	return false
}

// ActiveDodgeRoll returns the player's dodge roll row if one is cached.
// The caller decides whether it is still within its duration window.
func (s *State) ActiveDodgeRoll(player protocol.PlayerID) (protocol.DodgeRoll, bool) {
	return s.DodgeRolls.Get(player)
}

// PruneExpiredEffects drops effects whose expiry has passed. Called once
// per frame so HasEffect scans stay short on long sessions.
func (s *State) PruneExpiredEffects(nowMs int64) int {
	var expired []uint64
	for el := s.Effects.Front(); el != nil; el = el.Next() {
		if el.Value.ExpiresAtMs <= nowMs {
			expired = append(expired, el.Key)
		}
	}
	for _, id := range expired {
		s.Effects.Delete(id)
	}
	return len(expired)
}
