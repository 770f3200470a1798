package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// ConstantsChecksum hashes the server-mirrored constant tables. The server
// computes the same hash over its own tables and echoes it in the session
// welcome; a mismatch means this build predicts with stale constants and
// must not predict at all.
func ConstantsChecksum() uint64 {
	var b strings.Builder

	fmt.Fprintf(&b, "move:%g:%g:%g:%g:%g:%g:%g:%d:%d;",
		Movement.PlayerSpeed,
		Movement.SprintMultiplier,
		Movement.CrouchSpeedPenalty,
		Movement.KnockedOutPenalty,
		Movement.DodgeRollMultiplier,
		Movement.WaterSpeedPenalty,
		Movement.ExhaustedSpeedPenalty,
		Movement.DodgeRollDurationMs,
		Movement.JumpDurationMs,
	)

	fmt.Fprintf(&b, "coll:%g:%g:%g:%g:%g;",
		Collision.PlayerRadius,
		Collision.MinimumSeparation,
		Collision.PenetrationEpsilon,
		Collision.EntityFilterRadius,
		Collision.SegmentPadding,
	)

	kinds := make([]string, 0, len(Collision.Profiles))
	for kind := range Collision.Profiles {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		p := Collision.Profiles[kind]
		fmt.Fprintf(&b, "%s:%g:%g:%g:%g;", kind, p.Radius, p.HalfWidth, p.HalfHeight, p.OffsetY)
	}

	fmt.Fprintf(&b, "world:%g:%d:%d", World.TileSize, World.WidthTiles, World.HeightTiles)

	return xxh3.HashString(b.String())
}
