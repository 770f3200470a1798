package config

// CollisionProfile maps an entity kind to its collision footprint.
// Circle profiles set Radius; box profiles set HalfWidth/HalfHeight and
// leave Radius zero. OffsetY shifts the shape down to the sprite's visual
// base so players collide with what they see, not the logical anchor.
type CollisionProfile struct {
	Radius     float64
	HalfWidth  float64
	HalfHeight float64
	OffsetY    float64
}

// IsCircle reports whether the profile describes a circle shape.
func (p CollisionProfile) IsCircle() bool {
	return p.Radius > 0
}

// CollisionConfig contains swept-collision tuning values.
// Mirrored from the server's movement reducer and must match it exactly.
type CollisionConfig struct {
	// Mover footprint
	PlayerRadius float64

	// Resolver tuning
	MinimumSeparation  float64 // enforced gap between mover edge and obstacle edge
	PenetrationEpsilon float64 // slack added when pushing out of overlap
	StuckSlideEpsilon  float64 // slide displacements below this trigger the tangent nudge

	// Shape builder filtering
	EntityFilterRadius float64 // first-pass radius budget around the mover
	SegmentPadding     float64 // second-pass padding around the movement segment bounds

	// Per-kind footprints, keyed by entity kind name
	Profiles map[string]CollisionProfile
}

// WorldConfig contains world geometry mirrored from the server.
type WorldConfig struct {
	TileSize    float64
	WidthTiles  int
	HeightTiles int
}

// WidthPx returns the world width in pixels.
func (w WorldConfig) WidthPx() float64 {
	return w.TileSize * float64(w.WidthTiles)
}

// HeightPx returns the world height in pixels.
func (w WorldConfig) HeightPx() float64 {
	return w.TileSize * float64(w.HeightTiles)
}

// Collision is the global collision configuration
var Collision CollisionConfig

// World is the global world geometry configuration
var World WorldConfig

func init() {
	Collision = CollisionConfig{
		PlayerRadius: 32.0,

		MinimumSeparation:  8.0,
		PenetrationEpsilon: 0.1,
		StuckSlideEpsilon:  1e-3,

		EntityFilterRadius: 400.0,
		SegmentPadding:     64.0,

		Profiles: map[string]CollisionProfile{
			"player":         {Radius: 32.0},
			"tree":           {Radius: 30.0, OffsetY: 12.0},
			"stone":          {Radius: 25.0, OffsetY: 8.0},
			"furnace":        {Radius: 26.0, OffsetY: 10.0},
			"rain_collector": {Radius: 22.0, OffsetY: 8.0},
			"barrel":         {Radius: 20.0, OffsetY: 6.0},
			"wild_animal":    {Radius: 20.0},
			"storage_box":    {HalfWidth: 24.0, HalfHeight: 18.0, OffsetY: 6.0},
			"shelter":        {HalfWidth: 60.0, HalfHeight: 45.0, OffsetY: 20.0},
		},
	}

	World = WorldConfig{
		TileSize:    48.0,
		WidthTiles:  150,
		HeightTiles: 150,
	}
}
