package collision

import (
	"github.com/go-gl/mathgl/mgl64"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/protocol"
	"github.com/SeloSlav/saltgrass-client/world"
)

// Builder turns the replicated entity tables into collision shapes for one
// mover. Filtering is two-stage: a squared-distance radius budget around
// the mover prunes the bulk of the world, then the expanded bounds of the
// actual movement segment cut the survivors down to what the resolver can
// really touch this frame. With hundreds of live entities this filter is
// what keeps the frame loop flat.
type Builder struct {
	state *world.State
}

// NewBuilder returns a builder reading from the given world cache.
func NewBuilder(state *world.State) *Builder {
	return &Builder{state: state}
}

// segmentBounds is the movement segment's padded bounding box.
type segmentBounds struct {
	minX, minY, maxX, maxY float64
}

func newSegmentBounds(from, to mgl64.Vec2, moverRadius float64) segmentBounds {
	pad := cfg.Collision.SegmentPadding + moverRadius
	return segmentBounds{
		minX: min(from.X(), to.X()) - pad,
		minY: min(from.Y(), to.Y()) - pad,
		maxX: max(from.X(), to.X()) + pad,
		maxY: max(from.Y(), to.Y()) + pad,
	}
}

func (b segmentBounds) contains(s Shape) bool {
	minX, minY, maxX, maxY := s.Bounds()
	return maxX >= b.minX && minX <= b.maxX && maxY >= b.minY && minY <= b.maxY
}

// ShapesFor returns the shapes the mover can collide with while moving
// from one point to another. Dead and destroyed entities are skipped, as
// are the mover's own row and own shelter.
func (b *Builder) ShapesFor(mover protocol.PlayerID, from, to mgl64.Vec2, moverRadius float64) []Shape {
	bounds := newSegmentBounds(from, to, moverRadius)
	budget := cfg.Collision.EntityFilterRadius * cfg.Collision.EntityFilterRadius
	shapes := make([]Shape, 0, 16)

	within := func(x, y float64) bool {
		dx := x - from.X()
		dy := y - from.Y()
		return dx*dx+dy*dy <= budget
	}
	keep := func(s Shape) {
		if bounds.contains(s) {
			shapes = append(shapes, s)
		}
	}

	playerProf := cfg.Collision.Profiles["player"]
	for el := b.state.Players.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.ID == mover || row.IsDead || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "player", shapeCenter(row.X, row.Y, playerProf), playerProf.Radius))
	}

	treeProf := cfg.Collision.Profiles["tree"]
	for el := b.state.Trees.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.Health <= 0 || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "tree", shapeCenter(row.X, row.Y, treeProf), treeProf.Radius))
	}

	stoneProf := cfg.Collision.Profiles["stone"]
	for el := b.state.Stones.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.Health <= 0 || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "stone", shapeCenter(row.X, row.Y, stoneProf), stoneProf.Radius))
	}

	boxProf := cfg.Collision.Profiles["storage_box"]
	for el := b.state.StorageBoxes.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.Destroyed || !within(row.X, row.Y) {
			continue
		}
		keep(Box(uint64(row.ID), "storage_box", shapeCenter(row.X, row.Y, boxProf), boxProf.HalfWidth, boxProf.HalfHeight))
	}

	shelterProf := cfg.Collision.Profiles["shelter"]
	for el := b.state.Shelters.Front(); el != nil; el = el.Next() {
		row := el.Value
		// Owners pass through their own shelter.
		if row.Destroyed || row.OwnerID == mover || !within(row.X, row.Y) {
			continue
		}
		keep(Box(uint64(row.ID), "shelter", shapeCenter(row.X, row.Y, shelterProf), shelterProf.HalfWidth, shelterProf.HalfHeight))
	}

	furnaceProf := cfg.Collision.Profiles["furnace"]
	for el := b.state.Furnaces.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.Destroyed || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "furnace", shapeCenter(row.X, row.Y, furnaceProf), furnaceProf.Radius))
	}

	collectorProf := cfg.Collision.Profiles["rain_collector"]
	for el := b.state.RainCollectors.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.Destroyed || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "rain_collector", shapeCenter(row.X, row.Y, collectorProf), collectorProf.Radius))
	}

	barrelProf := cfg.Collision.Profiles["barrel"]
	for el := b.state.Barrels.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.Health <= 0 || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "barrel", shapeCenter(row.X, row.Y, barrelProf), barrelProf.Radius))
	}

	animalProf := cfg.Collision.Profiles["wild_animal"]
	for el := b.state.WildAnimals.Front(); el != nil; el = el.Next() {
		row := el.Value
		if row.IsDead || row.Health <= 0 || !within(row.X, row.Y) {
			continue
		}
		keep(Circle(uint64(row.ID), "wild_animal", shapeCenter(row.X, row.Y, animalProf), animalProf.Radius))
	}

	return shapes
}

func shapeCenter(x, y float64, p cfg.CollisionProfile) mgl64.Vec2 {
	return mgl64.Vec2{x, y + p.OffsetY}
}
