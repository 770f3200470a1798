package collision

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeloSlav/saltgrass-client/protocol"
	"github.com/SeloSlav/saltgrass-client/world"
)

const mover protocol.PlayerID = 1

func buildTestWorld() *world.State {
	s := world.NewState()
	s.SetLocalPlayerID(mover)
	s.Apply(protocol.StateDelta{
		ServerTimeMs: 1000,
		Players: []protocol.Player{
			{ID: mover, X: 1000, Y: 1000},
			{ID: 2, Name: "near", X: 1040, Y: 1000},
			{ID: 3, Name: "dead", X: 1040, Y: 1040, IsDead: true},
		},
		Trees: []protocol.Tree{
			{ID: 10, X: 1050, Y: 988, Health: 100},
			{ID: 11, X: 1050, Y: 960, Health: 0},
			{ID: 12, X: 1450, Y: 1000, Health: 100},
			{ID: 13, X: 1000, Y: 1200, Health: 100},
		},
		StorageBoxes: []protocol.StorageBox{
			{ID: 20, OwnerID: 9, X: 960, Y: 1000},
			{ID: 21, OwnerID: 9, X: 1000, Y: 960, Destroyed: true},
		},
		Shelters: []protocol.Shelter{
			{ID: 30, OwnerID: mover, X: 1000, Y: 1050, Health: 100},
			{ID: 31, OwnerID: 9, X: 1060, Y: 1050, Health: 100},
		},
		WildAnimals: []protocol.WildAnimal{
			{ID: 40, Species: "boar", X: 1000, Y: 1040, Health: 50},
			{ID: 41, Species: "boar", X: 1010, Y: 1040, Health: 0},
			{ID: 42, Species: "wolf", X: 1020, Y: 1040, Health: 50, IsDead: true},
		},
		Barrels: []protocol.Barrel{
			{ID: 50, X: 990, Y: 1030, Health: 40},
		},
	}, time.Unix(0, 0))
	return s
}

func shapeIDs(shapes []Shape) map[uint64]Shape {
	out := make(map[uint64]Shape, len(shapes))
	for _, s := range shapes {
		out[s.ID] = s
	}
	return out
}

func TestShapesForFiltersEntities(t *testing.T) {
	b := NewBuilder(buildTestWorld())
	from := mgl64.Vec2{1000, 1000}
	to := mgl64.Vec2{1010, 1000}

	shapes := shapeIDs(b.ShapesFor(mover, from, to, 32))

	assert.NotContains(t, shapes, uint64(mover), "mover collides with itself")
	assert.Contains(t, shapes, uint64(2))
	assert.NotContains(t, shapes, uint64(3), "dead players must not block")

	assert.Contains(t, shapes, uint64(10))
	assert.NotContains(t, shapes, uint64(11), "felled trees must not block")
	assert.NotContains(t, shapes, uint64(12), "outside the radius budget")
	assert.NotContains(t, shapes, uint64(13), "off the movement segment")

	assert.Contains(t, shapes, uint64(20))
	assert.NotContains(t, shapes, uint64(21), "destroyed boxes must not block")

	assert.NotContains(t, shapes, uint64(30), "own shelter must stay passable")
	assert.Contains(t, shapes, uint64(31))

	assert.Contains(t, shapes, uint64(40))
	assert.NotContains(t, shapes, uint64(41))
	assert.NotContains(t, shapes, uint64(42))

	assert.Contains(t, shapes, uint64(50))
}

func TestShapesForAppliesProfiles(t *testing.T) {
	b := NewBuilder(buildTestWorld())
	shapes := shapeIDs(b.ShapesFor(mover, mgl64.Vec2{1000, 1000}, mgl64.Vec2{1010, 1000}, 32))

	tree, ok := shapes[10]
	require.True(t, ok)
	assert.Equal(t, KindCircle, tree.Kind)
	assert.Equal(t, "tree", tree.Entity)
	assert.Equal(t, 30.0, tree.Radius)
	assert.Equal(t, 1000.0, tree.Center.Y(), "tree shape must sit at the sprite base")

	box, ok := shapes[20]
	require.True(t, ok)
	assert.Equal(t, KindBox, box.Kind)
	assert.Equal(t, 24.0, box.HalfW)
	assert.Equal(t, 18.0, box.HalfH)
	assert.Equal(t, 1006.0, box.Center.Y())

	other, ok := shapes[2]
	require.True(t, ok)
	assert.Equal(t, 32.0, other.Radius)
	assert.Equal(t, mgl64.Vec2{1040, 1000}, other.Center)
}

func TestShapesForEmptyWorld(t *testing.T) {
	b := NewBuilder(world.NewState())
	shapes := b.ShapesFor(mover, mgl64.Vec2{0, 0}, mgl64.Vec2{10, 0}, 32)
	assert.Empty(t, shapes)
}
