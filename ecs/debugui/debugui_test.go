package debugui

import (
	"reflect"
	"testing"

	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
	"github.com/plus3/flotilla/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) (*ecs.World, []ecs.EntityId) {
	recorder := &gfx.Recorder{}
	cache := gfx.NewModelCache(recorder, nil)
	world := ecs.NewWorld()

	render := func() *vehicle.Render {
		r, err := vehicle.NewRender(cache, recorder, "boat.glb")
		require.NoError(t, err)
		return r
	}

	ids := []ecs.EntityId{
		world.Spawn(render(), vehicle.NewPhysics(vehicle.PhysicsConfig{})),
		world.Spawn(render()),
		world.Spawn(render(), vehicle.NewPhysics(vehicle.PhysicsConfig{})),
	}
	return world, ids
}

func TestDescribeEntity(t *testing.T) {
	world, ids := newTestWorld(t)

	info := describeEntity(world.Entity(ids[0]))
	assert.Equal(t, ids[0], info.ID)
	assert.Equal(t, "transform,render,physics", info.Signature)
	assert.Equal(t, []string{"*ecs.Transform", "*vehicle.Render", "*vehicle.Physics"}, info.ComponentTypes)
	assert.Equal(t, 3, info.ComponentCount)
}

func TestCollectCompositions(t *testing.T) {
	world, _ := newTestWorld(t)

	assert.Equal(t, []CompositionInfo{
		{Signature: "transform,render,physics", ComponentCount: 3, EntityCount: 2},
		{Signature: "transform,render", ComponentCount: 2, EntityCount: 1},
	}, collectCompositions(world))
}

func TestMatchKinds(t *testing.T) {
	world, ids := newTestWorld(t)

	assert.Equal(t, ids, matchKinds(world, map[ecs.Kind]bool{ecs.KindRender: true}))
	assert.Equal(t, []ecs.EntityId{ids[0], ids[2]},
		matchKinds(world, map[ecs.Kind]bool{ecs.KindRender: true, ecs.KindPhysics: true}))
	assert.Empty(t, matchKinds(world, map[ecs.Kind]bool{ecs.KindInput: true}))
}

func TestCountKinds(t *testing.T) {
	world, _ := newTestWorld(t)

	counts := countKinds(world)
	assert.Equal(t, 3, counts[ecs.KindTransform])
	assert.Equal(t, 3, counts[ecs.KindRender])
	assert.Equal(t, 2, counts[ecs.KindPhysics])
	assert.Equal(t, 0, counts[ecs.KindInput])
}

func TestEntityBrowserFilter(t *testing.T) {
	world, ids := newTestWorld(t)

	browser := NewEntityBrowserComponent(2)
	browser.rebuildCacheIfNeeded(world)
	require.Len(t, browser.getFilteredEntities(), 3)

	signature := "transform,render"
	browser.filterSignature = &signature
	filtered := browser.getFilteredEntities()
	require.Len(t, filtered, 1)
	assert.Equal(t, ids[1], filtered[0].ID)

	browser.filterSignature = nil
	browser.filterText = "physics"
	assert.Len(t, browser.getFilteredEntities(), 2)

	world.Despawn(ids[0])
	browser.rebuildCacheIfNeeded(world)
	assert.Len(t, browser.getFilteredEntities(), 1)
}

func TestEntityBrowserPaging(t *testing.T) {
	browser := NewEntityBrowserComponent(2)

	start, end := browser.pageBounds(5)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	browser.currentPage = 2
	start, end = browser.pageBounds(5)
	assert.Equal(t, 4, start)
	assert.Equal(t, 5, end)

	browser.currentPage = 7
	start, end = browser.pageBounds(3)
	assert.Equal(t, 1, browser.currentPage)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, end)
}

func TestReflectionCacheSkipsEmbedded(t *testing.T) {
	fields := NewReflectionCache().GetFields(reflect.TypeOf(vehicle.Physics{}))

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Velocity", "Speed", "TargetSpeed", "TargetHeading"}, names)
}

func TestPerformanceHistory(t *testing.T) {
	ps := NewPerformanceStatsComponent(2)
	ps.record(0.010, ecs.WorldStats{})
	ps.record(0.030, ecs.WorldStats{})
	assert.InDelta(t, 20.0, float64(ps.average()), 1e-4)

	ps.record(0.050, ecs.WorldStats{})
	assert.InDelta(t, 40.0, float64(ps.average()), 1e-4)
}
