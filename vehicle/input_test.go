package vehicle_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/input"
	"github.com/plus3/flotilla/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyboard is a level-state fake wrapped by an EdgeDetector.
type keyboard struct {
	down map[input.Key]bool
	*input.EdgeDetector
}

func newKeyboard() *keyboard {
	kb := &keyboard{down: make(map[input.Key]bool)}
	kb.EdgeDetector = input.NewEdgeDetector(func(k input.Key) bool { return kb.down[k] })
	return kb
}

func (kb *keyboard) frame(world *ecs.World, held ...input.Key) {
	clear(kb.down)
	for _, k := range held {
		kb.down[k] = true
	}
	kb.Update()
	world.Tick(1.0 / 60.0)
}

func spawnControlled(t *testing.T) (*ecs.World, *keyboard, *vehicle.Physics, *vehicle.Input) {
	t.Helper()
	kb := newKeyboard()
	world := ecs.NewWorld()
	physics := vehicle.NewPhysics(vehicle.PhysicsConfig{Acceleration: 0.1, Turning: 0.1, MaxSpeed: 10})
	in := vehicle.NewInput(kb, vehicle.DefaultInputConfig())
	world.Spawn(physics, in)
	return world, kb, physics, in
}

func TestInputBindsDefaultActions(t *testing.T) {
	_, _, _, in := spawnControlled(t)

	assert.Equal(t, []string{
		vehicle.ActionForward,
		vehicle.ActionBackward,
		vehicle.ActionLeft,
		vehicle.ActionRight,
		vehicle.ActionSelectNext,
	}, in.Actions().Names())

	action, ok := in.Actions().Lookup(vehicle.ActionSelectNext)
	require.True(t, ok)
	assert.Equal(t, input.KeyTab, action.Key)
}

func TestInputSteersPhysics(t *testing.T) {
	world, kb, physics, _ := spawnControlled(t)

	kb.frame(world, input.KeyW)
	assert.Equal(t, float32(20), physics.TargetSpeed)

	kb.frame(world)
	kb.frame(world, input.KeyW)
	kb.frame(world)
	kb.frame(world, input.KeyS)
	assert.Equal(t, float32(20), physics.TargetSpeed)

	kb.frame(world, input.KeyA)
	assert.InDelta(t, float64(mgl32.DegToRad(60)), float64(physics.TargetHeading), 1e-6)
	kb.frame(world, input.KeyD)
	kb.frame(world)
	kb.frame(world, input.KeyD)
	assert.InDelta(t, float64(mgl32.DegToRad(-60)), float64(physics.TargetHeading), 1e-6)
}

func TestInputIsEdgeTriggered(t *testing.T) {
	world, kb, physics, _ := spawnControlled(t)

	for range 30 {
		kb.frame(world, input.KeyW)
	}
	assert.Equal(t, float32(20), physics.TargetSpeed, "held key fires once")

	kb.frame(world)
	kb.frame(world, input.KeyW)
	assert.Equal(t, float32(40), physics.TargetSpeed)
}

func TestInputSelectNextWraps(t *testing.T) {
	world, kb, physics, in := spawnControlled(t)

	for range 12 {
		kb.frame(world, input.KeyTab)
		kb.frame(world)
	}
	assert.Equal(t, 2, in.Selected)
	assert.Equal(t, float32(0), physics.TargetSpeed, "selection does not drive physics")
}

func TestInputWithoutPhysicsBindsNothing(t *testing.T) {
	kb := newKeyboard()
	world := ecs.NewWorld()
	in := vehicle.NewInput(kb, vehicle.InputConfig{})
	world.Spawn(in)

	assert.Equal(t, 0, in.Actions().Len())
	assert.NotPanics(t, func() { kb.frame(world, input.KeyW, input.KeyTab) })
	assert.Equal(t, 0, in.Selected)
}

func TestInputCustomBindings(t *testing.T) {
	kb := newKeyboard()
	world := ecs.NewWorld()
	physics := vehicle.NewPhysics(vehicle.PhysicsConfig{})
	in := vehicle.NewInput(kb, vehicle.InputConfig{
		SpeedStep: 5,
		Bindings: map[string]input.Key{
			vehicle.ActionForward: input.KeyUp,
		},
	})
	world.Spawn(physics, in)

	assert.Equal(t, []string{vehicle.ActionForward}, in.Actions().Names())

	kb.frame(world, input.KeyW)
	assert.Equal(t, float32(0), physics.TargetSpeed)
	kb.frame(world, input.KeyUp)
	assert.Equal(t, float32(5), physics.TargetSpeed)
}

func TestDefaultInputConfigCopiesBindings(t *testing.T) {
	config := vehicle.DefaultInputConfig()
	config.Bindings[vehicle.ActionForward] = input.KeyUp
	delete(config.Bindings, vehicle.ActionLeft)

	assert.Equal(t, input.KeyW, vehicle.DefaultBindings[vehicle.ActionForward])
	assert.Contains(t, vehicle.DefaultBindings, vehicle.ActionLeft)
	assert.Equal(t, input.KeyW, vehicle.DefaultInputConfig().Bindings[vehicle.ActionForward])
}
