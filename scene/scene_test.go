package scene_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
	"github.com/plus3/flotilla/input"
	"github.com/plus3/flotilla/scene"
	"github.com/plus3/flotilla/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScene(t *testing.T) {
	c := scene.Default()

	assert.Equal(t, 1600, c.Window.Width)
	assert.Equal(t, 900, c.Window.Height)
	assert.Equal(t, float32(45), c.Camera.Fovy)
	require.Len(t, c.Entities, 2)
	assert.Equal(t, "meshes/PolyPlane.glb", c.Entities[0].Model)
	assert.True(t, c.Entities[0].Input)
	assert.Equal(t, float32(90), c.Entities[1].Rotation.Degrees)
	assert.Equal(t, float32(0.1), c.Physics.Acceleration)
}

func TestDecodeAppliesDefaults(t *testing.T) {
	c, err := scene.Decode(strings.NewReader(`
entities:
  - model: boat.glb
`))
	require.NoError(t, err)

	assert.Equal(t, "flotilla", c.Window.Title)
	assert.Equal(t, 60, c.Window.TargetFPS)
	assert.Equal(t, 10, c.Input.RosterSize)
	assert.Equal(t, float32(20), c.Input.SpeedStep)
	assert.Equal(t, float32(60), c.Input.TurnStepDegrees)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"missing model":   "entities:\n  - name: ghost\n",
		"zero axis":       "entities:\n  - model: a.glb\n    rotation: {axis: [0, 0, 0], degrees: 10}\n",
		"negative rate":   "physics: {acceleration: -1}\n",
		"static input":    "entities:\n  - model: a.glb\n    static: true\n    input: true\n",
		"unknown key":     "input:\n  bindings: {forward: f13}\n",
		"unknown action":  "input:\n  bindings: {jump: space}\n",
		"entity override": "entities:\n  - model: a.glb\n    physics: {turning: -2}\n",
		"negative fps":    "window:\n  target_fps: -1\n",
		"negative ground": "ground:\n  size: -5\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := scene.Decode(strings.NewReader(doc))
			assert.ErrorIs(t, err, scene.ErrInvalid)
		})
	}

	_, err := scene.Decode(strings.NewReader("entites: []\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("asset_root: assets\nentities:\n  - model: meshes/a.glb\n"), 0o644))

	c, err := scene.Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("assets", "meshes/a.glb"), c.Resolve("meshes/a.glb"))
	assert.Equal(t, "/abs/a.glb", c.Resolve("/abs/a.glb"))

	_, err = scene.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	recorder := &gfx.Recorder{}
	cache := gfx.NewModelCache(recorder, nil)
	world := ecs.NewWorld()
	device := input.DeviceFunc(func(input.Key) bool { return false })

	ids, err := scene.Default().Build(world, scene.Deps{Cache: cache, Drawer: recorder, Device: device})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	plane := world.Entity(ids[0])
	assert.Equal(t, 4, plane.Len())
	assert.Equal(t, 1, ecs.IndexOf[*vehicle.Render](plane))
	assert.Equal(t, 2, ecs.IndexOf[*vehicle.Physics](plane))
	assert.Equal(t, 3, ecs.IndexOf[*vehicle.Input](plane))
	assert.Equal(t, 5, ecs.FindComponent[*vehicle.Input](plane).Actions().Len())

	boat := world.Entity(ids[1])
	assert.Equal(t, 3, boat.Len())
	assert.Nil(t, ecs.FindComponent[*vehicle.Input](boat))
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, boat.Transform().Position)
	assert.InDelta(t, 1.0, float64(boat.Transform().Rotation.Len()), 1e-6)

	world.Tick(1.0 / 60.0)
	assert.Len(t, recorder.Calls, 2)
}

func TestBuildWithoutDeviceSkipsInput(t *testing.T) {
	recorder := &gfx.Recorder{}
	world := ecs.NewWorld()

	ids, err := scene.Default().Build(world, scene.Deps{Cache: gfx.NewModelCache(recorder, nil), Drawer: recorder})
	require.NoError(t, err)
	assert.Nil(t, ecs.FindComponent[*vehicle.Input](world.Entity(ids[0])))
}

func TestBuildStaticAndOverrides(t *testing.T) {
	c, err := scene.Parse([]byte(`
physics: {acceleration: 1, turning: 1, max_speed: 5}
entities:
  - name: buoy
    model: buoy.glb
    static: true
    scale: [2, 2, 2]
  - name: tanker
    model: tanker.glb
    speed: 3
    heading_degrees: 90
    physics: {acceleration: 0.5, turning: 0.2, max_speed: 8, clamp_speed: true}
`))
	require.NoError(t, err)

	recorder := &gfx.Recorder{}
	world := ecs.NewWorld()
	ids, err := c.Build(world, scene.Deps{Cache: gfx.NewModelCache(recorder, nil), Drawer: recorder})
	require.NoError(t, err)

	buoy := world.Entity(ids[0])
	assert.Nil(t, ecs.FindComponent[*vehicle.Physics](buoy))
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, buoy.Transform().Scale)

	tanker := world.Entity(ids[1])
	physics := ecs.FindComponent[*vehicle.Physics](tanker)
	require.NotNil(t, physics)
	assert.Equal(t, vehicle.PhysicsConfig{Acceleration: 0.5, Turning: 0.2, MaxSpeed: 8, ClampSpeed: true}, physics.Config())
	assert.Equal(t, float32(3), physics.Speed)
	assert.InDelta(t, float64(mgl32.DegToRad(90)), float64(physics.TargetHeading), 1e-6)
}

func TestBuildRollsBackOnLoadError(t *testing.T) {
	recorder := &gfx.Recorder{Missing: map[string]bool{"meshes/ddg51.glb": true}}
	cache := gfx.NewModelCache(recorder, nil)
	world := ecs.NewWorld()

	ids, err := scene.Default().Build(world, scene.Deps{Cache: cache, Drawer: recorder})
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, gfx.ErrModelLoad)
	assert.ErrorContains(t, err, "destroyer")
	assert.Equal(t, 0, world.Len())
	assert.Equal(t, 0, cache.Len())
}

func TestVehicleInputCopiesDefaultBindings(t *testing.T) {
	c, err := scene.Parse([]byte("entities: []\n"))
	require.NoError(t, err)

	config, err := c.VehicleInput()
	require.NoError(t, err)
	config.Bindings[vehicle.ActionForward] = input.KeyUp

	assert.Equal(t, input.KeyW, vehicle.DefaultBindings[vehicle.ActionForward])
}
