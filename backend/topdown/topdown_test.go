package topdown

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPlacementFollowsHeading(t *testing.T) {
	transform := ecs.NewTransform(mgl32.Vec3{10, 5, -20}, mgl32.QuatIdent())
	transform.Heading = mgl32.DegToRad(90)
	transform.Scale = mgl32.Vec3{2, 2, 2}

	x, z, angle, scale := placement(transform.Matrix())
	assert.InDelta(t, 10, float64(x), 1e-5)
	assert.InDelta(t, -20, float64(z), 1e-5)
	assert.InDelta(t, 2, float64(scale), 1e-5)
	// Heading 90 degrees moves toward -z, which is up on screen.
	assert.InDelta(t, -math.Pi/2, angle, 1e-5)
}

func TestPlacementVerticalAxis(t *testing.T) {
	transform := ecs.NewTransform(mgl32.Vec3{}, mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}))

	_, _, angle, scale := placement(transform.Matrix())
	assert.Equal(t, 0.0, angle)
	assert.InDelta(t, 1, float64(scale), 1e-5)
}

func TestCameraProjection(t *testing.T) {
	c := Camera{X: 100, Z: 50, Zoom: 2, PixelsPerUnit: 1.5, ScreenW: 800, ScreenH: 600}

	sx, sy := c.WorldToScreen(100, 50)
	assert.Equal(t, float32(400), sx)
	assert.Equal(t, float32(300), sy)

	sx, sy = c.WorldToScreen(110, 40)
	assert.Equal(t, float32(430), sx)
	assert.Equal(t, float32(270), sy)

	wx, wz := c.ScreenToWorld(430, 270)
	assert.InDelta(t, 110, float64(wx), 1e-4)
	assert.InDelta(t, 40, float64(wz), 1e-4)
}

func TestCameraZoomKeepsCursorPoint(t *testing.T) {
	c := Camera{Zoom: 1, PixelsPerUnit: 1, ScreenW: 800, ScreenH: 600}

	before, _ := c.ScreenToWorld(600, 300)
	c.zoomAt(600, 300, 1)
	after, _ := c.ScreenToWorld(600, 300)

	assert.Equal(t, float32(2), c.Zoom)
	assert.InDelta(t, float64(before), float64(after), 1e-4)

	c.zoomAt(0, 0, -100)
	assert.Equal(t, float32(minZoom), c.Zoom)
}

func TestCameraDrag(t *testing.T) {
	c := Camera{Zoom: 2, PixelsPerUnit: 1, ScreenW: 800, ScreenH: 600}

	c.drag(100, 100, true)
	c.drag(140, 80, true)
	assert.Equal(t, float32(-20), c.X)
	assert.Equal(t, float32(10), c.Z)

	c.drag(200, 200, false)
	c.drag(300, 300, false)
	assert.Equal(t, float32(-20), c.X, "released button stops panning")
}

func TestFloorTo(t *testing.T) {
	assert.Equal(t, float32(50), floorTo(73, 50))
	assert.Equal(t, float32(-100), floorTo(-73, 50))
	assert.Equal(t, float32(0), floorTo(0, 50))
}

func TestTintIsStable(t *testing.T) {
	assert.Equal(t, tint("meshes/ddg51.glb"), tint("meshes/ddg51.glb"))
	assert.GreaterOrEqual(t, tint("a").R, uint8(128))
}

func TestUnloadWaitsForDraw(t *testing.T) {
	v := &View{logger: zap.NewNop(), running: true}
	sprite := &Sprite{Length: 1, release: v.release}

	v.Draw(sprite, mgl32.Ident4())
	sprite.Unload()

	assert.Len(t, v.queue, 1)
	assert.Equal(t, []*Sprite{sprite}, v.released)

	v.flushReleased()
	assert.Empty(t, v.released)
}

func TestUnloadOutsideRunIsImmediate(t *testing.T) {
	v := &View{logger: zap.NewNop()}
	sprite := &Sprite{Length: 1, release: v.release}

	sprite.Unload()
	assert.Empty(t, v.released)
}
