package topdown

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Camera looks straight down at the water plane. World x maps to screen x
// and world z to screen y.
type Camera struct {
	X, Z          float32
	Zoom          float32
	PixelsPerUnit float32
	ScreenW       int
	ScreenH       int

	dragging      bool
	prevMouseLeft bool
	dragStartX    float32
	dragStartZ    float32
	lastMouseX    int
	lastMouseY    int
}

const (
	minZoom = 0.05
	maxZoom = 20.0
)

func (c *Camera) scale() float32 {
	return c.Zoom * c.PixelsPerUnit
}

// WorldToScreen projects a point on the plane into screen pixels.
func (c *Camera) WorldToScreen(x, z float32) (float32, float32) {
	s := c.scale()
	return (x-c.X)*s + float32(c.ScreenW)/2, (z-c.Z)*s + float32(c.ScreenH)/2
}

// ScreenToWorld is the inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(sx, sy float32) (float32, float32) {
	s := c.scale()
	return (sx-float32(c.ScreenW)/2)/s + c.X, (sy-float32(c.ScreenH)/2)/s + c.Z
}

// Update pans with a left-button drag and zooms about the cursor with the
// wheel. Nothing happens while the debug overlay owns the mouse.
func (c *Camera) Update(captured bool) {
	if captured {
		c.dragging = false
		return
	}

	mx, my := ebiten.CursorPosition()
	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	c.drag(mx, my, mouseLeft)

	if _, dy := ebiten.Wheel(); dy != 0 {
		c.zoomAt(float32(mx), float32(my), float32(dy)*0.2*c.Zoom)
	}
}

func (c *Camera) drag(mx, my int, mouseLeft bool) {
	if mouseLeft && !c.prevMouseLeft {
		c.dragging = true
		c.dragStartX = c.X
		c.dragStartZ = c.Z
		c.lastMouseX = mx
		c.lastMouseY = my
	}

	if !mouseLeft {
		c.dragging = false
	}

	if c.dragging {
		s := c.scale()
		c.X = c.dragStartX - float32(mx-c.lastMouseX)/s
		c.Z = c.dragStartZ - float32(my-c.lastMouseY)/s
	}

	c.prevMouseLeft = mouseLeft
}

// zoomAt changes the zoom while keeping the world point under (sx, sy) fixed.
func (c *Camera) zoomAt(sx, sy, delta float32) {
	wx, wz := c.ScreenToWorld(sx, sy)
	c.Zoom = min(max(c.Zoom+delta, minZoom), maxZoom)
	nx, nz := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Z += wz - nz
}
