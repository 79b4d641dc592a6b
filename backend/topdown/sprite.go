package topdown

import (
	"fmt"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/flotilla/gfx"
	"go.uber.org/zap"
)

// Sprite is the plan-view stand-in for a mesh. Its bow points along +x.
type Sprite struct {
	Image *ebiten.Image
	// Length is the hull length in world units at scale 1.
	Length float32

	release func(*Sprite)
}

// Unload frees the image. Sprites loaded by a running View are freed after
// the next Draw, since the current draw queue may still reference them.
func (s *Sprite) Unload() {
	if s.release != nil {
		s.release(s)
		return
	}
	s.deallocate()
}

func (s *Sprite) deallocate() {
	if s.Image != nil {
		s.Image.Deallocate()
	}
}

const (
	placeholderWidth  = 48
	placeholderHeight = 16
	defaultLength     = 12
)

// LoadMesh loads images directly. Any other existing file is drawn as a
// hull outline tinted by its path; a missing file is an error.
func (v *View) LoadMesh(path string) (gfx.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		img, _, err := ebitenutil.NewImageFromFile(path)
		if err != nil {
			return nil, err
		}
		return &Sprite{Image: img, Length: defaultLength, release: v.release}, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &Sprite{Image: hullImage(tint(path)), Length: defaultLength, release: v.release}, nil
}

func (v *View) release(s *Sprite) {
	if !v.running {
		s.deallocate()
		return
	}
	v.released = append(v.released, s)
}

// flushReleased frees sprites unloaded since the last Draw.
func (v *View) flushReleased() {
	for _, s := range v.released {
		s.deallocate()
	}
	clear(v.released)
	v.released = v.released[:0]
}

// tint picks a stable pastel color for path.
func tint(path string) color.RGBA {
	h := xxhash.Sum64String(path)
	return color.RGBA{
		R: 128 + uint8(h>>0)%128,
		G: 128 + uint8(h>>8)%128,
		B: 128 + uint8(h>>16)%128,
		A: 255,
	}
}

func hullImage(c color.RGBA) *ebiten.Image {
	img := ebiten.NewImage(placeholderWidth, placeholderHeight)
	w, h := float32(placeholderWidth), float32(placeholderHeight)
	vector.DrawFilledRect(img, 0, 0, w-h/2, h, c, false)
	vector.DrawFilledCircle(img, w-h/2, h/2, h/2, c, true)
	vector.StrokeLine(img, w/2, h/2, w, h/2, 2, color.White, false)
	return img
}

// drawItem is one sprite placement in screen-independent world terms.
type drawItem struct {
	sprite *Sprite
	x, z   float32
	// angle is the screen rotation in radians, clockwise positive.
	angle float64
	scale float32
}

// placement extracts the plan-view position, yaw and horizontal scale of a
// world matrix. The yaw follows the projection of the local +x axis onto the
// plane; a near-vertical +x axis yields angle 0.
func placement(m mgl32.Mat4) (x, z float32, angle float64, scale float32) {
	axis := m.Col(0).Vec3()
	scale = axis.Len()
	if math.Hypot(float64(axis[0]), float64(axis[2])) > 1e-4*float64(scale) {
		angle = math.Atan2(float64(axis[2]), float64(axis[0]))
	}
	return m[12], m[14], angle, scale
}

// Draw queues mesh for the next rendered frame. Meshes from other backends
// are ignored.
func (v *View) Draw(mesh gfx.Mesh, transform mgl32.Mat4) {
	sprite, ok := mesh.(*Sprite)
	if !ok {
		v.logger.Debug("skipping foreign mesh", zap.String("type", fmt.Sprintf("%T", mesh)))
		return
	}
	item := drawItem{sprite: sprite}
	item.x, item.z, item.angle, item.scale = placement(transform)
	v.queue = append(v.queue, item)
}

func (v *View) drawQueue(screen *ebiten.Image) {
	for _, item := range v.queue {
		bounds := item.sprite.Image.Bounds()
		w, h := float64(bounds.Dx()), float64(bounds.Dy())
		sx, sy := v.camera.WorldToScreen(item.x, item.z)
		pixels := float64(item.sprite.Length*item.scale*v.camera.scale()) / w

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(pixels, pixels)
		op.GeoM.Rotate(item.angle)
		op.GeoM.Translate(float64(sx), float64(sy))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(item.sprite.Image, op)
	}
}
