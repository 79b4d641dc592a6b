// Package topdown renders the world as a plan view with ebiten. Vehicles are
// sprites on the water plane; an optional Dear ImGui overlay inspects the
// world.
package topdown

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/ecs/debugui"
	debugui_ebiten "github.com/plus3/flotilla/ecs/debugui/ebiten"
	"github.com/plus3/flotilla/input"
	"github.com/plus3/flotilla/scene"
	"go.uber.org/zap"
)

var (
	waterColor = color.RGBA{28, 64, 104, 255}
	gridColor  = color.RGBA{44, 84, 128, 255}
)

// gridSpacing is the distance between grid lines in world units.
const gridSpacing = 50

// View is the ebiten backend. It is a gfx.Backend and provides the keyboard
// input.Device.
type View struct {
	camera Camera
	logger *zap.Logger

	queue    []drawItem
	released []*Sprite
	running  bool

	world   *ecs.World
	imgui   *debugui_ebiten.ImguiBackend
	overlay *debugui.Overlay
}

// Options configures a View.
type Options struct {
	// PixelsPerUnit is the initial scale of the plan view.
	PixelsPerUnit float32
	// Debug enables the Dear ImGui overlay.
	Debug  bool
	Logger *zap.Logger
}

// New opens the window described by c and centers the camera on its target.
func New(c *scene.Config, opts Options) *View {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PixelsPerUnit <= 0 {
		opts.PixelsPerUnit = 1
	}

	v := &View{
		camera: Camera{
			X:             c.Camera.Target[0],
			Z:             c.Camera.Target[2],
			Zoom:          1,
			PixelsPerUnit: opts.PixelsPerUnit,
			ScreenW:       c.Window.Width,
			ScreenH:       c.Window.Height,
		},
		logger: logger.Named("topdown"),
	}

	if opts.Debug {
		v.imgui = debugui_ebiten.New(c.Window.Title, c.Window.Width, c.Window.Height)
	} else {
		ebiten.SetWindowSize(c.Window.Width, c.Window.Height)
		ebiten.SetWindowTitle(c.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(c.Window.TargetFPS)
	return v
}

// Keyboard returns the edge-triggered keyboard device. Keys are swallowed
// while the debug overlay has keyboard focus.
func (v *View) Keyboard() input.Device {
	return input.DeviceFunc(func(k input.Key) bool {
		if v.overlay != nil && v.overlay.Input.WantCaptureKeyboard {
			return false
		}
		code, ok := keyCodes[k]
		return ok && inpututil.IsKeyJustPressed(code)
	})
}

var keyCodes = map[input.Key]ebiten.Key{
	input.KeyW:      ebiten.KeyW,
	input.KeyA:      ebiten.KeyA,
	input.KeyS:      ebiten.KeyS,
	input.KeyD:      ebiten.KeyD,
	input.KeyQ:      ebiten.KeyQ,
	input.KeyE:      ebiten.KeyE,
	input.KeyUp:     ebiten.KeyArrowUp,
	input.KeyDown:   ebiten.KeyArrowDown,
	input.KeyLeft:   ebiten.KeyArrowLeft,
	input.KeyRight:  ebiten.KeyArrowRight,
	input.KeySpace:  ebiten.KeySpace,
	input.KeyTab:    ebiten.KeyTab,
	input.KeyEscape: ebiten.KeyEscape,
}

// Run drives world at the window's tick rate until the window is closed or
// Escape is pressed.
func (v *View) Run(world *ecs.World) error {
	v.world = world
	if v.imgui != nil {
		v.overlay = debugui.New(world, 120)
	}
	v.logger.Info("running", zap.Int("tps", ebiten.TPS()), zap.Bool("debug", v.imgui != nil))

	v.running = true
	defer func() {
		v.running = false
		v.flushReleased()
	}()
	return ebiten.RunGame(v)
}

func (v *View) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())
	v.camera.Update(v.overlay != nil && v.overlay.Input.WantCaptureMouse)

	// Render components refill the queue during the tick.
	v.queue = v.queue[:0]
	v.world.Tick(dt)

	if v.imgui != nil {
		v.imgui.Frame(func() { v.overlay.Render(float32(dt)) })
	}
	return nil
}

func (v *View) Draw(screen *ebiten.Image) {
	screen.Fill(waterColor)
	v.drawGrid(screen)
	v.drawQueue(screen)

	stats := v.world.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.0f  entities %d  tick %s",
		ebiten.ActualTPS(), stats.Entities, stats.LastDuration))

	if v.imgui != nil {
		v.imgui.Draw(screen)
	}
	v.flushReleased()
}

func (v *View) drawGrid(screen *ebiten.Image) {
	w, h := float32(v.camera.ScreenW), float32(v.camera.ScreenH)
	if v.camera.scale()*gridSpacing < 8 {
		return
	}

	left, top := v.camera.ScreenToWorld(0, 0)
	right, bottom := v.camera.ScreenToWorld(w, h)
	for x := floorTo(left, gridSpacing); x <= right; x += gridSpacing {
		sx, _ := v.camera.WorldToScreen(x, 0)
		vector.StrokeLine(screen, sx, 0, sx, h, 1, gridColor, false)
	}
	for z := floorTo(top, gridSpacing); z <= bottom; z += gridSpacing {
		_, sy := v.camera.WorldToScreen(0, z)
		vector.StrokeLine(screen, 0, sy, w, sy, 1, gridColor, false)
	}
}

func floorTo(v, step float32) float32 {
	n := int(v / step)
	if float32(n)*step > v {
		n--
	}
	return float32(n) * step
}

func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.camera.ScreenW = outsideWidth
	v.camera.ScreenH = outsideHeight
	if v.imgui != nil {
		v.imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
