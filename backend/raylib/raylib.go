// Package raylib is the 3D backend: a raylib window with a fixed camera over a
// textured water plane. Entities draw themselves during the world tick, which
// runs inside the 3D pass.
package raylib

import (
	"context"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
	"github.com/plus3/flotilla/input"
	"github.com/plus3/flotilla/scene"
	"go.uber.org/zap"
)

// Mesh is a loaded raylib model.
type Mesh struct {
	model rl.Model
}

func (m *Mesh) Unload() {
	rl.UnloadModel(m.model)
}

// Window owns the raylib context. Only one may be open at a time, and every
// method must be called from the goroutine that opened it.
type Window struct {
	camera   rl.Camera3D
	ground   rl.Model
	textures []rl.Texture2D
	skybox   *rl.Texture2D
	keyboard *input.EdgeDetector
	logger   *zap.Logger
}

// Open creates the window and loads the ground and skybox described by c.
// Missing textures are logged and skipped.
func Open(c *scene.Config, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(c.Window.Width), int32(c.Window.Height), c.Window.Title)
	rl.SetTargetFPS(int32(c.Window.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	w := &Window{
		camera: rl.Camera3D{
			Position:   vec3(c.Camera.Position),
			Target:     vec3(c.Camera.Target),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       c.Camera.Fovy,
			Projection: rl.CameraPerspective,
		},
		keyboard: input.NewEdgeDetector(isKeyDown),
		logger:   logger.Named("raylib"),
	}

	w.ground = rl.LoadModelFromMesh(rl.GenMeshPlane(c.Ground.Size, c.Ground.Size, 1, 1))
	if c.Ground.Texture != "" {
		if tex, ok := w.loadTexture(c.Resolve(c.Ground.Texture)); ok {
			rl.SetMaterialTexture(w.ground.Materials, rl.MapDiffuse, tex)
		}
	}
	if c.Skybox != "" {
		if tex, ok := w.loadTexture(c.Resolve(c.Skybox)); ok {
			w.skybox = &tex
		}
	}
	return w
}

func (w *Window) loadTexture(path string) (rl.Texture2D, bool) {
	if !rl.FileExists(path) {
		w.logger.Warn("texture not found", zap.String("path", path))
		return rl.Texture2D{}, false
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		w.logger.Warn("texture failed to load", zap.String("path", path))
		return rl.Texture2D{}, false
	}
	w.textures = append(w.textures, tex)
	return tex, true
}

// LoadMesh loads a model file (glb, gltf, obj, iqm, vox or m3d).
func (w *Window) LoadMesh(path string) (gfx.Mesh, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	model := rl.LoadModel(path)
	if model.MeshCount == 0 {
		rl.UnloadModel(model)
		return nil, fmt.Errorf("no meshes in %s", path)
	}
	return &Mesh{model: model}, nil
}

// Draw renders mesh at transform. It must be called inside the 3D pass.
func (w *Window) Draw(mesh gfx.Mesh, transform mgl32.Mat4) {
	m, ok := mesh.(*Mesh)
	if !ok {
		w.logger.Debug("skipping foreign mesh", zap.String("type", fmt.Sprintf("%T", mesh)))
		return
	}
	model := m.model
	model.Transform = toMatrix(transform)
	rl.DrawModel(model, rl.Vector3{}, 1, rl.White)
}

// Keyboard returns the edge-triggered keyboard, sampled once per frame by Run.
func (w *Window) Keyboard() input.Device {
	return w.keyboard
}

// Run ticks world once per rendered frame until the window is closed or ctx
// is done.
func (w *Window) Run(ctx context.Context, world *ecs.World) error {
	w.logger.Info("running", zap.Int("entities", world.Len()))
	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		w.keyboard.Update()
		dt := rl.GetFrameTime()

		rl.BeginDrawing()
		rl.ClearBackground(rl.SkyBlue)
		w.drawSkybox()

		rl.BeginMode3D(w.camera)
		rl.DrawModel(w.ground, rl.Vector3{}, 1, rl.White)
		world.Tick(float64(dt))
		rl.EndMode3D()

		rl.DrawFPS(10, 10)
		rl.EndDrawing()
	}
	return nil
}

// drawSkybox stretches the skybox texture over the whole screen behind the
// 3D pass.
func (w *Window) drawSkybox() {
	if w.skybox == nil {
		return
	}
	src := rl.NewRectangle(0, 0, float32(w.skybox.Width), float32(w.skybox.Height))
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.DrawTexturePro(*w.skybox, src, dst, rl.Vector2{}, 0, rl.White)
}

// Close releases the ground and textures and closes the window. Models still
// held by a cache must be released first.
func (w *Window) Close() {
	rl.UnloadModel(w.ground)
	for _, tex := range w.textures {
		rl.UnloadTexture(tex)
	}
	rl.CloseWindow()
}

func vec3(v [3]float32) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// toMatrix converts a column-major mgl32 matrix. raylib stores m0..m3 as the
// first column as well, so elements map one to one.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}

var keyCodes = map[input.Key]int32{
	input.KeyW:      rl.KeyW,
	input.KeyA:      rl.KeyA,
	input.KeyS:      rl.KeyS,
	input.KeyD:      rl.KeyD,
	input.KeyQ:      rl.KeyQ,
	input.KeyE:      rl.KeyE,
	input.KeyUp:     rl.KeyUp,
	input.KeyDown:   rl.KeyDown,
	input.KeyLeft:   rl.KeyLeft,
	input.KeyRight:  rl.KeyRight,
	input.KeySpace:  rl.KeySpace,
	input.KeyTab:    rl.KeyTab,
	input.KeyEscape: rl.KeyEscape,
}

func isKeyDown(k input.Key) bool {
	code, ok := keyCodes[k]
	return ok && rl.IsKeyDown(code)
}
