package gfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoPath is returned by Recorder for an empty path.
var ErrNoPath = errors.New("empty model path")

// DrawCall is one recorded Draw invocation.
type DrawCall struct {
	Mesh      Mesh
	Transform mgl32.Mat4
}

// RecordedMesh is the geometry handed out by Recorder.
type RecordedMesh struct {
	Path     string
	Unloaded bool
}

func (m *RecordedMesh) Unload() {
	m.Unloaded = true
}

// Recorder is a Backend that keeps no geometry and records every draw.
// It serves headless runs and tests.
type Recorder struct {
	// Missing lists paths that fail to load.
	Missing map[string]bool
	// Discard drops draw calls instead of recording them.
	Discard bool

	Loads []string
	Calls []DrawCall
}

func (r *Recorder) LoadMesh(path string) (Mesh, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if r.Missing[path] {
		return nil, errors.New("no such model")
	}
	r.Loads = append(r.Loads, path)
	return &RecordedMesh{Path: path}, nil
}

func (r *Recorder) Draw(mesh Mesh, transform mgl32.Mat4) {
	if r.Discard {
		return
	}
	r.Calls = append(r.Calls, DrawCall{Mesh: mesh, Transform: transform})
}

// Reset clears recorded draw calls.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}
