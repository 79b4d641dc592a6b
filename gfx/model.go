// Package gfx defines the boundary between the simulation core and a
// rendering backend: loading geometry by path and issuing draw calls.
package gfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrModelLoad is wrapped by every error returned from a failed model load.
var ErrModelLoad = errors.New("model load failed")

// Mesh is backend-owned geometry. It is opaque to the core.
type Mesh interface {
	Unload()
}

// Loader resolves a path to geometry.
type Loader interface {
	LoadMesh(path string) (Mesh, error)
}

// Drawer issues one draw call for mesh placed by transform.
type Drawer interface {
	Draw(mesh Mesh, transform mgl32.Mat4)
}

// Backend is a Loader and Drawer pair.
type Backend interface {
	Loader
	Drawer
}

// Model is a loaded mesh shared between every entity that renders the same
// path. Transform is the model's base transform, applied before the
// entity placement.
type Model struct {
	Path      string
	Mesh      Mesh
	Transform mgl32.Mat4

	key  uint64
	refs int
}

// Refs returns the number of holders of the model.
func (m *Model) Refs() int {
	return m.refs
}
