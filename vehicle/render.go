package vehicle

import (
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
)

// Render draws a shared model at the entity transform once per tick.
type Render struct {
	ecs.Base

	model  *gfx.Model
	cache  *gfx.ModelCache
	drawer gfx.Drawer
}

// NewRender acquires the model for path from cache. The model is released
// again when the component is cleaned up.
func NewRender(cache *gfx.ModelCache, drawer gfx.Drawer, path string) (*Render, error) {
	model, err := cache.Acquire(path)
	if err != nil {
		return nil, err
	}
	return &Render{
		model:  model,
		cache:  cache,
		drawer: drawer,
	}, nil
}

func (*Render) Kind() ecs.Kind { return ecs.KindRender }

// Model returns the shared model handle.
func (r *Render) Model() *gfx.Model {
	return r.model
}

// Tick composes the entity placement onto the model transform for the
// duration of a single draw call.
func (r *Render) Tick(dt float64) {
	transform := ecs.FindComponent[*ecs.Transform](r.Owner())
	if transform == nil || r.model == nil {
		return
	}

	backup := r.model.Transform
	r.model.Transform = transform.Matrix().Mul4(backup)
	r.drawer.Draw(r.model.Mesh, r.model.Transform)
	r.model.Transform = backup
}

func (r *Render) Cleanup() {
	if r.model == nil {
		return
	}
	r.cache.Release(r.model)
	r.model = nil
}
