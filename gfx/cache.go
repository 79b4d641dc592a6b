package gfx

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// ModelCache loads each path once and hands out reference-counted models.
// It is not safe for concurrent use.
type ModelCache struct {
	loader Loader
	models *intmap.Map[uint64, *Model]
	logger *zap.Logger
}

// NewModelCache creates a cache over loader. A nil logger disables logging.
func NewModelCache(loader Loader, logger *zap.Logger) *ModelCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelCache{
		loader: loader,
		models: intmap.New[uint64, *Model](16),
		logger: logger,
	}
}

// Acquire returns the model for path, loading it on first use.
func (c *ModelCache) Acquire(path string) (*Model, error) {
	key := xxhash.Sum64String(path)

	if m, ok := c.models.Get(key); ok && m.Path == path {
		m.refs++
		return m, nil
	}

	mesh, err := c.loader.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelLoad, path, err)
	}
	if mesh == nil {
		return nil, fmt.Errorf("%w: %s: loader returned no mesh", ErrModelLoad, path)
	}

	m := &Model{
		Path:      path,
		Mesh:      mesh,
		Transform: mgl32.Ident4(),
		key:       key,
		refs:      1,
	}
	if prev, ok := c.models.Get(key); ok {
		c.logger.Warn("model path hash collision, replacing cached entry",
			zap.String("path", path),
			zap.String("previous", prev.Path),
		)
	}
	c.models.Put(key, m)

	c.logger.Debug("model loaded", zap.String("path", path))
	return m, nil
}

// Release drops one reference to m and unloads its mesh when none remain.
func (c *ModelCache) Release(m *Model) {
	if m == nil || m.refs == 0 {
		return
	}
	m.refs--
	if m.refs > 0 {
		return
	}

	if cached, ok := c.models.Get(m.key); ok && cached == m {
		c.models.Del(m.key)
	}
	m.Mesh.Unload()
	c.logger.Debug("model unloaded", zap.String("path", m.Path))
}

// Len returns the number of cached models.
func (c *ModelCache) Len() int {
	return c.models.Len()
}

// Close unloads every cached model regardless of outstanding references.
func (c *ModelCache) Close() {
	c.models.ForEach(func(_ uint64, m *Model) bool {
		m.refs = 0
		m.Mesh.Unload()
		return true
	})
	c.models.Clear()
}
