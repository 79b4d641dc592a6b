package ecs

import (
	"context"
	"iter"
	"slices"
	"time"

	"go.uber.org/zap"
)

// WorldStats provides statistics about frame execution.
type WorldStats struct {
	Frames        int64
	Entities      int
	Components    int
	SimulatedTime float64
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

type worldStatsInternal struct {
	frames        int64
	simulated     float64
	minDuration   time.Duration
	maxDuration   time.Duration
	totalDuration time.Duration
	lastDuration  time.Duration
}

// World owns every entity and drives the per-frame tick. Entities tick in
// roster (spawn) order and components within an entity in insertion order.
type World struct {
	entities *arena[Entity]
	roster   []EntityId
	commands *Commands
	logger   *zap.Logger
	ticking  bool
	stats    worldStatsInternal
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for structural events.
func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithCapacity preallocates room for n entities.
func WithCapacity(n int) Option {
	return func(w *World) {
		w.entities = newArena[Entity](n)
		w.roster = make([]EntityId, 0, n)
	}
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		entities: newArena[Entity](0),
		commands: newCommands(),
		logger:   zap.NewNop(),
		stats: worldStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Logger returns the world logger.
func (w *World) Logger() *zap.Logger {
	return w.logger
}

// Spawn creates an entity with a default transform followed by components,
// then runs Setup on every component in insertion order.
func (w *World) Spawn(components ...Component) EntityId {
	return w.SpawnWithTransform(nil, components...)
}

// SpawnWithTransform is Spawn with an explicit transform at index 0.
// A nil transform falls back to the default.
func (w *World) SpawnWithTransform(transform *Transform, components ...Component) EntityId {
	if transform == nil {
		transform = newDefaultTransform()
	}

	index, gen := w.entities.alloc()
	id := NewEntityId(gen, uint32(index))

	e := w.entities.get(index, gen)
	e.id = id
	e.owner = w
	e.components = make([]Component, 0, len(components)+1)

	e.AddComponent(transform)
	for _, c := range components {
		e.AddComponent(c)
	}
	w.roster = append(w.roster, id)

	w.logger.Debug("entity spawned",
		zap.Stringer("entity", id),
		zap.Int("components", e.Len()),
	)

	// Setup may spawn further entities and relocate this one.
	w.Entity(id).setup()
	return id
}

// Despawn runs Cleanup on every component in reverse insertion order and
// invalidates the handle. While the world is ticking the despawn is queued
// and applied at the end of the frame.
func (w *World) Despawn(id EntityId) bool {
	e := w.Entity(id)
	if e == nil {
		return false
	}
	if w.ticking {
		w.commands.Despawn(id)
		return true
	}

	e.cleanup()
	w.entities.free(int(id.Index()))
	if i := slices.Index(w.roster, id); i >= 0 {
		w.roster = slices.Delete(w.roster, i, i+1)
	}

	w.logger.Debug("entity despawned", zap.Stringer("entity", id))
	return true
}

// Entity resolves a handle to the entity's current address, or nil if the
// handle is stale. The pointer is invalidated by the next Spawn.
func (w *World) Entity(id EntityId) *Entity {
	if id == 0 {
		return nil
	}
	return w.entities.get(int(id.Index()), id.Generation())
}

// Alive reports whether id refers to a live entity.
func (w *World) Alive(id EntityId) bool {
	return w.Entity(id) != nil
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.len()
}

// Roster returns live entity ids in tick order.
func (w *World) Roster() []EntityId {
	return slices.Clone(w.roster)
}

// Entities iterates live entities in tick order.
func (w *World) Entities() iter.Seq2[EntityId, *Entity] {
	return func(yield func(EntityId, *Entity) bool) {
		for i := 0; i < len(w.roster); i++ {
			id := w.roster[i]
			e := w.Entity(id)
			if e == nil {
				continue
			}
			if !yield(id, e) {
				return
			}
		}
	}
}

// Commands returns the deferred command buffer flushed after each Tick.
func (w *World) Commands() *Commands {
	return w.commands
}

// Tick advances every entity by dt seconds, then flushes deferred commands.
func (w *World) Tick(dt float64) {
	start := time.Now()

	w.ticking = true
	for i := 0; i < len(w.roster); i++ {
		if e := w.Entity(w.roster[i]); e != nil {
			e.Tick(dt)
		}
	}
	w.ticking = false

	w.commands.Flush(w)

	duration := time.Since(start)
	w.stats.frames++
	w.stats.simulated += dt
	w.stats.lastDuration = duration
	w.stats.totalDuration += duration
	if duration < w.stats.minDuration {
		w.stats.minDuration = duration
	}
	if duration > w.stats.maxDuration {
		w.stats.maxDuration = duration
	}
}

// Run ticks the world repeatedly at the given interval until the context is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			w.Tick(dt)
		}
	}
}

// Stats returns statistics about frame execution and world contents.
func (w *World) Stats() WorldStats {
	stats := WorldStats{
		Frames:        w.stats.frames,
		Entities:      w.entities.len(),
		SimulatedTime: w.stats.simulated,
		MaxDuration:   w.stats.maxDuration,
		LastDuration:  w.stats.lastDuration,
		TotalDuration: w.stats.totalDuration,
	}
	if w.stats.frames > 0 {
		stats.MinDuration = w.stats.minDuration
		stats.AvgDuration = w.stats.totalDuration / time.Duration(w.stats.frames)
	}
	for _, e := range w.Entities() {
		stats.Components += e.Len()
	}
	return stats
}
