package ecs

import "go.uber.org/zap"

// Kind tags the closed set of component variants. Lookup compares kinds
// before attempting a type assertion.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindTransform
	KindPhysics
	KindRender
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindPhysics:
		return "physics"
	case KindRender:
		return "render"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

// Component is a behavior unit owned by exactly one entity.
// Implementations embed Base and must return their Kind without
// dereferencing the receiver, so that Kind can be queried on a nil pointer.
type Component interface {
	Kind() Kind
	Setup()
	Tick(dt float64)
	Cleanup()

	base() *Base
}

// Base carries the back-reference from a component to its owning entity.
// The reference is a stable handle rather than an address, so relocating
// the entity inside the world arena never requires patching components.
type Base struct {
	owner EntityId
	world *World
}

func (b *Base) base() *Base { return b }

// Setup is a no-op default.
func (b *Base) Setup() {}

// Tick is a no-op default.
func (b *Base) Tick(dt float64) {}

// Cleanup is a no-op default.
func (b *Base) Cleanup() {}

// EntityId returns the handle of the owning entity.
func (b *Base) EntityId() EntityId {
	return b.owner
}

// World returns the world the owning entity lives in.
func (b *Base) World() *World {
	return b.world
}

// Owner resolves the owning entity. It returns nil once the entity has been
// despawned or if the component was never added to one.
func (b *Base) Owner() *Entity {
	if b.world == nil {
		return nil
	}
	return b.world.Entity(b.owner)
}

// Logger returns the world logger scoped to the owning entity.
func (b *Base) Logger() *zap.Logger {
	if b.world == nil {
		return zap.NewNop()
	}
	return b.world.logger.With(zap.Stringer("entity", b.owner))
}

func (b *Base) bind(world *World, owner EntityId) {
	b.world = world
	b.owner = owner
}

// kindOf returns the tag for component type K, or KindUnknown when K is an
// interface type and no single tag applies.
func kindOf[K Component]() Kind {
	var zero K
	if any(zero) == nil {
		return KindUnknown
	}
	return zero.Kind()
}
