package ecs

import (
	"fmt"
	"iter"
	"slices"
)

// EntityId encodes both the slot generation (upper 32 bits) and the arena slot index (lower 32 bits)
type EntityId uint64

// NewEntityId creates an EntityId from a generation and slot index
func NewEntityId(generation uint32, index uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the arena slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d:%d", e.Index(), e.Generation())
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Entity is an ordered owner of components. Component 0 is always a
// *Transform. Entities live inside a World arena and are addressed by
// EntityId; a *Entity is only valid until the next structural change of
// the world.
type Entity struct {
	noCopy noCopy

	id         EntityId
	owner      *World
	components []Component
	ready      bool
}

// ID returns the stable handle of the entity.
func (e *Entity) ID() EntityId {
	return e.id
}

// Len returns the number of owned components.
func (e *Entity) Len() int {
	return len(e.components)
}

// At returns the component at index i, or nil if i is out of range.
func (e *Entity) At(i int) Component {
	if i < 0 || i >= len(e.components) {
		return nil
	}
	return e.components[i]
}

// Components iterates owned components in insertion order.
func (e *Entity) Components() iter.Seq2[int, Component] {
	return func(yield func(int, Component) bool) {
		for i, c := range e.components {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Transform returns the transform at index 0.
func (e *Entity) Transform() *Transform {
	return FindComponent[*Transform](e)
}

// AddComponent binds c to the entity, appends it and returns its index.
// If the entity has already been set up, c.Setup runs immediately.
func (e *Entity) AddComponent(c Component) int {
	if c == nil {
		panic("cannot add nil component")
	}
	if e.owner == nil {
		panic("cannot add component to an entity that is not part of a world")
	}
	b := c.base()
	if b.world != nil {
		panic("component " + c.Kind().String() + " is already owned by an entity")
	}

	b.bind(e.owner, e.id)
	e.components = append(e.components, c)
	index := len(e.components) - 1

	if e.ready {
		c.Setup()
	}
	return index
}

// RemoveComponent runs Cleanup on the component at index and drops it.
// The transform at index 0 cannot be removed. While the world is ticking the
// removal is queued on its Commands and applied after the frame.
func (e *Entity) RemoveComponent(index int) bool {
	if index <= 0 || index >= len(e.components) {
		return false
	}
	c := e.components[index]
	if e.owner.ticking {
		e.owner.commands.RemoveComponent(e.id, c)
		return true
	}
	e.components = slices.Delete(e.components, index, index+1)
	c.Cleanup()
	c.base().bind(nil, 0)
	return true
}

// Tick ticks every component in insertion order.
func (e *Entity) Tick(dt float64) {
	for _, c := range e.components {
		c.Tick(dt)
	}
}

func (e *Entity) setup() {
	e.ready = true
	for _, c := range e.components {
		c.Setup()
	}
}

func (e *Entity) cleanup() {
	for i := len(e.components) - 1; i >= 0; i-- {
		e.components[i].Cleanup()
		e.components[i].base().bind(nil, 0)
	}
	e.components = nil
	e.ready = false
}

// GetComponent returns the first component of type K in insertion order.
// For *Transform the slot at index 0 is checked before scanning.
func GetComponent[K Component](e *Entity) (K, bool) {
	var zero K
	if e == nil {
		return zero, false
	}

	kind := kindOf[K]()
	if kind == KindTransform && len(e.components) > 0 {
		if c, ok := e.components[0].(K); ok {
			return c, true
		}
	}

	for _, c := range e.components {
		if kind != KindUnknown && c.Kind() != kind {
			continue
		}
		if match, ok := c.(K); ok {
			return match, true
		}
	}
	return zero, false
}

// FindComponent is GetComponent for callers that prefer a nil result over
// a second return value.
func FindComponent[K Component](e *Entity) K {
	c, _ := GetComponent[K](e)
	return c
}

// IndexOf returns the index of the first component of type K, or -1.
func IndexOf[K Component](e *Entity) int {
	if e == nil {
		return -1
	}
	kind := kindOf[K]()
	for i, c := range e.components {
		if kind != KindUnknown && c.Kind() != kind {
			continue
		}
		if _, ok := c.(K); ok {
			return i
		}
	}
	return -1
}
