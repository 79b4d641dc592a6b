package ecs

// Commands provides a buffer for deferred structural changes that are applied at the end of a frame.
// Entities and components must not be removed while the world is iterating its roster.
type Commands struct {
	despawns []EntityId
	removes  []removeComponentCommand
	defers   []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type removeComponentCommand struct {
	entity    EntityId
	component Component
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Despawn queues an entity despawn operation.
func (c *Commands) Despawn(entity EntityId) {
	c.despawns = append(c.despawns, entity)
}

// RemoveComponent queues removal of a specific component instance.
func (c *Commands) RemoveComponent(entity EntityId, component Component) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:    entity,
		component: component,
	})
}

// Pending reports the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.despawns) + len(c.removes) + len(c.defers)
}

// Flush applies all commands to the world, resetting the buffer state.
// Commands queued while flushing are kept for the next flush.
func (c *Commands) Flush(world *World) {
	despawns, removes, defers := c.despawns, c.removes, c.defers
	c.despawns, c.removes, c.defers = nil, nil, nil

	despawned := make(map[EntityId]bool, len(despawns))

	for _, id := range despawns {
		if world.Despawn(id) {
			despawned[id] = true
		}
	}

	for _, cmd := range removes {
		if despawned[cmd.entity] {
			continue
		}
		e := world.Entity(cmd.entity)
		if e == nil {
			continue
		}
		for i, comp := range e.components {
			if comp == cmd.component {
				e.RemoveComponent(i)
				break
			}
		}
	}

	for _, df := range defers {
		df.fn()
	}
}
