package ecs_test

import (
	"testing"

	"github.com/plus3/flotilla/ecs"
	"github.com/stretchr/testify/assert"
)

func TestCommandsDespawn(t *testing.T) {
	world := ecs.NewWorld()
	tracer := &Tracer{}
	id := world.Spawn(tracer)

	cmds := world.Commands()
	cmds.Despawn(id)
	assert.Equal(t, 1, cmds.Pending())
	assert.True(t, world.Alive(id), "despawn must wait for flush")

	cmds.Flush(world)
	assert.False(t, world.Alive(id))
	assert.Equal(t, 1, tracer.Cleaned)
	assert.Equal(t, 0, cmds.Pending())
}

func TestCommandsRemoveComponent(t *testing.T) {
	world := ecs.NewWorld()
	keep := &Tracer{Name: "keep"}
	drop := &Tracer{Name: "drop"}
	id := world.Spawn(keep, drop)

	world.Commands().RemoveComponent(id, drop)
	world.Tick(0.1)

	e := world.Entity(id)
	assert.Equal(t, 2, e.Len())
	assert.Same(t, keep, ecs.FindComponent[*Tracer](e))
	assert.Equal(t, 1, drop.Cleaned)
	assert.Equal(t, 0, keep.Cleaned)
}

func TestCommandsRemoveSkipsDespawned(t *testing.T) {
	world := ecs.NewWorld()
	tracer := &Tracer{}
	id := world.Spawn(tracer)

	cmds := world.Commands()
	cmds.RemoveComponent(id, tracer)
	cmds.Despawn(id)
	cmds.Flush(world)

	assert.Equal(t, 1, tracer.Cleaned, "component cleaned up exactly once")
}

func TestCommandsDeferRunsAfterTicks(t *testing.T) {
	world := ecs.NewWorld()
	var log []string
	world.Spawn(&Tracer{Name: "a", Log: &log})

	world.Commands().Defer(func() { log = append(log, "deferred") })
	world.Tick(0.1)
	world.Tick(0.1)

	assert.Equal(t, []string{"setup:a", "tick:a", "deferred", "tick:a"}, log)
}

func TestCommandsQueuedDuringFlushWaitForNextFlush(t *testing.T) {
	world := ecs.NewWorld()
	var log []string

	cmds := world.Commands()
	cmds.Defer(func() {
		log = append(log, "first")
		cmds.Defer(func() { log = append(log, "second") })
	})

	cmds.Flush(world)
	assert.Equal(t, []string{"first"}, log)
	assert.Equal(t, 1, cmds.Pending())

	cmds.Flush(world)
	assert.Equal(t, []string{"first", "second"}, log)
}
