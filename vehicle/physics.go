// Package vehicle provides the physics, render and input components that
// drive planes and ships across the water plane.
package vehicle

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
)

// PhysicsConfig is fixed at construction.
type PhysicsConfig struct {
	// Acceleration is the speed change per second while approaching TargetSpeed.
	Acceleration float32
	// Turning is the heading change in radians per second.
	Turning  float32
	MaxSpeed float32
	// ClampSpeed limits |Speed| to MaxSpeed after each step.
	ClampSpeed bool
}

// Physics integrates speed and heading into the entity position on the
// horizontal plane.
type Physics struct {
	ecs.Base

	Velocity      mgl32.Vec3
	Speed         float32
	TargetSpeed   float32
	TargetHeading float32

	config PhysicsConfig
}

// NewPhysics creates a physics component at rest.
func NewPhysics(config PhysicsConfig) *Physics {
	return &Physics{config: config}
}

func (*Physics) Kind() ecs.Kind { return ecs.KindPhysics }

// Config returns the construction parameters.
func (p *Physics) Config() PhysicsConfig {
	return p.config
}

// Setup aims at the heading the entity was spawned with.
func (p *Physics) Setup() {
	transform := ecs.FindComponent[*ecs.Transform](p.Owner())
	if transform == nil {
		return
	}
	p.TargetHeading = transform.Heading
}

func (p *Physics) Tick(dt float64) {
	transform := ecs.FindComponent[*ecs.Transform](p.Owner())
	if transform == nil {
		return
	}
	step := float32(dt)

	p.Speed = approach(p.Speed, p.TargetSpeed, p.config.Acceleration*step)
	transform.Heading = approach(transform.Heading, p.TargetHeading, p.config.Turning*step)

	if p.config.ClampSpeed {
		p.Speed = mgl32.Clamp(p.Speed, -p.config.MaxSpeed, p.config.MaxSpeed)
	}

	sin, cos := math.Sincos(float64(transform.Heading))
	p.Velocity = mgl32.Vec3{p.Speed * float32(cos), 0, -p.Speed * float32(sin)}
	transform.Position = transform.Position.Add(p.Velocity.Mul(step))
}

// approach moves current toward target by at most delta.
func approach(current, target, delta float32) float32 {
	if delta <= 0 {
		return current
	}
	switch {
	case current < target:
		return min(current+delta, target)
	case current > target:
		return max(current-delta, target)
	default:
		return current
	}
}
