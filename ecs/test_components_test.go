package ecs_test

import "github.com/plus3/flotilla/ecs"

// Common test component types

// Tracer records lifecycle calls into a shared log.
type Tracer struct {
	ecs.Base
	Name string
	Log  *[]string

	Ticks    int
	LastDt   float64
	SetupRan int
	Cleaned  int
}

func (*Tracer) Kind() ecs.Kind { return ecs.KindRender }

func (t *Tracer) Setup() {
	t.SetupRan++
	t.record("setup:" + t.Name)
}

func (t *Tracer) Tick(dt float64) {
	t.Ticks++
	t.LastDt = dt
	t.record("tick:" + t.Name)
}

func (t *Tracer) Cleanup() {
	t.Cleaned++
	t.record("cleanup:" + t.Name)
}

func (t *Tracer) record(s string) {
	if t.Log != nil {
		*t.Log = append(*t.Log, s)
	}
}

// Mover shares KindPhysics but is not a Tracer.
type Mover struct {
	ecs.Base
	DX float32
}

func (*Mover) Kind() ecs.Kind { return ecs.KindPhysics }

func (m *Mover) Tick(dt float64) {
	t := ecs.FindComponent[*ecs.Transform](m.Owner())
	if t == nil {
		return
	}
	t.Position[0] += m.DX * float32(dt)
}

// Marker shares KindRender with Tracer to exercise tag-then-assert lookup.
type Marker struct {
	ecs.Base
	Label string
}

func (*Marker) Kind() ecs.Kind { return ecs.KindRender }

// Ticker is a capability interface satisfied by Tracer only.
type Ticker interface {
	ecs.Component
	TickCount() int
}

func (t *Tracer) TickCount() int { return t.Ticks }
