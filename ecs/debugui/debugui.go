// Package debugui renders Dear ImGui windows that inspect a running World:
// an entity browser, a component inspector, a composition viewer, a kind
// filter and frame statistics.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flotilla/ecs"
)

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Backends check it before forwarding input to the world.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay groups every debug window for one world. Render must be called
// between the ImGui backend's BeginFrame and EndFrame.
type Overlay struct {
	world       *ecs.World
	browser     EntityBrowserComponent
	inspector   ComponentInspectorComponent
	composition CompositionViewerComponent
	filter      KindFilterComponent
	performance PerformanceStatsComponent

	Input InputState
}

// New creates the overlay for world keeping historyFrames of frame times.
func New(world *ecs.World, historyFrames int) *Overlay {
	return &Overlay{
		world:       world,
		browser:     NewEntityBrowserComponent(100),
		inspector:   NewComponentInspectorComponent(),
		composition: NewCompositionViewerComponent(),
		filter:      NewKindFilterComponent(),
		performance: NewPerformanceStatsComponent(historyFrames),
	}
}

// Selected returns the entity picked in the browser, or 0.
func (o *Overlay) Selected() ecs.EntityId {
	return o.browser.GetSelectedEntity()
}

// Render draws all windows. dt is the wall time of the last frame in seconds.
func (o *Overlay) Render(dt float32) {
	io := imgui.CurrentIO()
	o.Input.WantCaptureMouse = io.WantCaptureMouse()
	o.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	if signature := o.composition.Render(o.world); signature != nil {
		o.browser.filterSignature = signature
	}
	o.browser.Render(o.world)
	o.inspector.Render(o.world, o.browser.GetSelectedEntity())
	o.filter.Render(o.world)
	o.performance.Render(o.world, dt)
}
