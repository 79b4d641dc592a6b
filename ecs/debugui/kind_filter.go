package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flotilla/ecs"
)

var allKinds = []ecs.Kind{ecs.KindTransform, ecs.KindPhysics, ecs.KindRender, ecs.KindInput}

func NewKindFilterComponent() KindFilterComponent {
	return KindFilterComponent{
		selectedKinds: make(map[ecs.Kind]bool),
	}
}

func (kf *KindFilterComponent) Render(world *ecs.World) {
	if !imgui.BeginV("Kind Filter", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Kinds:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		kf.selectedKinds = make(map[ecs.Kind]bool)
	}

	for _, kind := range allKinds {
		selected := kf.selectedKinds[kind]
		if imgui.Checkbox(kind.String(), &selected) {
			if selected {
				kf.selectedKinds[kind] = true
			} else {
				delete(kf.selectedKinds, kind)
			}
		}
	}

	imgui.Separator()

	if len(kf.selectedKinds) == 0 {
		imgui.Text("No component kinds selected")
		imgui.End()
		return
	}

	matching := matchKinds(world, kf.selectedKinds)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entity Details") {
		for _, id := range matching {
			imgui.BulletText(id.String())
		}
		imgui.TreePop()
	}

	imgui.End()
}

// matchKinds returns, in roster order, the entities holding at least one
// component of every required kind.
func matchKinds(world *ecs.World, required map[ecs.Kind]bool) []ecs.EntityId {
	var matching []ecs.EntityId
	for id, e := range world.Entities() {
		found := make(map[ecs.Kind]bool, len(required))
		for _, c := range e.Components() {
			if required[c.Kind()] {
				found[c.Kind()] = true
			}
		}
		if len(found) == len(required) {
			matching = append(matching, id)
		}
	}
	return matching
}
