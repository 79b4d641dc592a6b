package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flotilla/ecs"
)

// CompositionInfo counts the entities sharing one ordered list of kinds.
type CompositionInfo struct {
	Signature      string
	ComponentCount int
	EntityCount    int
}

type CompositionViewerCache struct {
	compositions  []CompositionInfo
	sortColumn    int
	sortAscending bool
}

func NewCompositionViewerComponent() CompositionViewerComponent {
	return CompositionViewerComponent{
		cache: &CompositionViewerCache{
			sortColumn:    2,
			sortAscending: false,
		},
		sortColumn:    2,
		sortAscending: false,
	}
}

// Render draws the composition table and returns the signature clicked this
// frame, if any.
func (cv *CompositionViewerComponent) Render(world *ecs.World) *string {
	if !imgui.BeginV("Composition Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	cv.rebuildCache(world)

	maxEntityCount := 0
	for _, comp := range cv.cache.compositions {
		maxEntityCount = max(maxEntityCount, comp.EntityCount)
	}

	var clicked *string

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("CompositionTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kinds")
		imgui.TableSetupColumn("Comp Count")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			cv.cache.sortColumn = int(spec.ColumnIndex())
			cv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			cv.sortColumn = cv.cache.sortColumn
			cv.sortAscending = cv.cache.sortAscending
			cv.sortCompositions()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, comp := range cv.cache.compositions {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := cv.selectedSignature != nil && *cv.selectedSignature == comp.Signature
			if imgui.SelectableBoolV(comp.Signature, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				signature := comp.Signature
				clicked = &signature
				cv.selectedSignature = &signature
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", comp.ComponentCount))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", comp.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(comp.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	imgui.End()
	return clicked
}

func (cv *CompositionViewerComponent) rebuildCache(world *ecs.World) {
	cv.cache.compositions = collectCompositions(world)
	cv.sortCompositions()
}

// collectCompositions groups entities by their ordered kind signature, in
// order of first appearance in the roster.
func collectCompositions(world *ecs.World) []CompositionInfo {
	var compositions []CompositionInfo
	index := make(map[string]int)
	for _, e := range world.Entities() {
		info := describeEntity(e)
		i, ok := index[info.Signature]
		if !ok {
			i = len(compositions)
			index[info.Signature] = i
			compositions = append(compositions, CompositionInfo{
				Signature:      info.Signature,
				ComponentCount: info.ComponentCount,
			})
		}
		compositions[i].EntityCount++
	}
	return compositions
}

func (cv *CompositionViewerComponent) sortCompositions() {
	sort.SliceStable(cv.cache.compositions, func(i, j int) bool {
		a, b := cv.cache.compositions[i], cv.cache.compositions[j]
		var less bool

		switch cv.cache.sortColumn {
		case 0:
			less = strings.Compare(a.Signature, b.Signature) < 0
		case 1:
			less = a.ComponentCount < b.ComponentCount
		default:
			less = a.EntityCount < b.EntityCount
		}

		if !cv.cache.sortAscending {
			return !less
		}
		return less
	})
}
