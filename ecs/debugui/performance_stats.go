package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/flotilla/ecs"
)

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	historyFrames = max(historyFrames, 1)
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		tickHistory:   make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PerformanceStatsComponent) Render(world *ecs.World, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := world.Stats()
	ps.record(deltaTime, stats)

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.Entities))
	imgui.Text(fmt.Sprintf("Components: %d", stats.Components))
	imgui.Text(fmt.Sprintf("Frames: %d (%.1fs simulated)", stats.Frames, stats.SimulatedTime))

	avgFrameTime := ps.average()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}
	imgui.Text(fmt.Sprintf("Tick: last %s, min %s, max %s, avg %s",
		stats.LastDuration, stats.MinDuration, stats.MaxDuration, stats.AvgDuration))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))
	imgui.Text("World Tick Graph (ms)")
	imgui.PlotLinesFloatPtr("##ticktime", &ps.tickHistory[0], int32(len(ps.tickHistory)))

	if imgui.TreeNodeStr("Kind Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("KindStatsTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Kind")
			imgui.TableSetupColumn("Components")
			imgui.TableHeadersRow()

			counts := countKinds(world)
			for _, kind := range allKinds {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(kind.String())
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", counts[kind]))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ps *PerformanceStatsComponent) record(deltaTime float32, stats ecs.WorldStats) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.tickHistory[ps.frameIndex] = float32(stats.LastDuration.Seconds() * 1000.0)
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

func (ps *PerformanceStatsComponent) average() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

func countKinds(world *ecs.World) map[ecs.Kind]int {
	counts := make(map[ecs.Kind]int, len(allKinds))
	for _, e := range world.Entities() {
		for _, c := range e.Components() {
			counts[c.Kind()]++
		}
	}
	return counts
}
