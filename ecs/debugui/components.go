package debugui

import (
	"github.com/plus3/flotilla/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	filterSignature    *string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntityId ecs.EntityId
}

type CompositionViewerComponent struct {
	cache             *CompositionViewerCache
	selectedSignature *string
	sortColumn        int
	sortAscending     bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	tickHistory   []float32
	frameIndex    int
}

type KindFilterComponent struct {
	selectedKinds map[ecs.Kind]bool
}
