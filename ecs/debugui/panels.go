package debugui

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/canrunner/ecs"
)

// EntityBrowser lists live entities with their names, parents and components.
type EntityBrowser struct {
	cache              *entityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	filterShape        *uint32
	maxEntitiesPerPage int
	currentPage        int
}

// ComponentInspector edits the transform and components of the entity
// selected in an EntityBrowser.
type ComponentInspector struct {
	browser *EntityBrowser
}

// ShapeViewer groups entities by the set of component kinds they carry.
// Selecting a row narrows the entity browser to that shape.
type ShapeViewer struct {
	browser       *EntityBrowser
	counts        *intmap.Map[uint32, int]
	shapes        []ShapeInfo
	sortColumn    int
	sortAscending bool
}

// PerformanceStats plots frame times and shows world and scheduler statistics.
type PerformanceStats struct {
	scheduler     *ecs.Scheduler
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

// QueryDebugger counts entities matching an ad-hoc set of kinds.
type QueryDebugger struct {
	selected [ecs.KindCount]bool
}

// NewDebugSystem builds an ImguiSystem with the standard set of panels and
// makes sure the input state singleton exists.
func NewDebugSystem(world *ecs.World, scheduler *ecs.Scheduler) *ImguiSystem {
	ecs.NewSingleton[ImguiInputState](world)

	browser := NewEntityBrowser(100)
	return &ImguiSystem{
		Panels: []Panel{
			browser,
			NewComponentInspector(browser),
			NewShapeViewer(browser),
			NewPerformanceStats(120, scheduler),
			NewQueryDebugger(),
		},
	}
}
