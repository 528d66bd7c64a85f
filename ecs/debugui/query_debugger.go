package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/canrunner/ecs"
)

func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{}
}

func (qd *QueryDebugger) Render(world *ecs.World, _ *ecs.UpdateFrame) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Kinds:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selected = [ecs.KindCount]bool{}
	}

	for k := ecs.Kind(0); k < ecs.KindCount; k++ {
		label := k.String()
		if t, ok := world.Registry().TypeOf(k); ok {
			label = fmt.Sprintf("%s (%s)", k, t)
		}
		imgui.Checkbox(label, &qd.selected[k])
	}

	imgui.Separator()

	required := qd.requiredKinds()
	if len(required) == 0 {
		imgui.Text("No component kinds selected")
		imgui.End()
		return
	}

	matches := matchingEntities(world, required)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Entities") {
		for _, e := range matches {
			imgui.BulletText(fmt.Sprintf("%d:%d %s", e.Id().Generation(), e.Id().Slot(), e.Name))
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebugger) requiredKinds() []ecs.Kind {
	var kinds []ecs.Kind
	for k, on := range qd.selected {
		if on {
			kinds = append(kinds, ecs.Kind(k))
		}
	}
	return kinds
}

func matchingEntities(world *ecs.World, required []ecs.Kind) []*ecs.Entity {
	var matches []*ecs.Entity
	for _, e := range world.Entities() {
		ok := true
		for _, k := range required {
			if !e.Has(k) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, e)
		}
	}
	return matches
}
