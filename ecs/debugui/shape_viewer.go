package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/kamstrup/intmap"
	"github.com/plus3/canrunner/ecs"
)

// ShapeInfo is one row of the shape viewer.
type ShapeInfo struct {
	Mask           uint32
	ComponentTypes []string
	EntityCount    int
}

func NewShapeViewer(browser *EntityBrowser) *ShapeViewer {
	return &ShapeViewer{
		browser:       browser,
		counts:        intmap.New[uint32, int](int(ecs.KindCount) * 2),
		sortColumn:    2,
		sortAscending: false,
	}
}

func (sv *ShapeViewer) Render(world *ecs.World, _ *ecs.UpdateFrame) {
	if !imgui.BeginV("Shape Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	sv.shapes = collectShapes(world, sv.counts)
	sortShapes(sv.shapes, sv.sortColumn, sv.sortAscending)

	maxEntityCount := 0
	for _, shape := range sv.shapes {
		maxEntityCount = max(maxEntityCount, shape.EntityCount)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ShapeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Mask")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Entity Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			sv.sortColumn = int(spec.ColumnIndex())
			sv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortShapes(sv.shapes, sv.sortColumn, sv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, shape := range sv.shapes {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			selected := sv.browser != nil && sv.browser.filterShape != nil && *sv.browser.filterShape == shape.Mask
			if imgui.SelectableBoolV(fmt.Sprintf("0b%07b", shape.Mask), selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) && sv.browser != nil {
				if selected {
					sv.browser.FilterShape(nil)
				} else {
					mask := shape.Mask
					sv.browser.FilterShape(&mask)
				}
			}

			imgui.TableNextColumn()
			if len(shape.ComponentTypes) == 0 {
				imgui.Text("(none)")
			} else {
				imgui.Text(strings.Join(shape.ComponentTypes, ", "))
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", shape.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(shape.EntityCount) / float32(maxEntityCount) * 80.0
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
}

// collectShapes counts live entities per kind mask, reusing counts as scratch space.
func collectShapes(world *ecs.World, counts *intmap.Map[uint32, int]) []ShapeInfo {
	counts.Clear()
	var masks []uint32
	for _, e := range world.Entities() {
		mask := shapeOf(e)
		n, seen := counts.Get(mask)
		if !seen {
			masks = append(masks, mask)
		}
		counts.Put(mask, n+1)
	}

	shapes := make([]ShapeInfo, 0, len(masks))
	for _, mask := range masks {
		n, _ := counts.Get(mask)
		shapes = append(shapes, ShapeInfo{
			Mask:           mask,
			ComponentTypes: kindNames(mask),
			EntityCount:    n,
		})
	}
	return shapes
}

func sortShapes(shapes []ShapeInfo, column int, ascending bool) {
	less := func(a, b ShapeInfo) bool {
		switch column {
		case 0:
			return a.Mask < b.Mask
		case 1:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		default:
			if a.EntityCount == b.EntityCount {
				return a.Mask < b.Mask
			}
			return a.EntityCount < b.EntityCount
		}
	}

	sort.Slice(shapes, func(i, j int) bool {
		if !ascending {
			return less(shapes[j], shapes[i])
		}
		return less(shapes[i], shapes[j])
	})
}
