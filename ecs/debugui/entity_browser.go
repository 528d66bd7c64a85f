package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/canrunner/ecs"
)

// EntityInfo is one row of the entity browser.
type EntityInfo struct {
	ID             ecs.EntityId
	Name           string
	Parent         ecs.EntityId
	Shape          uint32
	ComponentTypes []string
}

type entityBrowserCache struct {
	entities      []EntityInfo
	lastCount     int
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowser(maxEntitiesPerPage int) *EntityBrowser {
	return &EntityBrowser{
		cache: &entityBrowserCache{
			lastCount:     -1,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowser) Render(world *ecs.World, _ *ecs.UpdateFrame) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(world)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterShape = nil
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}

	filteredEntities := filterEntities(eb.cache.entities, eb.filterText, eb.filterShape)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Parent")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			label := fmt.Sprintf("%d:%d", entity.ID.Generation(), entity.ID.Slot())
			if imgui.SelectableBoolV(label, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(entity.Name)

			imgui.TableNextColumn()
			if entity.Parent != 0 {
				imgui.Text(fmt.Sprintf("%d:%d", entity.Parent.Generation(), entity.Parent.Slot()))
			} else {
				imgui.Text("-")
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func (eb *EntityBrowser) rebuildCacheIfNeeded(world *ecs.World) {
	if eb.cache.lastCount != world.Len() {
		eb.cache.entities = nil
		eb.cache.lastCount = world.Len()
	}

	if eb.cache.entities == nil {
		eb.cache.entities = collectEntities(world)
		sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
	}
}

// Selected returns the entity picked in the browser, or 0
func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selectedEntityId
}

// Select changes the selected entity
func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selectedEntityId = id
}

// FilterShape narrows the listing to entities with exactly the given shape; nil clears it.
func (eb *EntityBrowser) FilterShape(shape *uint32) {
	eb.filterShape = shape
	eb.currentPage = 0
}

// shapeOf packs the kinds an entity carries into a bit mask.
func shapeOf(e *ecs.Entity) uint32 {
	var mask uint32
	for _, k := range e.Kinds() {
		mask |= 1 << uint(k)
	}
	return mask
}

func kindNames(mask uint32) []string {
	names := make([]string, 0, ecs.KindCount)
	for k := ecs.Kind(0); k < ecs.KindCount; k++ {
		if mask&(1<<uint(k)) != 0 {
			names = append(names, k.String())
		}
	}
	return names
}

func collectEntities(world *ecs.World) []EntityInfo {
	entities := make([]EntityInfo, 0, world.Len())
	for id, e := range world.Entities() {
		shape := shapeOf(e)
		entities = append(entities, EntityInfo{
			ID:             id,
			Name:           e.Name,
			Parent:         e.Parent(),
			Shape:          shape,
			ComponentTypes: kindNames(shape),
		})
	}
	return entities
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	less := func(a, b EntityInfo) bool {
		switch column {
		case 1:
			return a.Name < b.Name
		case 2:
			return a.Parent < b.Parent
		case 3:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		default:
			return a.ID.Slot() < b.ID.Slot()
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		if !ascending {
			return less(entities[j], entities[i])
		}
		return less(entities[i], entities[j])
	})
}

func filterEntities(entities []EntityInfo, text string, shape *uint32) []EntityInfo {
	if text == "" && shape == nil {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if shape != nil && entity.Shape != *shape {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.ID.Slot())
			nameStr := strings.ToLower(entity.Name)
			componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(nameStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}
