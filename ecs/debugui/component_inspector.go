package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/canrunner/ecs"
)

var vec3Type = reflect.TypeFor[mgl32.Vec3]()

func NewComponentInspector(browser *EntityBrowser) *ComponentInspector {
	return &ComponentInspector{browser: browser}
}

func (ci *ComponentInspector) Render(world *ecs.World, _ *ecs.UpdateFrame) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	selected := ci.browser.Selected()
	if selected == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	e := world.Get(selected)
	if e == nil {
		imgui.Text(fmt.Sprintf("Entity %d:%d no longer exists", selected.Generation(), selected.Slot()))
		if imgui.Button("Clear Selection") {
			ci.browser.Select(0)
		}
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %d:%d", selected.Generation(), selected.Slot()))
	imgui.InputTextWithHint("Name", "", &e.Name, imgui.InputTextFlagsNone, nil)
	if parent := e.Parent(); parent != 0 {
		imgui.Text(fmt.Sprintf("Parent: %d:%d", parent.Generation(), parent.Slot()))
		imgui.SameLine()
		if imgui.Button("Select Parent") {
			ci.browser.Select(parent)
		}
	}
	imgui.Text(fmt.Sprintf("Children: %d", len(world.Children(selected))))
	imgui.Separator()

	if imgui.TreeNodeStr("Transform") {
		imgui.DragFloat3("Position", (*[3]float32)(&e.LocalTransform.Position))
		imgui.DragFloat3("Rotation", (*[3]float32)(&e.LocalTransform.Rotation))
		imgui.DragFloat3("Scale", (*[3]float32)(&e.LocalTransform.Scale))
		imgui.TreePop()
	}

	for _, kind := range e.Kinds() {
		component := e.Component(kind)
		if imgui.TreeNodeStr(kind.String()) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.Separator()
	if imgui.Button("Remove Entity") {
		world.Remove(selected)
		ci.browser.Select(0)
	}

	imgui.End()
}

func (ci *ComponentInspector) renderComponent(component ecs.Component) {
	// Components are stored as pointers, so the element is addressable and edits land in place
	val := reflect.ValueOf(component).Elem()

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Label, fieldVal, field)
	}
}

func (ci *ComponentInspector) renderField(name string, val reflect.Value, field FieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Array:
		if val.Type() == vec3Type && val.CanAddr() {
			imgui.DragFloat3(name, (*[3]float32)(val.Addr().UnsafePointer()))
			return
		}
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				nestedVal := val.Field(nf.Index)
				if nf.IsPointer && !nestedVal.IsNil() {
					nestedVal = nestedVal.Elem()
				}
				ci.renderField(nf.Label, nestedVal, nf)
			}
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
