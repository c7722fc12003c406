package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/yulebrawl/ecs"
)

// MatchEntities returns the live entities carrying every one of the given
// component types, in entity order.
func MatchEntities(storage *ecs.Storage, required []reflect.Type) []ecs.EntityId {
	var matching []ecs.EntityId
	for id := range storage.Entities() {
		ok := true
		for _, t := range required {
			if !storage.HasComponent(id, t) {
				ok = false
				break
			}
		}
		if ok {
			matching = append(matching, id)
		}
	}
	return matching
}

// QueryDebugger lets the user pick component types and see which entities
// a query over them would visit.
type QueryDebugger struct {
	selected        map[string]bool
	types           map[string]reflect.Type
	typeNames       []string
	lastEntityCount int
}

// NewQueryDebugger starts with no component kinds selected.
func NewQueryDebugger() *QueryDebugger {
	return &QueryDebugger{
		selected:        make(map[string]bool),
		types:           make(map[string]reflect.Type),
		lastEntityCount: -1,
	}
}

func (qd *QueryDebugger) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(storage)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(qd.selected)
	}

	for _, name := range qd.typeNames {
		selected := qd.selected[name]
		if imgui.Checkbox(name, &selected) {
			if selected {
				qd.selected[name] = true
			} else {
				delete(qd.selected, name)
			}
		}
	}

	imgui.Separator()

	var required []reflect.Type
	for name := range qd.selected {
		if t, ok := qd.types[name]; ok {
			required = append(required, t)
		}
	}

	if len(required) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matching := MatchEntities(storage, required)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entities") {
		for _, id := range matching {
			imgui.BulletText(id.String())
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (qd *QueryDebugger) rebuildCacheIfNeeded(storage *ecs.Storage) {
	if qd.lastEntityCount == storage.Len() {
		return
	}
	qd.lastEntityCount = storage.Len()

	for id := range storage.Entities() {
		for _, t := range storage.ComponentTypes(id) {
			qd.types[t.String()] = t
		}
	}

	qd.typeNames = qd.typeNames[:0]
	for name := range qd.types {
		qd.typeNames = append(qd.typeNames, name)
	}
	sort.Strings(qd.typeNames)
}
