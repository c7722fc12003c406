// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/yulebrawl/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		io := imgui.CurrentIO()
		state.WantCaptureMouse = io.WantCaptureMouse()
		state.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// RegisterComponents registers the component and singleton kinds used by this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// Overlay runs the ImguiSystem on a scheduler of its own, so the windows keep
// rendering while the simulation it inspects is paused or finished.
type Overlay struct {
	System    *ImguiSystem
	scheduler *ecs.Scheduler
}

// Update runs the overlay systems once. Call it between the backend's
// BeginFrame and EndFrame.
func (o *Overlay) Update() {
	o.scheduler.Once(0)
}

// Scheduler returns the overlay's own scheduler.
func (o *Overlay) Scheduler() *ecs.Scheduler {
	return o.scheduler
}

// Install spawns the stats, entity browser, inspector and query windows into
// storage. The stats window reports on scheduler, which is left untouched; the
// ImguiSystem is registered on the returned Overlay instead.
func Install(registry *ecs.ComponentRegistry, storage *ecs.Storage, scheduler *ecs.Scheduler) *Overlay {
	RegisterComponents(registry)
	ecs.NewSingleton(storage, ImguiInputState{})

	stats := NewStatsWindow(120)
	timer := NewFrameTimer()
	browser := NewEntityBrowser(100)
	inspector := NewComponentInspector()
	queries := NewQueryDebugger()

	storage.Spawn(ImguiItem{Render: func() {
		stats.Render(storage, scheduler, timer.GetDeltaTime())
	}})
	storage.Spawn(ImguiItem{Render: func() {
		browser.Render(storage)
		inspector.Render(storage, browser.Selected())
	}})
	storage.Spawn(ImguiItem{Render: func() {
		queries.Render(storage)
	}})

	overlay := &Overlay{System: &ImguiSystem{}, scheduler: ecs.NewScheduler(storage)}
	overlay.scheduler.Register(overlay.System)
	return overlay
}
