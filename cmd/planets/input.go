package main

import (
	"planet-render/app"
	"planet-render/core"
	"planet-render/scene"
)

// pressActions maps single key presses to context actions.
var pressActions = map[int]app.Action{
	core.KeyEscape:       app.ActionQuit,
	core.KeyF1:           app.ActionToggleOverlay,
	core.KeyB:            app.ActionToggleBloom,
	core.KeyH:            app.ActionToggleHDR,
	core.KeyLeftBracket:  app.ActionExposureDown,
	core.KeyRightBracket: app.ActionExposureUp,
	core.KeyF:            app.ActionCycleFollow,
	core.KeyP:            app.ActionTogglePhong,
	core.KeyC:            app.ActionCycleClearColor,
}

var moveKeys = []struct {
	key int
	dir scene.Movement
}{
	{core.KeyW, scene.Forward},
	{core.KeyS, scene.Backward},
	{core.KeyA, scene.Left},
	{core.KeyD, scene.Right},
}

type input struct {
	window *core.Window
	ctx    *app.Context
	title  string
}

func newInput(window *core.Window, ctx *app.Context, title string) *input {
	return &input{window: window, ctx: ctx, title: title}
}

// install registers the window callbacks and sets the initial cursor mode
// from the persisted overlay flag.
func (in *input) install() {
	in.window.SetKeyPressCallback(in.onKey)
	in.window.SetCursorPosCallback(in.ctx.MouseMoved)
	in.window.SetScrollCallback(func(_, yoff float64) { in.ctx.Scroll(yoff) })
	in.window.SetCursorCaptured(in.ctx.CursorCaptured())
	in.updateTitle()
}

func (in *input) onKey(key int) {
	a, ok := pressActions[key]
	if !ok {
		return
	}
	if a == app.ActionQuit {
		in.window.SetShouldClose(true)
		return
	}
	if !in.ctx.Handle(a) {
		return
	}
	if a == app.ActionToggleOverlay {
		in.window.SetCursorCaptured(in.ctx.CursorCaptured())
	}
	in.updateTitle()
}

// poll handles keys that act for as long as they are held.
func (in *input) poll() {
	for _, m := range moveKeys {
		if in.window.IsKeyPressed(m.key) {
			in.ctx.Move(m.dir)
		}
	}
	if in.window.IsKeyPressed(core.KeyQ) {
		in.ctx.Roll(-1)
	}
	if in.window.IsKeyPressed(core.KeyE) {
		in.ctx.Roll(1)
	}
}

func (in *input) updateTitle() {
	in.window.SetTitle(in.title + " | " + in.ctx.Status())
}
