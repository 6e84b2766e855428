package core

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW and the GL context must stay on the main OS thread.
	runtime.LockOSThread()
}

type Window struct {
	Handle *glfw.Window
	Width  int
	Height int
	Title  string
}

type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
	VSync     bool
}

var contextHints = []struct {
	hint  glfw.Hint
	value int
}{
	{glfw.ContextVersionMajor, 4},
	{glfw.ContextVersionMinor, 1},
	{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	{glfw.OpenGLForwardCompatible, glfw.True},
}

// NewWindow creates a window with a current OpenGL 4.1 core context.
// No size callback is installed here: the caller registers one with
// SetFramebufferSizeCallback once its render targets have handles.
func NewWindow(cfg WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	for _, h := range contextHints {
		glfw.WindowHint(h.hint, h.value)
	}
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window %dx%d: %w", cfg.Width, cfg.Height, err)
	}
	handle.MakeContextCurrent()
	interval := 0
	if cfg.VSync {
		interval = 1
	}
	glfw.SwapInterval(interval)

	// Pixel size, which differs from the window size on HiDPI displays.
	fbw, fbh := handle.GetFramebufferSize()
	return &Window{Handle: handle, Width: fbw, Height: fbh, Title: cfg.Title}, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.Handle.SetShouldClose(v)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

// SetCursorCaptured hides and locks the cursor for mouse look, or releases it.
func (w *Window) SetCursorCaptured(captured bool) {
	if captured {
		w.Handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.Handle.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// Time returns seconds since GLFW was initialised.
func Time() float64 {
	return glfw.GetTime()
}

// SizeCallback receives the new framebuffer size in pixels.
type SizeCallback func(width, height int)

// SetFramebufferSizeCallback keeps Width/Height current and forwards the
// event. It fires synchronously from PollEvents.
func (w *Window) SetFramebufferSizeCallback(cb SizeCallback) {
	w.Handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.Width = width
		w.Height = height
		cb(width, height)
	})
}

type CursorCallback func(x, y float64)

func (w *Window) SetCursorPosCallback(cb CursorCallback) {
	w.Handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		cb(x, y)
	})
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

func (w *Window) SetScrollCallback(cb ScrollCallback) {
	w.Handle.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		cb(xoff, yoff)
	})
}

// KeyCallback is invoked for key presses only (not repeats or releases).
type KeyCallback func(key int)

func (w *Window) SetKeyPressCallback(cb KeyCallback) {
	w.Handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press {
			cb(int(key))
		}
	})
}

const (
	KeyA            = int(glfw.KeyA)
	KeyB            = int(glfw.KeyB)
	KeyC            = int(glfw.KeyC)
	KeyD            = int(glfw.KeyD)
	KeyE            = int(glfw.KeyE)
	KeyF            = int(glfw.KeyF)
	KeyH            = int(glfw.KeyH)
	KeyP            = int(glfw.KeyP)
	KeyQ            = int(glfw.KeyQ)
	KeyS            = int(glfw.KeyS)
	KeyW            = int(glfw.KeyW)
	KeyLeftBracket  = int(glfw.KeyLeftBracket)
	KeyRightBracket = int(glfw.KeyRightBracket)
	KeyEscape       = int(glfw.KeyEscape)
	KeyF1           = int(glfw.KeyF1)
)
