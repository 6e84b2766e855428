// Package app holds the per-process state of the viewer and the frame loop
// that drives the pipeline. It does not touch the windowing layer: the
// command translates window events into calls on Context.
package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"planet-render/internal/logger"
	"planet-render/math"
	"planet-render/pipeline"
	"planet-render/planets"
	"planet-render/scene"
	"planet-render/settings"
)

const (
	CameraNear float32 = 0.002
	CameraFar  float32 = 3000
)

// CameraStart is where the free camera begins, looking down -Z at the Earth.
var CameraStart = math.NewVec3(0, 0, 3)

// SceneDrawer renders a draw list into the bound framebuffer.
type SceneDrawer interface {
	SetPhong(enabled bool)
	Draw(list []planets.DrawCall, view, proj math.Mat4, camPos math.Vec3)
}

// Context is everything a frame needs. There is one per process.
type Context struct {
	Width  int
	Height int

	Device   pipeline.Device
	Targets  *pipeline.Targets
	Pipeline *pipeline.Pipeline
	Scene    SceneDrawer

	// State is what gets persisted on exit. Post mirrors its post-processing
	// fields for the composite stage.
	State settings.State
	Post  pipeline.Settings

	Camera *scene.Camera
	Follow planets.FollowMode
	Clock  planets.Clock
	Phong  bool

	lastX, lastY float64
	firstMouse   bool
}

// NewContext builds the pipeline on top of targets, which must already have
// handles. The targets are allocated by Resize or by the caller's Init.
func NewContext(dev pipeline.Device, targets *pipeline.Targets, blurProg, compositeProg pipeline.Program,
	blurPasses int, state settings.State, width, height int) *Context {
	c := &Context{
		Width:      width,
		Height:     height,
		Device:     dev,
		Targets:    targets,
		State:      state,
		firstMouse: true,
	}
	c.State.Exposure = clampExposure(c.State.Exposure)
	c.syncPost()
	c.Pipeline = pipeline.New(dev, targets, blurProg, compositeProg, blurPasses, &c.Post)
	c.Camera = scene.NewCamera(CameraStart, aspect(width, height), CameraNear, CameraFar)
	return c
}

func aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func (c *Context) syncPost() {
	c.Post.Bloom = c.State.Bloom
	c.Post.HDR = c.State.HDR
	c.Post.Exposure = c.State.Exposure
}

// Resize follows the framebuffer size. A minimized window reports 0x0; the
// targets and camera keep their last size then.
func (c *Context) Resize(width, height int) {
	c.Width, c.Height = width, height
	if width <= 0 || height <= 0 {
		return
	}
	c.Device.Viewport(width, height)
	c.Targets.Resize(width, height)
	c.Camera.UpdateAspectRatio(float32(width), float32(height))
}

// CursorCaptured reports whether the mouse should drive the camera.
func (c *Context) CursorCaptured() bool {
	return !c.State.OverlayEnabled
}

// Move steps the free camera. Ignored while following a body.
func (c *Context) Move(dir scene.Movement) {
	if c.Follow != planets.FollowDisabled {
		return
	}
	c.Camera.ProcessKeyboard(dir, c.Clock.Delta)
}

// Roll turns the camera around its view axis; direction is +1 or -1.
func (c *Context) Roll(direction float32) {
	c.Camera.ProcessRotation(direction, c.Clock.Delta)
}

// MouseMoved feeds an absolute cursor position. The first sample after the
// cursor was captured only sets the reference point.
func (c *Context) MouseMoved(x, y float64) {
	if !c.CursorCaptured() {
		c.firstMouse = true
		return
	}
	if c.firstMouse {
		c.lastX, c.lastY = x, y
		c.firstMouse = false
		return
	}
	dx := float32(x - c.lastX)
	dy := float32(c.lastY - y)
	c.lastX, c.lastY = x, y
	c.Camera.ProcessMouseMovement(dx, dy)
}

func (c *Context) Scroll(yoffset float64) {
	c.Camera.ProcessMouseScroll(float32(yoffset))
}

// Tick advances the clock to now (seconds since start). Input for the frame
// is applied after Tick so movement uses the current frame delta.
func (c *Context) Tick(now float32) {
	c.Clock.Tick(now)
}

// Render draws one frame through the pipeline and returns the draw list that
// was submitted. A followed body overrides the camera position.
func (c *Context) Render() []planets.DrawCall {
	if pos, ok := c.Follow.Position(c.Clock.Now); ok {
		c.Camera.SetPosition(pos)
	}

	list := planets.BuildDrawList(c.Clock.Now, c.Camera.Position)

	c.Pipeline.BeginScene(c.State.ClearColor)
	if c.Scene != nil {
		c.Scene.SetPhong(c.Phong)
		c.Scene.Draw(list, c.Camera.GetViewMatrix(), c.Camera.GetProjectionMatrix(), c.Camera.Position)
	}
	c.Pipeline.Finish()
	return list
}

// Status is the one-line summary shown in the window title.
func (c *Context) Status() string {
	var b strings.Builder
	fmt.Fprintf(&b, "follow: %s", c.Follow)
	fmt.Fprintf(&b, " | bloom: %s", onOff(c.State.Bloom))
	fmt.Fprintf(&b, " | hdr: %s", onOff(c.State.HDR))
	fmt.Fprintf(&b, " | exposure: %.2f", c.State.Exposure)
	if c.Phong {
		b.WriteString(" | phong")
	} else {
		b.WriteString(" | blinn-phong")
	}
	if c.State.OverlayEnabled {
		b.WriteString(" | overlay")
	}
	return b.String()
}

func (c *Context) logState(what string) {
	logger.Log.Info(what,
		zap.Stringer("follow", c.Follow),
		zap.Bool("bloom", c.State.Bloom),
		zap.Bool("hdr", c.State.HDR),
		zap.Float32("exposure", c.State.Exposure),
		zap.Bool("phong", c.Phong),
		zap.Bool("overlay", c.State.OverlayEnabled),
		zap.String("clear", ClearColorHex(c.State.ClearColor)),
	)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Destroy releases the render targets.
func (c *Context) Destroy() {
	c.Targets.Destroy()
}
