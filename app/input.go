package app

import (
	"github.com/chewxy/math32"

	"planet-render/settings"
)

// Action is a discrete command bound to a key press.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleOverlay

	// Overlay actions are only honoured while the overlay is visible.
	ActionToggleBloom
	ActionToggleHDR
	ActionExposureDown
	ActionExposureUp
	ActionCycleFollow
	ActionTogglePhong
	ActionCycleClearColor
)

const (
	ExposureStep float32 = 0.1
	MinExposure  float32 = 0.1
	MaxExposure  float32 = 10
)

func (a Action) overlayOnly() bool {
	return a >= ActionToggleBloom
}

// Handle applies a and reports whether anything changed. Quit is left to
// the caller, which owns the window.
func (c *Context) Handle(a Action) bool {
	if a == ActionNone || a == ActionQuit {
		return false
	}
	if a.overlayOnly() && !c.State.OverlayEnabled {
		return false
	}

	switch a {
	case ActionToggleOverlay:
		c.State.OverlayEnabled = !c.State.OverlayEnabled
		c.firstMouse = true
	case ActionToggleBloom:
		c.State.Bloom = !c.State.Bloom
	case ActionToggleHDR:
		c.State.HDR = !c.State.HDR
	case ActionExposureDown:
		c.State.Exposure = clampExposure(c.State.Exposure - ExposureStep)
	case ActionExposureUp:
		c.State.Exposure = clampExposure(c.State.Exposure + ExposureStep)
	case ActionCycleFollow:
		c.Follow = c.Follow.Next()
	case ActionTogglePhong:
		c.Phong = !c.Phong
	case ActionCycleClearColor:
		c.State.ClearColor = NextClearColor(c.State.ClearColor)
	default:
		return false
	}

	c.syncPost()
	c.logState("settings changed")
	return true
}

func clampExposure(e float32) float32 {
	switch {
	case math32.IsNaN(e):
		return settings.Default().Exposure
	case e < MinExposure:
		return MinExposure
	case e > MaxExposure:
		return MaxExposure
	}
	return e
}
