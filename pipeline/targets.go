package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"planet-render/internal/logger"
)

type Attachment struct {
	Handle Handle
	Width  int
	Height int
	Format Format
}

// RenderTarget is a framebuffer together with the attachments it owns.
type RenderTarget struct {
	Name        string
	Framebuffer Handle
	Color       []Attachment
	Depth       *Attachment
}

func (rt *RenderTarget) attachments() []*Attachment {
	out := make([]*Attachment, 0, len(rt.Color)+1)
	for i := range rt.Color {
		out = append(out, &rt.Color[i])
	}
	if rt.Depth != nil {
		out = append(out, rt.Depth)
	}
	return out
}

const (
	SceneAttachment  = 0
	BrightAttachment = 1
)

// Targets owns the HDR multi-render-target and the two ping-pong targets
// used by the blur.
//
// Its lifecycle has two phases. NewTargets only creates handles, so Resize is
// safe to call from the moment the window's size callback is registered.
// Init then allocates storage, wires attachments and checks completeness.
type Targets struct {
	dev Device

	HDR      RenderTarget
	PingPong [2]RenderTarget

	width, height int
	allocated     bool
	initialized   bool
}

func NewTargets(dev Device) *Targets {
	t := &Targets{dev: dev}

	t.HDR = RenderTarget{
		Name:        "hdr",
		Framebuffer: dev.GenFramebuffer(),
		Color: []Attachment{
			{Handle: dev.GenTexture(), Format: FormatRGBA16F},
			{Handle: dev.GenTexture(), Format: FormatRGBA16F},
		},
		Depth: &Attachment{Handle: dev.GenRenderbuffer(), Format: FormatDepth24Stencil8},
	}
	for i := range t.PingPong {
		t.PingPong[i] = RenderTarget{
			Name:        fmt.Sprintf("pingpong%d", i),
			Framebuffer: dev.GenFramebuffer(),
			Color:       []Attachment{{Handle: dev.GenTexture(), Format: FormatRGBA16F}},
		}
	}
	return t
}

// Init allocates storage at the given size and completes every target.
func (t *Targets) Init(width, height int) {
	t.allocate(width, height)

	t.dev.AttachColor(t.HDR.Framebuffer, SceneAttachment, t.HDR.Color[SceneAttachment].Handle)
	t.dev.AttachColor(t.HDR.Framebuffer, BrightAttachment, t.HDR.Color[BrightAttachment].Handle)
	t.dev.AttachDepthStencil(t.HDR.Framebuffer, t.HDR.Depth.Handle)
	t.dev.DrawBuffers(t.HDR.Framebuffer, len(t.HDR.Color))

	for i := range t.PingPong {
		t.dev.AttachColor(t.PingPong[i].Framebuffer, 0, t.PingPong[i].Color[0].Handle)
	}
	t.dev.BindFramebuffer(DefaultFramebuffer)

	t.initialized = true
	t.check()
}

// Resize reallocates storage for every attachment, keeping the handles.
// Zero or negative sizes (a minimised window) are ignored, as is a repeat
// of the current size.
func (t *Targets) Resize(width, height int) {
	if t.allocated && width == t.width && height == t.height {
		return
	}
	t.allocate(width, height)
	if t.initialized {
		t.check()
	}
}

func (t *Targets) allocate(width, height int) {
	if width <= 0 || height <= 0 {
		logger.Log.Debug("ignoring render target size",
			zap.Int("width", width), zap.Int("height", height))
		return
	}
	for _, rt := range t.all() {
		for _, a := range rt.attachments() {
			if a.Format == FormatDepth24Stencil8 {
				t.dev.AllocRenderbuffer(a.Handle, a.Format, width, height)
			} else {
				t.dev.AllocTexture(a.Handle, a.Format, width, height)
			}
			a.Width, a.Height = width, height
		}
	}
	t.width, t.height = width, height
	t.allocated = true
}

// check logs incomplete targets. Rendering carries on regardless.
func (t *Targets) check() {
	for _, rt := range t.all() {
		err := t.dev.FramebufferStatus(rt.Framebuffer)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrIncompleteFramebuffer) {
			logger.Log.Warn("render target incomplete",
				zap.String("target", rt.Name), zap.Error(err))
			continue
		}
		logger.Log.Error("render target status", zap.String("target", rt.Name), zap.Error(err))
	}
}

func (t *Targets) all() []*RenderTarget {
	return []*RenderTarget{&t.HDR, &t.PingPong[0], &t.PingPong[1]}
}

func (t *Targets) Size() (int, int) { return t.width, t.height }

func (t *Targets) SceneColor() Handle { return t.HDR.Color[SceneAttachment].Handle }

func (t *Targets) BrightPass() Handle { return t.HDR.Color[BrightAttachment].Handle }

// Destroy releases every handle. The Targets must not be used afterwards.
func (t *Targets) Destroy() {
	var textures, framebuffers []Handle
	for _, rt := range t.all() {
		framebuffers = append(framebuffers, rt.Framebuffer)
		for _, a := range rt.Color {
			textures = append(textures, a.Handle)
		}
	}
	t.dev.DeleteTextures(textures...)
	t.dev.DeleteFramebuffers(framebuffers...)
	t.dev.DeleteRenderbuffers(t.HDR.Depth.Handle)
	t.allocated, t.initialized = false, false
}
