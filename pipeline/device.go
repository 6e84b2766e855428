// Package pipeline implements the post-processing chain that turns the HDR
// scene into the final frame: two-phase render targets, ping-pong Gaussian
// bloom and the exposure tone-map composite.
//
// Nothing here calls the GPU directly. All commands go through Device and
// Program so the chain can run against any backend.
package pipeline

import (
	"errors"

	"planet-render/math"
)

// Handle names a GPU object (texture, framebuffer or renderbuffer).
type Handle uint32

// DefaultFramebuffer is the window's own framebuffer.
const DefaultFramebuffer Handle = 0

type Format int

const (
	FormatRGBA16F Format = iota
	FormatDepth24Stencil8
)

func (f Format) String() string {
	switch f {
	case FormatRGBA16F:
		return "RGBA16F"
	case FormatDepth24Stencil8:
		return "DEPTH24_STENCIL8"
	}
	return "unknown"
}

// ErrIncompleteFramebuffer is wrapped by Device.FramebufferStatus together
// with the backend's status code.
var ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")

// Device is the subset of the graphics API the pipeline drives.
type Device interface {
	GenTexture() Handle
	GenFramebuffer() Handle
	GenRenderbuffer() Handle

	// AllocTexture (re)allocates storage for a 2D texture with linear
	// filtering and clamp-to-edge wrapping.
	AllocTexture(tex Handle, format Format, width, height int)
	AllocRenderbuffer(rb Handle, format Format, width, height int)

	AttachColor(fb Handle, index int, tex Handle)
	AttachDepthStencil(fb Handle, rb Handle)
	// DrawBuffers enables color attachments 0..n-1 of fb.
	DrawBuffers(fb Handle, n int)
	FramebufferStatus(fb Handle) error

	BindFramebuffer(fb Handle)
	Viewport(width, height int)
	// Clear fills every enabled color attachment of the bound framebuffer
	// and resets depth.
	Clear(color math.Vec3)
	// ClearAttachment fills only color attachment index of the bound
	// framebuffer.
	ClearAttachment(index int, color math.Vec3)
	BindTexture(unit int, tex Handle)
	// DrawQuad draws a fullscreen quad with the current program.
	DrawQuad()

	DeleteTextures(tex ...Handle)
	DeleteFramebuffers(fb ...Handle)
	DeleteRenderbuffers(rb ...Handle)
}

// Program is a linked shader program.
type Program interface {
	Use()
	SetBool(name string, v bool)
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
}
