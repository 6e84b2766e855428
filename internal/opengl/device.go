package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"planet-render/internal/logger"
	"planet-render/math"
	"planet-render/pipeline"
)

// Device drives the OpenGL 4.1 core context for the post-processing
// pipeline. All methods must be called on the thread that owns the context.
type Device struct {
	quadVAO uint32 // empty VAO for the fullscreen triangle
}

// NewDevice loads the GL function pointers and sets the global render state.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Log.Info("OpenGL initialised",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	d := &Device{}
	gl.GenVertexArrays(1, &d.quadVAO)
	return d, nil
}

var _ pipeline.Device = (*Device)(nil)

func (d *Device) GenTexture() pipeline.Handle {
	var id uint32
	gl.GenTextures(1, &id)
	return pipeline.Handle(id)
}

func (d *Device) GenFramebuffer() pipeline.Handle {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return pipeline.Handle(id)
}

func (d *Device) GenRenderbuffer() pipeline.Handle {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return pipeline.Handle(id)
}

func (d *Device) AllocTexture(tex pipeline.Handle, format pipeline.Format, width, height int) {
	internal, pixel, typ := textureFormat(format)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal,
		int32(width), int32(height), 0, pixel, typ, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func textureFormat(f pipeline.Format) (internal int32, pixel, typ uint32) {
	switch f {
	case pipeline.FormatDepth24Stencil8:
		return gl.DEPTH24_STENCIL8, gl.DEPTH_STENCIL, gl.UNSIGNED_INT_24_8
	default:
		return gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT
	}
}

func (d *Device) AllocRenderbuffer(rb pipeline.Handle, format pipeline.Format, width, height int) {
	internal, _, _ := textureFormat(format)
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(rb))
	gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(internal), int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (d *Device) AttachColor(fb pipeline.Handle, index int, tex pipeline.Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(index),
		gl.TEXTURE_2D, uint32(tex), 0)
}

func (d *Device) AttachDepthStencil(fb, rb pipeline.Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT,
		gl.RENDERBUFFER, uint32(rb))
}

func (d *Device) DrawBuffers(fb pipeline.Handle, n int) {
	bufs := make([]uint32, n)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.DrawBuffers(int32(n), &bufs[0])
}

func (d *Device) FramebufferStatus(fb pipeline.Handle) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if s := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); s != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w (0x%X)", pipeline.ErrIncompleteFramebuffer, s)
	}
	return nil
}

func (d *Device) BindFramebuffer(fb pipeline.Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c math.Vec3) {
	gl.ClearColor(c.X, c.Y, c.Z, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) ClearAttachment(index int, c math.Vec3) {
	rgba := [4]float32{c.X, c.Y, c.Z, 1}
	gl.ClearBufferfv(gl.COLOR, int32(index), &rgba[0])
}

func (d *Device) BindTexture(unit int, tex pipeline.Handle) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
}

// DrawQuad draws a single triangle covering the viewport. The vertex shader
// derives positions from gl_VertexID, so no buffers are bound.
func (d *Device) DrawQuad() {
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

func (d *Device) DeleteTextures(tex ...pipeline.Handle) {
	for _, t := range tex {
		id := uint32(t)
		gl.DeleteTextures(1, &id)
	}
}

func (d *Device) DeleteFramebuffers(fb ...pipeline.Handle) {
	for _, f := range fb {
		id := uint32(f)
		gl.DeleteFramebuffers(1, &id)
	}
}

func (d *Device) DeleteRenderbuffers(rb ...pipeline.Handle) {
	for _, r := range rb {
		id := uint32(r)
		gl.DeleteRenderbuffers(1, &id)
	}
}

// Destroy frees the device's own objects.
func (d *Device) Destroy() {
	if d.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &d.quadVAO)
		d.quadVAO = 0
	}
}
