package pipeline

import "planet-render/math"

// Settings are the user-facing post-processing switches.
type Settings struct {
	Bloom    bool
	HDR      bool
	Exposure float32
}

func DefaultSettings() Settings {
	return Settings{Bloom: true, HDR: true, Exposure: 1.0}
}

// Composite tone-maps the HDR scene plus bloom into the default framebuffer.
type Composite struct {
	dev      Device
	prog     Program
	targets  *Targets
	settings *Settings

	ClearColor math.Vec3
}

func NewComposite(dev Device, prog Program, targets *Targets, settings *Settings) *Composite {
	return &Composite{dev: dev, prog: prog, targets: targets, settings: settings}
}

func (c *Composite) Name() string { return "composite" }

// Process draws the final frame using bloom as the blurred bright-pass and
// returns DefaultFramebuffer.
func (c *Composite) Process(bloom Handle) Handle {
	c.dev.BindFramebuffer(DefaultFramebuffer)
	c.dev.Clear(c.ClearColor)

	c.prog.Use()
	c.prog.SetInt("scene", 0)
	c.prog.SetInt("bloomBlur", 1)
	c.dev.BindTexture(0, c.targets.SceneColor())
	c.dev.BindTexture(1, bloom)
	c.prog.SetBool("bloom", c.settings.Bloom)
	c.prog.SetBool("hdr", c.settings.HDR)
	c.prog.SetFloat("exposure", c.settings.Exposure)
	c.dev.DrawQuad()
	return DefaultFramebuffer
}
