package pipeline

import "planet-render/math"

// Stage is one step of the post-processing chain. Process consumes the
// texture produced by the previous stage and returns its own output.
type Stage interface {
	Name() string
	Process(src Handle) Handle
}

// Pipeline sequences scene capture, blur and composite for one frame.
type Pipeline struct {
	dev Device

	Targets   *Targets
	Blur      *Blur
	Composite *Composite
	Settings  *Settings
}

func New(dev Device, targets *Targets, blurProg, compositeProg Program, passes int, settings *Settings) *Pipeline {
	return &Pipeline{
		dev:       dev,
		Targets:   targets,
		Blur:      NewBlur(dev, blurProg, targets, passes),
		Composite: NewComposite(dev, compositeProg, targets, settings),
		Settings:  settings,
	}
}

func (p *Pipeline) Stages() []Stage {
	return []Stage{p.Blur, p.Composite}
}

// BeginScene binds the HDR target and clears it. The bright-pass
// attachment is cleared to black so only fragments above the threshold
// reach the bloom. Scene draws follow.
func (p *Pipeline) BeginScene(clear math.Vec3) {
	w, h := p.Targets.Size()
	p.dev.BindFramebuffer(p.Targets.HDR.Framebuffer)
	p.dev.Viewport(w, h)
	p.dev.Clear(clear)
	p.dev.ClearAttachment(BrightAttachment, math.Vec3Zero)
	p.Composite.ClearColor = clear
}

// Finish runs every stage on the bright-pass and returns the last output.
func (p *Pipeline) Finish() Handle {
	h := p.Targets.BrightPass()
	for _, s := range p.Stages() {
		h = s.Process(h)
	}
	return h
}
