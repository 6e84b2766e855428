package pipeline

type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ReadBrightPass marks a pass that samples the HDR bright-pass attachment
// instead of a ping-pong slot.
const ReadBrightPass = -1

// BlurPass is one single-axis Gaussian pass.
type BlurPass struct {
	Index int
	Axis  Axis
	Read  int // ping-pong slot, or ReadBrightPass
	Write int // ping-pong slot
}

// PlanBlur lays out n alternating passes. The first pass is horizontal and
// reads the bright-pass; every later pass reads the slot written before it.
// Horizontal passes write slot 1, vertical passes write slot 0, so an even
// count leaves the result in slot 0.
func PlanBlur(n int) []BlurPass {
	if n <= 0 {
		return nil
	}
	passes := make([]BlurPass, n)
	read := ReadBrightPass
	for i := range passes {
		p := BlurPass{Index: i, Axis: Horizontal, Write: 1, Read: read}
		if i%2 == 1 {
			p.Axis = Vertical
			p.Write = 0
		}
		passes[i] = p
		read = p.Write
	}
	return passes
}

// Blur runs the ping-pong Gaussian over the targets' ping-pong buffers.
type Blur struct {
	dev     Device
	prog    Program
	targets *Targets

	Passes int
}

func NewBlur(dev Device, prog Program, targets *Targets, passes int) *Blur {
	return &Blur{dev: dev, prog: prog, targets: targets, Passes: passes}
}

func (b *Blur) Name() string { return "blur" }

// Process blurs src and returns the texture written by the last pass. With
// no passes src is returned untouched.
func (b *Blur) Process(src Handle) Handle {
	plan := PlanBlur(b.Passes)
	if len(plan) == 0 {
		return src
	}

	out := src
	b.prog.Use()
	b.prog.SetInt("image", 0)
	for _, p := range plan {
		dst := &b.targets.PingPong[p.Write]
		b.dev.BindFramebuffer(dst.Framebuffer)
		b.prog.SetBool("horizontal", p.Axis == Horizontal)

		read := src
		if p.Read != ReadBrightPass {
			read = b.targets.PingPong[p.Read].Color[0].Handle
		}
		b.dev.BindTexture(0, read)
		b.dev.DrawQuad()
		out = dst.Color[0].Handle
	}
	b.dev.BindFramebuffer(DefaultFramebuffer)
	return out
}
