package pipeline

import (
	"fmt"

	"planet-render/math"
)

type storage struct {
	format        Format
	width, height int
}

type call struct {
	op   string
	args []any
}

// fakeDevice records every command and keeps enough state to answer
// FramebufferStatus.
type fakeDevice struct {
	next    Handle
	calls   []call
	storage map[Handle]storage
	bound   Handle
	units   map[int]Handle

	incomplete map[Handle]bool
	deleted    map[Handle]bool

	// attached[fb][i] is the texture on color attachment i; enabled[fb] is
	// the DrawBuffers count. contents holds the last color cleared into
	// each texture.
	attached map[Handle]map[int]Handle
	enabled  map[Handle]int
	contents map[Handle]math.Vec3
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		next:       1,
		storage:    map[Handle]storage{},
		units:      map[int]Handle{},
		incomplete: map[Handle]bool{},
		deleted:    map[Handle]bool{},
		attached:   map[Handle]map[int]Handle{},
		enabled:    map[Handle]int{},
		contents:   map[Handle]math.Vec3{},
	}
}

func (d *fakeDevice) record(op string, args ...any) {
	d.calls = append(d.calls, call{op: op, args: args})
}

func (d *fakeDevice) gen() Handle {
	h := d.next
	d.next++
	return h
}

func (d *fakeDevice) GenTexture() Handle      { return d.gen() }
func (d *fakeDevice) GenFramebuffer() Handle  { return d.gen() }
func (d *fakeDevice) GenRenderbuffer() Handle { return d.gen() }

func (d *fakeDevice) AllocTexture(tex Handle, f Format, w, h int) {
	d.record("AllocTexture", tex, w, h)
	d.storage[tex] = storage{f, w, h}
}

func (d *fakeDevice) AllocRenderbuffer(rb Handle, f Format, w, h int) {
	d.record("AllocRenderbuffer", rb, w, h)
	d.storage[rb] = storage{f, w, h}
}

func (d *fakeDevice) AttachColor(fb Handle, i int, tex Handle) {
	d.record("AttachColor", fb, i, tex)
	if d.attached[fb] == nil {
		d.attached[fb] = map[int]Handle{}
	}
	d.attached[fb][i] = tex
}

func (d *fakeDevice) AttachDepthStencil(fb, rb Handle) { d.record("AttachDepthStencil", fb, rb) }

func (d *fakeDevice) DrawBuffers(fb Handle, n int) {
	d.record("DrawBuffers", fb, n)
	d.enabled[fb] = n
}

func (d *fakeDevice) FramebufferStatus(fb Handle) error {
	if d.incomplete[fb] {
		return fmt.Errorf("%w: 0x%X", ErrIncompleteFramebuffer, 0x8CD6)
	}
	return nil
}

func (d *fakeDevice) BindFramebuffer(fb Handle) {
	d.record("BindFramebuffer", fb)
	d.bound = fb
}

func (d *fakeDevice) Viewport(w, h int) { d.record("Viewport", w, h) }
func (d *fakeDevice) Clear(c math.Vec3) {
	d.record("Clear", c)
	n := d.enabled[d.bound]
	if n == 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if tex, ok := d.attached[d.bound][i]; ok {
			d.contents[tex] = c
		}
	}
}

func (d *fakeDevice) ClearAttachment(i int, c math.Vec3) {
	d.record("ClearAttachment", i, c)
	if tex, ok := d.attached[d.bound][i]; ok {
		d.contents[tex] = c
	}
}

func (d *fakeDevice) BindTexture(u int, tex Handle) {
	d.record("BindTexture", u, tex)
	d.units[u] = tex
}

func (d *fakeDevice) DrawQuad() {
	d.record("DrawQuad", d.bound, d.units[0], d.units[1])
}

func (d *fakeDevice) del(hs []Handle) {
	for _, h := range hs {
		d.deleted[h] = true
	}
}

func (d *fakeDevice) DeleteTextures(tex ...Handle)     { d.del(tex) }
func (d *fakeDevice) DeleteFramebuffers(fb ...Handle)  { d.del(fb) }
func (d *fakeDevice) DeleteRenderbuffers(rb ...Handle) { d.del(rb) }

func (d *fakeDevice) count(op string) int {
	n := 0
	for _, c := range d.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func (d *fakeDevice) draws() []call {
	var out []call
	for _, c := range d.calls {
		if c.op == "DrawQuad" {
			out = append(out, c)
		}
	}
	return out
}

func (d *fakeDevice) reset() { d.calls = nil }

// fakeProgram keeps the last value set for each uniform.
type fakeProgram struct {
	uses    int
	bools   map[string]bool
	ints    map[string]int32
	floats  map[string]float32
	history []bool // every "horizontal" value, in order
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{
		bools:  map[string]bool{},
		ints:   map[string]int32{},
		floats: map[string]float32{},
	}
}

func (p *fakeProgram) Use() { p.uses++ }

func (p *fakeProgram) SetBool(name string, v bool) {
	p.bools[name] = v
	if name == "horizontal" {
		p.history = append(p.history, v)
	}
}

func (p *fakeProgram) SetInt(name string, v int32)     { p.ints[name] = v }
func (p *fakeProgram) SetFloat(name string, v float32) { p.floats[name] = v }
