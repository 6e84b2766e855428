package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planet-render/math"
)

var testClear = math.NewVec3(0.1, 0.1, 0.1)

func newTestPipeline(t *testing.T, s *Settings) (*Pipeline, *fakeDevice, *fakeProgram, *fakeProgram) {
	t.Helper()
	d := newFakeDevice()
	tg := NewTargets(d)
	tg.Init(800, 600)
	blurProg, compProg := newFakeProgram(), newFakeProgram()
	p := New(d, tg, blurProg, compProg, 20, s)
	d.reset()
	return p, d, blurProg, compProg
}

func TestCompositeUniformsFollowSettings(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
	}{
		{"all on", Settings{Bloom: true, HDR: true, Exposure: 1}},
		{"bloom off", Settings{Bloom: false, HDR: true, Exposure: 0.5}},
		{"hdr off", Settings{Bloom: true, HDR: false, Exposure: 2}},
		{"all off", Settings{Exposure: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.s
			p, _, _, comp := newTestPipeline(t, &s)
			p.Composite.Process(p.Targets.PingPong[0].Color[0].Handle)

			assert.Equal(t, tt.s.Bloom, comp.bools["bloom"])
			assert.Equal(t, tt.s.HDR, comp.bools["hdr"])
			assert.Equal(t, tt.s.Exposure, comp.floats["exposure"])
			assert.Equal(t, int32(0), comp.ints["scene"])
			assert.Equal(t, int32(1), comp.ints["bloomBlur"])
		})
	}
}

func TestCompositeSeesSettingChanges(t *testing.T) {
	s := DefaultSettings()
	p, _, _, comp := newTestPipeline(t, &s)

	p.Finish()
	assert.True(t, comp.bools["bloom"])

	s.Bloom = false
	s.HDR = false
	p.Finish()
	assert.False(t, comp.bools["bloom"])
	assert.False(t, comp.bools["hdr"])
}

func TestFrameOrder(t *testing.T) {
	s := DefaultSettings()
	p, d, _, _ := newTestPipeline(t, &s)

	p.BeginScene(testClear)
	require.GreaterOrEqual(t, len(d.calls), 4)
	assert.Equal(t, call{"BindFramebuffer", []any{p.Targets.HDR.Framebuffer}}, d.calls[0])
	assert.Equal(t, call{"Viewport", []any{800, 600}}, d.calls[1])
	assert.Equal(t, call{"Clear", []any{testClear}}, d.calls[2])
	assert.Equal(t, call{"ClearAttachment", []any{BrightAttachment, math.Vec3Zero}}, d.calls[3])

	out := p.Finish()
	assert.Equal(t, DefaultFramebuffer, out)

	draws := d.draws()
	require.Len(t, draws, 21)
	last := draws[20]
	assert.Equal(t, DefaultFramebuffer, last.args[0])
	assert.Equal(t, p.Targets.SceneColor(), last.args[1])
	assert.Equal(t, p.Targets.PingPong[0].Color[0].Handle, last.args[2])
}

func TestStages(t *testing.T) {
	s := DefaultSettings()
	p, _, _, _ := newTestPipeline(t, &s)

	var names []string
	for _, st := range p.Stages() {
		names = append(names, st.Name())
	}
	assert.Equal(t, []string{"blur", "composite"}, names)
}

func TestBeginSceneKeepsBrightPassBlack(t *testing.T) {
	s := DefaultSettings()
	p, d, _, _ := newTestPipeline(t, &s)

	clear := math.NewVec3(0.08, 0.02, 0.1)
	p.BeginScene(clear)
	assert.Equal(t, clear, d.contents[p.Targets.SceneColor()])
	assert.Equal(t, math.Vec3Zero, d.contents[p.Targets.BrightPass()])
}
