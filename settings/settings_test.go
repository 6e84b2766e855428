package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planet-render/math"
)

func TestRoundTripPreservesOverlayFlag(t *testing.T) {
	for _, overlay := range []bool{true, false} {
		in := Default()
		in.OverlayEnabled = overlay
		in.ClearColor = math.NewVec3(0.1, 0.25, 0.5)
		in.Bloom = false
		in.Exposure = 2.5

		path := filepath.Join(t.TempDir(), "program_state.txt")
		require.NoError(t, Save(path, in))

		out, err := Load(path, Default())
		require.NoError(t, err)
		assert.Equal(t, overlay, out.OverlayEnabled)
		assert.Equal(t, in.ClearColor, out.ClearColor)
		assert.False(t, out.Bloom)
		assert.True(t, out.HDR)
		assert.Equal(t, float32(2.5), out.Exposure)
	}
}

func TestLoadMissingFileKeepsBase(t *testing.T) {
	base := Default()
	base.HDR = false
	base.Exposure = 3

	s, err := Load(filepath.Join(t.TempDir(), "missing.txt"), base)
	require.NoError(t, err)
	assert.Equal(t, base, s)
}

func TestShortFileKeepsRemainingDefaults(t *testing.T) {
	// the four-field layout written by older builds
	s, err := Read(strings.NewReader("0.2\n0.3\n0.4\n1\n"), Default())
	require.NoError(t, err)
	assert.Equal(t, float32(0.2), s.ClearColor.X)
	assert.Equal(t, float32(0.4), s.ClearColor.Z)
	assert.True(t, s.OverlayEnabled)
	assert.True(t, s.Bloom)
	assert.True(t, s.HDR)
	assert.Equal(t, float32(1), s.Exposure)

	s, err = Read(strings.NewReader("0.5"), Default())
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), s.ClearColor.X)
	assert.Equal(t, float32(0), s.ClearColor.Y)
	assert.False(t, s.OverlayEnabled)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("red 0 0 1"), Default())
	assert.Error(t, err)

	_, err = Read(strings.NewReader("0 0 0 maybe"), Default())
	assert.Error(t, err)
}

func TestReadRejectsBadExposure(t *testing.T) {
	base := Default()
	base.Exposure = 2
	for _, tok := range []string{"-3", "0", "NaN", "+Inf"} {
		s, err := Read(strings.NewReader("0 0 0 0 1 1 "+tok), base)
		assert.Error(t, err, tok)
		assert.Equal(t, base, s, tok)
	}
}

func TestMalformedFileKeepsBase(t *testing.T) {
	base := Default()
	base.HDR = false

	// the clear color parses but the overlay flag does not
	s, err := Read(strings.NewReader("0.5 0.5 0.5 maybe"), base)
	require.Error(t, err)
	assert.Equal(t, base, s)

	path := filepath.Join(t.TempDir(), "program_state.txt")
	require.NoError(t, os.WriteFile(path, []byte("0.9 0.9 0.9 1 0 0 oops"), 0o644))
	s, err = Load(path, base)
	require.Error(t, err)
	assert.Equal(t, base, s)
}

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))
	assert.Equal(t, "0\n0\n0\n0\n1\n1\n1\n", buf.String())
}
