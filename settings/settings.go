// Package settings persists the small program state that survives between
// runs: clear color, overlay visibility and the post-processing switches.
//
// The file is a flat list of whitespace separated scalars:
//
//	clearR clearG clearB overlay bloom hdr exposure
//
// Booleans are written as 0/1. A short file keeps the defaults for every
// field that was not read. A malformed file is rejected as a whole.
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"planet-render/math"
	"planet-render/pipeline"
)

type State struct {
	ClearColor     math.Vec3
	OverlayEnabled bool
	Bloom          bool
	HDR            bool
	Exposure       float32
}

// Default starts from a black clear color and the pipeline's defaults.
func Default() State {
	post := pipeline.DefaultSettings()
	return State{
		ClearColor: math.Vec3Zero,
		Bloom:      post.Bloom,
		HDR:        post.HDR,
		Exposure:   post.Exposure,
	}
}

// Load reads path on top of base. A missing file returns base unchanged, and
// so does a malformed one, together with the parse error.
func Load(path string, base State) (State, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("failed to open settings: %w", err)
	}
	defer f.Close()
	return Read(f, base)
}

// Read parses fields in order on top of base and stops at the first
// missing one. On any error it returns base, never a partial state.
func Read(r io.Reader, base State) (State, error) {
	s, err := read(r, base)
	if err != nil {
		return base, err
	}
	return s, nil
}

func read(r io.Reader, base State) (State, error) {
	s := base

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	floats := []*float32{&s.ClearColor.X, &s.ClearColor.Y, &s.ClearColor.Z}
	for _, dst := range floats {
		tok, ok := next()
		if !ok {
			return s, sc.Err()
		}
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return s, fmt.Errorf("invalid clear color component %q: %w", tok, err)
		}
		*dst = float32(v)
	}

	for _, dst := range []*bool{&s.OverlayEnabled, &s.Bloom, &s.HDR} {
		tok, ok := next()
		if !ok {
			return s, sc.Err()
		}
		b, err := parseFlag(tok)
		if err != nil {
			return s, err
		}
		*dst = b
	}

	tok, ok := next()
	if !ok {
		return s, sc.Err()
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return s, fmt.Errorf("invalid exposure %q: %w", tok, err)
	}
	e := float32(v)
	if math32.IsNaN(e) || math32.IsInf(e, 0) || e <= 0 {
		return s, fmt.Errorf("invalid exposure %q: must be a positive number", tok)
	}
	s.Exposure = e
	return s, nil
}

func parseFlag(tok string) (bool, error) {
	switch tok {
	case "0", "false":
		return false, nil
	case "1", "true":
		return true, nil
	}
	return false, fmt.Errorf("invalid flag %q", tok)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Write emits s in the format Read accepts.
func Write(w io.Writer, s State) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%g\n%g\n%g\n", s.ClearColor.X, s.ClearColor.Y, s.ClearColor.Z)
	fmt.Fprintf(&sb, "%s\n%s\n%s\n", flag(s.OverlayEnabled), flag(s.Bloom), flag(s.HDR))
	fmt.Fprintf(&sb, "%g\n", s.Exposure)
	_, err := io.WriteString(w, sb.String())
	return err
}

func Save(path string, s State) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create settings: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return f.Close()
}
