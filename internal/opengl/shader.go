package opengl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"planet-render/math"
	"planet-render/pipeline"
)

// Program is a linked shader program loaded from a vertex and a fragment
// source file. Uniform locations are looked up lazily and cached.
type Program struct {
	Name     string
	VertPath string
	FragPath string

	id   uint32
	locs map[string]int32
}

var _ pipeline.Program = (*Program)(nil)

// LoadProgram reads, compiles and links the two shader files.
func LoadProgram(name, vertPath, fragPath string) (*Program, error) {
	p := &Program{Name: name, VertPath: vertPath, FragPath: fragPath}
	id, err := p.build()
	if err != nil {
		return nil, err
	}
	p.id = id
	p.locs = make(map[string]int32)
	return p, nil
}

func (p *Program) build() (uint32, error) {
	vert, err := os.ReadFile(p.VertPath)
	if err != nil {
		return 0, fmt.Errorf("%s shader: %w", p.Name, err)
	}
	frag, err := os.ReadFile(p.FragPath)
	if err != nil {
		return 0, fmt.Errorf("%s shader: %w", p.Name, err)
	}
	id, err := newProgram(string(vert)+"\x00", string(frag)+"\x00")
	if err != nil {
		return 0, fmt.Errorf("%s shader: %w", p.Name, err)
	}
	return id, nil
}

// Reload rebuilds the program from disk. On failure the previous program
// stays in use and the error is returned. Uniforms must be set again.
func (p *Program) Reload() error {
	id, err := p.build()
	if err != nil {
		return err
	}
	gl.DeleteProgram(p.id)
	p.id = id
	p.locs = make(map[string]int32)
	return nil
}

// Uses reports whether path is one of the program's sources.
func (p *Program) Uses(path string) bool {
	path = filepath.Clean(path)
	return path == filepath.Clean(p.VertPath) || path == filepath.Clean(p.FragPath)
}

func (p *Program) Use() { gl.UseProgram(p.id) }

func (p *Program) loc(name string) int32 {
	if l, ok := p.locs[name]; ok {
		return l
	}
	l := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locs[name] = l
	return l
}

func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	gl.Uniform1i(p.loc(name), i)
}

func (p *Program) SetInt(name string, v int32) { gl.Uniform1i(p.loc(name), v) }

func (p *Program) SetFloat(name string, v float32) { gl.Uniform1f(p.loc(name), v) }

func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.loc(name), v.X, v.Y, v.Z)
}

func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.loc(name), 1, false, &m[0][0])
}

func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(frag)

	id := gl.CreateProgram()
	gl.AttachShader(id, vert)
	gl.AttachShader(id, frag)
	gl.LinkProgram(id)
	if msg, ok := infoLog(id, gl.LINK_STATUS, gl.GetProgramiv, gl.GetProgramInfoLog); !ok {
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("link: %s", msg)
	}
	return id, nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	id := gl.CreateShader(kind)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)
	if msg, ok := infoLog(id, gl.COMPILE_STATUS, gl.GetShaderiv, gl.GetShaderInfoLog); !ok {
		gl.DeleteShader(id)
		return 0, fmt.Errorf("compile: %s", msg)
	}
	return id, nil
}

// infoLog checks status on a shader or program object and returns the
// driver's log when it reports failure.
func infoLog(
	id, status uint32,
	getiv func(uint32, uint32, *int32),
	getLog func(uint32, int32, *int32, *uint8),
) (string, bool) {
	var ok int32
	getiv(id, status, &ok)
	if ok != gl.FALSE {
		return "", true
	}
	var n int32
	getiv(id, gl.INFO_LOG_LENGTH, &n)
	buf := strings.Repeat("\x00", int(n+1))
	getLog(id, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00"), false
}
