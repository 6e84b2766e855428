package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"planet-render/math"
	"planet-render/scene"
)

// Skybox draws a cube-mapped unit cube around the camera. The vertex shader
// uses the xyww trick (gl_Position.z = gl_Position.w) so every fragment
// lands at NDC depth 1.0, behind all scene geometry.
type Skybox struct {
	vao  uint32
	vbo  uint32
	prog *Program

	Cubemap *scene.Cubemap
}

var skyboxCorners = [8][3]float32{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// Two triangles per face into skyboxCorners. Culling is off while the sky
// draws, so winding does not matter.
var skyboxFaces = [6][4]int{
	{0, 1, 2, 3}, {5, 4, 7, 6}, {4, 0, 3, 7},
	{1, 5, 6, 2}, {4, 5, 1, 0}, {3, 2, 6, 7},
}

const skyboxVertexCount = len(skyboxFaces) * 6

// skyboxPositions expands the faces into a flat triangle list.
func skyboxPositions() []float32 {
	out := make([]float32, 0, skyboxVertexCount*3)
	for _, f := range skyboxFaces {
		for _, i := range [6]int{0, 1, 2, 2, 3, 0} {
			c := skyboxCorners[f[i]]
			out = append(out, c[0], c[1], c[2])
		}
	}
	return out
}

// NewSkybox uploads the cube geometry. prog samples a samplerCube named
// "skybox" and takes "view" and "projection" matrices.
func NewSkybox(prog *Program, cubemap *scene.Cubemap) *Skybox {
	sb := &Skybox{prog: prog, Cubemap: cubemap}
	verts := skyboxPositions()

	gl.GenVertexArrays(1, &sb.vao)
	gl.BindVertexArray(sb.vao)
	gl.GenBuffers(1, &sb.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, sb.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return sb
}

// Draw renders the sky. The translation is stripped from view here so the
// sky stays infinitely far away.
func (sb *Skybox) Draw(view, proj math.Mat4) {
	if sb.Cubemap == nil || sb.Cubemap.GLID == 0 {
		return
	}

	// LEQUAL so depth=1.0 fragments pass against the cleared depth value.
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)

	sb.prog.Use()
	sb.prog.SetInt("skybox", 0)
	sb.prog.SetMat4("view", view.WithoutTranslation())
	sb.prog.SetMat4("projection", proj)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, sb.Cubemap.GLID)
	gl.BindVertexArray(sb.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(skyboxVertexCount))
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	gl.Enable(gl.CULL_FACE)
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
}

// Destroy frees the geometry and the cubemap texture.
func (sb *Skybox) Destroy() {
	gl.DeleteVertexArrays(1, &sb.vao)
	gl.DeleteBuffers(1, &sb.vbo)
	DeleteCubemap(sb.Cubemap)
}
