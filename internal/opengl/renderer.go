package opengl

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"planet-render/app"
	"planet-render/internal/logger"
	"planet-render/math"
	"planet-render/planets"
	"planet-render/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Programs are the shader programs the scene pass uses.
type Programs struct {
	Lit    *Program
	Sun    *Program
	Skybox *Program
}

// SceneRenderer executes a planets draw list into the currently bound
// framebuffer, normally the HDR target.
type SceneRenderer struct {
	progs  Programs
	models map[planets.Body]*scene.Model
	skybox *Skybox

	Light scene.PointLight
	// Shininess applies to materials that do not set their own.
	Shininess float32
	// Phong selects plain Phong specular instead of Blinn-Phong.
	Phong bool
	// SunIntensity scales the Sun's texture so it exceeds the bloom threshold.
	SunIntensity float32

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

var _ app.SceneDrawer = (*SceneRenderer)(nil)

func NewSceneRenderer(progs Programs, light scene.PointLight) *SceneRenderer {
	return &SceneRenderer{
		progs:        progs,
		models:       make(map[planets.Body]*scene.Model),
		Light:        light,
		Shininess:    8,
		SunIntensity: 4,
		gpuMeshes:    make(map[*scene.Mesh]*GPUMesh),
	}
}

// SetModel assigns the model drawn for body and uploads its textures.
// Textures that fail to upload are logged and left unbound.
func (r *SceneRenderer) SetModel(body planets.Body, m *scene.Model) {
	for _, tex := range m.Textures {
		if err := UploadTexture(tex); err != nil {
			logger.Log.Warn("texture upload failed",
				zap.Stringer("body", body), zap.Error(err))
		}
	}
	r.models[body] = m
}

// SetSkybox uploads cm and uses it for Sky draws.
func (r *SceneRenderer) SetSkybox(cm *scene.Cubemap) error {
	if err := UploadCubemap(cm); err != nil {
		return err
	}
	if r.skybox != nil {
		r.skybox.Destroy()
	}
	r.skybox = NewSkybox(r.progs.Skybox, cm)
	return nil
}

func (r *SceneRenderer) SetPhong(enabled bool) { r.Phong = enabled }

// Draw renders list in order. Blending is enabled only around calls that
// ask for it.
func (r *SceneRenderer) Draw(list []planets.DrawCall, view, proj math.Mat4, camPos math.Vec3) {
	r.setupLit(view, proj, camPos)
	r.setupSun(view, proj)

	for _, call := range list {
		if call.Background {
			if r.skybox != nil {
				r.skybox.Draw(view, proj)
			}
			continue
		}

		model, ok := r.models[call.Body]
		if !ok {
			continue
		}
		prog, prefix := r.progs.Lit, "material."
		if call.Program == planets.ProgramSun {
			prog, prefix = r.progs.Sun, ""
		}
		prog.Use()

		if call.Blend {
			gl.Enable(gl.BLEND)
		}
		for _, d := range model.Draws() {
			prog.SetMat4("model", d.Local.Mul(call.Model))
			r.bindMaterial(prog, prefix, d.Mesh.Material)
			r.drawMesh(d.Mesh)
		}
		if call.Blend {
			gl.Disable(gl.BLEND)
		}
	}
}

func (r *SceneRenderer) setupLit(view, proj math.Mat4, camPos math.Vec3) {
	p := r.progs.Lit
	p.Use()
	p.SetMat4("view", view)
	p.SetMat4("projection", proj)
	p.SetVec3("viewPosition", camPos)

	l := r.Light
	p.SetVec3("pointLight.position", l.Position)
	p.SetVec3("pointLight.ambient", l.Ambient)
	p.SetVec3("pointLight.diffuse", l.Diffuse)
	p.SetVec3("pointLight.specular", l.Specular)
	p.SetFloat("pointLight.constant", l.Constant)
	p.SetFloat("pointLight.linear", l.Linear)
	p.SetFloat("pointLight.quadratic", l.Quadratic)
	p.SetBool("enable_fong", r.Phong)
	p.SetInt("material.texture_diffuse1", 0)
	p.SetInt("material.texture_specular1", 1)
}

func (r *SceneRenderer) setupSun(view, proj math.Mat4) {
	p := r.progs.Sun
	p.Use()
	p.SetMat4("view", view)
	p.SetMat4("projection", proj)
	p.SetFloat("intensity", r.SunIntensity)
	p.SetInt("texture_diffuse1", 0)
}

// bindMaterial binds diffuse to unit 0 and specular to unit 1. A material
// with only an emissive map uses it as its diffuse.
func (r *SceneRenderer) bindMaterial(prog *Program, prefix string, mat *scene.Material) {
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	diffuse := mat.Diffuse
	if diffuse == nil {
		diffuse = mat.Emissive
	}
	bind := func(unit uint32, tex *scene.Texture) {
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		if tex != nil && tex.GLID != 0 {
			gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
		} else {
			gl.BindTexture(gl.TEXTURE_2D, 0)
		}
	}
	bind(0, diffuse)
	bind(1, mat.Specular)
	prog.SetBool(prefix+"has_specular", mat.Specular != nil && mat.Specular.GLID != 0)
	if prog == r.progs.Lit {
		shininess := r.Shininess
		if mat.Shininess > 0 {
			shininess = mat.Shininess
		}
		prog.SetFloat(prefix+"shininess", shininess)
	}
}

func (r *SceneRenderer) drawMesh(mesh *scene.Mesh) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (r *SceneRenderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(scene.Vertex{}))
	gpu := &GPUMesh{IndexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v scene.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.GenBuffers(1, &gpu.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
		len(mesh.Indices)*4,
		gl.Ptr(mesh.Indices),
		gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	return gpu
}

func (r *SceneRenderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		gl.DeleteBuffers(1, &gpu.EBO)
		delete(r.gpuMeshes, mesh)
	}
}

// Destroy releases meshes, model textures and the skybox. Programs are
// owned by the caller.
func (r *SceneRenderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for _, m := range r.models {
		for _, tex := range m.Textures {
			DeleteTexture(tex)
		}
	}
	if r.skybox != nil {
		r.skybox.Destroy()
	}
}
