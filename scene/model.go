package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"planet-render/internal/logger"
	"planet-render/math"
)

// Model is a loaded glTF asset: its node hierarchy and the textures that
// need GPU upload.
type Model struct {
	Name     string
	Roots    []*Node
	Textures []*Texture
}

// MeshDraw is one mesh with its model-space matrix.
type MeshDraw struct {
	Mesh  *Mesh
	Local math.Mat4
}

// LoadModel opens a .gltf or .glb file. Mesh geometry, base color, metallic
// roughness (as specular) and emissive textures, and the node hierarchy are
// populated. A texture that fails to load is logged and left unset.
func LoadModel(path string) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	model := &Model{Name: filepath.Base(dir)}
	log := logger.Log.With(zap.String("model", path))

	texCache := make([]*Texture, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		tex, err := loadImage(doc, dir, *gt.Source)
		if err != nil {
			log.Warn("texture not loaded", zap.Int("image", *gt.Source), zap.Error(err))
			continue
		}
		if tex != nil {
			texCache[i] = tex
			model.Textures = append(model.Textures, tex)
		}
	}
	lookup := func(idx int) *Texture {
		if idx >= 0 && idx < len(texCache) {
			return texCache[idx]
		}
		return nil
	}

	matCache := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorTexture != nil {
				mat.Diffuse = lookup(pbr.BaseColorTexture.Index)
			}
			if pbr.MetallicRoughnessTexture != nil {
				mat.Specular = lookup(pbr.MetallicRoughnessTexture.Index)
			}
		}
		if gm.EmissiveTexture != nil {
			mat.Emissive = lookup(gm.EmissiveTexture.Index)
		}
		matCache[i] = mat
	}

	// meshPrims[meshIdx] = one *Mesh per primitive
	meshPrims := make([][]*Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			m, err := loadPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				log.Warn("primitive skipped", zap.Int("mesh", mi), zap.Int("primitive", pi), zap.Error(err))
				continue
			}
			if prim.Material != nil && *prim.Material < len(matCache) {
				m.Material = matCache[*prim.Material]
			}
			meshPrims[mi] = append(meshPrims[mi], m)
		}
	}

	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := NewNode(name)
		n.Local = nodeLocal(gn)

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			switch len(prims) {
			case 0:
			case 1:
				n.Mesh = prims[0]
			default:
				for pi, p := range prims {
					child := NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Mesh = p
					n.Attach(child)
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) {
				nodes[i].Attach(nodes[c])
				hasParent[c] = true
			}
		}
	}

	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			if rootIdx < len(nodes) {
				model.Roots = append(model.Roots, nodes[rootIdx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				model.Roots = append(model.Roots, n)
			}
		}
	}

	return model, nil
}

// nodeLocal returns the node's matrix, or its TRS when no matrix is given.
func nodeLocal(gn *gltf.Node) math.Mat4 {
	if mat := gn.MatrixOrDefault(); mat != gltf.DefaultMatrix {
		var m [16]float32
		for i, v := range mat {
			m[i] = float32(v)
		}
		return math.Mat4FromColumnMajor(m)
	}
	t := gn.TranslationOrDefault()
	sc := gn.ScaleOrDefault()
	r := gn.RotationOrDefault() // x, y, z, w
	return math.Mat4TRS(
		math.NewVec3(float32(t[0]), float32(t[1]), float32(t[2])),
		math.Quaternion{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])},
		math.NewVec3(float32(sc[0]), float32(sc[1]), float32(sc[2])),
	)
}

func loadImage(doc *gltf.Document, dir string, idx int) (*Texture, error) {
	if idx < 0 || idx >= len(doc.Images) {
		return nil, fmt.Errorf("image %d out of range (%d images)", idx, len(doc.Images))
	}
	img := doc.Images[idx]
	name := img.Name
	if name == "" {
		name = fmt.Sprintf("gltf_img_%d", idx)
	}

	switch {
	case img.BufferView != nil:
		if bv := *img.BufferView; bv < 0 || bv >= len(doc.BufferViews) {
			return nil, fmt.Errorf("buffer view %d out of range (%d views)", bv, len(doc.BufferViews))
		}
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return nil, fmt.Errorf("bufferview: %w", err)
		}
		return decodeImageBytes(name, raw)
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("embedded image: %w", err)
		}
		return decodeImageBytes(name, raw)
	case img.URI != "":
		return LoadTexture(filepath.Join(dir, img.URI))
	}
	return nil, nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

// attribute reads a vertex attribute. A missing one yields nil and no error.
func attribute[T any](doc *gltf.Document, prim *gltf.Primitive, key string,
	read func(*gltf.Document, *gltf.Accessor, []T) ([]T, error)) ([]T, error) {
	idx, ok := prim.Attributes[key]
	if !ok {
		return nil, nil
	}
	acr, err := accessor(doc, idx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	out, err := read(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

func loadPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, error) {
	if _, ok := prim.Attributes[gltf.POSITION]; !ok {
		return nil, errors.New("primitive has no POSITION")
	}
	positions, err := attribute(doc, prim, gltf.POSITION, modeler.ReadPosition)
	if err != nil {
		return nil, err
	}
	// Optional attributes that fail to read fall back to the defaults.
	normals, _ := attribute(doc, prim, gltf.NORMAL, modeler.ReadNormal)
	uvs, _ := attribute(doc, prim, gltf.TEXCOORD_0, modeler.ReadTextureCoord)

	verts := make([]Vertex, len(positions))
	for i, p := range positions {
		verts[i] = Vertex{Position: vec3(p), Normal: math.Vec3Up}
		if i < len(normals) {
			verts[i].Normal = vec3(normals[i])
		}
		if i < len(uvs) {
			verts[i].UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}

	name := fmt.Sprintf("prim_%d", primIdx)
	if meshName != "" {
		name = fmt.Sprintf("%s_p%d", meshName, primIdx)
	}
	return CreateMeshFromData(name, verts, indices), nil
}

func vec3(v [3]float32) math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

// Draws flattens the hierarchy into meshes with their model-space matrices.
func (m *Model) Draws() []MeshDraw {
	var out []MeshDraw
	for _, root := range m.Roots {
		root.Walk(math.Mat4Identity(), func(n *Node, world math.Mat4) {
			if n.Mesh != nil {
				out = append(out, MeshDraw{Mesh: n.Mesh, Local: world})
			}
		})
	}
	return out
}
