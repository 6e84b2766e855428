package scene

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"planet-render/math"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestNodeWalkAppliesParents(t *testing.T) {
	parent := NewNode("parent")
	parent.Local = math.Mat4TRS(math.NewVec3(10, 0, 0), math.Quaternion{W: 1}, math.NewVec3(2, 2, 2))
	child := NewNode("child")
	child.Local = math.Mat4Translation(math.NewVec3(1, 0, 0))
	parent.Attach(child)
	assert.Same(t, parent, child.Parent)

	worlds := map[string]math.Vec3{}
	parent.Walk(math.Mat4Identity(), func(n *Node, world math.Mat4) {
		worlds[n.Name] = world.Origin()
	})

	// child origin: (1,0,0) scaled by 2 then moved by 10
	assert.InDelta(t, 12, worlds["child"].X, 1e-5)
	assert.InDelta(t, 10, worlds["parent"].X, 1e-5)
}

func TestLoadTextureFormats(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "a.png")
	writePNG(t, pngPath, 3, 2, color.RGBA{255, 0, 0, 255})
	tex, err := LoadTexture(pngPath)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, 2, tex.Height)
	assert.Len(t, tex.Pixels, 3*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels[:4])

	bmpPath := filepath.Join(dir, "b.bmp")
	f, err := os.Create(bmpPath)
	require.NoError(t, err)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{0, 0, 255, 255})
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())

	tex, err = LoadTexture(bmpPath)
	require.NoError(t, err)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, []byte{0, 0, 255, 255}, tex.Pixels[:4])

	_, err = LoadTexture(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestLoadCubeFaces(t *testing.T) {
	dir := t.TempDir()
	paths := CubeFacePaths(dir, ".png")
	for i, p := range paths {
		if i == 3 {
			continue // bottom face missing
		}
		size := 8
		if i == 0 {
			size = 16
		}
		writePNG(t, p, size, size, color.RGBA{uint8(i * 40), 0, 0, 255})
	}

	cm, err := LoadCubeFaces(context.Background(), paths)
	require.NoError(t, err)
	assert.Equal(t, 16, cm.Size)
	assert.Equal(t, []string{"bottom"}, cm.Missing())
	for i, f := range cm.Faces {
		if i == 3 {
			assert.Nil(t, f)
			continue
		}
		require.NotNil(t, f)
		assert.Equal(t, 16, f.Width)
		assert.Equal(t, 16, f.Height)
		assert.Len(t, f.Pixels, 16*16*4)
	}
}

func TestLoadCubeFacesNothingLoaded(t *testing.T) {
	_, err := LoadCubeFaces(context.Background(), CubeFacePaths(t.TempDir(), ".jpg"))
	assert.Error(t, err)
}

func TestLoadCubeFacesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadCubeFaces(ctx, CubeFacePaths(t.TempDir(), ".png"))
	assert.Error(t, err)
}

func TestLoadModel(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{"POSITION": pos, "NORMAL": nrm},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "root", Children: []int{1}, Translation: [3]float64{0, 0, 5}},
		{Name: "leaf", Mesh: gltf.Index(0)},
	}
	doc.Scenes[0].Nodes = []int{0}

	dir := filepath.Join(t.TempDir(), "earth")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "scene.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "earth", m.Name)
	require.Len(t, m.Roots, 1)
	assert.Equal(t, "root", m.Roots[0].Name)

	draws := m.Draws()
	require.Len(t, draws, 1)
	mesh := draws[0].Mesh
	assert.Len(t, mesh.Indices, 3)
	assert.Equal(t, math.NewVec3(1, 0, 0), mesh.Vertices[1].Position)
	assert.Equal(t, math.NewVec3(0, 0, 1), mesh.Vertices[1].Normal)
	assert.InDelta(t, 5, draws[0].Local.Origin().Z, 1e-6)
}

func TestLoadModelSkipsOutOfRangeReferences(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "broken",
		Primitives: []*gltf.Primitive{
			{Indices: gltf.Index(42), Attributes: map[string]int{"POSITION": pos}},
			{Attributes: map[string]int{"POSITION": 99}},
			{Attributes: map[string]int{"POSITION": pos, "NORMAL": 77}},
		},
	}}
	doc.Images = []*gltf.Image{{Name: "lost", BufferView: gltf.Index(9), MimeType: "image/png"}}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}, {Source: gltf.Index(5)}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = []int{0}

	path := filepath.Join(t.TempDir(), "broken.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	var m *Model
	var err error
	require.NotPanics(t, func() { m, err = LoadModel(path) })
	require.NoError(t, err)
	assert.Empty(t, m.Textures)

	// only the primitive with a bad optional attribute survives
	draws := m.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, math.Vec3Up, draws[0].Mesh.Vertices[0].Normal)
}

func TestLoadModelMissing(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "nope.gltf"))
	assert.Error(t, err)
}

func TestPointLightAttenuation(t *testing.T) {
	l := NewSunLight(math.NewVec3(0, 0, 2345))
	assert.Equal(t, float32(1), l.Attenuation(0))
	// 1 / (1 + 1 + 1) at the characteristic distance
	assert.InDelta(t, 1.0/3.0, l.Attenuation(30000), 1e-4)
}
