package scene

// Mesh holds CPU-side vertex and index data. GPU buffers are owned by the
// renderer, keyed by the mesh pointer.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material
}

// CreateMeshFromData builds a mesh. Without indices the vertices are drawn
// in order.
func CreateMeshFromData(name string, vertices []Vertex, indices []uint32) *Mesh {
	if len(indices) == 0 {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return &Mesh{Name: name, Vertices: vertices, Indices: indices}
}
