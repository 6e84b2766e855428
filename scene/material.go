package scene

// Material describes the textures a lit mesh samples. Slots left nil are
// not bound.
type Material struct {
	Name string

	Diffuse  *Texture // texture_diffuse1
	Specular *Texture // texture_specular1
	Emissive *Texture

	Shininess float32
}

func DefaultMaterial() *Material {
	return &Material{Name: "Default", Shininess: 8}
}
