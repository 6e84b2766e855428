package scene

import "planet-render/math"

// PointLight is an omni light with distance attenuation
// 1 / (Constant + Linear*d + Quadratic*d²).
type PointLight struct {
	Position math.Vec3
	Ambient  math.Vec3
	Diffuse  math.Vec3
	Specular math.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32
}

// NewSunLight returns the light used for the Sun. Attenuation is tuned so
// that Earth, a couple of thousand units away, is still fully lit.
func NewSunLight(pos math.Vec3) PointLight {
	const reach = 30000
	return PointLight{
		Position:  pos,
		Ambient:   math.Vec3{X: 0.05, Y: 0.05, Z: 0.05},
		Diffuse:   math.Vec3{X: 0.6, Y: 0.6, Z: 0.6},
		Specular:  math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		Constant:  1,
		Linear:    1.0 / reach,
		Quadratic: 1.0 / (reach * reach),
	}
}

// Attenuation evaluates the falloff at distance d.
func (l PointLight) Attenuation(d float32) float32 {
	return 1 / (l.Constant + l.Linear*d + l.Quadratic*d*d)
}
