package scene

import (
	"planet-render/math"
)

// Vertex is the interleaved layout uploaded to the GPU:
// location 0 = Position, 1 = Normal, 2 = UV.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}
