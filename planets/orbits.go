// Package planets holds the scripted solar system: body transforms as a
// function of elapsed time, the per-frame draw list and camera follow modes.
//
// Scale: one unit is one Earth radius. The Sun is placed ten times closer
// than it really is and scaled to look right from Earth orbit.
package planets

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"planet-render/math"
)

// Time constants are in seconds of wall-clock time. SpinPeriod seconds turn
// Earth by one radian; every other period is expressed in Earth days.
const (
	SpinPeriod float32 = 800

	SpacecraftOrbitDays  float32 = 0.06
	SpacecraftTumbleDays float32 = 0.1
	MoonOrbitDays        float32 = 29
)

const (
	SunDistance float32 = 2345
	SunScale    float32 = 20

	SpacecraftOrbitRadius float32 = 1.04
	SpacecraftScale       float32 = 0.00008

	MoonOrbitRadius float32 = 60
	MoonScale       float32 = 0.27
	MoonOrbitTilt   float32 = 24 // degrees to Earth's equator

	CloudVisibleDistance float32 = 75
	CloudBaseScale       float32 = 1.002
	CloudDistanceFalloff float32 = 400
)

var (
	spacecraftOrbitAxis  = mgl32.Vec3{-1, 2, 0}
	spacecraftTumbleAxis = mgl32.Vec3{-1, 2, -3}
	spinAxis             = mgl32.Vec3{0, 1, 0}
	modelUpFix           = mgl32.Vec3{1, 0, 0}
)

// SunPosition is also where the point light sits.
var SunPosition = math.Vec3{X: 0, Y: 0, Z: SunDistance}

// transform composes glm-style: each call post-multiplies, so the last
// operation applied in code is the first applied to the vertex.
type transform struct {
	m mgl32.Mat4
}

func newTransform() *transform { return &transform{m: mgl32.Ident4()} }

func (t *transform) rotate(angle float32, axis mgl32.Vec3) *transform {
	t.m = t.m.Mul4(mgl32.HomogRotate3D(angle, axis.Normalize()))
	return t
}

func (t *transform) translate(x, y, z float32) *transform {
	t.m = t.m.Mul4(mgl32.Translate3D(x, y, z))
	return t
}

func (t *transform) scale(s float32) *transform {
	t.m = t.m.Mul4(mgl32.Scale3D(s, s, s))
	return t
}

func (t *transform) mat4() math.Mat4 {
	return math.Mat4FromColumnMajor([16]float32(t.m))
}

// The glTF assets are modelled Z-up.
func uprightSpin(t float32, period float32) *transform {
	return newTransform().
		rotate(t/period, spinAxis).
		rotate(-math.Pi/2, modelUpFix)
}

func SunModel() math.Mat4 {
	return newTransform().translate(SunPosition.X, SunPosition.Y, SunPosition.Z).scale(SunScale).mat4()
}

func EarthModel(t float32) math.Mat4 {
	return uprightSpin(t, SpinPeriod).mat4()
}

// CloudModel grows the cloud shell with camera distance to keep it from
// z-fighting with the surface.
func CloudModel(t, distance float32) math.Mat4 {
	return uprightSpin(t, SpinPeriod).scale(CloudBaseScale + distance/CloudDistanceFalloff).mat4()
}

func spacecraftOrbit(t, radius float32) *transform {
	return newTransform().
		rotate(t/(SpinPeriod*SpacecraftOrbitDays), spacecraftOrbitAxis).
		translate(0, 0, radius)
}

func SpacecraftModel(t float32) math.Mat4 {
	tumble := SpinPeriod * SpacecraftTumbleDays
	return spacecraftOrbit(t, SpacecraftOrbitRadius).
		rotate((t+tumble*3)/tumble, spacecraftTumbleAxis).
		scale(SpacecraftScale).
		mat4()
}

func moonOrbitAxis() mgl32.Vec3 {
	s, c := math32.Sincos(math.Radians(MoonOrbitTilt))
	return mgl32.Vec3{s, c, 0}
}

func moonOrbit(t, radius float32) *transform {
	period := SpinPeriod * MoonOrbitDays
	return newTransform().
		rotate((t+period)/period, moonOrbitAxis()).
		translate(0, 0, radius)
}

func MoonModel(t float32) math.Mat4 {
	period := SpinPeriod * MoonOrbitDays
	return moonOrbit(t, MoonOrbitRadius).
		rotate(t/period, spinAxis).
		rotate(-math.Pi/2, modelUpFix).
		scale(MoonScale).
		mat4()
}
