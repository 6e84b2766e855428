package planets

import "planet-render/math"

// FollowMode pins the camera to a scripted orbit.
type FollowMode int

const (
	FollowDisabled FollowMode = iota
	FollowSpacecraft
	FollowMoon
	followModes
)

const (
	// SpacecraftFollowRadius rides just outside the capsule's orbit.
	SpacecraftFollowRadius float32 = 1.045
	// MoonFollowRadius sits on the Earth-facing side of the Moon.
	MoonFollowRadius float32 = MoonOrbitRadius - 0.5
)

func (m FollowMode) Next() FollowMode {
	return (m + 1) % followModes
}

func (m FollowMode) String() string {
	switch m {
	case FollowDisabled:
		return "off"
	case FollowSpacecraft:
		return "vostok"
	case FollowMoon:
		return "moon"
	}
	return "unknown"
}

// Position returns where the camera should be at time t. ok is false when
// following is disabled.
func (m FollowMode) Position(t float32) (pos math.Vec3, ok bool) {
	switch m {
	case FollowSpacecraft:
		return spacecraftOrbit(t, SpacecraftFollowRadius).mat4().Origin(), true
	case FollowMoon:
		return moonOrbit(t, MoonFollowRadius).mat4().Origin(), true
	}
	return math.Vec3{}, false
}
