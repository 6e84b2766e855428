package planets

import "planet-render/math"

type Body int

const (
	Sun Body = iota
	Earth
	Clouds
	Spacecraft
	Moon
	Sky
)

var bodyNames = [...]string{"sun", "earth", "clouds", "vostok", "moon", "skybox"}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return "unknown"
	}
	return bodyNames[b]
}

// Bodies lists the bodies backed by a model file.
var Bodies = []Body{Sun, Earth, Clouds, Spacecraft, Moon}

type ProgramKind int

const (
	ProgramLit ProgramKind = iota
	ProgramSun
	ProgramSkybox
)

// DrawCall describes one draw into the HDR target.
type DrawCall struct {
	Body    Body
	Model   math.Mat4
	Program ProgramKind
	// Blend enables alpha blending for this call only.
	Blend bool
	// Background calls are drawn with depth func LEQUAL, depth writes off
	// and the view translation removed.
	Background bool
}

// BuildDrawList returns the frame's draws in submission order. The skybox
// is always last.
func BuildDrawList(t float32, camPos math.Vec3) []DrawCall {
	earth := EarthModel(t)
	list := make([]DrawCall, 0, 6)

	list = append(list,
		DrawCall{Body: Sun, Model: SunModel(), Program: ProgramSun},
		DrawCall{Body: Earth, Model: earth, Program: ProgramLit},
	)

	if d := camPos.Distance(earth.Origin()); d < CloudVisibleDistance {
		list = append(list, DrawCall{Body: Clouds, Model: CloudModel(t, d), Program: ProgramLit, Blend: true})
	}

	list = append(list,
		DrawCall{Body: Spacecraft, Model: SpacecraftModel(t), Program: ProgramLit},
		DrawCall{Body: Moon, Model: MoonModel(t), Program: ProgramLit},
		DrawCall{Body: Sky, Model: math.Mat4Identity(), Program: ProgramSkybox, Background: true},
	)
	return list
}
