package app

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"planet-render/math"
)

const paletteHues = 6

// ClearPalette is the set of background colors the overlay cycles through:
// black first, then dark tints evenly spaced in hue.
var ClearPalette = buildPalette()

func buildPalette() []colorful.Color {
	p := []colorful.Color{{R: 0, G: 0, B: 0}}
	for i := 0; i < paletteHues; i++ {
		h := float64(i) * 360 / paletteHues
		p = append(p, colorful.Hcl(h, 0.12, 0.08).Clamped())
	}
	return p
}

func toColorful(v math.Vec3) colorful.Color {
	return colorful.Color{R: float64(v.X), G: float64(v.Y), B: float64(v.Z)}
}

func fromColorful(c colorful.Color) math.Vec3 {
	return math.NewVec3(float32(c.R), float32(c.G), float32(c.B))
}

// NextClearColor returns the palette entry after the one closest to cur.
// A color loaded from the settings file need not be a palette entry.
func NextClearColor(cur math.Vec3) math.Vec3 {
	c := toColorful(cur)
	best, bestDist := 0, c.DistanceLab(ClearPalette[0])
	for i, p := range ClearPalette[1:] {
		if d := c.DistanceLab(p); d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return fromColorful(ClearPalette[(best+1)%len(ClearPalette)])
}

// ClearColorHex formats a clear color for logs.
func ClearColorHex(v math.Vec3) string {
	return toColorful(v).Clamped().Hex()
}
