package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"geoplot/internal/paint"
)

// Shading bounds the HSV illumination model.
type Shading struct {
	MinSaturation, MaxSaturation float64
	MinValue, MaxValue           float64
}

// DefaultShading: darkening pulls value to 0.3 and saturation to 1,
// brightening pulls value to 1 and saturation to 0.1.
var DefaultShading = Shading{MinSaturation: 1, MaxSaturation: 0.1, MinValue: 0.3, MaxValue: 1}

// Illuminate shades c by intensity in [-1,1] using DefaultShading.
func Illuminate(c paint.Color, intensity float64) paint.Color {
	return DefaultShading.Illuminate(c, intensity)
}

// Illuminate shades c. Zero or NaN intensity returns c unchanged.
func (sh Shading) Illuminate(c paint.Color, intensity float64) paint.Color {
	if intensity == 0 || math.IsNaN(intensity) {
		return c
	}
	i := math.Max(-1, math.Min(1, intensity))
	h, s, v := c.Clamped().Hsv()
	if i > 0 {
		if s != 0 {
			s = (1-i)*s + i*sh.MaxSaturation
		}
		v = (1-i)*v + i*sh.MaxValue
	} else {
		di := 1 + i
		if s != 0 {
			s = di*s - i*sh.MinSaturation
		}
		v = di*v - i*sh.MinValue
	}
	s = math.Max(0, math.Min(1, s))
	v = math.Max(0, math.Min(1, v))
	return paint.Color{Color: colorful.Hsv(h, s, v), T: c.T}
}
