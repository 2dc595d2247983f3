// Package paint holds the colors, fills and pens that primitives carry.
package paint

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"geoplot/internal/record"
)

// Color is an RGB color with a transparency in [0,1]; 0 is opaque.
type Color struct {
	colorful.Color
	T float64
}

var (
	Black = Color{Color: colorful.Color{}}
	White = Color{Color: colorful.Color{R: 1, G: 1, B: 1}}
)

// RGB255 builds a color from 0-255 components.
func RGB255(r, g, b uint8) Color {
	return Color{Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}}
}

// Opacity is 1-T.
func (c Color) Opacity() float64 { return 1 - c.T }

// WithTransparency composes t multiplicatively with the existing
// transparency: opacity' = opacity * (1-t).
func (c Color) WithTransparency(t float64) Color {
	t = clamp01(t)
	c.T = 1 - (1-c.T)*(1-t)
	return c
}

func (c Color) String() string {
	s := c.Clamped().Hex()
	if c.T > 0 {
		s += "@" + strconv.FormatFloat(c.T*100, 'f', -1, 64)
	}
	return s
}

var named = map[string]string{
	"black":     "#000000",
	"white":     "#ffffff",
	"red":       "#ff0000",
	"green":     "#00ff00",
	"blue":      "#0000ff",
	"yellow":    "#ffff00",
	"cyan":      "#00ffff",
	"magenta":   "#ff00ff",
	"gray":      "#bebebe",
	"grey":      "#bebebe",
	"orange":    "#ffa500",
	"brown":     "#a52a2a",
	"purple":    "#a020f0",
	"pink":      "#ffc0cb",
	"navy":      "#000080",
	"darkgreen": "#006400",
	"lightblue": "#add8e6",
	"lightgray": "#d3d3d3",
	"darkgray":  "#a9a9a9",
	"seagreen":  "#2e8b57",
	"tan":       "#d2b48c",
}

// ParseColor accepts a name, #rrggbb, r/g/b (0-255), a single gray level
// (0-255), or h-s-v, each optionally followed by @<transparency percent>.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	var t float64
	if i := strings.LastIndexByte(s, '@'); i >= 0 {
		v, err := strconv.ParseFloat(s[i+1:], 64)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: bad transparency", s)
		}
		t = clamp01(v / 100)
		s = s[:i]
	}
	c, err := parseRGB(strings.ToLower(s))
	if err != nil {
		return Color{}, err
	}
	c.T = t
	return c, nil
}

func parseRGB(s string) (Color, error) {
	if hex, ok := named[s]; ok {
		s = hex
	}
	switch {
	case s == "":
		return Color{}, fmt.Errorf("empty color")
	case s[0] == '#':
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		return Color{Color: c}, nil
	case strings.Count(s, "/") == 2:
		parts := strings.Split(s, "/")
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil || f < 0 || f > 255 {
				return Color{}, fmt.Errorf("color %q: bad component %q", s, p)
			}
			v[i] = f / 255
		}
		return Color{Color: colorful.Color{R: v[0], G: v[1], B: v[2]}}, nil
	case strings.Count(s, "-") == 2 && s[0] != '-':
		parts := strings.Split(s, "-")
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return Color{}, fmt.Errorf("color %q: bad hsv component %q", s, p)
			}
			v[i] = f
		}
		return Color{Color: colorful.Hsv(v[0], clamp01(v[1]), clamp01(v[2]))}, nil
	}
	g, err := strconv.ParseFloat(s, 64)
	if err != nil || g < 0 || g > 255 {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	g /= 255
	return Color{Color: colorful.Color{R: g, G: g, B: g}}, nil
}

// Fill is a color plus an active flag. An inactive fill paints nothing.
type Fill struct {
	Color  Color
	Active bool
}

// NoFill is the inactive fill.
var NoFill = Fill{}

func Solid(c Color) Fill { return Fill{Color: c, Active: true} }

// ParseFill parses a color, or "-" for no fill.
func ParseFill(s string) (Fill, error) {
	if strings.TrimSpace(s) == "-" {
		return NoFill, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return Fill{}, err
	}
	return Solid(c), nil
}

func (f Fill) String() string {
	if !f.Active {
		return "-"
	}
	return f.Color.String()
}

// Pen describes a stroke. Width and Dash are in points.
type Pen struct {
	Color  Color
	Width  float64
	Dash   []float64
	Active bool
}

// DefaultPen is 0.25p solid black.
var DefaultPen = Pen{Color: Black, Width: 0.25, Active: true}

// NoPen is the inactive pen.
var NoPen = Pen{}

var penWidths = map[string]float64{
	"faint":    0,
	"thinnest": 0.25,
	"thinner":  0.5,
	"thin":     0.75,
	"thick":    1.5,
	"thicker":  2,
	"thickest": 3,
	"fat":      12,
}

// ParsePen parses "[width][,color][,style]" or "-" for no pen. Width takes
// an optional unit suffix (points when absent) or a name such as "thin".
// Style is "-" (dashed), "." (dotted) or underscore separated lengths.
func ParsePen(s string) (Pen, error) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return NoPen, nil
	}
	p := DefaultPen
	parts := strings.Split(s, ",")
	if w := parts[0]; w != "" {
		if v, ok := penWidths[w]; ok {
			p.Width = v
		} else {
			v, err := record.ParseLength(w, record.UnitPoint)
			if err != nil {
				return Pen{}, fmt.Errorf("pen %q: %w", s, err)
			}
			p.Width = v
		}
	}
	if len(parts) > 1 && parts[1] != "" {
		c, err := ParseColor(parts[1])
		if err != nil {
			return Pen{}, fmt.Errorf("pen %q: %w", s, err)
		}
		p.Color = c
	}
	if len(parts) > 2 && parts[2] != "" {
		d, err := parseDash(parts[2], p.Width)
		if err != nil {
			return Pen{}, fmt.Errorf("pen %q: %w", s, err)
		}
		p.Dash = d
	}
	return p, nil
}

func parseDash(s string, width float64) ([]float64, error) {
	w := math.Max(width, 1)
	switch s {
	case "-":
		return []float64{4 * w, 2 * w}, nil
	case ".":
		return []float64{w, 2 * w}, nil
	}
	var out []float64
	for _, f := range strings.Split(s, "_") {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("bad dash length %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// Scaled returns a copy with width and dash lengths multiplied by f.
func (p Pen) Scaled(f float64) Pen {
	p.Width *= f
	if p.Dash != nil {
		d := make([]float64, len(p.Dash))
		for i, v := range p.Dash {
			d[i] = v * f
		}
		p.Dash = d
	}
	return p
}

func (p Pen) String() string {
	if !p.Active {
		return "-"
	}
	return strconv.FormatFloat(p.Width, 'g', 4, 64) + "p," + p.Color.String()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
