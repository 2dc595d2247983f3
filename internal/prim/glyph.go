package prim

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Glyph is a marker shape drawn by the backend from a center and a size.
type Glyph uint8

const (
	Circle Glyph = iota
	Square
	Triangle
	InvTriangle
	Diamond
	Star
	Hexagon
	Pentagon
	Octagon
	Cross
	Plus
	Dot
	XDash
	YDash
)

var glyphNames = [...]string{
	Circle: "circle", Square: "square", Triangle: "triangle", InvTriangle: "invtriangle",
	Diamond: "diamond", Star: "star", Hexagon: "hexagon", Pentagon: "pentagon",
	Octagon: "octagon", Cross: "cross", Plus: "plus", Dot: "dot", XDash: "xdash", YDash: "ydash",
}

func (g Glyph) String() string {
	if int(g) < len(glyphNames) {
		return glyphNames[g]
	}
	return "unknown"
}

// Stroked reports whether the glyph is made of open strokes only.
func (g Glyph) Stroked() bool {
	switch g {
	case Cross, Plus, XDash, YDash:
		return true
	}
	return false
}

// Outline returns the glyph as plot-plane vertex lists centered at c. For
// stroked glyphs every list is an open stroke, otherwise a closed ring.
// Backends without native markers draw glyphs from this.
func Outline(g Glyph, c vec.Vec2, size float64) [][]vec.Vec2 {
	r := size / 2
	switch g {
	case Circle:
		return [][]vec.Vec2{regular(c, r, 36, 0)}
	case Dot:
		return [][]vec.Vec2{regular(c, max(r, 0.5), 12, 0)}
	case Square:
		h := r / math.Sqrt2
		return [][]vec.Vec2{{
			{X: c.X - h, Y: c.Y - h}, {X: c.X + h, Y: c.Y - h},
			{X: c.X + h, Y: c.Y + h}, {X: c.X - h, Y: c.Y + h},
		}}
	case Triangle:
		return [][]vec.Vec2{regular(c, r, 3, 90)}
	case InvTriangle:
		return [][]vec.Vec2{regular(c, r, 3, -90)}
	case Diamond:
		return [][]vec.Vec2{regular(c, r, 4, 90)}
	case Pentagon:
		return [][]vec.Vec2{regular(c, r, 5, 90)}
	case Hexagon:
		return [][]vec.Vec2{regular(c, r, 6, 0)}
	case Octagon:
		return [][]vec.Vec2{regular(c, r, 8, 22.5)}
	case Star:
		ring := make([]vec.Vec2, 10)
		for i := range ring {
			rr := r
			if i%2 == 1 {
				rr = r * 0.38
			}
			a := (90 + float64(i)*36) * math.Pi / 180
			ring[i] = vec.Vec2{X: c.X + rr*math.Cos(a), Y: c.Y + rr*math.Sin(a)}
		}
		return [][]vec.Vec2{ring}
	case Cross:
		h := r / math.Sqrt2
		return [][]vec.Vec2{
			{{X: c.X - h, Y: c.Y - h}, {X: c.X + h, Y: c.Y + h}},
			{{X: c.X - h, Y: c.Y + h}, {X: c.X + h, Y: c.Y - h}},
		}
	case Plus:
		return [][]vec.Vec2{
			{{X: c.X - r, Y: c.Y}, {X: c.X + r, Y: c.Y}},
			{{X: c.X, Y: c.Y - r}, {X: c.X, Y: c.Y + r}},
		}
	case XDash:
		return [][]vec.Vec2{{{X: c.X - r, Y: c.Y}, {X: c.X + r, Y: c.Y}}}
	case YDash:
		return [][]vec.Vec2{{{X: c.X, Y: c.Y - r}, {X: c.X, Y: c.Y + r}}}
	}
	return nil
}

// regular builds an n-gon of circumradius r with its first vertex at
// startDeg degrees.
func regular(c vec.Vec2, r float64, n int, startDeg float64) []vec.Vec2 {
	out := make([]vec.Vec2, n)
	for i := range out {
		a := (startDeg + float64(i)*360/float64(n)) * math.Pi / 180
		out[i] = vec.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return out
}
