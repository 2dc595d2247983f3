// Package prim defines the drawable primitives produced by the geometry
// builders and consumed by the emitter.
package prim

import (
	"cmp"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
)

// Kind tags a Primitive.
type Kind uint8

const (
	KindPolygon Kind = iota
	KindPath
	KindGlyph
	KindArrow
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindPolygon:
		return "polygon"
	case KindPath:
		return "path"
	case KindGlyph:
		return "glyph"
	case KindArrow:
		return "arrow"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Primitive is one drawable item in plot-plane points. Polygons and paths
// use Points as their vertices; a glyph sits at Points[0] with Dims giving
// its size; an arrow strokes Points as its shaft and fills Heads; text is
// anchored at Points[0].
type Primitive struct {
	Kind   Kind
	Points []vec.Vec2
	Closed bool

	Glyph Glyph
	Dims  []float64

	Heads [][]vec.Vec2

	Text  string
	Font  float64
	Angle float64

	Fill paint.Fill
	Pen  paint.Pen

	Replica bool
	Depth   DepthKey
	Line    int
}

// Clone returns a deep copy.
func (p Primitive) Clone() Primitive {
	p.Points = append([]vec.Vec2(nil), p.Points...)
	p.Dims = append([]float64(nil), p.Dims...)
	if p.Heads != nil {
		h := make([][]vec.Vec2, len(p.Heads))
		for i, r := range p.Heads {
			h[i] = append([]vec.Vec2(nil), r...)
		}
		p.Heads = h
	}
	return p
}

// Translate returns a deep copy shifted by d.
func (p Primitive) Translate(d vec.Vec2) Primitive {
	q := p.Clone()
	for i := range q.Points {
		q.Points[i] = q.Points[i].Add(d)
	}
	for _, h := range q.Heads {
		for i := range h {
			h[i] = h[i].Add(d)
		}
	}
	return q
}

// Bounds returns the bounding box of the primitive's vertices.
func (p Primitive) Bounds() (lo, hi vec.Vec2) {
	first := true
	grow := func(v vec.Vec2) {
		if first {
			lo, hi = v, v
			first = false
			return
		}
		lo.X, lo.Y = min(lo.X, v.X), min(lo.Y, v.Y)
		hi.X, hi.Y = max(hi.X, v.X), max(hi.Y, v.Y)
	}
	for _, v := range p.Points {
		grow(v)
	}
	for _, h := range p.Heads {
		for _, v := range h {
			grow(v)
		}
	}
	if p.Kind == KindGlyph && len(p.Dims) > 0 && len(p.Points) > 0 {
		r := p.Dims[0] / 2
		grow(p.Points[0].Sub(vec.Vec2{X: r, Y: r}))
		grow(p.Points[0].Add(vec.Vec2{X: r, Y: r}))
	}
	return lo, hi
}

// DepthKey orders 3-D primitives for painter's-algorithm drawing: the planar
// distance along the view azimuth first, the elevation term as tiebreak.
// Larger keys are closer to the viewer and drawn later.
type DepthKey struct {
	Planar    float64
	Elevation float64
}

func (a DepthKey) Compare(b DepthKey) int {
	if c := cmp.Compare(a.Planar, b.Planar); c != 0 {
		return c
	}
	return cmp.Compare(a.Elevation, b.Elevation)
}
