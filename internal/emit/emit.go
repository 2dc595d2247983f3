// Package emit sends primitives to a drawing backend.
package emit

import (
	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

// Backend is a 2-D drawing surface. Coordinates are plot-plane points.
// SetFill and SetPen stay in effect for the draw calls that follow.
type Backend interface {
	BeginGroup() error
	SetFill(f paint.Fill, outline bool)
	SetPen(p paint.Pen)
	DrawPolygon(pts []vec.Vec2)
	DrawPath(pts []vec.Vec2, closed bool)
	DrawGlyph(g prim.Glyph, at vec.Vec2, dims []float64)
	DrawText(text string, at vec.Vec2, size, angle float64)
	EndGroup() error
}

// Counts tallies the primitives an Emitter has drawn, by kind.
type Counts [prim.KindText + 1]int

func (c Counts) Total() int {
	var n int
	for _, v := range c {
		n += v
	}
	return n
}

// Emitter draws primitives within one backend group.
type Emitter struct {
	b      Backend
	counts Counts
	inside bool
}

func New(b Backend) *Emitter {
	return &Emitter{b: b}
}

// Run opens a group, calls fn and closes the group even when fn fails.
// fn's error wins over the error from closing.
func (e *Emitter) Run(fn func(*Emitter) error) (err error) {
	if err := e.b.BeginGroup(); err != nil {
		return err
	}
	e.inside = true
	defer func() {
		e.inside = false
		if cerr := e.b.EndGroup(); err == nil {
			err = cerr
		}
	}()
	return fn(e)
}

// Emit draws p. A primitive with neither fill nor pen is skipped and
// reported as not drawn.
func (e *Emitter) Emit(p *prim.Primitive) bool {
	if !p.Fill.Active && !p.Pen.Active {
		return false
	}
	b := e.b
	switch p.Kind {
	case prim.KindPolygon:
		if len(p.Points) < 3 {
			return false
		}
		b.SetFill(p.Fill, p.Pen.Active)
		b.SetPen(p.Pen)
		b.DrawPolygon(p.Points)
	case prim.KindPath:
		if len(p.Points) < 2 || !p.Pen.Active {
			return false
		}
		b.SetPen(p.Pen)
		b.DrawPath(p.Points, p.Closed)
	case prim.KindGlyph:
		if len(p.Points) == 0 {
			return false
		}
		b.SetFill(p.Fill, p.Pen.Active)
		b.SetPen(p.Pen)
		b.DrawGlyph(p.Glyph, p.Points[0], p.Dims)
	case prim.KindArrow:
		if p.Pen.Active && len(p.Points) >= 2 {
			b.SetPen(p.Pen)
			b.DrawPath(p.Points, false)
		}
		if p.Fill.Active {
			b.SetFill(p.Fill, false)
			for _, h := range p.Heads {
				b.DrawPolygon(h)
			}
		}
	case prim.KindText:
		if len(p.Points) == 0 || p.Text == "" {
			return false
		}
		b.SetFill(p.Fill, false)
		b.DrawText(p.Text, p.Points[0], p.Font, p.Angle)
	default:
		return false
	}
	e.counts[p.Kind]++
	return true
}

// Counts returns what has been drawn so far.
func (e *Emitter) Counts() Counts { return e.counts }
