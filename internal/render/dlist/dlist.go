// Package dlist records backend calls into a display list that can be
// replayed into another backend or stored with msgpack.
package dlist

import (
	"errors"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/emit"
	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

// Op is one recorded backend call.
type Op uint8

const (
	OpBegin Op = iota
	OpEnd
	OpFill
	OpPen
	OpPolygon
	OpPath
	OpGlyph
	OpText
)

func (o Op) String() string {
	switch o {
	case OpBegin:
		return "begin"
	case OpEnd:
		return "end"
	case OpFill:
		return "fill"
	case OpPen:
		return "pen"
	case OpPolygon:
		return "polygon"
	case OpPath:
		return "path"
	case OpGlyph:
		return "glyph"
	case OpText:
		return "text"
	}
	return "unknown"
}

// Item is one entry of a display list. Only the fields of its Op are set.
type Item struct {
	Op      Op         `msgpack:"op"`
	Points  []vec.Vec2 `msgpack:"pts,omitempty"`
	Closed  bool       `msgpack:"closed,omitempty"`
	Outline bool       `msgpack:"outline,omitempty"`
	Fill    paint.Fill `msgpack:"fill,omitempty"`
	Pen     paint.Pen  `msgpack:"pen,omitempty"`
	Glyph   prim.Glyph `msgpack:"glyph,omitempty"`
	Dims    []float64  `msgpack:"dims,omitempty"`
	Text    string     `msgpack:"text,omitempty"`
	Size    float64    `msgpack:"size,omitempty"`
	Angle   float64    `msgpack:"angle,omitempty"`
}

// List is a recorded drawing of Width x Height points.
type List struct {
	Width, Height float64
	Items         []Item
}

var (
	errUnbalanced = errors.New("dlist: unbalanced group")
	errNested     = errors.New("dlist: nested group")
)

// Recorder is an emit.Backend that appends to a List.
type Recorder struct {
	List
	open bool
}

func NewRecorder(w, h float64) *Recorder {
	return &Recorder{List: List{Width: w, Height: h}}
}

func (r *Recorder) BeginGroup() error {
	if r.open {
		return errNested
	}
	r.open = true
	r.Items = append(r.Items, Item{Op: OpBegin})
	return nil
}

func (r *Recorder) EndGroup() error {
	if !r.open {
		return errUnbalanced
	}
	r.open = false
	r.Items = append(r.Items, Item{Op: OpEnd})
	return nil
}

func (r *Recorder) SetFill(f paint.Fill, outline bool) {
	r.Items = append(r.Items, Item{Op: OpFill, Fill: f, Outline: outline})
}

func (r *Recorder) SetPen(p paint.Pen) {
	r.Items = append(r.Items, Item{Op: OpPen, Pen: p})
}

func (r *Recorder) DrawPolygon(pts []vec.Vec2) {
	r.Items = append(r.Items, Item{Op: OpPolygon, Points: clone(pts), Closed: true})
}

func (r *Recorder) DrawPath(pts []vec.Vec2, closed bool) {
	r.Items = append(r.Items, Item{Op: OpPath, Points: clone(pts), Closed: closed})
}

func (r *Recorder) DrawGlyph(g prim.Glyph, at vec.Vec2, dims []float64) {
	r.Items = append(r.Items, Item{Op: OpGlyph, Glyph: g, Points: []vec.Vec2{at}, Dims: append([]float64(nil), dims...)})
}

func (r *Recorder) DrawText(text string, at vec.Vec2, size, angle float64) {
	r.Items = append(r.Items, Item{Op: OpText, Text: text, Points: []vec.Vec2{at}, Size: size, Angle: angle})
}

func clone(p []vec.Vec2) []vec.Vec2 { return append([]vec.Vec2(nil), p...) }

// Count returns how many items have op.
func (l *List) Count(op Op) int {
	n := 0
	for _, it := range l.Items {
		if it.Op == op {
			n++
		}
	}
	return n
}

// Replay sends the list to b in recorded order.
func (l *List) Replay(b emit.Backend) error {
	for _, it := range l.Items {
		switch it.Op {
		case OpBegin:
			if err := b.BeginGroup(); err != nil {
				return err
			}
		case OpEnd:
			if err := b.EndGroup(); err != nil {
				return err
			}
		case OpFill:
			b.SetFill(it.Fill, it.Outline)
		case OpPen:
			b.SetPen(it.Pen)
		case OpPolygon:
			b.DrawPolygon(it.Points)
		case OpPath:
			b.DrawPath(it.Points, it.Closed)
		case OpGlyph:
			b.DrawGlyph(it.Glyph, it.Points[0], it.Dims)
		case OpText:
			b.DrawText(it.Text, it.Points[0], it.Size, it.Angle)
		}
	}
	return nil
}

// Bounds returns the extent of all recorded geometry.
func (l *List) Bounds() (lo, hi vec.Vec2, ok bool) {
	for _, it := range l.Items {
		for _, p := range it.Points {
			r := 0.0
			if it.Op == OpGlyph && len(it.Dims) > 0 {
				r = it.Dims[0] / 2
			}
			if !ok {
				lo, hi, ok = vec.Vec2{X: p.X - r, Y: p.Y - r}, vec.Vec2{X: p.X + r, Y: p.Y + r}, true
				continue
			}
			lo.X, lo.Y = min(lo.X, p.X-r), min(lo.Y, p.Y-r)
			hi.X, hi.Y = max(hi.X, p.X+r), max(hi.Y, p.Y+r)
		}
	}
	return lo, hi, ok
}
