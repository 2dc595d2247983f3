// Package svg writes backend calls as an SVG document.
package svg

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo/float"
	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

var (
	errNested     = errors.New("svg: nested group")
	errUnbalanced = errors.New("svg: unbalanced group")
	errClosed     = errors.New("svg: document closed")
)

// Doc is an emit.Backend producing one SVG document sized in points. The
// plot-plane y axis is flipped onto SVG's downward axis.
type Doc struct {
	s      *svgo.SVG
	height float64

	fill    paint.Fill
	outline bool
	pen     paint.Pen
	open    bool
	closed  bool
}

// New starts a w x h point document on out.
func New(out io.Writer, w, h float64) *Doc {
	s := svgo.New(out)
	s.Decimals = 2
	s.StartviewUnit(w, h, "pt", 0, 0, w, h)
	return &Doc{s: s, height: h, pen: paint.DefaultPen}
}

// Close ends the document.
func (d *Doc) Close() error {
	if d.open {
		return errUnbalanced
	}
	if d.closed {
		return errClosed
	}
	d.closed = true
	d.s.End()
	return nil
}

func (d *Doc) BeginGroup() error {
	switch {
	case d.closed:
		return errClosed
	case d.open:
		return errNested
	}
	d.open = true
	d.s.Group(`class="geoplot"`)
	return nil
}

func (d *Doc) EndGroup() error {
	if !d.open {
		return errUnbalanced
	}
	d.open = false
	d.s.Gend()
	return nil
}

func (d *Doc) SetFill(f paint.Fill, outline bool) {
	d.fill = f
	d.outline = outline
}

func (d *Doc) SetPen(p paint.Pen) { d.pen = p }

func (d *Doc) DrawPolygon(pts []vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	x, y := d.coords(pts)
	d.s.Polygon(x, y, d.style(true, d.outline))
}

func (d *Doc) DrawPath(pts []vec.Vec2, closed bool) {
	if len(pts) < 2 || !d.pen.Active {
		return
	}
	x, y := d.coords(pts)
	if closed {
		d.s.Polygon(x, y, d.style(false, true))
		return
	}
	d.s.Polyline(x, y, d.style(false, true))
}

func (d *Doc) DrawGlyph(g prim.Glyph, at vec.Vec2, dims []float64) {
	if len(dims) == 0 {
		return
	}
	if g == prim.Circle {
		d.s.Circle(at.X, d.height-at.Y, dims[0]/2, d.style(true, d.outline))
		return
	}
	for _, part := range prim.Outline(g, at, dims[0]) {
		x, y := d.coords(part)
		if g.Stroked() {
			d.s.Polyline(x, y, d.style(false, true))
			continue
		}
		d.s.Polygon(x, y, d.style(true, d.outline))
	}
}

// DrawText centers text on at. Angles are counter-clockwise in the plot
// plane.
func (d *Doc) DrawText(text string, at vec.Vec2, size, angle float64) {
	col := paint.Black
	if d.fill.Active {
		col = d.fill.Color
	}
	y := d.height - at.Y
	st := fmt.Sprintf("font-family:Helvetica,sans-serif;font-size:%spt;text-anchor:middle;dominant-baseline:central;fill:%s%s",
		num(size), col.Clamped().Hex(), opacity("fill-opacity", col))
	if angle == 0 {
		d.s.Text(at.X, y, text, st)
		return
	}
	d.s.Gtransform(fmt.Sprintf("rotate(%s,%s,%s)", num(-angle), num(at.X), num(y)))
	d.s.Text(at.X, y, text, st)
	d.s.Gend()
}

func (d *Doc) coords(pts []vec.Vec2) (x, y []float64) {
	x = make([]float64, len(pts))
	y = make([]float64, len(pts))
	for i, p := range pts {
		x[i], y[i] = p.X, d.height-p.Y
	}
	return x, y
}

// style renders the current fill and pen as an inline style. fillable
// shapes take the fill when it is active; stroke adds the pen.
func (d *Doc) style(fillable, stroke bool) string {
	var b strings.Builder
	if fillable && d.fill.Active {
		b.WriteString("fill:" + d.fill.Color.Clamped().Hex())
		b.WriteString(opacity("fill-opacity", d.fill.Color))
	} else {
		b.WriteString("fill:none")
	}
	if !stroke || !d.pen.Active {
		b.WriteString(";stroke:none")
		return b.String()
	}
	p := d.pen
	b.WriteString(";stroke:" + p.Color.Clamped().Hex())
	b.WriteString(";stroke-width:" + num(p.Width))
	b.WriteString(opacity("stroke-opacity", p.Color))
	if len(p.Dash) > 0 {
		parts := make([]string, len(p.Dash))
		for i, v := range p.Dash {
			parts[i] = num(v)
		}
		b.WriteString(";stroke-dasharray:" + strings.Join(parts, ","))
	}
	return b.String()
}

func opacity(attr string, c paint.Color) string {
	if c.T <= 0 {
		return ""
	}
	return ";" + attr + ":" + num(c.Opacity())
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
