// Package raster draws backend calls onto an RGBA image.
package raster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

var (
	errNested     = errors.New("raster: nested group")
	errUnbalanced = errors.New("raster: unbalanced group")
)

// Canvas is an emit.Backend over an image.RGBA. The plot-plane origin is
// the lower-left corner of the image.
type Canvas struct {
	img    *image.RGBA
	rast   *vector.Rasterizer
	scale  float64
	height float64

	fill    paint.Fill
	outline bool
	pen     paint.Pen
	open    bool
}

// New returns a white canvas covering w x h points at dpi pixels per inch.
func New(w, h, dpi float64) *Canvas {
	if dpi <= 0 {
		dpi = 72
	}
	scale := dpi / 72
	pw := max(int(math.Ceil(w*scale)), 1)
	ph := max(int(math.Ceil(h*scale)), 1)
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	r := vector.NewRasterizer(pw, ph)
	r.DrawOp = draw.Over
	return &Canvas{img: img, rast: r, scale: scale, height: h, pen: paint.DefaultPen}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

// WritePNG encodes the canvas.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

func (c *Canvas) BeginGroup() error {
	if c.open {
		return errNested
	}
	c.open = true
	return nil
}

func (c *Canvas) EndGroup() error {
	if !c.open {
		return errUnbalanced
	}
	c.open = false
	return nil
}

func (c *Canvas) SetFill(f paint.Fill, outline bool) {
	c.fill = f
	c.outline = outline
}

func (c *Canvas) SetPen(p paint.Pen) { c.pen = p }

func (c *Canvas) DrawPolygon(pts []vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	if c.fill.Active {
		c.reset()
		c.ring(pts)
		c.paint(c.fill.Color)
	}
	if c.outline && c.pen.Active {
		c.stroke(pts, true)
	}
}

func (c *Canvas) DrawPath(pts []vec.Vec2, closed bool) {
	if c.pen.Active {
		c.stroke(pts, closed)
	}
}

func (c *Canvas) DrawGlyph(g prim.Glyph, at vec.Vec2, dims []float64) {
	if len(dims) == 0 {
		return
	}
	parts := prim.Outline(g, at, dims[0])
	if g.Stroked() {
		for _, p := range parts {
			c.DrawPath(p, false)
		}
		return
	}
	for _, p := range parts {
		c.DrawPolygon(p)
	}
}

// DrawText centers text on at with the fixed 7x13 face; size and angle are
// not honored.
func (c *Canvas) DrawText(text string, at vec.Vec2, _, _ float64) {
	col := paint.Black
	if c.fill.Active {
		col = c.fill.Color
	}
	face := basicfont.Face7x13
	x, y := c.px(at)
	w := font.MeasureString(face, text).Ceil()
	asc := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(nrgba(col)),
		Face: face,
		Dot:  fixed.P(int(x)-w/2, int(y)+asc/2),
	}
	d.DrawString(text)
}

func (c *Canvas) px(v vec.Vec2) (float32, float32) {
	return float32(v.X * c.scale), float32((c.height - v.Y) * c.scale)
}

func (c *Canvas) reset() {
	b := c.img.Bounds()
	c.rast.Reset(b.Dx(), b.Dy())
	c.rast.DrawOp = draw.Over
}

func (c *Canvas) ring(pts []vec.Vec2) {
	x, y := c.px(pts[0])
	c.rast.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = c.px(p)
		c.rast.LineTo(x, y)
	}
	c.rast.ClosePath()
}

func (c *Canvas) paint(col paint.Color) {
	c.rast.Draw(c.img, c.img.Bounds(), image.NewUniform(nrgba(col)), image.Point{})
}

// stroke rasterizes the pen as one quad per segment. All quads share a
// winding so overlaps saturate instead of cancelling.
func (c *Canvas) stroke(pts []vec.Vec2, closed bool) {
	if len(pts) < 2 {
		return
	}
	if closed {
		pts = append(append([]vec.Vec2(nil), pts...), pts[0])
	}
	half := max(c.pen.Width*c.scale, 1) / 2
	c.reset()
	for _, run := range dashed(pts, c.pen.Dash) {
		for i := 1; i < len(run); i++ {
			c.quad(run[i-1], run[i], half)
		}
	}
	c.paint(c.pen.Color)
}

func (c *Canvas) quad(a, b vec.Vec2, half float64) {
	ax, ay := c.px(a)
	bx, by := c.px(b)
	dx, dy := float64(bx-ax), float64(by-ay)
	ux, uy := half, 0.0
	if l := math.Hypot(dx, dy); l > 0 {
		// square caps
		ux, uy = dx/l*half, dy/l*half
	}
	nx, ny := float32(-uy), float32(ux)
	sx, sy := ax-float32(ux), ay-float32(uy)
	ex, ey := bx+float32(ux), by+float32(uy)
	c.rast.MoveTo(sx+nx, sy+ny)
	c.rast.LineTo(ex+nx, ey+ny)
	c.rast.LineTo(ex-nx, ey-ny)
	c.rast.LineTo(sx-nx, sy-ny)
	c.rast.ClosePath()
}

// dashed cuts a polyline into the "on" runs of pattern, whose lengths are
// in points. An empty pattern returns the line whole.
func dashed(pts []vec.Vec2, pattern []float64) [][]vec.Vec2 {
	var total float64
	for _, d := range pattern {
		total += d
	}
	if len(pattern) == 0 || total <= 0 {
		return [][]vec.Vec2{pts}
	}
	var (
		out  [][]vec.Vec2
		cur  []vec.Vec2
		idx  int
		left = pattern[0]
		on   = true
	)
	cur = []vec.Vec2{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := b.Sub(a).Length()
		pos := 0.0
		for seg-pos > left {
			pos += left
			p := a.Add(b.Sub(a).Mul(pos / seg))
			if on {
				out = append(out, append(cur, p))
				cur = nil
			} else {
				cur = []vec.Vec2{p}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			left = pattern[idx]
		}
		left -= seg - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}

func nrgba(c paint.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(c.Opacity() * 255))}
}
