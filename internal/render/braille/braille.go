// Package braille draws backend calls onto a terminal grid of braille
// cells, each holding a 2x4 block of micro-pixels.
package braille

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

var (
	errNested     = errors.New("braille: nested group")
	errUnbalanced = errors.New("braille: unbalanced group")
)

// dot bits indexed by [column][row] within a cell.
var dots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Viewport maps a Width x Height point plot plane onto the grid, zoomed
// about the center and panned by whole cells.
type Viewport struct {
	Width, Height    float64
	Zoom             float64
	OffsetX, OffsetY int
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// Micro maps a plot-plane point to micro-pixel coordinates on a cols x rows
// grid. y grows downward.
func (v Viewport) Micro(p vec.Vec2, cols, rows int) (int, int, bool) {
	if v.Width <= 0 || v.Height <= 0 || cols < 1 || rows < 1 {
		return 0, 0, false
	}
	z := v.zoom()
	zx := 0.5 + (p.X/v.Width-0.5)*z
	zy := 0.5 + (p.Y/v.Height-0.5)*z
	sx := int(zx*float64(cols*2-1)) + v.OffsetX*2
	sy := int((1-zy)*float64(rows*4-1)) + v.OffsetY*4
	return sx, sy, true
}

// Point maps a cell back to the plot-plane point at its center.
func (v Viewport) Point(cx, cy, cols, rows int) (vec.Vec2, bool) {
	if v.Width <= 0 || v.Height <= 0 || cols <= 1 || rows <= 1 {
		return vec.Vec2{}, false
	}
	z := v.zoom()
	zx := float64(cx-v.OffsetX) / float64(cols-1)
	zy := 1 - float64(cy-v.OffsetY)/float64(rows-1)
	return vec.Vec2{
		X: (0.5 + (zx-0.5)/z) * v.Width,
		Y: (0.5 + (zy-0.5)/z) * v.Height,
	}, true
}

// Canvas is an emit.Backend over a cols x rows braille grid.
type Canvas struct {
	cols, rows int
	vp         Viewport

	mask [][]uint8
	ink  [][]paint.Color
	text [][]rune

	fill    paint.Fill
	outline bool
	pen     paint.Pen
	color   paint.Color
	open    bool
}

func New(cols, rows int, vp Viewport) *Canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	c := &Canvas{cols: cols, rows: rows, vp: vp, pen: paint.DefaultPen}
	c.mask = make([][]uint8, rows)
	c.ink = make([][]paint.Color, rows)
	c.text = make([][]rune, rows)
	for i := range rows {
		c.mask[i] = make([]uint8, cols)
		c.ink[i] = make([]paint.Color, cols)
		c.text[i] = make([]rune, cols)
	}
	return c
}

func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

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
	ring := c.micro(pts)
	if len(ring) < 3 {
		return
	}
	if c.fill.Active {
		c.color = c.fill.Color
		c.scanFill(ring)
	}
	if c.pen.Active && (c.outline || !c.fill.Active) {
		c.color = c.pen.Color
		c.polyline(ring, true)
	}
}

func (c *Canvas) DrawPath(pts []vec.Vec2, closed bool) {
	if !c.pen.Active {
		return
	}
	c.color = c.pen.Color
	c.polyline(c.micro(pts), closed)
}

func (c *Canvas) DrawGlyph(g prim.Glyph, at vec.Vec2, dims []float64) {
	if len(dims) == 0 {
		return
	}
	parts := prim.Outline(g, at, dims[0])
	for _, p := range parts {
		if g.Stroked() {
			c.DrawPath(p, false)
		} else {
			c.DrawPolygon(p)
		}
	}
	// markers smaller than a micro-pixel still show up
	if x, y, ok := c.vp.Micro(at, c.cols, c.rows); ok {
		switch {
		case c.fill.Active && !g.Stroked():
			c.color = c.fill.Color
		case c.pen.Active:
			c.color = c.pen.Color
		default:
			return
		}
		c.set(x, y)
	}
}

// DrawText writes text centered on the cell under at. Size and angle are
// ignored.
func (c *Canvas) DrawText(text string, at vec.Vec2, _, _ float64) {
	x, y, ok := c.vp.Micro(at, c.cols, c.rows)
	if !ok {
		return
	}
	col := paint.Black
	if c.fill.Active {
		col = c.fill.Color
	}
	cy := floorDiv(y, 4)
	if cy < 0 || cy >= c.rows {
		return
	}
	runes := []rune(text)
	cx := floorDiv(x, 2) - len(runes)/2
	for i, r := range runes {
		if x := cx + i; x >= 0 && x < c.cols {
			c.text[cy][x] = r
			c.ink[cy][x] = col
		}
	}
}

func (c *Canvas) micro(pts []vec.Vec2) [][2]int {
	out := make([][2]int, 0, len(pts))
	for _, p := range pts {
		if x, y, ok := c.vp.Micro(p, c.cols, c.rows); ok {
			out = append(out, [2]int{x, y})
		}
	}
	return out
}

func (c *Canvas) set(mx, my int) {
	cx, cy := floorDiv(mx, 2), floorDiv(my, 4)
	if cx < 0 || cy < 0 || cx >= c.cols || cy >= c.rows {
		return
	}
	c.mask[cy][cx] |= dots[mx-cx*2][my-cy*4]
	c.ink[cy][cx] = c.color
}

func (c *Canvas) polyline(pts [][2]int, closed bool) {
	if len(pts) == 1 {
		c.set(pts[0][0], pts[0][1])
		return
	}
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1], pts[i])
	}
	if closed && len(pts) > 2 {
		c.line(pts[len(pts)-1], pts[0])
	}
}

// line is Bresenham on the micro grid.
func (c *Canvas) line(a, b [2]int) {
	x0, y0, x1, y1 := a[0], a[1], b[0], b[1]
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// scanFill fills ring with the even-odd rule, one micro row at a time.
func (c *Canvas) scanFill(ring [][2]int) {
	lo, hi := ring[0][1], ring[0][1]
	for _, p := range ring {
		lo, hi = min(lo, p[1]), max(hi, p[1])
	}
	lo, hi = max(lo, 0), min(hi, c.rows*4-1)
	var xs []int
	for y := lo; y <= hi; y++ {
		xs = xs[:0]
		for i := range ring {
			a, b := ring[i], ring[(i+1)%len(ring)]
			if a[1] == b[1] {
				continue
			}
			if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
				t := float64(y-a[1]) / float64(b[1]-a[1])
				xs = append(xs, a[0]+int(t*float64(b[0]-a[0])))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(xs[i], 0); x <= min(xs[i+1], c.cols*2-1); x++ {
				c.set(x, y)
			}
		}
	}
}

// Lines returns the grid as plain text, one string per row.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	for y := range c.rows {
		row := make([]rune, c.cols)
		for x := range c.cols {
			row[x] = c.cell(x, y)
		}
		out[y] = string(row)
	}
	return out
}

// Render returns the grid with each run of same-colored cells styled by
// lipgloss.
func (c *Canvas) Render() string {
	lines := make([]string, c.rows)
	for y := range c.rows {
		var b strings.Builder
		var run []rune
		var runInk paint.Color
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runInk == (paint.Color{}) {
				b.WriteString(string(run))
			} else {
				st := lipgloss.NewStyle().Foreground(lipgloss.Color(runInk.Clamped().Hex()))
				b.WriteString(st.Render(string(run)))
			}
			run = run[:0]
		}
		for x := range c.cols {
			r := c.cell(x, y)
			ink := paint.Color{}
			if r != ' ' {
				ink = c.ink[y][x]
			}
			if ink != runInk {
				flush()
				runInk = ink
			}
			run = append(run, r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (c *Canvas) cell(x, y int) rune {
	if r := c.text[y][x]; r != 0 {
		return r
	}
	if m := c.mask[y][x]; m != 0 {
		return rune(0x2800 + int(m))
	}
	return ' '
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && (a < 0) {
		q--
	}
	return q
}
