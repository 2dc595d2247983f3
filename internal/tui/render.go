package tui

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/proj"
	"geoplot/internal/render/braille"
	"geoplot/internal/render/dlist"
)

var hoverInk = paint.RGB255(0xFF, 0xA5, 0x00)

func (m Model) viewport() braille.Viewport {
	vp := braille.Viewport{Zoom: m.zoom, OffsetX: m.offsetX, OffsetY: m.offsetY}
	if m.job != nil {
		vp.Width, vp.Height = m.job.Size()
	}
	if len(m.results) > 0 && m.results[0].List != nil && m.input != nil && len(m.input.Layers) == 0 {
		// a loaded display list carries its own extent
		vp.Width, vp.Height = m.results[0].List.Width, m.results[0].List.Height
	}
	return vp
}

// cellToData converts a map cell to plot-plane points and, when the
// projection can invert, data coordinates.
func (m Model) cellToData(cx, cy, w, h int) (at vec.Vec2, data [2]float64, ok, hasData bool) {
	at, ok = m.viewport().Point(cx, cy, w, h)
	if !ok || m.job == nil {
		return at, data, ok, false
	}
	if inv, isInv := m.job.Proj.(proj.Inverter); isInv {
		x, y, okInv := inv.Inverse(at.X, at.Y)
		return at, [2]float64{x, y}, ok, okInv
	}
	return at, data, ok, false
}

// visible calls fn for every item of the shown layers.
func (m Model) visible(fn func(it *dlist.Item)) {
	for _, r := range m.results {
		if r.List == nil || !m.show[r.Kind] {
			continue
		}
		for i := range r.List.Items {
			fn(&r.List.Items[i])
		}
	}
}

func (m Model) renderMap(w, h int) string {
	c := braille.New(w, h, m.viewport())
	for _, r := range m.results {
		if r.List != nil && m.show[r.Kind] {
			_ = r.List.Replay(c)
		}
	}
	// Hover highlight: an orange circle on the nearest vertex
	if m.hovering && m.hoverHasAt {
		c.SetFill(paint.Solid(hoverInk), false)
		c.DrawText("◯", m.hoverAt, 0, 0)
	}
	return c.Render()
}

// nearestVertex finds the drawn vertex closest to cell (cx, cy) on the
// micro grid.
func (m Model) nearestVertex(cx, cy, w, h int) (vec.Vec2, bool) {
	vp := m.viewport()
	hx, hy := cx*2, cy*4
	best := math.MaxInt
	var at vec.Vec2
	m.visible(func(it *dlist.Item) {
		for _, p := range it.Points {
			mx, my, ok := vp.Micro(p, w, h)
			if !ok {
				continue
			}
			dx, dy := mx-hx, my-hy
			if d := dx*dx + dy*dy; d < best {
				best, at = d, p
			}
		}
	})
	return at, best != math.MaxInt
}

// inspectNearest finds the glyph closest to the viewport center.
func (m Model) inspectNearest() (vec.Vec2, bool) {
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	vp := m.viewport()
	cx, cy := w, h*2 // center in micro-pixels
	best := math.MaxInt
	var at vec.Vec2
	m.visible(func(it *dlist.Item) {
		if it.Op != dlist.OpGlyph && it.Op != dlist.OpText {
			return
		}
		mx, my, ok := vp.Micro(it.Points[0], w, h)
		if !ok {
			return
		}
		dx, dy := mx-cx, my-cy
		if d := dx*dx + dy*dy; d < best {
			best, at = d, it.Points[0]
		}
	})
	if best == math.MaxInt {
		return m.nearestVertex(w/2, h/2, w, h)
	}
	return at, true
}
