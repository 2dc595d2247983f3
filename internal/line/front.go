package line

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/style"
	"geoplot/internal/symbol"
)

// frontTicks places the ticks of a front along path. Polygonal ticks are
// filled with the segment fill, or the pen color when the fill is off.
func frontTicks(path []vec.Vec2, f symbol.FrontParams, st style.State) []prim.Primitive {
	if f.Length <= 0 {
		return nil
	}
	fill := st.Fill
	if !fill.Active {
		fill = paint.Solid(st.Pen.Color)
	}
	pen := st.Pen
	if !pen.Active {
		pen = paint.DefaultPen
	}
	side := float64(f.Side)
	var out []prim.Primitive
	for _, p := range sample(path, stations(pathLength(path), f.Gap)) {
		out = append(out, tick(p, f.Shape, f.Length, side, fill, pen))
	}
	return out
}

func tick(p pose, shape symbol.FrontShape, size, side float64, fill paint.Fill, pen paint.Pen) prim.Primitive {
	t, n := p.Dir, p.normal()
	at := func(along, across float64) vec.Vec2 {
		return p.At.Add(t.Mul(along)).Add(n.Mul(across))
	}
	// lo..hi is the extent across the line
	lo, hi := 0.0, side*size
	if side == 0 {
		lo, hi = -size/2, size/2
	}
	h := size / 2
	poly := func(pts ...vec.Vec2) prim.Primitive {
		return prim.Primitive{Kind: prim.KindPolygon, Points: pts, Closed: true, Fill: fill, Pen: pen}
	}
	path := func(pts ...vec.Vec2) prim.Primitive {
		return prim.Primitive{Kind: prim.KindPath, Points: pts, Fill: paint.NoFill, Pen: pen}
	}
	switch shape {
	case symbol.FrontTriangle:
		return poly(at(-h, lo), at(h, lo), at(0, hi))
	case symbol.FrontBox:
		return poly(at(-h, lo), at(h, lo), at(h, hi), at(-h, hi))
	case symbol.FrontCircle:
		// a half disc on the tick side, a full disc when centered
		start, sweep := 0.0, math.Pi
		if side < 0 {
			start = math.Pi
		}
		if side == 0 {
			sweep = 2 * math.Pi
		}
		const segs = 16
		var pts []vec.Vec2
		for i := 0; i <= segs; i++ {
			a := start + sweep*float64(i)/segs
			pts = append(pts, at(h*math.Cos(a), h*math.Sin(a)))
		}
		return poly(pts...)
	case symbol.FrontSlip:
		s := side
		if s == 0 {
			s = 1
		}
		off := s * size / 3
		return path(at(-h, off), at(h, off), at(h-size/3, off+s*size/3))
	default:
		return path(at(0, lo), at(0, hi))
	}
}
