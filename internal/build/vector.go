package build

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/diag"
	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/proj"
	"geoplot/internal/symbol"
)

// headScale returns the shrink factor for a shaft of the given length and
// counts the warnings of vectors whose heads do not fit.
func headScale(env *Env, v symbol.VectorParams, length float64) float64 {
	s := 1.0
	if v.Shrink && v.Norm > 0 && length < v.Norm {
		s = length / v.Norm
		if s < v.Floor {
			s = v.Floor
			env.warn(diag.HeadShrunkPastFloor)
		}
	}
	n := 0
	if v.Begin {
		n++
	}
	if v.End {
		n++
	}
	if float64(n)*v.HeadLength*s > length {
		env.warn(diag.HeadLongerThanShaft)
	}
	return s
}

// arrowHead builds a head with its tip at tip pointing along dir. shape
// pulls the back of the head toward the tip; notch is where the shaft meets it.
func arrowHead(tip, dir vec.Vec2, length, width, shape float64) (poly []vec.Vec2, notch vec.Vec2) {
	d := unit(dir)
	n := vec.Vec2{X: -d.Y, Y: d.X}
	back := tip.Sub(d.Mul(length))
	notch = tip.Sub(d.Mul(length * (1 - 0.5*shape)))
	poly = []vec.Vec2{
		tip,
		back.Add(n.Mul(width / 2)),
		notch,
		back.Sub(n.Mul(width / 2)),
	}
	return poly, notch
}

// arrow assembles the primitive for a shaft path with optional heads at
// either end, already scaled by s.
func arrow(in Input, path []vec.Vec2, s float64) prim.Primitive {
	v := in.Spec.Vector
	hl, hw := v.HeadLength*s, v.HeadWidth()*s
	pen := in.Style.Pen
	if pen.Active {
		pen = pen.Scaled(s)
	} else {
		pen = paint.DefaultPen.Scaled(s)
	}
	fill := in.Style.Fill
	if !fill.Active {
		fill = paint.Solid(pen.Color)
	}
	p := prim.Primitive{Kind: prim.KindArrow, Fill: fill, Pen: pen}
	shaft := append([]vec.Vec2(nil), path...)
	if hl > 0 && len(shaft) >= 2 {
		if v.End {
			n := len(shaft)
			head, notch := arrowHead(shaft[n-1], shaft[n-1].Sub(shaft[n-2]), hl, hw, v.Shape)
			p.Heads = append(p.Heads, head)
			shaft = trimTail(shaft, notch)
		}
		if v.Begin {
			head, notch := arrowHead(shaft[0], shaft[0].Sub(shaft[1]), hl, hw, v.Shape)
			p.Heads = append(p.Heads, head)
			shaft = reverse(trimTail(reverse(shaft), notch))
		}
	}
	p.Points = shaft
	return p
}

// trimTail drops trailing vertices that lie inside the head, then ends the
// path at notch.
func trimTail(path []vec.Vec2, notch vec.Vec2) []vec.Vec2 {
	tip := path[len(path)-1]
	cut := notch.Sub(tip).Length()
	out := path[:len(path)-1]
	for len(out) > 1 && out[len(out)-1].Sub(tip).Length() < cut {
		out = out[:len(out)-1]
	}
	return append(out, notch)
}

func reverse(p []vec.Vec2) []vec.Vec2 {
	out := make([]vec.Vec2, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// buildVector draws a straight plot-plane vector from direction and length
// or from a second coordinate.
func buildVector(env *Env, in Input) ([]prim.Primitive, error) {
	a := in.args()
	if len(a) < 2 {
		return nil, nil
	}
	v := in.Spec.Vector
	tail := in.At
	var tip vec.Vec2
	if v.EndPoint {
		p, ok := env.project(a[0], a[1])
		if !ok {
			return nil, nil
		}
		tip = p
	} else {
		length := a[1]
		if math.IsNaN(length) || math.IsNaN(a[0]) {
			return nil, nil
		}
		tip = polar(tail, length, in.angle(env, a[0]))
	}
	d := tip.Sub(tail)
	switch v.Justify {
	case symbol.JustCenter:
		tail, tip = tail.Sub(d.Mul(0.5)), tip.Sub(d.Mul(0.5))
	case symbol.JustEnd:
		tail, tip = tail.Sub(d), tip.Sub(d)
	}
	length := d.Length()
	s := headScale(env, v, length)
	return []prim.Primitive{arrow(in, []vec.Vec2{tail, tip}, s)}, nil
}

// buildGeoVector follows the great circle from the record position, given
// an azimuth and a length in km or an end point.
func buildGeoVector(env *Env, in Input) ([]prim.Primitive, error) {
	a := in.args()
	if len(a) < 2 {
		return nil, nil
	}
	lon0, lat0 := in.Values.X, in.Values.Y
	var lon1, lat1 float64
	if in.Spec.Vector.EndPoint {
		lon1, lat1 = a[0], a[1]
	} else {
		if math.IsNaN(a[0]) || math.IsNaN(a[1]) {
			return nil, nil
		}
		lon1, lat1 = proj.Destination(lon0, lat0, a[0], a[1])
	}
	arc := proj.Distance(lon0, lat0, lon1, lat1) / proj.KmPerDegree
	n := max(2, int(math.Ceil(arc)))
	var path []vec.Vec2
	for _, ll := range proj.GreatCircle(lon0, lat0, lon1, lat1, n) {
		if p, ok := env.project(ll[0], ll[1]); ok {
			path = append(path, p)
		}
	}
	if len(path) < 2 {
		return nil, nil
	}
	s := headScale(env, in.Spec.Vector, pathLength(path))
	return []prim.Primitive{arrow(in, path, s)}, nil
}

// buildMathArc draws a circular arc of the given radius between a start
// and a stop angle, with heads tangent to the arc.
func buildMathArc(env *Env, in Input) ([]prim.Primitive, error) {
	a := in.args()
	if len(a) < 3 {
		return nil, nil
	}
	r, start, stop := a[0], a[1], a[2]
	if !(r > 0) || math.IsNaN(start) || math.IsNaN(stop) {
		return nil, nil
	}
	for stop <= start {
		stop += 360
	}
	path := arcPoints(in.At, r, start, stop)
	s := headScale(env, in.Spec.Vector, r*(stop-start)*math.Pi/180)
	return []prim.Primitive{arrow(in, path, s)}, nil
}

// arcPoints samples a circular arc every two degrees or less.
func arcPoints(c vec.Vec2, r, start, stop float64) []vec.Vec2 {
	n := max(2, int(math.Ceil((stop-start)/2)))
	out := make([]vec.Vec2, n+1)
	for i := range out {
		out[i] = polar(c, r, start+(stop-start)*float64(i)/float64(n))
	}
	return out
}

func pathLength(p []vec.Vec2) float64 {
	l := 0.0
	for i := 1; i < len(p); i++ {
		l += p[i].Sub(p[i-1]).Length()
	}
	return l
}
