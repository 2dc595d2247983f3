package build

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/diag"
	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/symbol"
)

// BandLayout splits a side-by-side group of total width into n bands
// separated by gaps of total*gapFraction, so that n*width + (n-1)*gap
// equals total.
func BandLayout(total, gapFraction float64, n int) (width, gap float64) {
	if n < 1 {
		n = 1
	}
	gap = total * gapFraction
	if n == 1 {
		gap = 0
	}
	width = (total - float64(n-1)*gap) / float64(n)
	return width, gap
}

// bands returns the boundaries b0..bn of a bar: b0 is the base, band k
// spans [b(k-1), b(k)] when stacked. Side-by-side bands all start at the base.
func bands(in Input, value float64) ([]float64, error) {
	spec := in.Spec
	args := in.args()
	base := spec.BaseValue()
	if spec.BaseFromColumn && len(args) > 0 {
		base, args = args[0], args[1:]
	}
	n := max(spec.Bar.Bands, 1)
	vals := make([]float64, 0, n)
	vals = append(vals, value)
	for i := 0; i < n-1 && i < len(args); i++ {
		vals = append(vals, args[i])
	}
	out := make([]float64, 0, n+1)
	out = append(out, base)
	if n == 1 || spec.Bar.SideBySide {
		return append(out, vals...), nil
	}
	for k, v := range vals {
		prev := out[len(out)-1]
		b := v
		if spec.Bar.Increments {
			b = prev + v
		}
		if b < prev {
			return nil, &diag.NonMonotonicBandsError{Line: in.Values.Line, Band: k + 1, Lower: prev, Upper: b}
		}
		out = append(out, b)
	}
	return out, nil
}

// bandFill is the fill of band k: the palette color for k when a palette
// is in use for a multiband bar, else the current fill.
func bandFill(env *Env, in Input, k int) paint.Fill {
	if in.Spec.Bar.Bands > 1 && env.Palette != nil {
		c, _ := env.Palette.Lookup(float64(k))
		return paint.Solid(c)
	}
	return in.Style.Fill
}

// buildBar draws vertical (bar-y) or horizontal (bar-x) bars.
func buildBar(env *Env, in Input) ([]prim.Primitive, error) {
	horizontal := in.Spec.Kind == symbol.KindBarX
	value := in.Values.Y
	if horizontal {
		value = in.Values.X
	}
	b, err := bands(in, value)
	if err != nil {
		return nil, err
	}
	size := in.Size()
	if math.IsNaN(size) || size <= 0 {
		return nil, nil
	}

	// along maps a data value on the bar axis to its plot coordinate.
	along := func(v float64) (float64, bool) {
		x, y := in.Values.X, v
		if horizontal {
			x, y = v, in.Values.Y
		}
		p, ok := env.project(x, y)
		if horizontal {
			return p.X, ok
		}
		return p.Y, ok
	}
	// across is the bar extent perpendicular to its axis.
	center, half := in.At.X, size/2
	if horizontal {
		center = in.At.Y
	}
	if in.Spec.Bar.UserWidth {
		w := size
		var p0, p1 vec.Vec2
		var ok0, ok1 bool
		if horizontal {
			p0, ok0 = env.project(in.Values.X, in.Values.Y-w/2)
			p1, ok1 = env.project(in.Values.X, in.Values.Y+w/2)
			half = math.Abs(p1.Y-p0.Y) / 2
		} else {
			p0, ok0 = env.project(in.Values.X-w/2, in.Values.Y)
			p1, ok1 = env.project(in.Values.X+w/2, in.Values.Y)
			half = math.Abs(p1.X-p0.X) / 2
		}
		if !ok0 || !ok1 {
			return nil, nil
		}
	}

	box := func(lo, hi, a0, a1 float64) []vec.Vec2 {
		if horizontal {
			return []vec.Vec2{{X: lo, Y: a0}, {X: hi, Y: a0}, {X: hi, Y: a1}, {X: lo, Y: a1}}
		}
		return []vec.Vec2{{X: a0, Y: lo}, {X: a1, Y: lo}, {X: a1, Y: hi}, {X: a0, Y: hi}}
	}

	n := len(b) - 1
	out := make([]prim.Primitive, 0, n)
	if in.Spec.Bar.SideBySide && n > 1 {
		w, gap := BandLayout(2*half, in.Spec.Bar.Gap, n)
		lo, ok := along(b[0])
		if !ok {
			return nil, nil
		}
		left := center - half
		for k := 1; k <= n; k++ {
			hi, ok := along(b[k])
			if !ok {
				continue
			}
			a0 := left + float64(k-1)*(w+gap)
			out = append(out, prim.Primitive{
				Kind: prim.KindPolygon, Points: box(lo, hi, a0, a0+w),
				Fill: bandFill(env, in, k-1), Pen: in.Style.Pen,
			})
		}
		return out, nil
	}
	for k := 1; k <= n; k++ {
		lo, ok0 := along(b[k-1])
		hi, ok1 := along(b[k])
		if !ok0 || !ok1 {
			continue
		}
		out = append(out, prim.Primitive{
			Kind: prim.KindPolygon, Points: box(lo, hi, center-half, center+half),
			Fill: bandFill(env, in, k-1), Pen: in.Style.Pen,
		})
	}
	return out, nil
}
