package build

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/diag"
	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

// BarMode selects how error columns are read.
type BarMode uint8

const (
	ErrNone    BarMode = iota
	ErrSym             // one deviation
	ErrAsym            // low and high deviations
	ErrBounds          // low and high bounds
	ErrWhisker         // q0 q25 q75 q100, the record value is the median
	ErrNotched         // whisker plus sample count
)

// Columns is the number of input columns the mode consumes.
func (m BarMode) Columns() int {
	switch m {
	case ErrSym:
		return 1
	case ErrAsym, ErrBounds:
		return 2
	case ErrWhisker:
		return 4
	case ErrNotched:
		return 5
	}
	return 0
}

func ParseBarMode(s string) (BarMode, error) {
	switch s {
	case "", "none":
		return ErrNone, nil
	case "sym":
		return ErrSym, nil
	case "asym":
		return ErrAsym, nil
	case "bounds":
		return ErrBounds, nil
	case "whisker":
		return ErrWhisker, nil
	case "notched":
		return ErrNotched, nil
	}
	return ErrNone, fmt.Errorf("unknown error bar mode %q", s)
}

// DefaultCap is the error bar cap width in points.
const DefaultCap = 7

// ErrorBars draws error bars and box-and-whisker glyphs behind a symbol.
type ErrorBars struct {
	X, Y   BarMode
	Cap    float64 // cap width, and box width for whiskers
	Pen    paint.Pen
	PenSet bool
}

func (e ErrorBars) Enabled() bool { return e.X != ErrNone || e.Y != ErrNone }

// Build returns the primitives of both axes' bars.
func (e ErrorBars) Build(env *Env, in Input) []prim.Primitive {
	var out []prim.Primitive
	if e.X != ErrNone && len(in.Values.ErrX) >= e.X.Columns() {
		out = append(out, e.axis(env, in, true, e.X, in.Values.ErrX)...)
	}
	if e.Y != ErrNone && len(in.Values.ErrY) >= e.Y.Columns() {
		out = append(out, e.axis(env, in, false, e.Y, in.Values.ErrY)...)
	}
	return out
}

func (e ErrorBars) axis(env *Env, in Input, horiz bool, mode BarMode, cols []float64) []prim.Primitive {
	center, other := in.Values.Y, in.Values.X
	if horiz {
		center, other = in.Values.X, in.Values.Y
	}
	for _, c := range cols[:mode.Columns()] {
		if math.IsNaN(c) {
			return nil
		}
	}
	pen := in.Style.Pen
	if e.PenSet {
		pen = e.Pen
	}
	if !pen.Active {
		pen = paint.DefaultPen
	}
	capW := e.Cap
	if capW <= 0 {
		capW = DefaultCap
	}
	w, h := env.Proj.Bounds()

	pt := func(v float64) (vec.Vec2, bool) {
		if horiz {
			return env.project(v, other)
		}
		return env.project(other, v)
	}
	// end projects v, pulling it back inside the visible plane if needed.
	end := func(v float64) (vec.Vec2, bool) {
		p, ok := pt(v)
		clamped := false
		if !ok {
			lo, hi := center, v
			for range 40 {
				mid := (lo + hi) / 2
				if _, ok := pt(mid); ok {
					lo = mid
				} else {
					hi = mid
				}
			}
			p, _ = pt(lo)
			clamped = true
		}
		if horiz {
			if p.X < 0 || p.X > w {
				p.X = math.Max(0, math.Min(w, p.X))
				clamped = true
			}
		} else if p.Y < 0 || p.Y > h {
			p.Y = math.Max(0, math.Min(h, p.Y))
			clamped = true
		}
		if clamped {
			env.warn(diag.OutOfRangeClamp)
		}
		return p, clamped
	}
	across := func(p vec.Vec2, half float64) (vec.Vec2, vec.Vec2) {
		if horiz {
			return vec.Vec2{X: p.X, Y: p.Y - half}, vec.Vec2{X: p.X, Y: p.Y + half}
		}
		return vec.Vec2{X: p.X - half, Y: p.Y}, vec.Vec2{X: p.X + half, Y: p.Y}
	}
	stroke := func(pts ...vec.Vec2) prim.Primitive {
		return prim.Primitive{Kind: prim.KindPath, Points: pts, Fill: paint.NoFill, Pen: pen}
	}
	capAt := func(p vec.Vec2) prim.Primitive {
		a, b := across(p, capW/2)
		return stroke(a, b)
	}

	var out []prim.Primitive
	switch mode {
	case ErrSym, ErrAsym, ErrBounds:
		lo, hi := center-math.Abs(cols[0]), center+math.Abs(cols[0])
		switch mode {
		case ErrAsym:
			lo, hi = center-math.Abs(cols[0]), center+math.Abs(cols[1])
		case ErrBounds:
			lo, hi = center-math.Abs(center-cols[0]), center+math.Abs(cols[1]-center)
		}
		a, ca := end(lo)
		b, cb := end(hi)
		out = append(out, stroke(a, b))
		if !ca {
			out = append(out, capAt(a))
		}
		if !cb {
			out = append(out, capAt(b))
		}
	case ErrWhisker, ErrNotched:
		q0, q25, q75, q100 := cols[0], cols[1], cols[2], cols[3]
		p0, c0 := end(q0)
		p25, _ := end(q25)
		p75, _ := end(q75)
		p100, c100 := end(q100)
		med, _ := end(center)
		out = append(out, stroke(p0, p25), stroke(p75, p100))
		if !c0 {
			out = append(out, capAt(p0))
		}
		if !c100 {
			out = append(out, capAt(p100))
		}
		half := capW / 2
		var box []vec.Vec2
		medHalf := half
		if mode == ErrNotched && cols[4] > 0 {
			s := 1.57 * (q75 - q25) / math.Sqrt(cols[4])
			nlo, _ := end(math.Max(center-s, q25))
			nhi, _ := end(math.Min(center+s, q75))
			medHalf = half / 2
			a25, b25 := across(p25, half)
			al, bl := across(nlo, half)
			am, bm := across(med, medHalf)
			ah, bh := across(nhi, half)
			a75, b75 := across(p75, half)
			box = []vec.Vec2{a25, al, am, ah, a75, b75, bh, bm, bl, b25}
		} else {
			a25, b25 := across(p25, half)
			a75, b75 := across(p75, half)
			box = []vec.Vec2{a25, a75, b75, b25}
		}
		out = append(out, prim.Primitive{Kind: prim.KindPolygon, Points: box, Fill: in.Style.Fill, Pen: pen})
		ma, mb := across(med, medHalf)
		out = append(out, stroke(ma, mb))
	}
	return out
}
