// Package line assembles line segments into paths, polygons, envelopes,
// front ticks and decorations.
package line

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/diag"
	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/proj"
	"geoplot/internal/style"
	"geoplot/internal/symbol"
)

var (
	ErrNotOpen = errors.New("line: no open segment")
	ErrOpen    = errors.New("line: segment already open")
)

// Point is one vertex of a segment in data coordinates. Dev, Upper and
// Lower feed the envelope and are ignored otherwise.
type Point struct {
	Lon, Lat, Z       float64
	Dev, Upper, Lower float64
}

// Segment is what a segment header leaves in effect for its points.
type Segment struct {
	Style style.State
	Spec  *symbol.Spec // line kind; nil is a plain line
	Label string
	Line  int
}

// Config is shared by every segment of a call.
type Config struct {
	Proj     proj.Projection
	View     *proj.View // lifts output into the view plane when set
	Step     float64    // great-circle resampling step in degrees; 0 disables
	Envelope Envelope
	Placer   LabelPlacer
	Tally    *diag.Tally
}

// Assembler collects the points of one segment at a time.
type Assembler struct {
	cfg  Config
	seg  Segment
	pts  []Point
	open bool
}

func New(cfg Config) *Assembler {
	if cfg.Placer == nil {
		cfg.Placer = DefaultPlacer{}
	}
	return &Assembler{cfg: cfg}
}

func (a *Assembler) IsOpen() bool { return a.open }

// Open starts a segment.
func (a *Assembler) Open(seg Segment) error {
	if a.open {
		return ErrOpen
	}
	a.seg, a.pts, a.open = seg, a.pts[:0], true
	return nil
}

// Add appends a vertex. A point with a NaN coordinate lifts the pen.
func (a *Assembler) Add(p Point) error {
	if !a.open {
		return ErrNotOpen
	}
	a.pts = append(a.pts, p)
	return nil
}

// run is a contiguous piece of a segment in data and plot coordinates.
type run struct {
	data []Point
	xy   []vec.Vec2
}

// Close finishes the segment and returns its primitives in draw order:
// envelope, body, front ticks, decorations.
func (a *Assembler) Close() ([]prim.Primitive, error) {
	if !a.open {
		return nil, ErrNotOpen
	}
	a.open = false
	st, spec := a.seg.Style, a.seg.Spec
	kind := symbol.KindLine
	if spec != nil {
		kind = spec.Kind
	}
	pts := a.resample(a.pts)
	env := a.cfg.Envelope
	polygon := st.IsPolygon() && env.Mode == EnvNone && kind == symbol.KindLine

	var out []prim.Primitive
	if polygon {
		for _, r := range a.split(pts, false) {
			if len(r.xy) < 3 {
				continue
			}
			out = append(out, a.shape(prim.Primitive{
				Kind:   prim.KindPolygon,
				Points: closeRing(r.xy),
				Closed: true,
				Fill:   st.Fill,
				Pen:    st.Pen,
			}, r.zs()))
		}
		return a.finish(out), nil
	}

	runs := a.split(pts, true)
	if env.Mode != EnvNone {
		fill := st.Fill
		if env.Fill.Active {
			fill = env.Fill
		}
		if fill.Active {
			out = append(out, a.envelopes(runs, fill)...)
		}
	}
	for _, r := range runs {
		if len(r.xy) < 2 {
			continue
		}
		out = append(out, a.shape(prim.Primitive{
			Kind:   prim.KindPath,
			Points: r.xy,
			Fill:   paint.NoFill,
			Pen:    st.Pen,
		}, r.zs()))
		switch kind {
		case symbol.KindFront:
			out = append(out, a.lift(frontTicks(r.xy, spec.Front, st), r.meanZ())...)
		case symbol.KindQuoted, symbol.KindDecorated:
			labels, err := a.cfg.Placer.Place(r.xy, spec, st, a.seg.Label)
			if err != nil {
				return nil, err
			}
			out = append(out, a.lift(labels, r.meanZ())...)
		}
	}
	return a.finish(out), nil
}

func (r run) zs() []float64 {
	z := make([]float64, len(r.data))
	for i, p := range r.data {
		z[i] = p.Z
	}
	return z
}

func (r run) meanZ() float64 {
	var s float64
	for _, p := range r.data {
		s += p.Z
	}
	return s / float64(max(1, len(r.data)))
}

// finish drops undrawable primitives and stamps line and depth.
func (a *Assembler) finish(ps []prim.Primitive) []prim.Primitive {
	out := ps[:0]
	for _, p := range ps {
		if !p.Fill.Active && !p.Pen.Active {
			continue
		}
		p.Line = a.seg.Line
		out = append(out, p)
	}
	return out
}

// shape lifts a primitive vertex by vertex and keys it by its mean. A
// closing vertex takes the height of the first.
func (a *Assembler) shape(p prim.Primitive, zs []float64) prim.Primitive {
	v := a.cfg.View
	if v == nil {
		return p
	}
	var sx, sy, sz float64
	lifted := make([]vec.Vec2, len(p.Points))
	for i, q := range p.Points {
		z := zs[i%len(zs)]
		sx, sy, sz = sx+q.X, sy+q.Y, sz+z
		x, y := v.Project(q.X, q.Y, z)
		lifted[i] = vec.Vec2{X: x, Y: y}
	}
	p.Points = lifted
	n := float64(len(p.Points))
	pl, el := v.Depth(sx/n, sy/n, sz/n)
	p.Depth = prim.DepthKey{Planar: pl, Elevation: el}
	return p
}

// lift moves decorations to the view plane at a single height.
func (a *Assembler) lift(ps []prim.Primitive, z float64) []prim.Primitive {
	if a.cfg.View == nil {
		return ps
	}
	for i := range ps {
		zs := make([]float64, len(ps[i].Points))
		for k := range zs {
			zs[k] = z
		}
		ps[i] = a.shape(ps[i], zs)
	}
	return ps
}

// resample inserts great-circle points so no step exceeds cfg.Step degrees.
func (a *Assembler) resample(pts []Point) []Point {
	if a.cfg.Step <= 0 || !proj.IsGeographic(a.cfg.Proj) || len(pts) < 2 {
		return pts
	}
	out := []Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		p, q := pts[i-1], pts[i]
		if p.broken() || q.broken() {
			out = append(out, q)
			continue
		}
		deg := proj.Distance(p.Lon, p.Lat, q.Lon, q.Lat) / proj.KmPerDegree
		n := int(math.Ceil(deg / a.cfg.Step))
		if n <= 1 {
			out = append(out, q)
			continue
		}
		gc := proj.GreatCircle(p.Lon, p.Lat, q.Lon, q.Lat, n)
		for k := 1; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, Point{
				Lon: gc[k][0], Lat: gc[k][1],
				Z:     lerp(p.Z, q.Z, t),
				Dev:   lerp(p.Dev, q.Dev, t),
				Upper: lerp(p.Upper, q.Upper, t),
				Lower: lerp(p.Lower, q.Lower, t),
			})
		}
		out = append(out, q)
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func (p Point) broken() bool { return math.IsNaN(p.Lon) || math.IsNaN(p.Lat) }

// split cuts pts into runs at NaN points and unprojectable points. Open
// lines also break where a periodic map wraps; rings are unwrapped instead
// so they stay in one piece.
func (a *Assembler) split(pts []Point, open bool) []run {
	per, periodic := a.cfg.Proj.(proj.Periodic)
	periodic = periodic && per.Periodic()
	var runs []run
	var cur run
	var shift float64
	flush := func() {
		if len(cur.xy) > 0 {
			runs = append(runs, cur)
		}
		cur, shift = run{}, 0
	}
	for _, p := range pts {
		if p.broken() {
			flush()
			continue
		}
		x, y, ok := a.cfg.Proj.Project(p.Lon, p.Lat)
		if !ok || math.IsNaN(x) || math.IsNaN(y) {
			flush()
			continue
		}
		if periodic && len(cur.xy) > 0 {
			prev := cur.xy[len(cur.xy)-1]
			half := per.HalfWidthAt(y)
			dx := x + shift - prev.X
			switch {
			case open && math.Abs(dx) > half:
				flush()
			case dx > half:
				shift -= 2 * half
			case dx < -half:
				shift += 2 * half
			}
		}
		cur.data = append(cur.data, p)
		cur.xy = append(cur.xy, vec.Vec2{X: x + shift, Y: y})
	}
	flush()
	return runs
}

// closeRing returns p with its first vertex repeated at the end.
func closeRing(p []vec.Vec2) []vec.Vec2 {
	if len(p) == 0 || p[0] == p[len(p)-1] {
		return p
	}
	return append(p[:len(p):len(p)], p[0])
}
