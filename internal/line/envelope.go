package line

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

// EnvelopeMode selects how the filled band around a line is built.
type EnvelopeMode uint8

const (
	EnvNone       EnvelopeMode = iota
	EnvSymmetric               // y ± dev
	EnvAsymmetric              // y - lower .. y + upper
	EnvBounds                  // absolute lower .. upper
	EnvAnchor                  // line closed down to a fixed value or a map edge
)

func (m EnvelopeMode) String() string {
	switch m {
	case EnvNone:
		return "none"
	case EnvSymmetric:
		return "symmetric"
	case EnvAsymmetric:
		return "asymmetric"
	case EnvBounds:
		return "bounds"
	case EnvAnchor:
		return "anchor"
	}
	return "unknown"
}

// Envelope configures envelope polygons. For EnvAnchor, Edge is one of
// 'b', 't', 'l', 'r' for a map edge, or 0 to close to Value, which is a y
// value unless AlongX is set.
type Envelope struct {
	Mode   EnvelopeMode
	Edge   byte
	Value  float64
	AlongX bool
	Fill   paint.Fill // overrides the segment fill when active
}

// Columns is the number of deviation columns each record carries.
func (e Envelope) Columns() int {
	switch e.Mode {
	case EnvSymmetric:
		return 1
	case EnvAsymmetric, EnvBounds:
		return 2
	}
	return 0
}

// ParseEnvelope reads an envelope request:
//
//	+d          symmetric deviation column
//	+D          lower and upper deviation columns
//	+b          lower and upper bound columns
//	+yb +yt     close to the bottom or top edge
//	+xl +xr     close to the left or right edge
//	+y<v> +x<v> close to a fixed value
//
// An optional trailing "+g<fill>" sets the envelope fill.
func ParseEnvelope(s string) (Envelope, error) {
	var e Envelope
	if s == "" {
		return e, nil
	}
	mods := strings.Split(s, "+")
	if mods[0] != "" {
		return e, fmt.Errorf("envelope %q: must start with +", s)
	}
	for _, m := range mods[1:] {
		if m == "" {
			return e, fmt.Errorf("envelope %q: empty modifier", s)
		}
		arg := m[1:]
		switch m[0] {
		case 'd':
			e.Mode = EnvSymmetric
		case 'D':
			e.Mode = EnvAsymmetric
		case 'b':
			e.Mode = EnvBounds
		case 'x', 'y':
			e.Mode = EnvAnchor
			e.AlongX = m[0] == 'x'
			switch {
			case arg == "b" && !e.AlongX, arg == "t" && !e.AlongX,
				arg == "l" && e.AlongX, arg == "r" && e.AlongX:
				e.Edge = arg[0]
			case arg == "":
				return e, fmt.Errorf("envelope %q: anchor needs a value or edge", s)
			default:
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return e, fmt.Errorf("envelope %q: bad anchor %q", s, arg)
				}
				e.Value = v
			}
		case 'g':
			f, err := paint.ParseFill(arg)
			if err != nil {
				return e, fmt.Errorf("envelope %q: %w", s, err)
			}
			e.Fill = f
		default:
			return e, fmt.Errorf("envelope %q: unknown modifier +%c", s, m[0])
		}
	}
	return e, nil
}

// band returns the lower and upper data value of the envelope at p.
func (e Envelope) band(p Point) (lo, hi float64) {
	switch e.Mode {
	case EnvSymmetric:
		return p.Lat - p.Dev, p.Lat + p.Dev
	case EnvAsymmetric:
		return p.Lat - p.Lower, p.Lat + p.Upper
	default:
		return p.Lower, p.Upper
	}
}

// envelopes builds the filled band polygons of a segment, one per run.
func (a *Assembler) envelopes(runs []run, fill paint.Fill) []prim.Primitive {
	env := a.cfg.Envelope
	var out []prim.Primitive
	add := func(ring []vec.Vec2, zs []float64) {
		if len(ring) < 3 {
			return
		}
		out = append(out, a.shape(prim.Primitive{
			Kind:   prim.KindPolygon,
			Points: closeRing(ring),
			Closed: true,
			Fill:   fill,
			Pen:    paint.NoPen,
		}, zs))
	}
	for _, r := range runs {
		if len(r.data) < 2 {
			continue
		}
		first, last := r.data[0], r.data[len(r.data)-1]
		if env.Mode == EnvAnchor && env.Edge != 0 {
			w, h := a.cfg.Proj.Bounds()
			p0, p1 := r.xy[0], r.xy[len(r.xy)-1]
			var c0, c1 vec.Vec2
			switch env.Edge {
			case 'b':
				c0, c1 = vec.Vec2{X: p0.X}, vec.Vec2{X: p1.X}
			case 't':
				c0, c1 = vec.Vec2{X: p0.X, Y: h}, vec.Vec2{X: p1.X, Y: h}
			case 'l':
				c0, c1 = vec.Vec2{Y: p0.Y}, vec.Vec2{Y: p1.Y}
			case 'r':
				c0, c1 = vec.Vec2{X: w, Y: p0.Y}, vec.Vec2{X: w, Y: p1.Y}
			}
			ring := append(append([]vec.Vec2(nil), r.xy...), c1, c0)
			add(ring, append(r.zs(), last.Z, first.Z))
			continue
		}
		var ring []Point
		if env.Mode == EnvAnchor {
			ring = append(ring, r.data...)
			if env.AlongX {
				ring = append(ring,
					Point{Lon: env.Value, Lat: last.Lat, Z: last.Z},
					Point{Lon: env.Value, Lat: first.Lat, Z: first.Z})
			} else {
				ring = append(ring,
					Point{Lon: last.Lon, Lat: env.Value, Z: last.Z},
					Point{Lon: first.Lon, Lat: env.Value, Z: first.Z})
			}
		} else {
			lower := make([]Point, 0, len(r.data))
			for _, p := range r.data {
				lo, hi := env.band(p)
				if math.IsNaN(lo) || math.IsNaN(hi) {
					continue
				}
				ring = append(ring, Point{Lon: p.Lon, Lat: hi, Z: p.Z})
				lower = append(lower, Point{Lon: p.Lon, Lat: lo, Z: p.Z})
			}
			slices.Reverse(lower)
			ring = append(ring, lower...)
		}
		for _, q := range a.split(ring, false) {
			add(q.xy, q.zs())
		}
	}
	return out
}
