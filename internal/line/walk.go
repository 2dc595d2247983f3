package line

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// pose is a point on a path and the unit tangent there.
type pose struct {
	At, Dir vec.Vec2
}

// normal is the tangent turned 90 degrees to the left.
func (p pose) normal() vec.Vec2 { return vec.Vec2{X: -p.Dir.Y, Y: p.Dir.X} }

// angle is the tangent direction in degrees, kept within (-90, 90] so
// text along the path reads left to right.
func (p pose) angle() float64 {
	a := math.Atan2(p.Dir.Y, p.Dir.X) * 180 / math.Pi
	switch {
	case a > 90:
		a -= 180
	case a <= -90:
		a += 180
	}
	return a
}

func pathLength(p []vec.Vec2) float64 {
	var l float64
	for i := 1; i < len(p); i++ {
		l += p[i].Sub(p[i-1]).Length()
	}
	return l
}

// stations returns the distances along a path of length total where
// evenly spaced items go. gap > 0 is the spacing, starting half a gap in;
// gap < 0 asks for -gap items centered in equal parts.
func stations(total, gap float64) []float64 {
	var d []float64
	switch {
	case total <= 0 || gap == 0:
	case gap > 0:
		for s := gap / 2; s <= total; s += gap {
			d = append(d, s)
		}
	default:
		n := int(-gap)
		step := total / float64(n)
		for i := range n {
			d = append(d, (float64(i)+0.5)*step)
		}
	}
	return d
}

// sample returns the poses at increasing distances along path.
func sample(path []vec.Vec2, dists []float64) []pose {
	out := make([]pose, 0, len(dists))
	var base float64
	seg := 1
	for _, d := range dists {
		for seg < len(path) {
			l := path[seg].Sub(path[seg-1]).Length()
			if base+l >= d && l > 0 {
				t := (d - base) / l
				delta := path[seg].Sub(path[seg-1])
				out = append(out, pose{
					At:  path[seg-1].Add(delta.Mul(t)),
					Dir: delta.Mul(1 / l),
				})
				break
			}
			base += l
			seg++
		}
		if seg >= len(path) {
			break
		}
	}
	return out
}
