package build

import (
	"math"

	"geoplot/internal/prim"
)

// buildWedge draws a pie slice, or an annular sector when an inner
// diameter is set. Azimuth wedges convert and swap their angles.
func buildWedge(env *Env, in Input) ([]prim.Primitive, error) {
	a := in.args()
	size := in.Size()
	if len(a) < 2 || math.IsNaN(size) || size <= 0 {
		return nil, nil
	}
	start, stop := a[0], a[1]
	if math.IsNaN(start) || math.IsNaN(stop) {
		return nil, nil
	}
	if in.Spec.Azimuth {
		start, stop = in.angle(env, stop), in.angle(env, start)
	}
	for stop <= start {
		stop += 360
	}
	if stop-start > 360 {
		stop = start + 360
	}
	r := size / 2
	ring := arcPoints(in.At, r, start, stop)
	if inner := in.Spec.InnerRadius * in.Values.Scale / 2; inner > 0 && inner < r {
		ring = append(ring, reverse(arcPoints(in.At, inner, start, stop))...)
	} else {
		ring = append(ring, in.At)
	}
	return []prim.Primitive{shape(in, ring)}, nil
}
