// Package replica duplicates symbols across the seam of a periodic map.
package replica

import (
	"seehuhn.de/go/geom/vec"

	"geoplot/internal/prim"
	"geoplot/internal/proj"
)

// Replicator adds a shifted copy of each record's primitives when the
// projection wraps in x. The zero value and nil are inactive.
type Replicator struct {
	p proj.Periodic
}

// New returns an active replicator when p is periodic and repeat is set.
func New(p proj.Projection, repeat bool) *Replicator {
	if !repeat || !proj.IsPeriodic(p) {
		return &Replicator{}
	}
	return &Replicator{p: p.(proj.Periodic)}
}

func (r *Replicator) Active() bool { return r != nil && r.p != nil }

// Offset is the x shift of the replica of a record anchored at (x, y):
// one map width to the right when x lies left of the visual half-width,
// else one map width to the left.
func (r *Replicator) Offset(x, y float64) float64 {
	w := 2 * r.p.HalfWidthAt(y)
	if x < r.p.HalfWidth() {
		return w
	}
	return -w
}

// Apply returns prims followed by their replicas. Replicas are deep copies
// tagged Replica and share the originals' style.
func (r *Replicator) Apply(prims []prim.Primitive, x, y float64) []prim.Primitive {
	if !r.Active() || len(prims) == 0 {
		return prims
	}
	d := vec.Vec2{X: r.Offset(x, y)}
	n := len(prims)
	for i := range n {
		q := prims[i].Translate(d)
		q.Replica = true
		prims = append(prims, q)
	}
	return prims
}
