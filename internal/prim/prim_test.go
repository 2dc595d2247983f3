package prim

import (
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/vec"
)

func TestDepthKeyCompare(t *testing.T) {
	keys := []DepthKey{{2, 0}, {1, 5}, {1, 1}, {3, -1}}
	slices.SortFunc(keys, DepthKey.Compare)
	want := []DepthKey{{1, 1}, {1, 5}, {2, 0}, {3, -1}}
	if !slices.Equal(keys, want) {
		t.Errorf("sorted = %v, want %v", keys, want)
	}
}

func TestTranslateDeepCopies(t *testing.T) {
	p := Primitive{
		Kind:   KindArrow,
		Points: []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}},
		Heads:  [][]vec.Vec2{{{X: 1, Y: 0}, {X: 0.8, Y: 0.1}, {X: 0.8, Y: -0.1}}},
	}
	q := p.Translate(vec.Vec2{X: 10})
	if q.Points[1].X != 11 || q.Heads[0][0].X != 11 {
		t.Errorf("translated = %+v", q)
	}
	if p.Points[1].X != 1 || p.Heads[0][0].X != 1 {
		t.Error("Translate modified the original")
	}
}

func TestOutlineSizes(t *testing.T) {
	c := vec.Vec2{X: 5, Y: 5}
	for g := Circle; g <= YDash; g++ {
		rings := Outline(g, c, 2)
		if len(rings) == 0 {
			t.Errorf("%v: no outline", g)
			continue
		}
		for _, r := range rings {
			for _, v := range r {
				if d := v.Sub(c).Length(); d > 1+1e-9 {
					t.Errorf("%v: vertex %v outside radius (%g)", g, v, d)
				}
			}
		}
		if g.Stroked() != (len(rings[0]) == 2) {
			t.Errorf("%v: stroked=%v but ring has %d points", g, g.Stroked(), len(rings[0]))
		}
	}
	if d := Outline(Circle, c, 2)[0][0].Sub(c).Length(); math.Abs(d-1) > 1e-9 {
		t.Errorf("circle radius = %g", d)
	}
}

func TestBoundsGlyph(t *testing.T) {
	p := Primitive{Kind: KindGlyph, Points: []vec.Vec2{{X: 1, Y: 1}}, Dims: []float64{2}}
	lo, hi := p.Bounds()
	if lo.X != 0 || hi.Y != 2 {
		t.Errorf("bounds = %v %v", lo, hi)
	}
}
