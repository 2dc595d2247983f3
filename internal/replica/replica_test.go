package replica

import (
	"testing"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/proj"
)

func glyph(x, y float64) prim.Primitive {
	return prim.Primitive{Kind: prim.KindGlyph, Points: []vec.Vec2{{X: x, Y: y}}, Dims: []float64{4}, Fill: paint.Solid(paint.White)}
}

func TestReplicaPair(t *testing.T) {
	p, _ := proj.NewPlateCarree(proj.Region{W: -180, E: 180, S: -90, N: 90}, 360)
	r := New(p, true)
	if !r.Active() {
		t.Fatal("global map should replicate")
	}
	tests := []struct {
		x, want float64
	}{
		{2, 362},    // near the western seam, copy to the right
		{358, -2},   // near the eastern seam, copy to the left
		{180, -180}, // exactly at the half-width goes left
	}
	for _, tt := range tests {
		got := r.Apply([]prim.Primitive{glyph(tt.x, 10)}, tt.x, 10)
		if len(got) != 2 {
			t.Fatalf("x=%g: %d primitives, want 2", tt.x, len(got))
		}
		if got[0].Replica || !got[1].Replica {
			t.Error("replica tag wrong")
		}
		if d := got[1].Points[0].X - got[0].Points[0].X; d != tt.want-tt.x {
			t.Errorf("x=%g: offset %g, want %g", tt.x, d, tt.want-tt.x)
		}
		if d := got[1].Points[0].X - got[0].Points[0].X; d != 360 && d != -360 {
			t.Errorf("offset %g is not one map width", d)
		}
		if got[1].Fill != got[0].Fill {
			t.Error("replica style differs")
		}
	}
}

func TestInactive(t *testing.T) {
	lin, _ := proj.NewLinear(proj.Region{W: 0, E: 1, S: 0, N: 1}, 10, 10)
	pc, _ := proj.NewPlateCarree(proj.Region{W: -180, E: 180, S: -90, N: 90}, 360)
	regional, _ := proj.NewPlateCarree(proj.Region{W: 0, E: 40, S: 0, N: 10}, 360)
	for _, r := range []*Replicator{New(lin, true), New(pc, false), New(regional, true), nil} {
		if r.Active() {
			t.Error("replicator should be inactive")
		}
		if got := r.Apply([]prim.Primitive{glyph(1, 1)}, 1, 1); len(got) != 1 {
			t.Errorf("inactive replicator produced %d primitives", len(got))
		}
	}
}
