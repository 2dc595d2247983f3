package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"geoplot/internal/config"
	"geoplot/internal/diag"
	"geoplot/internal/geom"
	"geoplot/internal/render/dlist"
)

func newJob(t *testing.T, symbol string) *Job {
	t.Helper()
	f := config.Default()
	f.Plot.Symbol = symbol
	j, err := New(f)
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func TestOptionsFor(t *testing.T) {
	tests := []struct {
		symbol  string
		kind    geom.Kind
		want    string
		polygon bool
	}{
		{"", geom.KindPoints, DefaultMarker, false},
		{"t0.3c", geom.KindPoints, "t0.3c", false},
		{"", geom.KindLines, "", false},
		{"c0.3c", geom.KindLines, "", false},
		{"f1c/0.2c", geom.KindLines, "f1c/0.2c", false},
		{"", geom.KindPolygons, "", true},
		{"s0.5c", geom.KindTable, "s0.5c", false},
	}
	for _, tt := range tests {
		o := newJob(t, tt.symbol).OptionsFor(tt.kind)
		if o.Symbol != tt.want || o.Polygon != tt.polygon {
			t.Errorf("%q as %v: symbol %q polygon %v", tt.symbol, tt.kind, o.Symbol, o.Polygon)
		}
		if tt.polygon && !o.Fill.Active {
			t.Errorf("%v without a fill", tt.kind)
		}
	}
}

func TestRecordLayers(t *testing.T) {
	in, err := Parse("pasted", "POINT (1 1)\nLINESTRING (0 0, 5 5)\nPOLYGON ((1 1, 3 1, 3 3, 1 1))")
	if err != nil {
		t.Fatal(err)
	}
	j := newJob(t, "")
	j.Jobs = 4
	results, err := j.Record(context.Background(), []Input{in})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	checks := []struct {
		kind geom.Kind
		op   dlist.Op
	}{
		{geom.KindPoints, dlist.OpGlyph},
		{geom.KindLines, dlist.OpPath},
		{geom.KindPolygons, dlist.OpPolygon},
	}
	for i, c := range checks {
		r := results[i]
		if r.Kind != c.kind || r.Err != nil {
			t.Errorf("result %d: %v %v", i, r.Kind, r.Err)
			continue
		}
		if n := r.List.Count(c.op); n != 1 {
			t.Errorf("%v layer: %d %v items", r.Kind, n, c.op)
		}
	}

	w, h := j.Size()
	merged := Merge(w, h, results)
	rec := dlist.NewRecorder(w, h)
	if err := Replay(results, rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.Items) != len(merged.Items) || merged.Count(dlist.OpBegin) != 3 {
		t.Errorf("replayed %d items, merged %d", len(rec.Items), len(merged.Items))
	}
	tot := Totals(results)
	if tot.Drawn.Total() != 3 || tot.Segments != 2 {
		t.Errorf("totals %+v", tot)
	}
}

func TestRecordKeepsGoodLayers(t *testing.T) {
	bad, err := Parse("bad", "1 1 4\n2 2\n")
	if err != nil {
		t.Fatal(err)
	}
	good, err := Parse("good", "3 3 0.5\n")
	if err != nil {
		t.Fatal(err)
	}
	if bad.Layers[0].Kind != geom.KindTable {
		t.Fatalf("pasted numbers read as %v", bad.Layers[0].Kind)
	}
	results, err := newJob(t, "c").Record(context.Background(), []Input{bad, good})
	var cc *diag.ColumnCountError
	if !errors.As(err, &cc) {
		t.Fatalf("err %v", err)
	}
	if results[0].Err == nil || results[1].Err != nil {
		t.Errorf("errors %v / %v", results[0].Err, results[1].Err)
	}
	if results[1].List.Count(dlist.OpGlyph) != 1 {
		t.Error("good layer not drawn")
	}
}

func TestRecordCancelled(t *testing.T) {
	in, _ := Parse("p", "1 1\n2 2\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newJob(t, "c0.1c").Record(ctx, []Input{in}); !errors.Is(err, context.Canceled) {
		t.Errorf("err %v", err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	in, err := Open(write("a.wkt", "LINESTRING (0 0, 2 4)\n"))
	if err != nil {
		t.Fatal(err)
	}
	if in.Name != "a.wkt" || len(in.Layers) != 1 || in.Layers[0].Kind != geom.KindLines {
		t.Errorf("wkt input %+v", in)
	}
	in, err = Open(write("t.txt", "# comment\n> seg\n1 2\n3 4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(in.Layers[0].Records) != 3 || in.BBox.MaxY != 4 {
		t.Errorf("table input %+v", in)
	}
	if _, err := Open(write("empty.txt", "# nothing\n")); err == nil {
		t.Error("empty table accepted")
	}
	if _, err := Open(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("missing file accepted")
	}
	bb := UnionBBox([]Input{in, {BBox: geom.BBox{}}})
	if bb.MinX != 1 || bb.MaxX != 3 {
		t.Errorf("union %v", bb)
	}
}
