package plot

import (
	"context"
	"errors"
	"math"
	"testing"

	"geoplot/internal/columns"
	"geoplot/internal/diag"
	"geoplot/internal/line"
	"geoplot/internal/paint"
	"geoplot/internal/palette"
	"geoplot/internal/proj"
	"geoplot/internal/record"
	"geoplot/internal/render/dlist"
)

func linear(t *testing.T) proj.Projection {
	t.Helper()
	p, err := proj.NewLinear(proj.Region{W: 0, E: 10, S: 0, N: 10}, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, opts Options, p proj.Projection, recs ...record.Record) (Report, *dlist.Recorder, error) {
	t.Helper()
	w, h := p.Bounds()
	r := dlist.NewRecorder(w, h)
	rep, err := Plot(context.Background(), opts, record.NewSlice(recs), p, r)
	return rep, r, err
}

func symbolOpts(code string) Options {
	o := Defaults()
	o.Symbol = code
	o.Fill = paint.Solid(paint.White)
	return o
}

func text(rec record.Record, s string) record.Record {
	rec.Text = s
	return rec
}

func TestGlyphPerRecord(t *testing.T) {
	recs := []record.Record{
		record.Data(1, 1), record.Data(2, 2), record.Data(math.NaN(), 3),
		record.Data(4, 4), record.Data(5, math.NaN()), record.Data(6, 6),
	}
	rep, r, err := run(t, symbolOpts("c0.2c"), linear(t), recs...)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Count(dlist.OpGlyph); got != 4 {
		t.Errorf("%d glyphs for 4 finite records", got)
	}
	if rep.NaN != 2 || rep.Records != 4 {
		t.Errorf("report %+v", rep)
	}
	if n := r.Count(dlist.OpBegin); n != 1 || r.Count(dlist.OpEnd) != 1 {
		t.Errorf("%d groups", n)
	}
}

func TestPeriodicReplica(t *testing.T) {
	p, err := proj.NewPlateCarree(proj.Region{W: -180, E: 180, S: -90, N: 90}, 360)
	if err != nil {
		t.Fatal(err)
	}
	_, r, err := run(t, symbolOpts("c4p"), p, record.Data(-179, 10), record.Data(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	var xs []float64
	for _, it := range r.Items {
		if it.Op == dlist.OpGlyph {
			xs = append(xs, it.Points[0].X)
		}
	}
	if len(xs) != 4 {
		t.Fatalf("got %d glyphs, want 2 records x 2", len(xs))
	}
	if d := xs[1] - xs[0]; math.Abs(d-360) > 1e-9 {
		t.Errorf("replica offset %g, want 360", d)
	}

	opts := symbolOpts("c4p")
	opts.Clip = ClipNoRepeat
	_, r, _ = run(t, opts, p, record.Data(-179, 10))
	if n := r.Count(dlist.OpGlyph); n != 1 {
		t.Errorf("no-repeat mode drew %d glyphs", n)
	}
}

func TestPaletteScenario(t *testing.T) {
	red, blue := paint.RGB255(255, 0, 0), paint.RGB255(0, 0, 255)
	pal, err := palette.New([]palette.Bin{{Lo: 0, Hi: 5, Color: red}, {Lo: 5, Hi: 10, Color: blue}})
	if err != nil {
		t.Fatal(err)
	}
	p, _ := proj.NewLinear(proj.Region{W: -1, E: 1, S: -1, N: 1}, 10, 10)
	opts := symbolOpts("c4p")
	opts.Palette, opts.PaletteEnabled = pal, true
	_, r, err := run(t, opts, p, record.Data(0, 0, 5))
	if err != nil {
		t.Fatal(err)
	}
	var fill paint.Fill
	for _, it := range r.Items {
		if it.Op == dlist.OpFill {
			fill = it.Fill
		}
	}
	if !fill.Active || fill.Color != blue {
		t.Errorf("fill %v, want blue", fill)
	}
}

func TestPaletteSkip(t *testing.T) {
	pal, _ := palette.New([]palette.Bin{
		{Lo: 0, Hi: 5, Color: paint.Black, Skip: true},
		{Lo: 5, Hi: 10, Color: paint.White},
	})
	opts := symbolOpts("c4p")
	opts.Palette, opts.PaletteEnabled = pal, true
	rep, r, err := run(t, opts, linear(t), record.Data(1, 1, 2), record.Data(2, 2, 7))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Skipped != 1 || r.Count(dlist.OpGlyph) != 1 {
		t.Errorf("skipped %d, drew %d", rep.Skipped, r.Count(dlist.OpGlyph))
	}
}

func TestConfigErrorsBeforeRecords(t *testing.T) {
	opts := symbolOpts("c4p")
	opts.PaletteEnabled = true
	_, r, err := run(t, opts, linear(t), record.Data(1, 1, 1))
	if !errors.Is(err, diag.ErrPaletteMissing) {
		t.Errorf("err %v", err)
	}
	if len(r.Items) != 0 {
		t.Errorf("backend touched: %d items", len(r.Items))
	}

	_, _, err = run(t, symbolOpts("u1c"), linear(t), record.Data(1, 1, 1))
	if err == nil {
		t.Error("cube without a view accepted")
	}
}

func TestFatalErrorDrawsNothing(t *testing.T) {
	_, r, err := run(t, symbolOpts("c"), linear(t), record.Data(1, 1, 4), record.Data(2, 2))
	var cc *diag.ColumnCountError
	if !errors.As(err, &cc) || cc.Need != 3 || cc.Have != 2 {
		t.Fatalf("err %v", err)
	}
	if len(r.Items) != 2 || r.Items[0].Op != dlist.OpBegin || r.Items[1].Op != dlist.OpEnd {
		t.Errorf("items %v", r.Items)
	}

	_, r, err = run(t, symbolOpts("b0.5c+v2"), linear(t), record.Data(1, 5, 3))
	var nm *diag.NonMonotonicBandsError
	if !errors.As(err, &nm) {
		t.Fatalf("err %v", err)
	}
	if r.Count(dlist.OpPolygon) != 0 {
		t.Error("bands drawn after a fatal error")
	}
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := dlist.NewRecorder(100, 100)
	_, err := Plot(ctx, symbolOpts("c4p"), record.NewSlice([]record.Record{record.Data(1, 1)}), linear(t), r)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err %v", err)
	}
	if r.Count(dlist.OpGlyph) != 0 || r.Count(dlist.OpEnd) != 1 {
		t.Error("canceled call drew or left the group open")
	}
}

func TestClip(t *testing.T) {
	rep, r, _ := run(t, symbolOpts("c4p"), linear(t), record.Data(20, 5), record.Data(5, 5))
	if rep.Clipped != 1 || r.Count(dlist.OpGlyph) != 1 {
		t.Errorf("clipped %d, drew %d", rep.Clipped, r.Count(dlist.OpGlyph))
	}
	opts := symbolOpts("c4p")
	opts.Clip = NoClipNoRepeat
	_, r, _ = run(t, opts, linear(t), record.Data(20, 5), record.Data(5, 5))
	if r.Count(dlist.OpGlyph) != 2 {
		t.Errorf("no-clip drew %d", r.Count(dlist.OpGlyph))
	}
}

func glyphYs(r *dlist.Recorder) []float64 {
	var ys []float64
	for _, it := range r.Items {
		if it.Op == dlist.OpGlyph {
			ys = append(ys, it.Points[0].Y)
		}
	}
	return ys
}

func TestDepthOrder(t *testing.T) {
	view := proj.NewView(180, 30, 1, 0, 100, 100, 10)
	recs := []record.Record{record.Data(5, 1, 0), record.Data(5, 9, 0)}
	opts := symbolOpts("c4p")
	opts.View = view
	_, r, err := run(t, opts, linear(t), recs...)
	if err != nil {
		t.Fatal(err)
	}
	ys := glyphYs(r)
	if len(ys) != 2 || ys[0] <= ys[1] {
		t.Errorf("far record should be drawn first: %v", ys)
	}
	opts.SortByDepth = false
	_, r, _ = run(t, opts, linear(t), recs...)
	if ys := glyphYs(r); len(ys) != 2 || ys[0] >= ys[1] {
		t.Errorf("unsorted call reordered: %v", ys)
	}
}

func TestColumns3D(t *testing.T) {
	opts := symbolOpts("o0.5c")
	opts.View = proj.NewView(200, 30, 10, 0, 100, 100, 50)
	rep, r, err := run(t, opts, linear(t), record.Data(2, 2, 3), record.Data(5, 5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if r.Count(dlist.OpPolygon) != 6 || rep.Primitives != 6 {
		t.Errorf("%d faces, want 3 per column", r.Count(dlist.OpPolygon))
	}
}

func TestLineSegments(t *testing.T) {
	recs := []record.Record{
		record.Header("-Gred"),
		record.Data(1, 1), record.Data(4, 1), record.Data(4, 4),
		record.Header("-Q"),
		record.Data(5, 5), record.Data(6, 6),
		record.Header("-W-"),
		record.Data(7, 7), record.Data(8, 8),
	}
	rep, r, err := run(t, Defaults(), linear(t), recs...)
	if err != nil {
		t.Fatal(err)
	}
	if r.Count(dlist.OpPolygon) != 1 || r.Count(dlist.OpPath) != 1 {
		t.Errorf("%d polygons, %d paths", r.Count(dlist.OpPolygon), r.Count(dlist.OpPath))
	}
	if rep.Segments != 3 || rep.Headers != 3 {
		t.Errorf("report %+v", rep)
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Warning != diag.HeaderToken {
		t.Errorf("warnings %v", rep.Warnings)
	}
}

func TestEnvelopeColumns(t *testing.T) {
	opts := Defaults()
	opts.Fill = paint.Solid(paint.White)
	opts.Envelope.Mode = line.EnvSymmetric
	_, r, err := run(t, opts, linear(t), record.Data(1, 5, 1), record.Data(3, 5, 1), record.Data(5, 6, 2))
	if err != nil {
		t.Fatal(err)
	}
	if r.Count(dlist.OpPolygon) != 1 || r.Count(dlist.OpPath) != 1 {
		t.Errorf("%d polygons, %d paths", r.Count(dlist.OpPolygon), r.Count(dlist.OpPath))
	}
	_, _, err = run(t, opts, linear(t), record.Data(1, 5))
	var cc *diag.ColumnCountError
	if !errors.As(err, &cc) {
		t.Errorf("missing deviation column: %v", err)
	}
}

func TestReadSymbol(t *testing.T) {
	opts := symbolOpts("")
	opts.ReadSymbol = true
	rep, r, err := run(t, opts, linear(t),
		text(record.Data(1, 1), "c4p"), text(record.Data(2, 2), "s5p"), text(record.Data(3, 3), "zz"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Count(dlist.OpGlyph) != 2 {
		t.Errorf("drew %d glyphs", r.Count(dlist.OpGlyph))
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Warning != diag.BadSymbol {
		t.Errorf("warnings %v", rep.Warnings)
	}
}

func TestHeaderRespecAndTransparency(t *testing.T) {
	recs := []record.Record{
		record.Data(1, 1),
		record.Header("-Ss6p -t50"),
		record.Data(2, 2),
		record.Header("-S~"),
		record.Data(3, 3),
	}
	rep, r, err := run(t, symbolOpts("c4p"), linear(t), recs...)
	if err != nil {
		t.Fatal(err)
	}
	var fills []paint.Fill
	var dims []float64
	for _, it := range r.Items {
		switch it.Op {
		case dlist.OpFill:
			fills = append(fills, it.Fill)
		case dlist.OpGlyph:
			dims = append(dims, it.Dims[0])
		}
	}
	if len(dims) != 3 || dims[1] != 6 || dims[2] == 6 {
		t.Errorf("glyph sizes %v", dims)
	}
	if len(fills) != 3 || math.Abs(fills[1].Color.T-0.5) > 1e-12 || fills[2].Color.T != 0 {
		t.Errorf("fills %v", fills)
	}
	var ignored int
	for _, w := range rep.Warnings {
		if w.Warning == diag.IgnoredRespec {
			ignored = w.Count
		}
	}
	if ignored != 1 {
		t.Errorf("warnings %v", rep.Warnings)
	}
}

func TestFixedIntensity(t *testing.T) {
	opts := symbolOpts("c4p")
	opts.Fill = paint.Solid(paint.RGB255(200, 40, 40))
	opts.Intensity, opts.FixedIntensity = columns.IntensityFixed, -1
	_, r, _ := run(t, opts, linear(t), record.Data(1, 1))
	for _, it := range r.Items {
		if it.Op == dlist.OpFill {
			_, _, v := it.Fill.Color.Hsv()
			if math.Abs(v-palette.DefaultShading.MinValue) > 1e-9 {
				t.Errorf("value %g after full darkening", v)
			}
		}
	}
}

func TestCategoricalKeysOnText(t *testing.T) {
	red, blue := paint.RGB255(255, 0, 0), paint.RGB255(0, 0, 255)
	pal, err := palette.NewCategorical([]palette.Bin{{Key: "A", Color: red}, {Key: "B", Color: blue}})
	if err != nil {
		t.Fatal(err)
	}
	opts := symbolOpts("c4p")
	opts.Palette, opts.PaletteEnabled, opts.Categorical = pal, true, true
	rep, r, err := run(t, opts, linear(t),
		text(record.Data(1, 1), " B "),
		text(record.Data(2, 2), "A"),
		text(record.Data(3, 3), "unknown"))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Records != 3 {
		t.Errorf("records %d, want 3", rep.Records)
	}
	var fills []paint.Color
	for _, it := range r.Items {
		if it.Op == dlist.OpFill {
			fills = append(fills, it.Fill.Color)
		}
	}
	want := []paint.Color{blue, red, pal.NaN}
	if len(fills) != len(want) {
		t.Fatalf("fills %v, want %v", fills, want)
	}
	for i := range want {
		if fills[i] != want[i] {
			t.Errorf("record %d fill %v, want %v", i+1, fills[i], want[i])
		}
	}

	opts.ReadSymbol = true
	if _, _, err := run(t, opts, linear(t), text(record.Data(1, 1), "c4p")); err == nil {
		t.Error("categorical palette with per-record symbols accepted")
	}
}

func TestStrokedMarkerTakesPaletteOnPen(t *testing.T) {
	blue := paint.RGB255(0, 0, 255)
	pal, err := palette.New([]palette.Bin{{Lo: 5, Hi: 10, Color: blue}})
	if err != nil {
		t.Fatal(err)
	}
	opts := symbolOpts("x0.2c")
	opts.Pen = paint.NoPen
	opts.Palette, opts.PaletteEnabled = pal, true
	_, r, err := run(t, opts, linear(t), record.Data(1, 1, 7))
	if err != nil {
		t.Fatal(err)
	}
	var pen paint.Pen
	for _, it := range r.Items {
		if it.Op == dlist.OpPen {
			pen = it.Pen
		}
	}
	if !pen.Active || pen.Color != blue {
		t.Errorf("pen %v, want active blue", pen)
	}
}

func TestNaNScaleSkipsRecord(t *testing.T) {
	opts := symbolOpts("c")
	opts.Scale = true
	rep, r, err := run(t, opts, linear(t),
		record.Data(1, 1, 2, 0.3), record.Data(2, 2, math.NaN(), 0.3))
	if err != nil {
		t.Fatal(err)
	}
	if rep.Records != 1 || rep.NaN != 1 || r.Count(dlist.OpGlyph) != 1 {
		t.Errorf("report %+v, %d glyphs", rep, r.Count(dlist.OpGlyph))
	}
}
