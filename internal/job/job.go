// Package job ties a configuration, input files and the plot pipeline
// together for the command line and the viewer.
package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"geoplot/internal/config"
	"geoplot/internal/diag"
	"geoplot/internal/emit"
	"geoplot/internal/geom"
	"geoplot/internal/paint"
	"geoplot/internal/plot"
	"geoplot/internal/proj"
	"geoplot/internal/render/dlist"
	"geoplot/internal/symbol"
)

// DefaultMarker is the symbol given to point layers when the configured
// symbol cannot draw points.
const DefaultMarker = "c0.2c"

// polygonFill is used for polygon layers configured without a fill.
var polygonFill = paint.Solid(paint.RGB255(200, 200, 200))

// Job is a configured pipeline.
type Job struct {
	Options plot.Options
	Proj    proj.Projection
	Jobs    int // concurrent layers in Record; <1 means one
}

// New builds a job from f.
func New(f *config.File) (*Job, error) {
	opts, err := f.Options()
	if err != nil {
		return nil, err
	}
	p, err := f.Projection()
	if err != nil {
		return nil, err
	}
	if opts.View, err = f.NewView(p); err != nil {
		return nil, err
	}
	return &Job{Options: opts, Proj: p, Jobs: 1}, nil
}

// Size is the canvas extent in points.
func (j *Job) Size() (w, h float64) { return j.Proj.Bounds() }

// Input is everything read from one file.
type Input struct {
	Name   string
	Layers []geom.Layer
	BBox   geom.BBox
}

// Open reads a vector file or a record table. "-" reads a table from
// stdin.
func Open(path string) (Input, error) {
	if path == "-" {
		return readTable("stdin", os.Stdin)
	}
	if geom.IsVector(path) {
		d, err := geom.Load(path)
		if err != nil {
			return Input{}, err
		}
		return Input{Name: filepath.Base(path), Layers: d.Layers(), BBox: d.BBox}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Input{}, err
	}
	defer f.Close()
	return readTable(filepath.Base(path), f)
}

// Parse reads pasted text: WKT when it parses as such, a record table
// otherwise.
func Parse(name, text string) (Input, error) {
	if d, err := geom.ParseWKT(text); err == nil {
		return Input{Name: name, Layers: d.Layers(), BBox: d.BBox}, nil
	}
	return readTable(name, strings.NewReader(text))
}

func readTable(name string, r io.Reader) (Input, error) {
	l, bb, err := geom.ReadTable(r)
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", name, err)
	}
	if len(l.Records) == 0 {
		return Input{}, fmt.Errorf("%s: no records", name)
	}
	return Input{Name: name, Layers: []geom.Layer{l}, BBox: bb}, nil
}

// OptionsFor adapts the configured options to a layer kind. Tables are
// plotted as configured.
func (j *Job) OptionsFor(k geom.Kind) plot.Options {
	o := j.Options
	switch k {
	case geom.KindPoints:
		s, err := symbol.Parse(o.Symbol, o.Unit)
		if err != nil || s.Kind.IsLine() {
			o.Symbol = DefaultMarker
		}
		o.Polygon = false
	case geom.KindLines, geom.KindPolygons:
		s, err := symbol.Parse(o.Symbol, o.Unit)
		if err != nil || !s.Kind.IsLine() {
			o.Symbol = ""
		}
		o.ReadSymbol = false
		o.Polygon = k == geom.KindPolygons
		if o.Polygon && !o.Fill.Active {
			o.Fill = polygonFill
		}
	}
	return o
}

// Result is one plotted layer.
type Result struct {
	Input  string
	Kind   geom.Kind
	List   *dlist.List
	Report plot.Report
	Err    error
}

// Record plots every layer of inputs into its own display list. Layers
// run concurrently up to j.Jobs; results keep input order. A layer's fatal
// error is kept in its Result and joined into the returned error.
func (j *Job) Record(ctx context.Context, inputs []Input) ([]Result, error) {
	var results []Result
	for _, in := range inputs {
		for _, l := range in.Layers {
			results = append(results, Result{Input: in.Name, Kind: l.Kind})
		}
	}
	layers := make([]geom.Layer, 0, len(results))
	for _, in := range inputs {
		layers = append(layers, in.Layers...)
	}
	w, h := j.Size()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(j.Jobs, 1))
	for i := range results {
		g.Go(func() error {
			r := &results[i]
			rec := dlist.NewRecorder(w, h)
			r.Report, r.Err = plot.Plot(gctx, j.OptionsFor(r.Kind), layers[i].Source(), j.Proj, rec)
			r.List = &rec.List
			if errors.Is(r.Err, context.Canceled) {
				return r.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", r.Input, r.Kind, r.Err))
		}
	}
	diag.Logger().Info("job recorded", "inputs", len(inputs), "layers", len(results), "failed", len(errs))
	return results, errors.Join(errs...)
}

// Replay draws the recorded results into b in order.
func Replay(results []Result, b emit.Backend) error {
	for _, r := range results {
		if r.List == nil {
			continue
		}
		if err := r.List.Replay(b); err != nil {
			return err
		}
	}
	return nil
}

// Merge concatenates the display lists of results.
func Merge(w, h float64, results []Result) *dlist.List {
	out := &dlist.List{Width: w, Height: h}
	for _, r := range results {
		if r.List != nil {
			out.Items = append(out.Items, r.List.Items...)
		}
	}
	return out
}

// Totals sums the reports of results.
func Totals(results []Result) plot.Report {
	var t plot.Report
	var tally diag.Tally
	for _, r := range results {
		rp := r.Report
		t.Records += rp.Records
		t.Headers += rp.Headers
		t.Segments += rp.Segments
		t.Skipped += rp.Skipped
		t.Clipped += rp.Clipped
		t.NaN += rp.NaN
		t.Primitives += rp.Primitives
		for k, n := range rp.Drawn {
			t.Drawn[k] += n
		}
		for _, e := range rp.Warnings {
			tally.AddN(e.Warning, e.Count)
		}
	}
	t.Warnings = tally.Entries()
	return t
}

// UnionBBox covers every input.
func UnionBBox(inputs []Input) geom.BBox {
	var bb geom.BBox
	for _, in := range inputs {
		bb = bb.Union(in.BBox)
	}
	return bb
}
