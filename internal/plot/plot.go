// Package plot drives one plotting call: it reads records, keeps the style
// cascade, builds primitives and hands them to a backend.
package plot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/build"
	"geoplot/internal/columns"
	"geoplot/internal/depth"
	"geoplot/internal/diag"
	"geoplot/internal/emit"
	"geoplot/internal/line"
	"geoplot/internal/paint"
	"geoplot/internal/palette"
	"geoplot/internal/prim"
	"geoplot/internal/proj"
	"geoplot/internal/record"
	"geoplot/internal/replica"
	"geoplot/internal/style"
	"geoplot/internal/symbol"
)

// Report summarizes a call.
type Report struct {
	Records    int // data records that reached a builder
	Headers    int
	Segments   int
	Skipped    int // dropped by a palette skip flag or a skipped segment
	Clipped    int
	NaN        int
	Primitives int
	Drawn      emit.Counts
	Warnings   []diag.Entry
}

// call is the state of one Plot invocation. Nothing in it outlives the call.
type call struct {
	opts  Options
	proj  proj.Projection
	base  symbol.Spec
	spec  *symbol.Spec
	feat  columns.Features
	lays  map[*symbol.Spec]columns.Layout
	codes map[string]*symbol.Spec

	// categorical palettes key on the record text instead of a column
	categorical bool

	state   style.State
	label   string
	skipSeg bool

	env *build.Env
	reg build.Registry
	rep *replica.Replicator
	asm *line.Assembler
	seq *depth.Sequencer

	tally  diag.Tally
	report Report
	log    *slog.Logger
}

// Plot renders every record of src. Configuration errors are returned
// before the first record is read; any fatal error leaves the backend
// with an empty, closed group.
func Plot(ctx context.Context, opts Options, src record.Source, p proj.Projection, b emit.Backend) (Report, error) {
	if err := opts.validate(); err != nil {
		return Report{}, err
	}
	c, err := newCall(opts, p)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		c.tally.Flush(c.log)
	}()
	em := emit.New(b)
	err = em.Run(func(e *emit.Emitter) error {
		if err := c.read(ctx, src); err != nil {
			return err
		}
		if err := c.seq.Sort(); err != nil {
			return err
		}
		return c.seq.Drain(func(p *prim.Primitive) error {
			e.Emit(p)
			return nil
		})
	})
	c.report.Drawn = em.Counts()
	c.report.Warnings = c.tally.Entries()
	c.log.Info("plot done", "records", c.report.Records, "primitives", c.report.Primitives,
		"drawn", c.report.Drawn.Total(), "warnings", c.tally.Total())
	return c.report, err
}

func newCall(opts Options, p proj.Projection) (*call, error) {
	if opts.Unit == record.UnitNone {
		opts.Unit = record.UnitCm
	}
	spec, err := symbol.Parse(opts.Symbol, opts.Unit)
	if err != nil {
		return nil, err
	}
	if opts.SizeX > 0 {
		spec.SizeX, spec.ReadSize = opts.SizeX, false
		if spec.SizeY == 0 || opts.SizeY > 0 {
			spec.SizeY = opts.SizeX
		}
	}
	if opts.SizeY > 0 {
		spec.SizeY = opts.SizeY
	}
	if opts.BaseSet {
		spec.Base, spec.BaseSet = opts.Base, true
	}
	spec.ReadSymbol = opts.ReadSymbol
	if spec.Kind.Is3D() && opts.View == nil {
		return nil, fmt.Errorf("%v symbols need a 3-D view", spec.Kind)
	}
	customs := build.Customs()
	for k, d := range opts.Customs {
		customs[k] = d
	}
	is3D := opts.View != nil
	categorical := opts.PaletteEnabled && opts.Palette != nil && opts.Palette.Categorical
	c := &call{
		opts: opts,
		proj: p,
		base: spec,
		feat: columns.Features{
			Palette:      opts.PaletteEnabled && !categorical,
			Intensity:    opts.Intensity,
			Transparency: opts.Transparency,
			Scale:        opts.Scale,
			Is3D:         is3D,
			ErrX:         opts.ErrorBars.X.Columns(),
			ErrY:         opts.ErrorBars.Y.Columns(),
		},
		lays:  make(map[*symbol.Spec]columns.Layout),
		codes: make(map[string]*symbol.Spec),
		state: style.New(opts.Fill, opts.Pen, opts.Polygon),
		env: &build.Env{
			Proj:    p,
			View:    opts.View,
			Palette: opts.Palette,
			Customs: customs,
			Shade3D: opts.Shade3D,
		},
		reg: build.Default(),
		rep: replica.New(p, opts.Clip.Repeat()),
		seq: depth.New(is3D && opts.SortByDepth),
		log: diag.Logger(),
	}
	c.spec = &c.base
	c.categorical = categorical
	c.env.Tally = &c.tally
	c.asm = line.New(line.Config{
		Proj:     p,
		View:     opts.View,
		Step:     opts.Step,
		Envelope: opts.Envelope,
		Placer:   opts.Placer,
		Tally:    &c.tally,
	})
	return c, nil
}

func (c *call) read(ctx context.Context, src record.Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := src.Next()
		if err != nil {
			return fmt.Errorf("reading records: %w", err)
		}
		switch rec.Kind {
		case record.KindEOF:
			return c.closeSegment()
		case record.KindHeader:
			err = c.header(rec)
		default:
			if c.spec.Kind.IsLine() && !c.opts.ReadSymbol {
				err = c.vertex(rec)
			} else {
				err = c.point(rec)
			}
		}
		if errors.Is(err, diag.ErrNaNCoordinate) {
			c.log.Debug("record skipped", "err", err)
			continue
		}
		if err != nil {
			return err
		}
	}
}

// header ends the current segment and applies the new segment's style.
func (c *call) header(rec record.Record) error {
	c.report.Headers++
	if err := c.closeSegment(); err != nil {
		return err
	}
	st, h, err := c.state.RestoreDefault().ApplyHeader(rec.Header, c.opts.Palette)
	if err != nil {
		return fmt.Errorf("line %d: %w", rec.Line, err)
	}
	c.state, c.skipSeg, c.spec = st, h.Skip, &c.base
	for range h.Unknown {
		c.tally.Add(diag.HeaderToken)
	}
	if len(h.Unknown) > 0 {
		c.log.Debug("unrecognized header tokens", "line", rec.Line, "tokens", h.Unknown)
	}
	if h.HasSymbol {
		c.respecify(h.Symbol, rec.Line)
	}
	c.label = headerLabel(rec.Header)
	return nil
}

// respecify switches the symbol for the rest of the segment. A change
// between line and point modes is not possible mid-call.
func (c *call) respecify(code string, at int) {
	s, err := symbol.Parse(code, c.opts.Unit)
	if err == nil && s.Kind.IsLine() != c.base.Kind.IsLine() {
		err = errors.New("cannot switch between line and symbol modes")
	}
	if err == nil && s.Kind.Is3D() && c.opts.View == nil {
		err = errors.New("3-D symbol without a view")
	}
	if err != nil {
		c.tally.Add(diag.IgnoredRespec)
		c.log.Debug("symbol respecification ignored", "line", at, "code", code, "err", err)
		return
	}
	c.spec = &s
}

// headerLabel is the header text with its option tokens removed.
func headerLabel(h string) string {
	var words []string
	for _, w := range strings.Fields(h) {
		if !strings.HasPrefix(w, "-") {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

func (c *call) layout(spec *symbol.Spec) columns.Layout {
	if l, ok := c.lays[spec]; ok {
		return l
	}
	l := columns.Resolve(*spec, c.feat)
	c.lays[spec] = l
	return l
}

// recordSymbol parses a per-record symbol code.
func (c *call) recordSymbol(code string) (*symbol.Spec, error) {
	code = strings.TrimSpace(code)
	if s, ok := c.codes[code]; ok {
		return s, nil
	}
	s, err := symbol.Parse(code, c.opts.Unit)
	if err != nil {
		return nil, err
	}
	if s.Kind.IsLine() || (s.Kind.Is3D() && c.opts.View == nil) {
		return nil, fmt.Errorf("symbol %q cannot be drawn per record", code)
	}
	c.codes[code] = &s
	return &s, nil
}

// point builds the primitives of one symbol record.
func (c *call) point(rec record.Record) error {
	if c.skipSeg {
		c.report.Skipped++
		return nil
	}
	spec := c.spec
	if c.opts.ReadSymbol {
		s, err := c.recordSymbol(rec.Text)
		if err != nil {
			c.tally.Add(diag.BadSymbol)
			return nil
		}
		spec = s
	}
	l := c.layout(spec)
	if err := l.Check(rec); err != nil {
		return err
	}
	v := l.Values(rec, c.opts.Unit)
	is3D := c.opts.View != nil
	if math.IsNaN(v.X) || math.IsNaN(v.Y) || (is3D && math.IsNaN(v.Z)) || math.IsNaN(v.Scale) {
		return c.skipNaN(rec.Line)
	}
	if c.opts.Clip.Clip() && c.proj.Outside(v.X, v.Y) == proj.Outside {
		c.report.Clipped++
		return nil
	}
	x, y, ok := c.proj.Project(v.X, v.Y)
	if !ok || math.IsNaN(x) || math.IsNaN(y) {
		return c.skipNaN(rec.Line)
	}

	st := c.state
	if c.opts.PaletteEnabled {
		var col paint.Color
		var skip bool
		if c.categorical {
			col, skip = c.opts.Palette.LookupKey(strings.TrimSpace(rec.Text))
		} else {
			col, skip = c.opts.Palette.Lookup(v.Palette)
		}
		if skip {
			c.report.Skipped++
			return nil
		}
		st.Fill = paint.Solid(col)
		if spec.Kind == symbol.KindMarker && spec.Marker.Stroked() {
			st.Pen.Color = col
		}
	}
	if st.Fill.Active {
		st.Fill.Color = palette.Illuminate(st.Fill.Color, c.intensity(v))
	}

	in := build.Input{Spec: spec, Style: st, Values: v, At: vec.Vec2{X: x, Y: y}}
	prims, err := c.build(in)
	if err != nil {
		return fmt.Errorf("line %d: %w", rec.Line, err)
	}
	if c.rep.Active() {
		if spec.Kind.Is3D() {
			in.At.X += c.rep.Offset(x, y)
			extra, err := c.build(in)
			if err != nil {
				return fmt.Errorf("line %d: %w", rec.Line, err)
			}
			for i := range extra {
				extra[i].Replica = true
			}
			prims = append(prims, extra...)
		} else {
			prims = c.rep.Apply(prims, x, y)
		}
	}
	for i := range prims {
		p := &prims[i]
		palette.ApplyTransparency(p, st.Transparency, st.Transparency)
		palette.ApplyTransparency(p, v.FillT, v.StrokeT)
		p.Line = rec.Line
		if is3D {
			ax := x
			if p.Replica {
				ax += c.rep.Offset(x, y)
			}
			p.Depth = depth.Key(c.opts.View, ax, y, v.Z)
			if !spec.Kind.Is3D() {
				lift(c.opts.View, p, v.Z)
			}
		}
	}
	c.report.Records++
	return c.add(prims)
}

// build returns error bars followed by the symbol.
func (c *call) build(in build.Input) ([]prim.Primitive, error) {
	var out []prim.Primitive
	if c.opts.ErrorBars.Enabled() {
		out = c.opts.ErrorBars.Build(c.env, in)
	}
	sym, err := c.reg.Build(c.env, in)
	if err != nil {
		return nil, err
	}
	return append(out, sym...), nil
}

func (c *call) intensity(v columns.Values) float64 {
	switch c.opts.Intensity {
	case columns.IntensityFixed:
		return c.opts.FixedIntensity
	case columns.IntensityRecord:
		return v.Intensity
	}
	return 0
}

// skipNaN counts a dropped record. The returned error is recoverable.
func (c *call) skipNaN(line int) error {
	c.report.NaN++
	c.tally.Add(diag.NaNSkipped)
	return fmt.Errorf("line %d: %w", line, diag.ErrNaNCoordinate)
}

func (c *call) add(prims []prim.Primitive) error {
	c.report.Primitives += len(prims)
	return c.seq.Append(prims...)
}

// lift moves a plot-plane primitive to the view plane at height z.
func lift(v *proj.View, p *prim.Primitive, z float64) {
	up := func(pts []vec.Vec2) []vec.Vec2 {
		out := make([]vec.Vec2, len(pts))
		for i, q := range pts {
			x, y := v.Project(q.X, q.Y, z)
			out[i] = vec.Vec2{X: x, Y: y}
		}
		return out
	}
	p.Points = up(p.Points)
	for i, h := range p.Heads {
		p.Heads[i] = up(h)
	}
}

// vertex adds one record to the current line segment.
func (c *call) vertex(rec record.Record) error {
	if c.skipSeg {
		c.report.Skipped++
		return nil
	}
	l := c.layout(c.spec)
	nenv := c.opts.Envelope.Columns()
	if len(rec.Fields) < l.Width+nenv {
		return &diag.ColumnCountError{Line: rec.Line, Have: len(rec.Fields), Need: l.Width + nenv}
	}
	if !c.asm.IsOpen() {
		if err := c.openSegment(rec.Line); err != nil {
			return err
		}
	}
	p := line.Point{Lon: rec.Float(l.X), Lat: rec.Float(l.Y)}
	if l.Z != columns.Absent {
		p.Z = rec.Float(l.Z)
	}
	switch nenv {
	case 1:
		p.Dev = rec.Float(l.Width)
	case 2:
		p.Lower, p.Upper = rec.Float(l.Width), rec.Float(l.Width+1)
	}
	c.report.Records++
	return c.asm.Add(p)
}

func (c *call) openSegment(at int) error {
	st := c.state
	if st.Fill.Active && c.opts.Intensity == columns.IntensityFixed {
		st.Fill.Color = palette.Illuminate(st.Fill.Color, c.opts.FixedIntensity)
	}
	c.report.Segments++
	c.log.Debug("segment", "line", at, "polygon", st.IsPolygon(), "label", c.label)
	return c.asm.Open(line.Segment{Style: st, Spec: c.spec, Label: c.label, Line: at})
}

func (c *call) closeSegment() error {
	if !c.asm.IsOpen() {
		return nil
	}
	prims, err := c.asm.Close()
	if err != nil {
		return err
	}
	t := c.state.Transparency
	for i := range prims {
		palette.ApplyTransparency(&prims[i], t, t)
	}
	return c.add(prims)
}
