// Package columns decides which input column carries which quantity.
package columns

import (
	"math"

	"geoplot/internal/diag"
	"geoplot/internal/record"
	"geoplot/internal/symbol"
)

// Absent marks a quantity with no column.
const Absent = -1

type IntensityMode uint8

const (
	IntensityNone IntensityMode = iota
	IntensityFixed
	IntensityRecord
)

type TransparencyMode uint8

const (
	TransNone TransparencyMode = iota
	TransFill
	TransStroke
	TransBoth // two columns: fill then stroke
)

// Features are the per-call switches that add columns.
type Features struct {
	Palette      bool
	Intensity    IntensityMode
	Transparency TransparencyMode
	Scale        bool
	Is3D         bool
	ErrX, ErrY   int // error-bar column counts
}

// Layout holds 0-based column indices for one call (or one record when the
// symbol is read per record).
type Layout struct {
	X, Y, Z            int
	Palette, Intensity int
	FillT, StrokeT     int
	Scale              int
	Extra              int
	Kinds              []symbol.ColKind
	Delayed            []bool // extra column i is scaled before its unit resolves
	ErrX, ErrY         int
	NErrX, NErrY       int
	Width              int
}

// Resolve lays out [x, y, (z), palette?, intensity?, t_fill?, t_stroke?,
// scale?, symbol extras..., x errors..., y errors...].
func Resolve(spec symbol.Spec, f Features) Layout {
	l := Layout{
		X: 0, Y: 1, Z: Absent,
		Palette: Absent, Intensity: Absent, FillT: Absent, StrokeT: Absent,
		Scale: Absent, ErrX: Absent, ErrY: Absent,
	}
	n := 2
	next := func() int {
		n++
		return n - 1
	}
	if f.Is3D {
		l.Z = next()
	}
	if f.Palette {
		l.Palette = next()
	}
	if f.Intensity == IntensityRecord {
		l.Intensity = next()
	}
	switch f.Transparency {
	case TransFill:
		l.FillT = next()
	case TransStroke:
		l.StrokeT = next()
	case TransBoth:
		l.FillT = next()
		l.StrokeT = next()
	}
	if f.Scale {
		l.Scale = next()
	}
	l.Extra = n
	l.Kinds = spec.Columns()
	l.Delayed = make([]bool, len(l.Kinds))
	for i, k := range l.Kinds {
		l.Delayed[i] = k == symbol.ColDim && l.Scale != Absent
	}
	n += len(l.Kinds)
	if f.ErrX > 0 {
		l.ErrX, l.NErrX = n, f.ErrX
		n += f.ErrX
	}
	if f.ErrY > 0 {
		l.ErrY, l.NErrY = n, f.ErrY
		n += f.ErrY
	}
	l.Width = n
	return l
}

// Check fails with a ColumnCountError when rec is too short.
func (l Layout) Check(rec record.Record) error {
	if len(rec.Fields) < l.Width {
		return &diag.ColumnCountError{Line: rec.Line, Have: len(rec.Fields), Need: l.Width}
	}
	return nil
}

// Values are the resolved quantities of one record.
type Values struct {
	X, Y, Z   float64
	Palette   float64
	Intensity float64
	FillT     float64 // 0..1
	StrokeT   float64 // 0..1
	Scale     float64 // 1 without a scale column
	Extra     []float64
	ErrX      []float64
	ErrY      []float64
	Text      string
	Line      int
}

// Values extracts rec according to the layout. Dimension columns are
// returned in points, after scaling when a scale column exists. Missing
// optional quantities are NaN (transparencies 0, scale 1).
func (l Layout) Values(rec record.Record, def record.Unit) Values {
	v := Values{
		X:         rec.Float(l.X),
		Y:         rec.Float(l.Y),
		Z:         math.NaN(),
		Palette:   math.NaN(),
		Intensity: math.NaN(),
		Scale:     1,
		Text:      rec.Text,
		Line:      rec.Line,
	}
	opt := func(i int) float64 {
		if i == Absent {
			return math.NaN()
		}
		return rec.Float(i)
	}
	v.Z = opt(l.Z)
	v.Palette = opt(l.Palette)
	v.Intensity = opt(l.Intensity)
	if l.FillT != Absent {
		v.FillT = percent(rec.Float(l.FillT))
	}
	if l.StrokeT != Absent {
		v.StrokeT = percent(rec.Float(l.StrokeT))
	}
	if l.Scale != Absent {
		v.Scale = rec.Float(l.Scale)
	}
	v.Extra = make([]float64, len(l.Kinds))
	for i, k := range l.Kinds {
		j := l.Extra + i
		if j >= len(rec.Fields) {
			v.Extra[i] = math.NaN()
			continue
		}
		raw := rec.Fields[j]
		switch {
		case l.Delayed[i]:
			v.Extra[i] = raw.Scale(v.Scale).Resolve(def)
		case k == symbol.ColDim:
			v.Extra[i] = raw.Resolve(def)
		default:
			v.Extra[i] = raw.Value
		}
	}
	span := func(start, n int) []float64 {
		if start == Absent {
			return nil
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = rec.Float(start + i)
		}
		return out
	}
	v.ErrX = span(l.ErrX, l.NErrX)
	v.ErrY = span(l.ErrY, l.NErrY)
	return v
}

func percent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(1, p/100))
}
