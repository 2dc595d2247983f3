package plot

import (
	"errors"
	"fmt"

	"geoplot/internal/build"
	"geoplot/internal/columns"
	"geoplot/internal/diag"
	"geoplot/internal/line"
	"geoplot/internal/paint"
	"geoplot/internal/palette"
	"geoplot/internal/proj"
	"geoplot/internal/record"
)

// ClipMode says whether records outside the map are dropped and whether
// periodic maps replicate symbols across the seam.
type ClipMode uint8

const (
	ClipRepeat ClipMode = iota
	ClipNoRepeat
	NoClipRepeat
	NoClipNoRepeat
)

func (m ClipMode) Clip() bool   { return m == ClipRepeat || m == ClipNoRepeat }
func (m ClipMode) Repeat() bool { return m == ClipRepeat || m == NoClipRepeat }

var clipNames = [...]string{"clip-repeat", "clip-no-repeat", "no-clip-repeat", "no-clip-no-repeat"}

func (m ClipMode) String() string {
	if int(m) < len(clipNames) {
		return clipNames[m]
	}
	return "unknown"
}

func ParseClipMode(s string) (ClipMode, error) {
	if s == "" {
		return ClipRepeat, nil
	}
	for i, n := range clipNames {
		if s == n {
			return ClipMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown clip mode %q", s)
}

// Options configure one Plot call.
type Options struct {
	// Symbol is the symbol code; empty selects line mode.
	Symbol string
	// ReadSymbol takes each record's symbol code from its trailing text.
	ReadSymbol bool
	// SizeX and SizeY override the code's size when positive (points).
	SizeX, SizeY float64
	// Base overrides the bar base when BaseSet.
	Base    float64
	BaseSet bool
	// Unit applies to lengths given without a suffix.
	Unit record.Unit

	Fill    paint.Fill
	Pen     paint.Pen
	Polygon bool // fill line segments as polygons

	// A categorical palette keys each record on its trimmed trailing text;
	// a numeric one reads a palette column.
	Palette        *palette.Palette
	PaletteEnabled bool
	Categorical    bool

	Intensity      columns.IntensityMode
	FixedIntensity float64
	Transparency   columns.TransparencyMode
	Scale          bool

	Clip        ClipMode
	View        *proj.View // non-nil for 3-D calls
	SortByDepth bool
	Shade3D     bool

	ErrorBars build.ErrorBars
	Envelope  line.Envelope
	Step      float64 // geographic line resampling step, degrees
	Placer    line.LabelPlacer
	Customs   map[string]*build.CustomDef
}

// Defaults returns options for a plain black line plot.
func Defaults() Options {
	return Options{
		Unit:        record.UnitCm,
		Fill:        paint.NoFill,
		Pen:         paint.DefaultPen,
		SortByDepth: true,
		Shade3D:     true,
	}
}

var (
	errCategorical     = errors.New("categorical lookup needs a categorical palette")
	errCategoricalText = errors.New("categorical palette and per-record symbols both need the record text")
)

// validate reports configuration errors that abort before any record.
func (o Options) validate() error {
	if o.PaletteEnabled && o.Palette == nil {
		return diag.ErrPaletteMissing
	}
	if o.Categorical && (o.Palette == nil || !o.Palette.Categorical) {
		return errCategorical
	}
	if o.ReadSymbol && o.PaletteEnabled && o.Palette != nil && o.Palette.Categorical {
		return errCategoricalText
	}
	return nil
}
