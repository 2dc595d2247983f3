// Package config reads geoplot TOML files and turns them into plot options,
// a projection and custom symbol definitions.
package config

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"geoplot/internal/build"
	"geoplot/internal/columns"
	"geoplot/internal/line"
	"geoplot/internal/paint"
	"geoplot/internal/palette"
	"geoplot/internal/plot"
	"geoplot/internal/proj"
	"geoplot/internal/record"
)

// File mirrors the TOML layout. String fields use the same syntax as the
// command line flags that override them.
type File struct {
	Plot    Plot     `toml:"plot"`
	Palette Palette  `toml:"palette"`
	Map     Map      `toml:"map"`
	View    *View    `toml:"view"`
	Custom  []Custom `toml:"custom"`

	dir string
}

type Plot struct {
	Symbol       string   `toml:"symbol"`
	ReadSymbol   bool     `toml:"read_symbol"`
	Fill         string   `toml:"fill"`
	Pen          string   `toml:"pen"`
	Polygon      bool     `toml:"polygon"`
	Unit         string   `toml:"unit"`
	Clip         string   `toml:"clip"`
	NoSort       bool     `toml:"no_sort"`
	NoShade      bool     `toml:"no_shade"`
	Transparency string   `toml:"transparency"`
	Intensity    *float64 `toml:"intensity"`
	IntensityCol bool     `toml:"intensity_column"`
	Scale        bool     `toml:"scale_column"`
	ErrorX       string   `toml:"error_x"`
	ErrorY       string   `toml:"error_y"`
	ErrorCap     string   `toml:"error_cap"`
	ErrorPen     string   `toml:"error_pen"`
	Envelope     string   `toml:"envelope"`
	Step         float64  `toml:"step"`
}

type Palette struct {
	File        string `toml:"file"`
	Categorical bool   `toml:"categorical"`
}

type Map struct {
	Projection string `toml:"projection"`
	Region     string `toml:"region"`
	Width      string `toml:"width"`
	Height     string `toml:"height"`
}

type View struct {
	Azimuth   float64 `toml:"azimuth"`
	Elevation float64 `toml:"elevation"`
	ZScale    string  `toml:"zscale"`
	ZMin      float64 `toml:"zmin"`
	ZMax      float64 `toml:"zmax"`
}

type Custom struct {
	Name  string `toml:"name"`
	Parts []Part `toml:"part"`
}

type Part struct {
	Kind   string       `toml:"kind"`
	Points [][2]float64 `toml:"points"`
	Center [2]float64   `toml:"center"`
	Radius float64      `toml:"radius"`
	NoFill bool         `toml:"nofill"`
}

// Default is the configuration used without a file.
func Default() *File {
	return &File{
		Plot: Plot{Pen: "default", Unit: "c", Clip: "clip-repeat"},
		Map:  Map{Projection: "linear", Region: "0/10/0/10", Width: "15c"},
	}
}

// Load decodes path on top of Default. Keys the file sets but geoplot does
// not know are an error.
func Load(path string) (*File, error) {
	f := Default()
	meta, err := toml.DecodeFile(path, f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Options builds plot options. The palette file is resolved relative to
// the configuration file.
func (f *File) Options() (plot.Options, error) {
	o := plot.Defaults()
	p := f.Plot
	o.Symbol, o.ReadSymbol, o.Polygon = p.Symbol, p.ReadSymbol, p.Polygon
	var err error
	if o.Unit, err = record.ParseUnit(p.Unit); err != nil {
		return o, err
	}
	if p.Fill != "" {
		if o.Fill, err = paint.ParseFill(p.Fill); err != nil {
			return o, err
		}
		if p.Symbol == "" && o.Fill.Active {
			o.Polygon = true
		}
	}
	if p.Pen != "" && p.Pen != "default" {
		if o.Pen, err = paint.ParsePen(p.Pen); err != nil {
			return o, err
		}
	}
	if o.Clip, err = plot.ParseClipMode(p.Clip); err != nil {
		return o, err
	}
	o.SortByDepth, o.Shade3D = !p.NoSort, !p.NoShade
	if o.Transparency, err = parseTransparency(p.Transparency); err != nil {
		return o, err
	}
	switch {
	case p.IntensityCol:
		o.Intensity = columns.IntensityRecord
	case p.Intensity != nil:
		o.Intensity, o.FixedIntensity = columns.IntensityFixed, *p.Intensity
	}
	o.Scale, o.Step = p.Scale, p.Step
	if o.ErrorBars, err = p.errorBars(); err != nil {
		return o, err
	}
	if o.Envelope, err = line.ParseEnvelope(p.Envelope); err != nil {
		return o, err
	}
	if f.Palette.File != "" {
		path := f.Palette.File
		if !filepath.IsAbs(path) && f.dir != "" {
			path = filepath.Join(f.dir, path)
		}
		pal, err := palette.Load(path)
		if err != nil {
			return o, err
		}
		if f.Palette.Categorical {
			pal.Categorical = true
		}
		o.Palette, o.PaletteEnabled, o.Categorical = pal, true, f.Palette.Categorical
	}
	if o.Customs, err = f.customs(); err != nil {
		return o, err
	}
	return o, nil
}

func parseTransparency(s string) (columns.TransparencyMode, error) {
	switch s {
	case "", "none":
		return columns.TransNone, nil
	case "fill":
		return columns.TransFill, nil
	case "stroke":
		return columns.TransStroke, nil
	case "both":
		return columns.TransBoth, nil
	}
	return 0, fmt.Errorf("unknown transparency mode %q", s)
}

func (p Plot) errorBars() (build.ErrorBars, error) {
	var e build.ErrorBars
	var err error
	if e.X, err = build.ParseBarMode(p.ErrorX); err != nil {
		return e, err
	}
	if e.Y, err = build.ParseBarMode(p.ErrorY); err != nil {
		return e, err
	}
	e.Cap = build.DefaultCap
	if p.ErrorCap != "" {
		if e.Cap, err = record.ParseLength(p.ErrorCap, record.UnitPoint); err != nil {
			return e, err
		}
	}
	if p.ErrorPen != "" {
		if e.Pen, err = paint.ParsePen(p.ErrorPen); err != nil {
			return e, err
		}
		e.PenSet = true
	}
	return e, nil
}

func (f *File) customs() (map[string]*build.CustomDef, error) {
	if len(f.Custom) == 0 {
		return nil, nil
	}
	out := make(map[string]*build.CustomDef, len(f.Custom))
	for _, c := range f.Custom {
		if c.Name == "" {
			return nil, fmt.Errorf("custom symbol without a name")
		}
		def := &build.CustomDef{Name: c.Name}
		for i, p := range c.Parts {
			part := build.Part{Points: p.Points, Center: p.Center, Radius: p.Radius, NoFill: p.NoFill}
			switch p.Kind {
			case "polygon", "":
				part.Kind = build.PartPolygon
			case "path":
				part.Kind = build.PartPath
			case "circle":
				part.Kind = build.PartCircle
			default:
				return nil, fmt.Errorf("custom symbol %s part %d: unknown kind %q", c.Name, i, p.Kind)
			}
			if part.Kind != build.PartCircle && len(part.Points) < 2 {
				return nil, fmt.Errorf("custom symbol %s part %d: needs at least two points", c.Name, i)
			}
			def.Parts = append(def.Parts, part)
		}
		out[c.Name] = def
	}
	return out, nil
}

// ParseRegion reads "w/e/s/n".
func ParseRegion(s string) (proj.Region, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return proj.Region{}, fmt.Errorf("region %q: want w/e/s/n", s)
	}
	var v [4]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return proj.Region{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = x
	}
	r := proj.Region{W: v[0], E: v[1], S: v[2], N: v[3]}
	return r, r.Valid()
}

// Projection builds the map projection.
func (f *File) Projection() (proj.Projection, error) {
	r, err := ParseRegion(f.Map.Region)
	if err != nil {
		return nil, err
	}
	w, err := record.ParseLength(f.Map.Width, record.UnitCm)
	if err != nil {
		return nil, fmt.Errorf("map width: %w", err)
	}
	switch strings.ToLower(f.Map.Projection) {
	case "", "linear", "x":
		h := w * (r.N - r.S) / (r.E - r.W)
		if f.Map.Height != "" {
			if h, err = record.ParseLength(f.Map.Height, record.UnitCm); err != nil {
				return nil, fmt.Errorf("map height: %w", err)
			}
		}
		return proj.NewLinear(r, w, h)
	case "platecarree", "cyl", "q":
		return proj.NewPlateCarree(r, w)
	case "mercator", "m":
		return proj.NewMercator(r, w)
	}
	return nil, fmt.Errorf("unknown projection %q", f.Map.Projection)
}

// NewView builds the 3-D view for p, or nil for a 2-D configuration.
func (f *File) NewView(p proj.Projection) (*proj.View, error) {
	v := f.View
	if v == nil {
		return nil, nil
	}
	if v.Elevation <= 0 || v.Elevation > 90 {
		return nil, fmt.Errorf("view elevation %g outside (0,90]", v.Elevation)
	}
	zs := "1c"
	if v.ZScale != "" {
		zs = v.ZScale
	}
	scale, err := record.ParseLength(zs, record.UnitCm)
	if err != nil {
		return nil, fmt.Errorf("view zscale: %w", err)
	}
	zh := math.Max(0, v.ZMax-v.ZMin) * scale
	w, h := p.Bounds()
	return proj.NewView(v.Azimuth, v.Elevation, scale, v.ZMin, w, h, zh), nil
}
