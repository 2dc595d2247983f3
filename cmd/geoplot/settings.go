package main

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"geoplot/internal/config"
	"geoplot/internal/job"
)

// plotFlags override the configuration file. Empty values keep the file's.
type plotFlags struct {
	symbol     string
	fill       string
	pen        string
	palette    string
	region     string
	projection string
	width      string
	view       string
	clip       string
	noSort     bool
	jobs       int
}

func (p *plotFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&p.symbol, "symbol", "S", "", "symbol code, e.g. c0.2c, v0.5c+e, f1c/0.2c")
	fs.StringVarP(&p.fill, "fill", "G", "", "fill, e.g. red, 255/0/0, #ff0000@50, - for none")
	fs.StringVarP(&p.pen, "pen", "W", "", "pen, e.g. 1p,blue,-")
	fs.StringVarP(&p.palette, "palette", "C", "", "YAML palette file")
	fs.StringVarP(&p.region, "region", "R", "", "region w/e/s/n, or auto to fit the inputs")
	fs.StringVarP(&p.projection, "projection", "J", "", "projection: linear, platecarree, mercator")
	fs.StringVar(&p.width, "width", "", "map width with unit, e.g. 15c")
	fs.StringVar(&p.view, "view", "", "3-D view azimuth/elevation, e.g. 135/30")
	fs.StringVar(&p.clip, "clip", "", "clip mode: clip-repeat, clip-no-repeat, no-clip-repeat, no-clip-no-repeat")
	fs.BoolVar(&p.noSort, "no-sort", false, "draw 3-D symbols in input order")
	fs.IntVar(&p.jobs, "jobs", 0, "layers plotted concurrently (0 = one per CPU)")
}

// loadConfig reads --config, or the defaults, and applies the flags.
func loadConfig(cmd *cobra.Command, p *plotFlags) (*config.File, error) {
	f := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if f, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.Plot.Symbol, p.symbol)
	set(&f.Plot.Fill, p.fill)
	set(&f.Plot.Pen, p.pen)
	set(&f.Map.Projection, p.projection)
	set(&f.Map.Width, p.width)
	set(&f.Plot.Clip, p.clip)
	if p.region != "" && p.region != "auto" {
		f.Map.Region = p.region
	}
	if p.palette != "" {
		abs, err := filepath.Abs(p.palette)
		if err != nil {
			return nil, err
		}
		f.Palette.File = abs
	}
	if p.noSort {
		f.Plot.NoSort = true
	}
	if p.view != "" {
		az, el, err := parseView(p.view)
		if err != nil {
			return nil, err
		}
		if f.View == nil {
			f.View = &config.View{}
		}
		f.View.Azimuth, f.View.Elevation = az, el
	}
	return f, nil
}

func parseView(s string) (az, el float64, err error) {
	a, e, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("view %q: want azimuth/elevation", s)
	}
	if az, err = strconv.ParseFloat(strings.TrimSpace(a), 64); err != nil {
		return 0, 0, fmt.Errorf("view %q: %w", s, err)
	}
	if el, err = strconv.ParseFloat(strings.TrimSpace(e), 64); err != nil {
		return 0, 0, fmt.Errorf("view %q: %w", s, err)
	}
	return az, el, nil
}

// newJob builds the job once the inputs are known, so -R auto can fit them.
func newJob(f *config.File, p *plotFlags, inputs []job.Input) (*job.Job, error) {
	if p.region == "auto" {
		bb := job.UnionBBox(inputs)
		if bb.Empty() {
			return nil, fmt.Errorf("region auto: inputs carry no coordinates")
		}
		f.Map.Region = bb.Region(0.05)
	}
	j, err := job.New(f)
	if err != nil {
		return nil, err
	}
	j.Jobs = runtime.NumCPU()
	if p.jobs > 0 {
		j.Jobs = p.jobs
	}
	return j, nil
}
