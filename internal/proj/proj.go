// Package proj maps data coordinates to the plot plane. The pipeline only
// depends on the Projection interface; Linear, PlateCarree and Mercator are
// the implementations the command line tool offers.
package proj

import (
	"errors"
	"fmt"
	"math"
)

// Status classifies a data coordinate against the visible region.
type Status int

const (
	Inside Status = iota
	OnEdge
	Outside
)

// Projection is what the pipeline needs from a map projection. Plot-plane
// coordinates are points with the origin at the lower left corner.
type Projection interface {
	Project(lon, lat float64) (x, y float64, ok bool)
	Outside(lon, lat float64) Status
	Bounds() (w, h float64)
}

// Periodic is implemented by projections that may wrap in x. HalfWidthAt
// is the map half-width at plot-plane height y; HalfWidth is the visual
// half-width of the whole map.
type Periodic interface {
	Periodic() bool
	HalfWidth() float64
	HalfWidthAt(y float64) float64
}

// Geographic is implemented by projections of longitude/latitude input.
type Geographic interface {
	Geographic() bool
}

// Inverter maps plot-plane points back to data coordinates.
type Inverter interface {
	Inverse(x, y float64) (lon, lat float64, ok bool)
}

// IsGeographic reports whether p projects lon/lat.
func IsGeographic(p Projection) bool {
	g, ok := p.(Geographic)
	return ok && g.Geographic()
}

// IsPeriodic reports whether p wraps in x.
func IsPeriodic(p Projection) bool {
	g, ok := p.(Periodic)
	return ok && g.Periodic()
}

// Region is a data-space rectangle.
type Region struct {
	W, E, S, N float64
}

var errRegion = errors.New("region: need west < east and south < north")

func (r Region) Valid() error {
	if !(r.W < r.E && r.S < r.N) {
		return errRegion
	}
	return nil
}

// classify places (x, y) relative to r.
func (r Region) classify(x, y float64) Status {
	if math.IsNaN(x) || math.IsNaN(y) {
		return Outside
	}
	if x < r.W || x > r.E || y < r.S || y > r.N {
		return Outside
	}
	if x == r.W || x == r.E || y == r.S || y == r.N {
		return OnEdge
	}
	return Inside
}

func (r Region) String() string {
	return fmt.Sprintf("%g/%g/%g/%g", r.W, r.E, r.S, r.N)
}

// Linear maps a Cartesian region onto a Width x Height plot plane.
type Linear struct {
	Region        Region
	Width, Height float64
}

func NewLinear(r Region, w, h float64) (*Linear, error) {
	if err := r.Valid(); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New("linear: plot size must be positive")
	}
	return &Linear{Region: r, Width: w, Height: h}, nil
}

func (p *Linear) Project(x, y float64) (float64, float64, bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return math.NaN(), math.NaN(), false
	}
	px := (x - p.Region.W) / (p.Region.E - p.Region.W) * p.Width
	py := (y - p.Region.S) / (p.Region.N - p.Region.S) * p.Height
	return px, py, true
}

func (p *Linear) Inverse(px, py float64) (float64, float64, bool) {
	x := p.Region.W + px/p.Width*(p.Region.E-p.Region.W)
	y := p.Region.S + py/p.Height*(p.Region.N-p.Region.S)
	return x, y, true
}

func (p *Linear) Outside(x, y float64) Status { return p.Region.classify(x, y) }

func (p *Linear) Bounds() (float64, float64) { return p.Width, p.Height }
