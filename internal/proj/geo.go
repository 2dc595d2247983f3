package proj

import (
	"errors"
	"math"
)

const deg = math.Pi / 180

// maxMercatorLat keeps Mercator finite.
const maxMercatorLat = 85.0

// cylinder holds what PlateCarree and Mercator share: a longitude range
// mapped linearly to x, optionally wrapping when the range is global.
type cylinder struct {
	Region   Region
	Width    float64
	scale    float64 // points per degree of longitude
	periodic bool
}

func newCylinder(r Region, width float64) (cylinder, error) {
	if err := r.Valid(); err != nil {
		return cylinder{}, err
	}
	if width <= 0 {
		return cylinder{}, errors.New("projection: width must be positive")
	}
	if r.S < -90 || r.N > 90 {
		return cylinder{}, errors.New("projection: latitude outside [-90,90]")
	}
	return cylinder{
		Region:   r,
		Width:    width,
		scale:    width / (r.E - r.W),
		periodic: r.E-r.W >= 360-1e-9,
	}, nil
}

// x maps lon into the plot plane, wrapping into [W, W+360) when global.
func (c cylinder) x(lon float64) float64 {
	if c.periodic {
		lon = c.Region.W + math.Mod(math.Mod(lon-c.Region.W, 360)+360, 360)
	} else {
		for lon > c.Region.E && lon-360 >= c.Region.W {
			lon -= 360
		}
		for lon < c.Region.W && lon+360 <= c.Region.E {
			lon += 360
		}
	}
	return (lon - c.Region.W) * c.scale
}

func (c cylinder) lonStatus(lon float64) Status {
	if c.periodic {
		return Inside
	}
	x := c.x(lon) / c.scale
	switch {
	case x < 0 || x > c.Region.E-c.Region.W:
		return Outside
	case x == 0 || x == c.Region.E-c.Region.W:
		return OnEdge
	}
	return Inside
}

func (c cylinder) Periodic() bool              { return c.periodic }
func (c cylinder) Geographic() bool            { return true }
func (c cylinder) HalfWidth() float64          { return c.Width / 2 }
func (c cylinder) HalfWidthAt(float64) float64 { return c.Width / 2 }

// PlateCarree is the equirectangular projection.
type PlateCarree struct {
	cylinder
	Height float64
}

func NewPlateCarree(r Region, width float64) (*PlateCarree, error) {
	c, err := newCylinder(r, width)
	if err != nil {
		return nil, err
	}
	return &PlateCarree{cylinder: c, Height: (r.N - r.S) * c.scale}, nil
}

func (p *PlateCarree) Project(lon, lat float64) (float64, float64, bool) {
	if math.IsNaN(lon) || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return math.NaN(), math.NaN(), false
	}
	return p.x(lon), (lat - p.Region.S) * p.scale, true
}

func (p *PlateCarree) Inverse(x, y float64) (float64, float64, bool) {
	return p.Region.W + x/p.scale, p.Region.S + y/p.scale, true
}

func (p *PlateCarree) Outside(lon, lat float64) Status {
	return latStatus(lon, lat, p.Region, p.lonStatus)
}

func (p *PlateCarree) Bounds() (float64, float64) { return p.Width, p.Height }

// Mercator is the spherical Mercator projection, clamped at ±85°.
type Mercator struct {
	cylinder
	Height float64
	y0     float64
}

func NewMercator(r Region, width float64) (*Mercator, error) {
	r.S = math.Max(r.S, -maxMercatorLat)
	r.N = math.Min(r.N, maxMercatorLat)
	c, err := newCylinder(r, width)
	if err != nil {
		return nil, err
	}
	m := &Mercator{cylinder: c}
	m.y0 = m.merc(r.S)
	m.Height = m.merc(r.N) - m.y0
	return m, nil
}

func (m *Mercator) merc(lat float64) float64 {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	return math.Log(math.Tan(math.Pi/4+lat*deg/2)) / deg * m.scale
}

func (m *Mercator) Project(lon, lat float64) (float64, float64, bool) {
	if math.IsNaN(lon) || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return math.NaN(), math.NaN(), false
	}
	return m.x(lon), m.merc(lat) - m.y0, true
}

func (m *Mercator) Inverse(x, y float64) (float64, float64, bool) {
	v := (y + m.y0) / m.scale * deg
	lat := (2*math.Atan(math.Exp(v)) - math.Pi/2) / deg
	return m.Region.W + x/m.scale, lat, true
}

func (m *Mercator) Outside(lon, lat float64) Status {
	return latStatus(lon, lat, m.Region, m.lonStatus)
}

func (m *Mercator) Bounds() (float64, float64) { return m.Width, m.Height }

func latStatus(lon, lat float64, r Region, lonStatus func(float64) Status) Status {
	if math.IsNaN(lon) || math.IsNaN(lat) || lat < r.S || lat > r.N {
		return Outside
	}
	s := lonStatus(lon)
	if s == Inside && (lat == r.S || lat == r.N) {
		s = OnEdge
	}
	return s
}
