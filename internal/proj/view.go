package proj

import "math"

// View is an oblique 3-D viewpoint. Azimuth 180 and elevation 90 look
// straight down with north up.
type View struct {
	Azimuth, Elevation float64
	ZScale             float64 // points per z unit
	ZMin               float64 // z mapped to plot height 0
	OffX, OffY         float64

	sinAz, cosAz, sinEl, cosEl float64
	rotS, rotC                 float64
}

// NewView builds a view and fits the w x h x zh box into the first quadrant.
func NewView(azimuth, elevation, zscale, zmin, w, h, zh float64) *View {
	v := &View{Azimuth: azimuth, Elevation: elevation, ZScale: zscale, ZMin: zmin}
	v.sinAz, v.cosAz = math.Sincos(azimuth * deg)
	v.sinEl, v.cosEl = math.Sincos(elevation * deg)
	v.rotS, v.rotC = math.Sincos((azimuth - 180) * deg)
	minX, minY := math.Inf(1), math.Inf(1)
	for _, c := range [][3]float64{{0, 0, 0}, {w, 0, 0}, {0, h, 0}, {w, h, 0}, {0, 0, zh}, {w, 0, zh}, {0, h, zh}, {w, h, zh}} {
		x, y := v.plane(c[0], c[1], c[2])
		minX, minY = math.Min(minX, x), math.Min(minY, y)
	}
	v.OffX, v.OffY = -minX, -minY
	return v
}

func (v *View) plane(x, y, zp float64) (float64, float64) {
	px := x*v.rotC - y*v.rotS
	py := (x*v.rotS+y*v.rotC)*v.sinEl + zp*v.cosEl
	return px, py
}

// ZPlot converts a data z to a plot height.
func (v *View) ZPlot(z float64) float64 {
	return (z - v.ZMin) * v.ZScale
}

// Project maps plot-plane x, y and data z to the view plane.
func (v *View) Project(x, y, z float64) (float64, float64) {
	return v.ProjectH(x, y, v.ZPlot(z))
}

// ProjectH is Project with the height already in plot units.
func (v *View) ProjectH(x, y, h float64) (float64, float64) {
	px, py := v.plane(x, y, h)
	return px + v.OffX, py + v.OffY
}

// Depth returns the planar distance along the view azimuth and the
// elevation term for a plot-plane point at data height z. Larger values
// are nearer the viewer.
func (v *View) Depth(x, y, z float64) (planar, elev float64) {
	return v.sinAz*x + v.cosAz*y, v.sinEl * v.ZPlot(z)
}

// Lux returns the lighting of faces whose normals point along x, y and z,
// as intensities in [-0.5, 0.5].
func (v *View) Lux() [3]float64 {
	l := [3]float64{
		math.Abs(v.sinAz * v.cosEl),
		math.Abs(v.cosAz * v.cosEl),
		math.Abs(v.sinEl),
	}
	m := math.Max(l[0], math.Max(l[1], l[2]))
	for i := range l {
		l[i] = l[i]/m - 0.5
	}
	return l
}

// FacingX reports the sign of the x face the viewer sees (+1 east face,
// -1 west face); FacingY the same for y.
func (v *View) FacingX() float64 {
	if v.sinAz >= 0 {
		return 1
	}
	return -1
}

func (v *View) FacingY() float64 {
	if v.cosAz >= 0 {
		return 1
	}
	return -1
}
