package proj

import "math"

// EarthRadius is the mean radius in km.
const EarthRadius = 6371.0087714

// KmPerDegree is the length of one degree of a great circle.
const KmPerDegree = EarthRadius * math.Pi / 180

// Destination returns the point reached from (lon, lat) travelling km
// along the great circle starting at azimuth az (degrees from north).
func Destination(lon, lat, az, km float64) (float64, float64) {
	d := km / EarthRadius
	phi1, lam1, th := lat*deg, lon*deg, az*deg
	sinPhi2 := math.Sin(phi1)*math.Cos(d) + math.Cos(phi1)*math.Sin(d)*math.Cos(th)
	phi2 := math.Asin(math.Max(-1, math.Min(1, sinPhi2)))
	lam2 := lam1 + math.Atan2(math.Sin(th)*math.Sin(d)*math.Cos(phi1), math.Cos(d)-math.Sin(phi1)*sinPhi2)
	return lam2 / deg, phi2 / deg
}

// Distance is the great circle distance in km.
func Distance(lon1, lat1, lon2, lat2 float64) float64 {
	p1, p2 := lat1*deg, lat2*deg
	dp, dl := p2-p1, (lon2-lon1)*deg
	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	return 2 * EarthRadius * math.Asin(math.Min(1, math.Sqrt(a)))
}

// GreatCircle returns n+1 points from a to b along the shorter great circle.
func GreatCircle(lon1, lat1, lon2, lat2 float64, n int) [][2]float64 {
	if n < 1 {
		n = 1
	}
	unit := func(lon, lat float64) [3]float64 {
		return [3]float64{math.Cos(lat*deg) * math.Cos(lon*deg), math.Cos(lat*deg) * math.Sin(lon*deg), math.Sin(lat*deg)}
	}
	a, b := unit(lon1, lat1), unit(lon2, lat2)
	dot := math.Max(-1, math.Min(1, a[0]*b[0]+a[1]*b[1]+a[2]*b[2]))
	omega := math.Acos(dot)
	out := make([][2]float64, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		var p [3]float64
		if omega < 1e-12 {
			for k := range p {
				p[k] = a[k] + t*(b[k]-a[k])
			}
		} else {
			sa, sb := math.Sin((1-t)*omega)/math.Sin(omega), math.Sin(t*omega)/math.Sin(omega)
			for k := range p {
				p[k] = sa*a[k] + sb*b[k]
			}
		}
		lon := math.Atan2(p[1], p[0]) / deg
		lat := math.Atan2(p[2], math.Hypot(p[0], p[1])) / deg
		// keep longitudes continuous with the start point
		for lon-lon1 > 180 {
			lon -= 360
		}
		for lon-lon1 < -180 {
			lon += 360
		}
		out[i] = [2]float64{lon, lat}
	}
	out[0] = [2]float64{lon1, lat1}
	return out
}

// AzimuthAngle converts an azimuth at (lon, lat) into a plot-plane
// direction in degrees counterclockwise from +x. Non-geographic
// projections use 90-az.
func AzimuthAngle(p Projection, lon, lat, az float64) float64 {
	if !IsGeographic(p) {
		return 90 - az
	}
	const step = 1e-3
	x0, y0, ok0 := p.Project(lon, lat)
	dlat := step * math.Cos(az*deg)
	c := math.Cos(lat * deg)
	dlon := 0.0
	if c > 1e-9 {
		dlon = step * math.Sin(az*deg) / c
	}
	if lat+dlat > 90 || lat+dlat < -90 {
		dlat = -dlat
		dlon = -dlon
		x1, y1, ok1 := p.Project(lon+dlon, lat+dlat)
		if !ok0 || !ok1 {
			return 90 - az
		}
		return math.Atan2(y0-y1, x0-x1) / deg
	}
	x1, y1, ok1 := p.Project(lon+dlon, lat+dlat)
	if !ok0 || !ok1 {
		return 90 - az
	}
	return math.Atan2(y1-y0, x1-x0) / deg
}
