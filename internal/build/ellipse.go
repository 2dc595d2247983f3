package build

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/proj"
)

const ellipseSteps = 72

func buildEllipse(env *Env, in Input) ([]prim.Primitive, error) {
	a := in.args()
	var dir, major, minor float64
	switch {
	case in.Spec.Degenerate && len(a) > 0:
		major = a[0] / 2
		minor = major
	case in.Spec.Degenerate:
		major = in.Spec.SizeX * in.Values.Scale / 2
		minor = major
	case len(a) < 3:
		return nil, nil
	default:
		dir, major, minor = a[0], a[1]/2, a[2]/2
	}
	if !(major > 0 && minor >= 0) {
		return nil, nil
	}
	if in.Spec.Geographic {
		local := make([][2]float64, ellipseSteps)
		for i := range local {
			t := 2 * math.Pi * float64(i) / ellipseSteps
			local[i] = [2]float64{major * math.Cos(t), minor * math.Sin(t)}
		}
		return geoShape(env, in, dir, local), nil
	}
	ang := in.angle(env, dir)
	ring := make([]vec.Vec2, ellipseSteps)
	for i := range ring {
		t := 2 * math.Pi * float64(i) / ellipseSteps
		ring[i] = in.At.Add(rotate(vec.Vec2{X: major * math.Cos(t), Y: minor * math.Sin(t)}, ang))
	}
	return []prim.Primitive{shape(in, ring)}, nil
}

func buildRotRect(env *Env, in Input) ([]prim.Primitive, error) {
	a := in.args()
	if len(a) < 3 {
		return nil, nil
	}
	dir, hw, hh := a[0], a[1]/2, a[2]/2
	if !(hw > 0 && hh > 0) {
		return nil, nil
	}
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	if in.Spec.Geographic {
		const per = 8
		local := make([][2]float64, 0, 4*per)
		for i := range 4 {
			c0, c1 := corners[i], corners[(i+1)%4]
			for j := range per {
				t := float64(j) / per
				local = append(local, [2]float64{c0[0] + t*(c1[0]-c0[0]), c0[1] + t*(c1[1]-c0[1])})
			}
		}
		return geoShape(env, in, dir, local), nil
	}
	ang := in.angle(env, dir)
	ring := make([]vec.Vec2, 4)
	for i, c := range corners {
		ring[i] = in.At.Add(rotate(vec.Vec2{X: c[0], Y: c[1]}, ang))
	}
	return []prim.Primitive{shape(in, ring)}, nil
}

func shape(in Input, ring []vec.Vec2) prim.Primitive {
	return prim.Primitive{Kind: prim.KindPolygon, Points: ring, Fill: in.Style.Fill, Pen: in.Style.Pen}
}

// geoShape places a local km outline, whose first axis points along
// azimuth az, around the record's lon/lat and projects it. When part of it
// leaves the map the fill and the outline become separate primitives.
func geoShape(env *Env, in Input, az float64, local [][2]float64) []prim.Primitive {
	lon0, lat0 := in.Values.X, in.Values.Y
	sa, ca := math.Sincos(az * math.Pi / 180)
	coslat := math.Max(math.Cos(lat0*math.Pi/180), 1e-6)
	ring := make([]vec.Vec2, 0, len(local))
	crosses := false
	for _, l := range local {
		north := l[0]*ca - l[1]*sa
		east := l[0]*sa + l[1]*ca
		lat := lat0 + north/proj.KmPerDegree
		lon := lon0 + east/(proj.KmPerDegree*coslat)
		if env.Proj.Outside(lon, lat) == proj.Outside {
			crosses = true
		}
		p, ok := env.project(lon, lat)
		if !ok {
			crosses = true
			continue
		}
		ring = append(ring, p)
	}
	if len(ring) < 3 {
		return nil
	}
	if !crosses {
		return []prim.Primitive{shape(in, ring)}
	}
	fill := shape(in, ring)
	fill.Pen = paint.NoPen
	outline := prim.Primitive{Kind: prim.KindPath, Points: ring, Closed: true, Fill: paint.NoFill, Pen: in.Style.Pen}
	return []prim.Primitive{fill, outline}
}
