package proj

import (
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestLinear(t *testing.T) {
	p, err := NewLinear(Region{0, 10, 0, 5}, 100, 50)
	if err != nil {
		t.Fatal(err)
	}
	x, y, ok := p.Project(5, 2.5)
	if !ok || x != 50 || y != 25 {
		t.Errorf("Project = %g %g %v", x, y, ok)
	}
	if _, _, ok := p.Project(math.NaN(), 1); ok {
		t.Error("nan projected")
	}
	for _, tt := range []struct {
		x, y float64
		want Status
	}{{5, 2, Inside}, {0, 2, OnEdge}, {11, 2, Outside}, {5, -1, Outside}} {
		if got := p.Outside(tt.x, tt.y); got != tt.want {
			t.Errorf("Outside(%g,%g) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	lx, ly, _ := p.Inverse(50, 25)
	if lx != 5 || ly != 2.5 {
		t.Errorf("Inverse = %g %g", lx, ly)
	}
	if _, err := NewLinear(Region{1, 0, 0, 1}, 1, 1); err == nil {
		t.Error("bad region accepted")
	}
}

func TestPlateCarreePeriodic(t *testing.T) {
	p, err := NewPlateCarree(Region{-180, 180, -90, 90}, 360)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Periodic() || !IsPeriodic(p) || !IsGeographic(p) {
		t.Fatal("global plate carree should be periodic and geographic")
	}
	if p.HalfWidth() != 180 || p.Height != 180 {
		t.Errorf("half width %g height %g", p.HalfWidth(), p.Height)
	}
	x1, _, _ := p.Project(190, 0)
	x2, _, _ := p.Project(-170, 0)
	if !near(x1, x2, 1e-9) || !near(x1, 10, 1e-9) {
		t.Errorf("wrap: %g vs %g", x1, x2)
	}
	if p.Outside(500, 0) != Inside {
		t.Error("periodic longitudes are always inside")
	}
}

func TestPlateCarreeRegional(t *testing.T) {
	p, _ := NewPlateCarree(Region{0, 20, 40, 50}, 200)
	if p.Periodic() {
		t.Error("regional map should not be periodic")
	}
	x, y, _ := p.Project(370, 45)
	if !near(x, 100, 1e-9) || !near(y, 50, 1e-9) {
		t.Errorf("Project(370,45) = %g %g", x, y)
	}
	if p.Outside(30, 45) != Outside || p.Outside(10, 50) != OnEdge {
		t.Error("status wrong")
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	m, err := NewMercator(Region{-180, 180, -80, 80}, 360)
	if err != nil {
		t.Fatal(err)
	}
	x, y, _ := m.Project(30, 60)
	lon, lat, _ := m.Inverse(x, y)
	if !near(lon, 30, 1e-9) || !near(lat, 60, 1e-9) {
		t.Errorf("round trip = %g %g", lon, lat)
	}
	_, y0, _ := m.Project(0, -80)
	if !near(y0, 0, 1e-9) {
		t.Errorf("south edge y = %g", y0)
	}
}

func TestDestinationAndDistance(t *testing.T) {
	lon, lat := Destination(0, 0, 90, KmPerDegree*10)
	if !near(lon, 10, 1e-9) || !near(lat, 0, 1e-9) {
		t.Errorf("east 10 deg = %g %g", lon, lat)
	}
	if d := Distance(0, 0, 0, 1); !near(d, KmPerDegree, 1e-6) {
		t.Errorf("distance = %g", d)
	}
}

func TestGreatCircle(t *testing.T) {
	pts := GreatCircle(170, 0, -170, 0, 4)
	if len(pts) != 5 {
		t.Fatalf("points = %d", len(pts))
	}
	if !near(pts[2][0], 180, 1e-9) || !near(pts[4][0], 190, 1e-9) {
		t.Errorf("gc = %v", pts)
	}
}

func TestAzimuthAngle(t *testing.T) {
	lin, _ := NewLinear(Region{0, 1, 0, 1}, 1, 1)
	if a := AzimuthAngle(lin, 0, 0, 30); a != 60 {
		t.Errorf("cartesian = %g", a)
	}
	pc, _ := NewPlateCarree(Region{-180, 180, -90, 90}, 360)
	if a := AzimuthAngle(pc, 10, 20, 0); !near(a, 90, 1e-6) {
		t.Errorf("north = %g", a)
	}
	if a := AzimuthAngle(pc, 10, 0, 90); !near(a, 0, 1e-6) {
		t.Errorf("east = %g", a)
	}
}

func TestViewTopDownIsIdentity(t *testing.T) {
	v := NewView(180, 90, 1, 0, 100, 100, 0)
	x, y := v.Project(30, 40, 0)
	if !near(x, 30, 1e-9) || !near(y, 40, 1e-9) {
		t.Errorf("top view = %g %g", x, y)
	}
	p, _ := v.Depth(0, 10, 0)
	q, _ := v.Depth(0, 20, 0)
	if !(q < p) {
		t.Error("from the south, northern points should be farther")
	}
	l := v.Lux()
	if l[2] != 0.5 {
		t.Errorf("top face lux = %g", l[2])
	}
}
