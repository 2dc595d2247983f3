package geom

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geoplot/internal/record"
)

func TestReadCSV(t *testing.T) {
	in := "Name,Lat,Lon,mag\nA,10,20,4.5\nB,bad,1,2\nC,-5,30,x\n"
	d, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Points) != 2 {
		t.Fatalf("got %d points", len(d.Points))
	}
	a, c := d.Points[0], d.Points[1]
	if a.X != 20 || a.Y != 10 || a.Name != "A" || len(a.Extra) != 1 || a.Extra[0] != 4.5 {
		t.Errorf("first point %+v", a)
	}
	if !math.IsNaN(c.Extra[0]) {
		t.Errorf("unparsable extra = %v", c.Extra[0])
	}
	if d.BBox.MinX != 20 || d.BBox.MaxX != 30 || d.BBox.MinY != -5 || d.BBox.MaxY != 10 {
		t.Errorf("bbox %v", d.BBox)
	}

	for _, bad := range []string{"", "a,b\n1,2\n", "lat,lon\nx,y\n"} {
		if _, err := ReadCSV(strings.NewReader(bad)); err == nil {
			t.Errorf("ReadCSV(%q) succeeded", bad)
		}
	}
}

func TestReadGeoJSON(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"name":"-Gred peak"},"geometry":{"type":"Point","coordinates":[1,2,300]}},
	  {"type":"Feature","geometry":{"type":"MultiLineString","coordinates":[[[0,0],[1,1]],[[2,2],[3,3],[4,4]]]}},
	  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,0]],[[1,1],[2,1],[2,2],[1,1]]]}},
	  {"type":"Feature","geometry":null}
	]}`
	d, err := ReadGeoJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Points) != 1 || len(d.Lines) != 2 || len(d.Polygons) != 2 {
		t.Fatalf("points %d lines %d polygons %d", len(d.Points), len(d.Lines), len(d.Polygons))
	}
	if d.Points[0].Name != "-Gred peak" {
		t.Errorf("name %q", d.Points[0].Name)
	}
	if d.Polygons[0].Hole || !d.Polygons[1].Hole {
		t.Error("hole flags wrong")
	}

	tests := []struct {
		name string
		in   string
	}{
		{"no type", `{"coordinates":[1,2]}`},
		{"unsupported", `{"type":"Circle","coordinates":[1,2]}`},
		{"bad coordinates", `{"type":"LineString","coordinates":"x"}`},
		{"empty collection", `{"type":"FeatureCollection","features":[]}`},
	}
	for _, tt := range tests {
		if _, err := ReadGeoJSON(strings.NewReader(tt.in)); err == nil {
			t.Errorf("%s: accepted", tt.name)
		}
	}
}

func TestReadKML(t *testing.T) {
	in := `<?xml version="1.0"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document><Folder>
  <Placemark><name>pin</name><Point><coordinates>10,20,0</coordinates></Point></Placemark>
  <Placemark><name>road</name><LineString><coordinates>0,0 1,1 2,2</coordinates></LineString></Placemark>
  <Placemark><MultiGeometry>
    <Polygon>
      <outerBoundaryIs><LinearRing><coordinates>0,0 3,0 3,3 0,0</coordinates></LinearRing></outerBoundaryIs>
      <innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></innerBoundaryIs>
    </Polygon>
  </MultiGeometry></Placemark>
</Folder></Document></kml>`
	d, err := ReadKML(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Points) != 1 || d.Points[0].Name != "pin" || d.Points[0].X != 10 {
		t.Errorf("points %+v", d.Points)
	}
	if len(d.Lines) != 1 || len(d.Lines[0].Coords) != 3 {
		t.Errorf("lines %+v", d.Lines)
	}
	if len(d.Polygons) != 2 || !d.Polygons[1].Hole {
		t.Errorf("polygons %+v", d.Polygons)
	}
	if _, err := ReadKML(strings.NewReader("<kml><Document/></kml>")); err == nil {
		t.Error("empty kml accepted")
	}
}

func TestParseWKT(t *testing.T) {
	tests := []struct {
		in                     string
		points, lines, polygon int
	}{
		{"POINT (1 2)", 1, 0, 0},
		{"POINT Z (1 2 3)", 1, 0, 0},
		{"MULTIPOINT ((1 2), (3 4))", 2, 0, 0},
		{"MULTIPOINT (1 2, 3 4, 5 6)", 3, 0, 0},
		{"LINESTRING (0 0, 1 1, 2 2)", 0, 1, 0},
		{"MULTILINESTRING ((0 0, 1 1), (2 2, 3 3))", 0, 2, 0},
		{"POLYGON ((0 0, 4 0, 4 4, 0 0), (1 1, 2 1, 2 2, 1 1))", 0, 0, 2},
		{"MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 5, 6 6, 5 5)))", 0, 0, 2},
		{"POINT (1 2)\n# comment\nLINESTRING (0 0, 1 1)", 1, 1, 0},
	}
	for _, tt := range tests {
		d, err := ParseWKT(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if len(d.Points) != tt.points || len(d.Lines) != tt.lines || len(d.Polygons) != tt.polygon {
			t.Errorf("%q: points %d lines %d polygons %d", tt.in, len(d.Points), len(d.Lines), len(d.Polygons))
		}
	}
	d, _ := ParseWKT("MULTIPOLYGON (((0 0, 1 0, 1 1, 0 0)), ((5 5, 6 5, 6 6, 5 5)))")
	if got := d.Polygons[1].Coords[0]; got != [2]float64{5, 5} {
		t.Errorf("second polygon starts at %v", got)
	}
	for _, bad := range []string{"", "POINT EMPTY", "CIRCLE (1 2)", "(1 2)"} {
		if _, err := ParseWKT(bad); err == nil {
			t.Errorf("ParseWKT(%q) succeeded", bad)
		}
	}
}

func TestLayers(t *testing.T) {
	var d Data
	d.addPoint(Point{X: 1, Y: 2, Extra: []float64{7}, Name: "p"})
	d.addPath(&d.Lines, Path{Name: "-W2p main road", Coords: [][2]float64{{0, 0}, {1, 1}}})
	d.addPath(&d.Polygons, Path{Coords: [][2]float64{{0, 0}, {1, 0}, {1, 1}}})
	d.addPath(&d.Polygons, Path{})

	layers := d.Layers()
	if len(layers) != 3 {
		t.Fatalf("got %d layers", len(layers))
	}
	pts := layers[0]
	if pts.Kind != KindPoints || len(pts.Records) != 1 {
		t.Fatalf("point layer %+v", pts)
	}
	if r := pts.Records[0]; r.Float(0) != 1 || r.Float(1) != 2 || r.Float(2) != 7 || r.Text != "p" {
		t.Errorf("point record %+v", r)
	}
	lines := layers[1].Records
	if len(lines) != 3 || lines[0].Kind != record.KindHeader || lines[0].Header != "W2p main road" {
		t.Errorf("line records %+v", lines)
	}
	if layers[2].Kind != KindPolygons || len(layers[2].Records) != 4 {
		t.Errorf("polygon layer %+v", layers[2])
	}

	src := layers[1].Source()
	n := 0
	for {
		r, err := src.Next()
		if err != nil {
			t.Fatal(err)
		}
		if r.Kind == record.KindEOF {
			break
		}
		n++
	}
	if n != 3 {
		t.Errorf("source yielded %d records", n)
	}
}

func TestBBoxRegion(t *testing.T) {
	var b BBox
	if !b.Empty() || b.String() != "empty" {
		t.Error("zero box not empty")
	}
	b.Extend(0, 10)
	b.Extend(10, 20)
	if got := b.Region(0.1); got != "-1/11/9/21" {
		t.Errorf("Region = %q", got)
	}
	var p BBox
	p.Extend(5, 5)
	if got := p.Region(0.1); got != "4/6/4/6" {
		t.Errorf("point Region = %q", got)
	}
	u := BBox{}.Union(b)
	if u.MinX != 0 || u.MaxY != 20 {
		t.Errorf("Union = %v", u)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pts.WKT")
	if err := os.WriteFile(path, []byte("POINT (3 4)\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsVector(path) || IsVector(filepath.Join(dir, "table.txt")) {
		t.Error("IsVector misclassifies")
	}
	d, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Points) != 1 || d.Points[0].X != 3 {
		t.Errorf("loaded %+v", d)
	}
	if _, err := Load(filepath.Join(dir, "table.txt")); !errors.Is(err, ErrNotVector) {
		t.Errorf("Load(txt) = %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.kml")); err == nil {
		t.Error("missing file loaded")
	}
}
