package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlRing struct {
	Ring kmlCoords `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

type kmlGeometry struct {
	Points   []kmlCoords   `xml:"Point"`
	Lines    []kmlCoords   `xml:"LineString"`
	Polygons []kmlPolygon  `xml:"Polygon"`
	Multi    []kmlGeometry `xml:"MultiGeometry"`
}

type kmlPlacemark struct {
	Name string `xml:"name"`
	kmlGeometry
}

// kmlContainer matches Document and Folder nesting.
type kmlContainer struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Documents  []kmlContainer `xml:"Document"`
	Folders    []kmlContainer `xml:"Folder"`
}

// ReadKML extracts points, line strings and polygons from Placemarks at any
// Document/Folder depth. KML coordinates are "lon,lat[,alt]"; altitude is
// ignored.
func ReadKML(r io.Reader) (Data, error) {
	var doc kmlContainer
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return Data{}, err
	}
	var d Data
	var walk func(c kmlContainer)
	walk = func(c kmlContainer) {
		for _, pm := range c.Placemarks {
			d.addKML(pm.Name, pm.kmlGeometry)
		}
		for _, sub := range c.Documents {
			walk(sub)
		}
		for _, sub := range c.Folders {
			walk(sub)
		}
	}
	walk(doc)
	if d.empty() {
		return Data{}, errors.New("kml: no geometries found")
	}
	return d, nil
}

func (d *Data) addKML(name string, g kmlGeometry) {
	for _, p := range g.Points {
		for _, c := range kmlTuples(p.Coordinates) {
			d.addPoint(Point{X: c[0], Y: c[1], Name: name})
		}
	}
	for _, l := range g.Lines {
		d.addPath(&d.Lines, Path{Name: name, Coords: kmlTuples(l.Coordinates)})
	}
	for _, poly := range g.Polygons {
		d.addPath(&d.Polygons, Path{Name: name, Coords: kmlTuples(poly.Outer.Ring.Coordinates)})
		for _, in := range poly.Inner {
			d.addPath(&d.Polygons, Path{Name: name, Coords: kmlTuples(in.Ring.Coordinates), Hole: true})
		}
	}
	for _, m := range g.Multi {
		d.addKML(name, m)
	}
}

// kmlTuples parses whitespace separated "lon,lat[,alt]" tuples.
func kmlTuples(s string) [][2]float64 {
	var out [][2]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]float64{lon, lat})
	}
	return out
}
