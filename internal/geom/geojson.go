package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type geoObject struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
	Geometries  []geoObject     `json:"geometries"`
	Geometry    *geoObject      `json:"geometry"`
	Features    []geoObject     `json:"features"`
	Properties  map[string]any  `json:"properties"`
}

// ReadGeoJSON reads a Feature, FeatureCollection or bare geometry. A
// feature's "name" property names what it produces; numeric properties are
// not carried.
func ReadGeoJSON(r io.Reader) (Data, error) {
	var root geoObject
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return Data{}, err
	}
	if root.Type == "" {
		return Data{}, errors.New("geojson: missing type")
	}
	var d Data
	if err := d.walkGeoJSON(root, ""); err != nil {
		return Data{}, err
	}
	if d.empty() {
		return Data{}, errors.New("geojson: no geometries found")
	}
	return d, nil
}

func (d *Data) walkGeoJSON(o geoObject, name string) error {
	switch o.Type {
	case "FeatureCollection":
		for _, f := range o.Features {
			if err := d.walkGeoJSON(f, ""); err != nil {
				return err
			}
		}
		return nil
	case "Feature":
		if o.Geometry == nil {
			return nil
		}
		if n, ok := o.Properties["name"].(string); ok {
			name = n
		}
		return d.walkGeoJSON(*o.Geometry, name)
	case "GeometryCollection":
		for _, g := range o.Geometries {
			if err := d.walkGeoJSON(g, name); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	switch o.Type {
	case "Point":
		var c []float64
		if err = json.Unmarshal(o.Coordinates, &c); err == nil && len(c) >= 2 {
			d.addPoint(Point{X: c[0], Y: c[1], Name: name})
		}
	case "MultiPoint":
		var cs [][]float64
		if err = json.Unmarshal(o.Coordinates, &cs); err == nil {
			for _, c := range pairs(cs) {
				d.addPoint(Point{X: c[0], Y: c[1], Name: name})
			}
		}
	case "LineString":
		var cs [][]float64
		if err = json.Unmarshal(o.Coordinates, &cs); err == nil {
			d.addPath(&d.Lines, Path{Name: name, Coords: pairs(cs)})
		}
	case "MultiLineString":
		var ls [][][]float64
		if err = json.Unmarshal(o.Coordinates, &ls); err == nil {
			for _, cs := range ls {
				d.addPath(&d.Lines, Path{Name: name, Coords: pairs(cs)})
			}
		}
	case "Polygon":
		var rings [][][]float64
		if err = json.Unmarshal(o.Coordinates, &rings); err == nil {
			d.addRings(name, rings)
		}
	case "MultiPolygon":
		var polys [][][][]float64
		if err = json.Unmarshal(o.Coordinates, &polys); err == nil {
			for _, rings := range polys {
				d.addRings(name, rings)
			}
		}
	default:
		return fmt.Errorf("geojson: unsupported type %q", o.Type)
	}
	if err != nil {
		return fmt.Errorf("geojson %s: %w", o.Type, err)
	}
	return nil
}

func (d *Data) addRings(name string, rings [][][]float64) {
	for i, r := range rings {
		d.addPath(&d.Polygons, Path{Name: name, Coords: pairs(r), Hole: i > 0})
	}
}

// pairs keeps the first two ordinates of every position with at least two.
func pairs(cs [][]float64) [][2]float64 {
	out := make([][2]float64, 0, len(cs))
	for _, c := range cs {
		if len(c) >= 2 {
			out = append(out, [2]float64{c[0], c[1]})
		}
	}
	return out
}
