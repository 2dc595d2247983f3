// Package geom loads vector files (GeoJSON, KML, WKT and CSV) and turns
// them into record streams for plotting.
package geom

import (
	"fmt"
	"strconv"
	"strings"

	"geoplot/internal/record"
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
	set  bool
}

// Extend grows the box to cover (x, y).
func (b *BBox) Extend(x, y float64) {
	if !b.set {
		*b = BBox{MinX: x, MinY: y, MaxX: x, MaxY: y, set: true}
		return
	}
	b.MinX, b.MinY = min(b.MinX, x), min(b.MinY, y)
	b.MaxX, b.MaxY = max(b.MaxX, x), max(b.MaxY, y)
}

func (b BBox) Empty() bool { return !b.set }

// Union returns the box covering both.
func (b BBox) Union(o BBox) BBox {
	if !o.set {
		return b
	}
	b.Extend(o.MinX, o.MinY)
	b.Extend(o.MaxX, o.MaxY)
	return b
}

// Region formats the box as "w/e/s/n", padded by frac of its size on every
// side. A degenerate side is padded by one unit.
func (b BBox) Region(frac float64) string {
	pad := func(lo, hi float64) (float64, float64) {
		d := (hi - lo) * frac
		if hi <= lo {
			d = 1
		}
		return lo - d, hi + d
	}
	w, e := pad(b.MinX, b.MaxX)
	s, n := pad(b.MinY, b.MaxY)
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }
	return strings.Join([]string{f(w), f(e), f(s), f(n)}, "/")
}

func (b BBox) String() string {
	if !b.set {
		return "empty"
	}
	return fmt.Sprintf("[%g,%g]x[%g,%g]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// Point is a located feature. Extra holds further numeric attributes in
// source order.
type Point struct {
	X, Y  float64
	Extra []float64
	Name  string
}

// Path is one line or polygon ring.
type Path struct {
	Name   string
	Coords [][2]float64
	Hole   bool
}

// Data is everything read from one file. Polygon holes follow their outer
// ring.
type Data struct {
	Points   []Point
	Lines    []Path
	Polygons []Path
	BBox     BBox
}

func (d *Data) addPoint(p Point) {
	d.Points = append(d.Points, p)
	d.BBox.Extend(p.X, p.Y)
}

func (d *Data) addPath(dst *[]Path, p Path) {
	if len(p.Coords) == 0 {
		return
	}
	*dst = append(*dst, p)
	for _, c := range p.Coords {
		d.BBox.Extend(c[0], c[1])
	}
}

func (d Data) empty() bool {
	return len(d.Points)+len(d.Lines)+len(d.Polygons) == 0
}

// Kind says how a layer must be plotted.
type Kind uint8

const (
	KindPoints Kind = iota
	KindLines
	KindPolygons
	// KindTable is a plain record table plotted as configured.
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindPoints:
		return "points"
	case KindLines:
		return "lines"
	case KindPolygons:
		return "polygons"
	case KindTable:
		return "table"
	}
	return "unknown"
}

// Layer is a record stream of a single kind.
type Layer struct {
	Kind    Kind
	Records []record.Record
}

func (l Layer) Source() record.Source { return record.NewSlice(l.Records) }

// Layers splits d into point, line and polygon layers, skipping empty
// ones. Point records are "x y extra..." with the name as trailing text;
// every path opens a segment whose header carries its name.
func (d Data) Layers() []Layer {
	var out []Layer
	if len(d.Points) > 0 {
		recs := make([]record.Record, 0, len(d.Points))
		for _, p := range d.Points {
			r := record.Data(append([]float64{p.X, p.Y}, p.Extra...)...)
			r.Text = p.Name
			recs = append(recs, r)
		}
		out = append(out, Layer{Kind: KindPoints, Records: recs})
	}
	if len(d.Lines) > 0 {
		out = append(out, Layer{Kind: KindLines, Records: pathRecords(d.Lines)})
	}
	if len(d.Polygons) > 0 {
		out = append(out, Layer{Kind: KindPolygons, Records: pathRecords(d.Polygons)})
	}
	return out
}

func pathRecords(paths []Path) []record.Record {
	var recs []record.Record
	for _, p := range paths {
		recs = append(recs, record.Header(headerText(p.Name)))
		for _, c := range p.Coords {
			recs = append(recs, record.Data(c[0], c[1]))
		}
	}
	return recs
}

// headerText keeps names from being read as header options.
func headerText(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.TrimLeft(w, "-")
	}
	return strings.Join(words, " ")
}
