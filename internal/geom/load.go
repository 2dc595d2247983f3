package geom

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"geoplot/internal/record"
)

// ErrNotVector is returned by Load for files that are not a vector format;
// those are read as plain record tables.
var ErrNotVector = errors.New("not a vector file")

var readers = map[string]func(io.Reader) (Data, error){
	".geojson": ReadGeoJSON,
	".json":    ReadGeoJSON,
	".kml":     ReadKML,
	".csv":     ReadCSV,
	".wkt": func(r io.Reader) (Data, error) {
		b, err := io.ReadAll(r)
		if err != nil {
			return Data{}, err
		}
		return ParseWKT(string(b))
	},
}

// IsVector reports whether path has an extension Load understands.
func IsVector(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load reads a vector file, choosing the format by extension.
func Load(path string) (Data, error) {
	read, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return Data{}, fmt.Errorf("%s: %w", path, ErrNotVector)
	}
	f, err := os.Open(path)
	if err != nil {
		return Data{}, err
	}
	defer f.Close()
	d, err := read(f)
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// ReadTable reads a whole record table into a layer. The box covers the
// first two columns of every data record.
func ReadTable(r io.Reader) (Layer, BBox, error) {
	src := record.NewReader(r)
	var (
		l  = Layer{Kind: KindTable}
		bb BBox
	)
	for {
		rec, err := src.Next()
		if err != nil {
			return Layer{}, BBox{}, err
		}
		if rec.Kind == record.KindEOF {
			break
		}
		if rec.Kind == record.KindData && len(rec.Fields) >= 2 {
			x, y := rec.Float(0), rec.Float(1)
			if !math.IsNaN(x) && !math.IsNaN(y) {
				bb.Extend(x, y)
			}
		}
		l.Records = append(l.Records, rec)
	}
	return l, bb, nil
}
