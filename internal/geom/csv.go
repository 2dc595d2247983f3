package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV reads a table with latitude/longitude columns into points.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x
// (case-insensitive). A name|label column becomes the point name; every
// other column is an extra attribute, NaN where unparsable.
func ReadCSV(r io.Reader) (Data, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return Data{}, err
	}
	if len(recs) == 0 {
		return Data{}, errors.New("empty csv")
	}
	idxLat, idxLon, idxName := -1, -1, -1
	var extra []int
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
				continue
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
				continue
			}
		case "name", "label":
			if idxName == -1 {
				idxName = i
				continue
			}
		}
		extra = append(extra, i)
	}
	if idxLat == -1 || idxLon == -1 {
		return Data{}, errors.New("csv: latitude/longitude columns not found")
	}
	var d Data
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		p := Point{X: lon, Y: lat}
		if idxName >= 0 && idxName < len(row) {
			p.Name = strings.TrimSpace(row[idxName])
		}
		for _, i := range extra {
			v := math.NaN()
			if i < len(row) {
				if f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
					v = f
				}
			}
			p.Extra = append(p.Extra, v)
		}
		d.addPoint(p)
	}
	if d.empty() {
		return Data{}, errors.New("csv: no valid points parsed")
	}
	return d, nil
}
