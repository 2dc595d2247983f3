package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseWKT parses one geometry per non-empty line. Supported: POINT,
// MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON and MULTIPOLYGON in 2-D;
// Z and M ordinates are dropped.
func ParseWKT(text string) (Data, error) {
	var d Data
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := d.addWKT(line); err != nil {
			return Data{}, fmt.Errorf("wkt line %d: %w", i+1, err)
		}
	}
	if d.empty() {
		return Data{}, errors.New("empty wkt")
	}
	return d, nil
}

func (d *Data) addWKT(s string) error {
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return errors.New("invalid geometry")
	}
	tag := strings.Fields(strings.ToUpper(s[:open]))
	if len(tag) == 0 {
		return errors.New("missing geometry type")
	}
	body := s[open:]
	switch tag[0] {
	case "POINT", "MULTIPOINT":
		// MULTIPOINT accepts both (1 2, 3 4) and ((1 2), (3 4))
		for _, c := range wktTuples(strings.NewReplacer("(", "", ")", "").Replace(body)) {
			d.addPoint(Point{X: c[0], Y: c[1]})
		}
	case "LINESTRING":
		d.addPath(&d.Lines, Path{Coords: wktTuples(strip(body, 1))})
	case "MULTILINESTRING":
		for _, part := range wktGroups(strip(body, 1)) {
			d.addPath(&d.Lines, Path{Coords: wktTuples(part)})
		}
	case "POLYGON":
		d.addWKTPolygon(strip(body, 1))
	case "MULTIPOLYGON":
		for _, poly := range wktGroups(strip(body, 1)) {
			d.addWKTPolygon(poly)
		}
	default:
		return fmt.Errorf("unsupported type %q", tag[0])
	}
	return nil
}

func (d *Data) addWKTPolygon(body string) {
	for i, ring := range wktGroups(body) {
		d.addPath(&d.Polygons, Path{Coords: wktTuples(ring), Hole: i > 0})
	}
}

// strip removes n levels of enclosing parentheses.
func strip(s string, n int) string {
	s = strings.TrimSpace(s)
	for range n {
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// wktGroups splits "(a), (b)" at top-level commas and strips one level of
// parentheses from each part.
func wktGroups(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strip(s[start:i], 1))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, strip(rest, 1))
	}
	return out
}

// wktTuples parses "x y[ z[ m]], ..." keeping x and y.
func wktTuples(block string) [][2]float64 {
	var out [][2]float64
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(tup)
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, [2]float64{x, y})
	}
	return out
}
