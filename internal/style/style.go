// Package style threads the current fill and pen through a plotting call.
// State is a value: every operation returns a new State.
package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"geoplot/internal/paint"
	"geoplot/internal/palette"
)

// State is the style in effect for the current record or segment.
type State struct {
	Fill paint.Fill
	Pen  paint.Pen

	DefaultFill paint.Fill
	DefaultPen  paint.Pen

	// Polygon makes the assembler treat the current segment as a fill
	// target rather than an open line.
	Polygon        bool
	DefaultPolygon bool

	// Closed forces the current segment to be closed (header -L).
	Closed bool

	// Transparency is the header-level transparency in [0,1].
	Transparency float64
}

// New returns a state whose current and default styles are fill and pen.
func New(fill paint.Fill, pen paint.Pen, polygon bool) State {
	return State{
		Fill: fill, Pen: pen, Polygon: polygon,
		DefaultFill: fill, DefaultPen: pen, DefaultPolygon: polygon,
	}
}

// SnapshotDefault makes the current style the default.
func (s State) SnapshotDefault() State {
	s.DefaultFill, s.DefaultPen, s.DefaultPolygon = s.Fill, s.Pen, s.Polygon
	return s
}

// RestoreDefault drops every segment-scoped change.
func (s State) RestoreDefault() State {
	s.Fill, s.Pen, s.Polygon = s.DefaultFill, s.DefaultPen, s.DefaultPolygon
	s.Closed = false
	s.Transparency = 0
	return s
}

// Override replaces fill and/or pen for a single record. Nil fields keep
// the current value.
type Override struct {
	Fill *paint.Fill
	Pen  *paint.Pen
}

func (s State) ApplyOverride(o Override) State {
	if o.Fill != nil {
		s.Fill = *o.Fill
	}
	if o.Pen != nil {
		s.Pen = *o.Pen
	}
	return s
}

// Change bits reported by ApplyHeader.
type Change uint8

const (
	FillChanged Change = 1 << iota
	ZFill
	PenChanged
)

// Header is what ApplyHeader learned besides the new state.
type Header struct {
	Change    Change
	Z         float64
	Skip      bool     // palette asked to skip this segment
	Symbol    string   // -S respecification
	HasSymbol bool
	Unknown   []string // tokens the cascade does not understand
}

// ApplyHeader applies a segment header:
//
//	-G<fill>  fill and treat as polygon    -G-  fill off    -G  default fill
//	-W<pen>   pen                           -W-  pen off     -W  default pen
//	-Z<value> fill (and line pen) from the palette
//	-S<code>  symbol respecification (returned, not applied)
//	-t<pct>   transparency
//	-L        close the segment
//
// Words not starting with '-' are segment labels and are ignored.
func (s State) ApplyHeader(text string, pal *palette.Palette) (State, Header, error) {
	var h Header
	h.Z = math.NaN()
	var zColor paint.Color
	for _, tok := range strings.Fields(text) {
		if len(tok) < 2 || tok[0] != '-' {
			continue
		}
		arg := tok[2:]
		switch tok[1] {
		case 'G':
			h.Change |= FillChanged
			switch arg {
			case "":
				s.Fill, s.Polygon = s.DefaultFill, s.DefaultPolygon
			case "-":
				s.Fill, s.Polygon = paint.NoFill, false
			default:
				f, err := paint.ParseFill(arg)
				if err != nil {
					return s, h, fmt.Errorf("segment header: %w", err)
				}
				s.Fill, s.Polygon = f, true
			}
		case 'W':
			h.Change |= PenChanged
			switch arg {
			case "":
				s.Pen = s.DefaultPen
			case "-":
				s.Pen = paint.NoPen
			default:
				p, err := paint.ParsePen(arg)
				if err != nil {
					return s, h, fmt.Errorf("segment header: %w", err)
				}
				s.Pen = p
			}
		case 'Z':
			if pal == nil {
				h.Unknown = append(h.Unknown, tok)
				continue
			}
			h.Change |= ZFill
			var skip bool
			if pal.Categorical {
				zColor, skip = pal.LookupKey(arg)
			} else {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return s, h, fmt.Errorf("segment header: bad -Z value %q", arg)
				}
				h.Z = v
				zColor, skip = pal.Lookup(v)
			}
			h.Skip = h.Skip || skip
			s.Fill = paint.Solid(zColor)
		case 'S':
			h.Symbol, h.HasSymbol = arg, true
		case 't':
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil || v < 0 || v > 100 {
				return s, h, fmt.Errorf("segment header: bad transparency %q", arg)
			}
			s.Transparency = v / 100
		case 'L':
			s.Closed = true
		default:
			h.Unknown = append(h.Unknown, tok)
		}
	}
	if h.Change&ZFill != 0 && !s.Polygon && !s.Closed {
		s.Pen.Color = zColor
	}
	return s, h, nil
}

// IsPolygon reports whether the current segment is emitted as a closed polygon.
func (s State) IsPolygon() bool { return s.Polygon || s.Closed }
