// Package symbol describes what is drawn at each record.
package symbol

import (
	"math"

	"geoplot/internal/prim"
)

// Kind is the closed set of symbol variants.
type Kind uint8

const (
	KindLine Kind = iota // no symbol: records form lines and polygons
	KindMarker
	KindBarX
	KindBarY
	KindColumn
	KindCube
	KindEllipse
	KindRotRect
	KindVector
	KindGeoVector
	KindMathArc
	KindWedge
	KindCustom
	KindText
	KindFront
	KindQuoted
	KindDecorated
	KindNone
	numKinds
)

var kindNames = [...]string{
	KindLine: "line", KindMarker: "marker", KindBarX: "bar-x", KindBarY: "bar-y",
	KindColumn: "column", KindCube: "cube", KindEllipse: "ellipse", KindRotRect: "rotated-rect",
	KindVector: "vector", KindGeoVector: "geovector", KindMathArc: "math-arc", KindWedge: "wedge",
	KindCustom: "custom", KindText: "text", KindFront: "front", KindQuoted: "quoted-line",
	KindDecorated: "decorated-line", KindNone: "none",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// Kinds lists every variant.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// IsLine reports whether records of this kind are assembled into segments.
func (k Kind) IsLine() bool {
	switch k {
	case KindLine, KindFront, KindQuoted, KindDecorated:
		return true
	}
	return false
}

// Is3D reports whether the kind builds true 3-D geometry.
func (k Kind) Is3D() bool { return k == KindColumn || k == KindCube }

// Justify places a vector relative to its anchor point.
type Justify uint8

const (
	JustBegin Justify = iota
	JustCenter
	JustEnd
)

// VectorParams configures vector, geovector and math-arc heads. Lengths in points.
type VectorParams struct {
	HeadLength float64
	Apex       float64 // head apex angle, degrees
	Shape      float64 // 0 plain triangle .. 1 deep arrow notch
	Begin, End bool
	Justify    Justify
	EndPoint   bool // records give the tip coordinate instead of direction and length

	Shrink bool
	Norm   float64 // shafts shorter than Norm shrink their head
	Floor  float64 // smallest shrink factor
}

// HeadWidth is the full width of the head base.
func (v VectorParams) HeadWidth() float64 {
	return 2 * v.HeadLength * math.Tan(v.Apex*math.Pi/360)
}

// BarParams configures bars and columns.
type BarParams struct {
	Bands      int  // 0 or 1 is a single bar
	Increments bool // band values are increments, not absolute boundaries
	SideBySide bool
	Gap        float64 // side-by-side gap as a fraction of the total width
	UserWidth  bool    // width is in x data units
}

// FrontShape is the tick drawn along a front.
type FrontShape uint8

const (
	FrontFault FrontShape = iota
	FrontTriangle
	FrontCircle
	FrontBox
	FrontSlip
)

// FrontSide is the side of the line ticks sit on.
type FrontSide int8

const (
	SideCenter FrontSide = 0
	SideLeft   FrontSide = 1
	SideRight  FrontSide = -1
)

// FrontParams: Gap > 0 is tick spacing in points, Gap < 0 a tick count.
type FrontParams struct {
	Gap    float64
	Length float64
	Side   FrontSide
	Shape  FrontShape
}

// DecoParams configures quoted and decorated lines.
type DecoParams struct {
	Spacing float64
	Label   string
	Marker  string // symbol code of the decoration glyph
}

type TextParams struct {
	Text string
	Font float64
}

type CustomParams struct {
	Name      string
	ReadAngle bool
}

// ColKind types a symbol-specific column.
type ColKind uint8

const (
	ColPlain ColKind = iota // data units, used as is
	ColDim                  // plot length, unit pending until resolved
	ColAngle                // degrees, convention set by Spec.Azimuth
	ColKm                   // geographic length in kilometers
)

// Spec describes the symbol of a call or of a single record.
type Spec struct {
	Kind   Kind
	Code   string
	Marker prim.Glyph

	SizeX, SizeY float64 // points; SizeY only for two-dimensional sizes
	ReadSize     bool    // size comes from the first extra column

	Base           float64
	BaseSet        bool
	BaseFromColumn bool

	Azimuth    bool // angles are azimuths, clockwise from north
	Geographic bool // axes and lengths in km on the globe
	ReadSymbol bool // the code comes from each record's text

	InnerRadius float64
	// Degenerate ellipses are circles of one diameter, read from a column
	// unless SizeX fixes it (km when Geographic).
	Degenerate bool

	Vector VectorParams
	Bar    BarParams
	Front  FrontParams
	Deco   DecoParams
	Text   TextParams
	Custom CustomParams
}

// Columns lists the symbol-specific columns each record must carry after
// the coordinate, color, transparency and scale columns.
func (s Spec) Columns() []ColKind {
	var c []ColKind
	if s.ReadSize {
		if s.Bar.UserWidth {
			c = append(c, ColPlain)
		} else {
			c = append(c, ColDim)
		}
	}
	length := ColDim
	if s.Geographic {
		length = ColKm
	}
	switch s.Kind {
	case KindBarX, KindBarY, KindColumn:
		if s.BaseFromColumn {
			c = append(c, ColPlain)
		}
		for i := 1; i < s.Bar.Bands; i++ {
			c = append(c, ColPlain)
		}
	case KindEllipse, KindRotRect:
		switch {
		case s.Degenerate && s.SizeX > 0:
		case s.Degenerate:
			c = append(c, length)
		default:
			c = append(c, ColAngle, length, length)
		}
	case KindVector:
		if s.Vector.EndPoint {
			c = append(c, ColPlain, ColPlain)
		} else {
			c = append(c, ColAngle, ColDim)
		}
	case KindGeoVector:
		if s.Vector.EndPoint {
			c = append(c, ColPlain, ColPlain)
		} else {
			c = append(c, ColAngle, ColKm)
		}
	case KindMathArc:
		c = append(c, ColDim, ColAngle, ColAngle)
	case KindWedge:
		c = append(c, ColAngle, ColAngle)
	case KindCustom:
		if s.Custom.ReadAngle {
			c = append(c, ColAngle)
		}
	}
	return c
}

// NExtra is the number of symbol-specific columns.
func (s Spec) NExtra() int { return len(s.Columns()) }

// BaseValue is the bar base, zero unless set.
func (s Spec) BaseValue() float64 {
	if s.BaseSet {
		return s.Base
	}
	return 0
}
