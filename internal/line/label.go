package line

import (
	"fmt"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
	"geoplot/internal/record"
	"geoplot/internal/style"
	"geoplot/internal/symbol"
)

// LabelPlacer decorates one contiguous plot-plane sub-path of a quoted or
// decorated line. label is the segment label, possibly empty.
type LabelPlacer interface {
	Place(path []vec.Vec2, spec *symbol.Spec, st style.State, label string) ([]prim.Primitive, error)
}

// DefaultFont is the label size in points when DefaultPlacer.Font is zero.
const DefaultFont = 9

// DefaultPlacer puts labels or marker glyphs at the spec's spacing,
// rotated along the path.
type DefaultPlacer struct {
	Font float64
}

func (d DefaultPlacer) Place(path []vec.Vec2, spec *symbol.Spec, st style.State, label string) ([]prim.Primitive, error) {
	poses := sample(path, stations(pathLength(path), spec.Deco.Spacing))
	if len(poses) == 0 {
		return nil, nil
	}
	color := st.Pen.Color
	if !st.Pen.Active && st.Fill.Active {
		color = st.Fill.Color
	}
	var out []prim.Primitive
	switch spec.Kind {
	case symbol.KindQuoted:
		text := spec.Deco.Label
		if text == "" {
			text = label
		}
		if text == "" {
			return nil, nil
		}
		font := d.Font
		if font <= 0 {
			font = DefaultFont
		}
		for _, p := range poses {
			out = append(out, prim.Primitive{
				Kind:   prim.KindText,
				Points: []vec.Vec2{p.At},
				Text:   text,
				Font:   font,
				Angle:  p.angle(),
				Fill:   paint.Solid(color),
				Pen:    paint.NoPen,
			})
		}
	case symbol.KindDecorated:
		code := spec.Deco.Marker
		if code == "" {
			code = "c4p"
		}
		m, err := symbol.Parse(code, record.UnitPoint)
		if err != nil {
			return nil, fmt.Errorf("decorated line: %w", err)
		}
		if m.Kind != symbol.KindMarker || m.ReadSize {
			return nil, fmt.Errorf("decorated line: %q is not a marker", code)
		}
		fill := st.Fill
		if !fill.Active {
			fill = paint.Solid(color)
		}
		for _, p := range poses {
			out = append(out, prim.Primitive{
				Kind:   prim.KindGlyph,
				Glyph:  m.Marker,
				Points: []vec.Vec2{p.At},
				Dims:   []float64{m.SizeX},
				Angle:  p.angle(),
				Fill:   fill,
				Pen:    st.Pen,
			})
		}
	}
	return out, nil
}
