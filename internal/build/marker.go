package build

import (
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

func buildMarker(env *Env, in Input) ([]prim.Primitive, error) {
	size := in.Size()
	if math.IsNaN(size) || size <= 0 {
		return nil, nil
	}
	p := prim.Primitive{
		Kind:   prim.KindGlyph,
		Glyph:  in.Spec.Marker,
		Points: []vec.Vec2{in.At},
		Dims:   []float64{size},
		Fill:   in.Style.Fill,
		Pen:    in.Style.Pen,
	}
	switch {
	case in.Spec.Marker.Stroked():
		p.Fill = paint.NoFill
		if !p.Pen.Active {
			col := p.Pen.Color
			p.Pen = paint.DefaultPen
			p.Pen.Color = col
		}
	case in.Spec.Marker == prim.Dot:
		if !p.Fill.Active {
			p.Fill = paint.Solid(in.Style.Pen.Color)
		}
		p.Pen = paint.NoPen
	}
	return []prim.Primitive{p}, nil
}

func buildText(env *Env, in Input) ([]prim.Primitive, error) {
	text := in.Spec.Text.Text
	if text == "" {
		text = in.Values.Text
	}
	size := in.Size()
	if text == "" || math.IsNaN(size) || size <= 0 {
		return nil, nil
	}
	fill := in.Style.Fill
	if !fill.Active {
		fill = paint.Solid(in.Style.Pen.Color)
	}
	return []prim.Primitive{{
		Kind:   prim.KindText,
		Points: []vec.Vec2{in.At},
		Text:   text,
		Font:   size,
		Fill:   fill,
		Pen:    paint.NoPen,
	}}, nil
}
