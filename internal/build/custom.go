package build

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

// PartKind is the type of one piece of a custom symbol.
type PartKind uint8

const (
	PartPolygon PartKind = iota
	PartPath
	PartCircle
)

// Part is one piece of a custom symbol in unit coordinates: the symbol
// spans [-0.5,0.5] in both directions and is scaled by its size.
type Part struct {
	Kind   PartKind
	Points [][2]float64
	Center [2]float64
	Radius float64
	NoFill bool // outline only, even when a fill is active
}

// CustomDef is a named user symbol.
type CustomDef struct {
	Name  string
	Parts []Part
}

// Customs returns the built-in custom symbols.
func Customs() map[string]*CustomDef {
	return map[string]*CustomDef{
		"volcano": {Name: "volcano", Parts: []Part{
			{Kind: PartPolygon, Points: [][2]float64{{-0.5, -0.4}, {0.5, -0.4}, {0.15, 0.3}, {-0.15, 0.3}}},
			{Kind: PartPath, Points: [][2]float64{{-0.15, 0.3}, {0, 0.2}, {0.15, 0.3}}, NoFill: true},
		}},
		"flag": {Name: "flag", Parts: []Part{
			{Kind: PartPath, Points: [][2]float64{{-0.4, -0.5}, {-0.4, 0.5}}, NoFill: true},
			{Kind: PartPolygon, Points: [][2]float64{{-0.4, 0.5}, {0.45, 0.3}, {-0.4, 0.1}}},
		}},
		"crosshair": {Name: "crosshair", Parts: []Part{
			{Kind: PartCircle, Radius: 0.35, NoFill: true},
			{Kind: PartPath, Points: [][2]float64{{-0.5, 0}, {0.5, 0}}, NoFill: true},
			{Kind: PartPath, Points: [][2]float64{{0, -0.5}, {0, 0.5}}, NoFill: true},
		}},
		"sun": {Name: "sun", Parts: sunParts()},
	}
}

func sunParts() []Part {
	parts := []Part{{Kind: PartCircle, Radius: 0.25}}
	for i := range 8 {
		s, c := math.Sincos(float64(i) * math.Pi / 4)
		parts = append(parts, Part{
			Kind:   PartPath,
			Points: [][2]float64{{0.32 * c, 0.32 * s}, {0.5 * c, 0.5 * s}},
			NoFill: true,
		})
	}
	return parts
}

func buildCustom(env *Env, in Input) ([]prim.Primitive, error) {
	def, ok := env.Customs[in.Spec.Custom.Name]
	if !ok {
		return nil, fmt.Errorf("unknown custom symbol %q", in.Spec.Custom.Name)
	}
	size := in.Size()
	if math.IsNaN(size) || size <= 0 {
		return nil, nil
	}
	ang := 0.0
	if in.Spec.Custom.ReadAngle {
		if a := in.args(); len(a) > 0 && !math.IsNaN(a[0]) {
			ang = in.angle(env, a[0])
		}
	}
	place := func(p [2]float64) vec.Vec2 {
		return in.At.Add(rotate(vec.Vec2{X: p[0] * size, Y: p[1] * size}, ang))
	}
	out := make([]prim.Primitive, 0, len(def.Parts))
	for _, part := range def.Parts {
		fill := in.Style.Fill
		if part.NoFill {
			fill = paint.NoFill
		}
		switch part.Kind {
		case PartPolygon:
			pts := make([]vec.Vec2, len(part.Points))
			for i, p := range part.Points {
				pts[i] = place(p)
			}
			out = append(out, prim.Primitive{Kind: prim.KindPolygon, Points: pts, Fill: fill, Pen: in.Style.Pen})
		case PartPath:
			pts := make([]vec.Vec2, len(part.Points))
			for i, p := range part.Points {
				pts[i] = place(p)
			}
			pen := in.Style.Pen
			if !pen.Active {
				pen = paint.DefaultPen
			}
			out = append(out, prim.Primitive{Kind: prim.KindPath, Points: pts, Fill: paint.NoFill, Pen: pen})
		case PartCircle:
			c := place(part.Center)
			pts := prim.Outline(prim.Circle, c, 2*part.Radius*size)[0]
			out = append(out, prim.Primitive{Kind: prim.KindPolygon, Points: pts, Fill: fill, Pen: in.Style.Pen})
		}
	}
	return out, nil
}
