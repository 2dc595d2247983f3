package palette

import "geoplot/internal/prim"

// ApplyTransparency composes per-record fill and stroke transparency with
// whatever the primitive already carries. A fully transparent primitive is
// still kept: it occupies its slot in the depth order.
func ApplyTransparency(p *prim.Primitive, fillT, strokeT float64) {
	if fillT > 0 {
		p.Fill.Color = p.Fill.Color.WithTransparency(fillT)
	}
	if strokeT > 0 {
		p.Pen.Color = p.Pen.Color.WithTransparency(strokeT)
	}
}
