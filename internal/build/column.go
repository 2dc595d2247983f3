package build

import (
	"errors"
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/paint"
	"geoplot/internal/palette"
	"geoplot/internal/prim"
)

var errNeedView = errors.New("3-D symbols need a view")

// buildColumn draws a 3-D bar from the base to z, stacked per band.
// Its output is already in view coordinates.
func buildColumn(env *Env, in Input) ([]prim.Primitive, error) {
	if env.View == nil {
		return nil, errNeedView
	}
	b, err := bands(in, in.Values.Z)
	if err != nil {
		return nil, err
	}
	sx := in.Size()
	if math.IsNaN(sx) || sx <= 0 {
		return nil, nil
	}
	sy := sx
	if !in.Spec.ReadSize && in.Spec.SizeY > 0 {
		sy = in.Spec.SizeY * in.Values.Scale
	}
	var out []prim.Primitive
	for k := 1; k < len(b); k++ {
		h0, h1 := env.View.ZPlot(b[k-1]), env.View.ZPlot(b[k])
		out = append(out, cuboid(env, in.At, sx/2, sy/2, h0, h1, bandFill(env, in, k-1), in.Style.Pen)...)
	}
	return out, nil
}

// buildCube draws a cube of edge size centered at z.
func buildCube(env *Env, in Input) ([]prim.Primitive, error) {
	if env.View == nil {
		return nil, errNeedView
	}
	s := in.Size()
	if math.IsNaN(s) || s <= 0 {
		return nil, nil
	}
	h := env.View.ZPlot(in.Values.Z)
	return cuboid(env, in.At, s/2, s/2, h-s/2, h+s/2, in.Style.Fill, in.Style.Pen), nil
}

// cuboid returns the three faces visible from the view: the x face and
// the y face turned toward the viewer, then the top.
func cuboid(env *Env, c vec.Vec2, dx, dy, h0, h1 float64, fill paint.Fill, pen paint.Pen) []prim.Primitive {
	v := env.View
	if h1 < h0 {
		h0, h1 = h1, h0
	}
	pt := func(x, y, h float64) vec.Vec2 {
		px, py := v.ProjectH(x, y, h)
		return vec.Vec2{X: px, Y: py}
	}
	xf := c.X + v.FacingX()*dx
	yf := c.Y + v.FacingY()*dy
	faces := [3][]vec.Vec2{
		{pt(xf, c.Y-dy, h0), pt(xf, c.Y+dy, h0), pt(xf, c.Y+dy, h1), pt(xf, c.Y-dy, h1)},
		{pt(c.X-dx, yf, h0), pt(c.X+dx, yf, h0), pt(c.X+dx, yf, h1), pt(c.X-dx, yf, h1)},
		{pt(c.X-dx, c.Y-dy, h1), pt(c.X+dx, c.Y-dy, h1), pt(c.X+dx, c.Y+dy, h1), pt(c.X-dx, c.Y+dy, h1)},
	}
	lux := v.Lux()
	out := make([]prim.Primitive, 0, 3)
	for i, f := range faces {
		ff := fill
		if env.Shade3D && ff.Active {
			ff.Color = palette.Illuminate(ff.Color, lux[i])
		}
		out = append(out, prim.Primitive{Kind: prim.KindPolygon, Points: f, Fill: ff, Pen: pen})
	}
	return out
}
