// Package build turns one resolved record into render primitives. Each
// symbol kind has its own Builder, chosen once per record from a Registry.
package build

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/vec"

	"geoplot/internal/columns"
	"geoplot/internal/diag"
	"geoplot/internal/palette"
	"geoplot/internal/prim"
	"geoplot/internal/proj"
	"geoplot/internal/style"
	"geoplot/internal/symbol"
)

// Env is shared by every record of a call.
type Env struct {
	Proj    proj.Projection
	View    *proj.View // nil for 2-D calls
	Palette *palette.Palette
	Customs map[string]*CustomDef
	Shade3D bool
	Tally   *diag.Tally
}

func (e *Env) warn(w diag.Warning) {
	if e.Tally != nil {
		e.Tally.Add(w)
	}
}

// project maps data coordinates to the plot plane.
func (e *Env) project(x, y float64) (vec.Vec2, bool) {
	px, py, ok := e.Proj.Project(x, y)
	if !ok || math.IsNaN(px) || math.IsNaN(py) {
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: px, Y: py}, true
}

// Input is one record as the builders see it.
type Input struct {
	Spec   *symbol.Spec
	Style  style.State
	Values columns.Values
	At     vec.Vec2 // plot-plane anchor of the record
}

// Size is the symbol size in points, after scaling.
func (in Input) Size() float64 {
	if in.Spec.ReadSize {
		if len(in.Values.Extra) > 0 {
			return in.Values.Extra[0]
		}
		return math.NaN()
	}
	return in.Spec.SizeX * in.Values.Scale
}

// args are the symbol columns after the optional size column.
func (in Input) args() []float64 {
	if in.Spec.ReadSize && len(in.Values.Extra) > 0 {
		return in.Values.Extra[1:]
	}
	return in.Values.Extra
}

// Builder produces the primitives of one record.
type Builder interface {
	Build(env *Env, in Input) ([]prim.Primitive, error)
}

// Func adapts a function to Builder.
type Func func(env *Env, in Input) ([]prim.Primitive, error)

func (f Func) Build(env *Env, in Input) ([]prim.Primitive, error) { return f(env, in) }

// Registry maps symbol kinds to builders.
type Registry map[symbol.Kind]Builder

// Default returns the builders of every point-like symbol kind. Line kinds
// are handled by the segment assembler and have no entry.
func Default() Registry {
	return Registry{
		symbol.KindMarker:    Func(buildMarker),
		symbol.KindText:      Func(buildText),
		symbol.KindBarX:      Func(buildBar),
		symbol.KindBarY:      Func(buildBar),
		symbol.KindColumn:    Func(buildColumn),
		symbol.KindCube:      Func(buildCube),
		symbol.KindEllipse:   Func(buildEllipse),
		symbol.KindRotRect:   Func(buildRotRect),
		symbol.KindVector:    Func(buildVector),
		symbol.KindGeoVector: Func(buildGeoVector),
		symbol.KindMathArc:   Func(buildMathArc),
		symbol.KindWedge:     Func(buildWedge),
		symbol.KindCustom:    Func(buildCustom),
		symbol.KindNone:      Func(buildNone),
	}
}

// Build dispatches on in.Spec.Kind.
func (r Registry) Build(env *Env, in Input) ([]prim.Primitive, error) {
	b, ok := r[in.Spec.Kind]
	if !ok {
		return nil, fmt.Errorf("no builder for %v symbols", in.Spec.Kind)
	}
	return b.Build(env, in)
}

func buildNone(*Env, Input) ([]prim.Primitive, error) { return nil, nil }

// polar returns c + r*(cos a, sin a) with a in degrees.
func polar(c vec.Vec2, r, a float64) vec.Vec2 {
	s, co := math.Sincos(a * math.Pi / 180)
	return vec.Vec2{X: c.X + r*co, Y: c.Y + r*s}
}

// rotate turns v by a degrees counterclockwise.
func rotate(v vec.Vec2, a float64) vec.Vec2 {
	s, c := math.Sincos(a * math.Pi / 180)
	return vec.Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l == 0 {
		return vec.Vec2{X: 1}
	}
	return v.Mul(1 / l)
}

// angle returns a plot-plane direction for an angle column, converting
// azimuths when the spec asks for them.
func (in Input) angle(env *Env, a float64) float64 {
	if in.Spec.Azimuth {
		return proj.AzimuthAngle(env.Proj, in.Values.X, in.Values.Y, a)
	}
	return a
}
