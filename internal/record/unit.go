package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a plot length unit. Plot-plane coordinates are in points.
type Unit uint8

const (
	UnitNone Unit = iota
	UnitCm
	UnitInch
	UnitPoint
)

// Points converts v expressed in u to points. UnitNone is treated as points.
func (u Unit) Points(v float64) float64 {
	switch u {
	case UnitCm:
		return v * 72 / 2.54
	case UnitInch:
		return v * 72
	default:
		return v
	}
}

func (u Unit) String() string {
	switch u {
	case UnitCm:
		return "c"
	case UnitInch:
		return "i"
	case UnitPoint:
		return "p"
	default:
		return ""
	}
}

// ParseUnit maps a unit suffix letter to its Unit.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "c", "cm":
		return UnitCm, nil
	case "i", "in", "inch":
		return UnitInch, nil
	case "p", "pt":
		return UnitPoint, nil
	case "":
		return UnitNone, nil
	}
	return UnitNone, fmt.Errorf("unknown unit %q", s)
}

// ParseLength parses "<number>[c|i|p]" and returns points, using def
// when no suffix is present.
func ParseLength(s string, def Unit) (float64, error) {
	rv, ok := ParseRaw(strings.TrimSpace(s))
	if !ok {
		return 0, fmt.Errorf("length %q: not a number", s)
	}
	return rv.Resolve(def), nil
}

// RawValue is a column value whose length unit stays pending until the
// caller resolves it. Arithmetic such as scaling operates on the raw number.
type RawValue struct {
	Value float64
	Unit  Unit
}

// ParseRaw parses a numeric token with an optional unit suffix.
func ParseRaw(tok string) (RawValue, bool) {
	if tok == "" {
		return RawValue{}, false
	}
	if v, err := strconv.ParseFloat(tok, 64); err == nil {
		return RawValue{Value: v}, true
	}
	u, err := ParseUnit(tok[len(tok)-1:])
	if err != nil || u == UnitNone || len(tok) == 1 {
		return RawValue{}, false
	}
	v, err := strconv.ParseFloat(tok[:len(tok)-1], 64)
	if err != nil {
		return RawValue{}, false
	}
	return RawValue{Value: v, Unit: u}, true
}

func Plain(v float64) RawValue { return RawValue{Value: v} }

// Pending reports whether the value still carries an explicit unit.
func (r RawValue) Pending() bool { return r.Unit != UnitNone }

// Scale multiplies the number and keeps the unit pending.
func (r RawValue) Scale(f float64) RawValue {
	r.Value *= f
	return r
}

// Resolve converts to points, falling back to def when no unit was given.
func (r RawValue) Resolve(def Unit) float64 {
	u := r.Unit
	if u == UnitNone {
		u = def
	}
	return u.Points(r.Value)
}
