package columns

import (
	"errors"
	"math"
	"testing"

	"geoplot/internal/diag"
	"geoplot/internal/record"
	"geoplot/internal/symbol"
)

func mustParse(t *testing.T, code string) symbol.Spec {
	t.Helper()
	s, err := symbol.Parse(code, record.UnitPoint)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestResolveOrder(t *testing.T) {
	spec := mustParse(t, "c")
	l := Resolve(spec, Features{
		Is3D: true, Palette: true, Intensity: IntensityRecord,
		Transparency: TransBoth, Scale: true, ErrY: 2,
	})
	want := []struct {
		name      string
		got, want int
	}{
		{"z", l.Z, 2},
		{"palette", l.Palette, 3},
		{"intensity", l.Intensity, 4},
		{"fill t", l.FillT, 5},
		{"stroke t", l.StrokeT, 6},
		{"scale", l.Scale, 7},
		{"extra", l.Extra, 8},
		{"err y", l.ErrY, 9},
		{"err x", l.ErrX, Absent},
		{"width", l.Width, 11},
	}
	for _, w := range want {
		if w.got != w.want {
			t.Errorf("%s = %d, want %d", w.name, w.got, w.want)
		}
	}
	if !l.Delayed[0] {
		t.Error("size column should be delayed-scale")
	}
}

func TestResolveMinimal(t *testing.T) {
	l := Resolve(mustParse(t, "c5p"), Features{})
	if l.Width != 2 || l.Z != Absent || l.Palette != Absent || len(l.Kinds) != 0 {
		t.Errorf("layout = %+v", l)
	}
	l = Resolve(mustParse(t, "c5p"), Features{Intensity: IntensityFixed, Transparency: TransStroke})
	if l.Width != 3 || l.Intensity != Absent || l.StrokeT != 2 {
		t.Errorf("layout = %+v", l)
	}
}

func TestCheck(t *testing.T) {
	l := Resolve(mustParse(t, "v5p"), Features{})
	err := l.Check(record.Record{Fields: make([]record.RawValue, 3), Line: 7})
	var cc *diag.ColumnCountError
	if !errors.As(err, &cc) {
		t.Fatalf("err = %v, want ColumnCountError", err)
	}
	if cc.Have != 3 || cc.Need != 4 || cc.Line != 7 {
		t.Errorf("err = %+v", cc)
	}
	if err := l.Check(record.Data(1, 2, 3, 4)); err != nil {
		t.Errorf("full record: %v", err)
	}
}

func TestValuesDelayedScale(t *testing.T) {
	l := Resolve(mustParse(t, "c"), Features{Scale: true, Transparency: TransFill})
	rec := record.Record{Fields: []record.RawValue{
		record.Plain(1), record.Plain(2), record.Plain(50), record.Plain(2),
		{Value: 1, Unit: record.UnitInch},
	}, Text: "x"}
	v := l.Values(rec, record.UnitCm)
	if v.Extra[0] != 144 {
		t.Errorf("scaled size = %g, want 144", v.Extra[0])
	}
	if v.FillT != 0.5 || v.StrokeT != 0 || v.Scale != 2 {
		t.Errorf("values = %+v", v)
	}
	if !math.IsNaN(v.Z) || !math.IsNaN(v.Palette) {
		t.Error("absent optional values should be NaN")
	}
}

func TestValuesAngleNotScaled(t *testing.T) {
	l := Resolve(mustParse(t, "v5p"), Features{Scale: true})
	v := l.Values(record.Data(0, 0, 3, 45, 10), record.UnitPoint)
	if v.Extra[0] != 45 {
		t.Errorf("angle = %g, want 45", v.Extra[0])
	}
	if v.Extra[1] != 30 {
		t.Errorf("length = %g, want 30", v.Extra[1])
	}
}
