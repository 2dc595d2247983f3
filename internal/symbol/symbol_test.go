package symbol

import (
	"math"
	"slices"
	"testing"

	"geoplot/internal/prim"
	"geoplot/internal/record"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		code string
		kind Kind
	}{
		{"", KindLine},
		{"none", KindNone},
		{"c0.2c", KindMarker},
		{"+5p", KindMarker},
		{"b0.5c", KindBarY},
		{"B0.5c+b1", KindBarX},
		{"o0.3c+v3", KindColumn},
		{"u1c", KindCube},
		{"e", KindEllipse},
		{"J", KindRotRect},
		{"v0.2c+e", KindVector},
		{"=0.2c", KindGeoVector},
		{"m0.2c+b+e", KindMathArc},
		{"W2c", KindWedge},
		{"kvolcano/0.5c", KindCustom},
		{"l12p+tHello+world", KindText},
		{"f1c/0.2c+l+t", KindFront},
		{"q5c+lA", KindQuoted},
		{"~2c", KindDecorated},
	}
	for _, tt := range tests {
		s, err := Parse(tt.code, record.UnitCm)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.code, err)
			continue
		}
		if s.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.code, s.Kind, tt.kind)
		}
	}
}

func TestParseDetails(t *testing.T) {
	s, _ := Parse("c0.5i", record.UnitCm)
	if s.Marker != prim.Circle || s.SizeX != 36 || s.ReadSize {
		t.Errorf("circle = %+v", s)
	}
	s, _ = Parse("c", record.UnitCm)
	if !s.ReadSize || s.NExtra() != 1 {
		t.Errorf("sizeless circle = %+v", s)
	}
	s, _ = Parse("b10u+B+i3+s0.2", record.UnitCm)
	if !s.Bar.UserWidth || s.SizeX != 10 || !s.BaseFromColumn || s.Bar.Bands != 3 || !s.Bar.Increments || !s.Bar.SideBySide || s.Bar.Gap != 0.2 {
		t.Errorf("bar = %+v", s)
	}
	if got := s.Columns(); !slices.Equal(got, []ColKind{ColPlain, ColPlain, ColPlain}) {
		t.Errorf("bar columns = %v", got)
	}
	s, _ = Parse("l12p+tA+B", record.UnitCm)
	if s.Text.Text != "A+B" || s.Text.Font != 12 {
		t.Errorf("text = %+v", s.Text)
	}
	s, _ = Parse("E", record.UnitCm)
	if got := s.Columns(); !slices.Equal(got, []ColKind{ColAngle, ColKm, ColKm}) {
		t.Errorf("geo ellipse columns = %v", got)
	}
	s, _ = Parse("E-", record.UnitCm)
	if got := s.Columns(); !s.Degenerate || !slices.Equal(got, []ColKind{ColKm}) {
		t.Errorf("degenerate geo ellipse columns = %v", got)
	}
	s, _ = Parse("E-500", record.UnitCm)
	if got := s.Columns(); s.SizeX != 500 || len(got) != 0 {
		t.Errorf("fixed geo ellipse = %v, %v", s.SizeX, got)
	}
	s, _ = Parse("f-5/4p+r+c", record.UnitCm)
	if s.Front.Gap != -5 || s.Front.Length != 4 || s.Front.Side != SideRight || s.Front.Shape != FrontCircle {
		t.Errorf("front = %+v", s.Front)
	}
}

func TestParseVector(t *testing.T) {
	s, err := Parse("v0.2i+n0.2i/0.1+jc+a40", record.UnitCm)
	if err != nil {
		t.Fatal(err)
	}
	v := s.Vector
	in := record.UnitInch.Points(0.2)
	if v.HeadLength != in || !v.Shrink || v.Norm != in || v.Floor != 0.1 || v.Justify != JustCenter {
		t.Errorf("vector = %+v", v)
	}
	if !v.End || v.Begin {
		t.Error("default head should be at the end")
	}
	want := 2 * in * math.Tan(20*math.Pi/180)
	if math.Abs(v.HeadWidth()-want) > 1e-9 {
		t.Errorf("head width = %g, want %g", v.HeadWidth(), want)
	}
	s, _ = Parse("V0.1c+s", record.UnitCm)
	if !s.Azimuth || !s.Vector.EndPoint || s.NExtra() != 2 {
		t.Errorf("endpoint vector = %+v", s)
	}
}

func TestParseErrors(t *testing.T) {
	for _, code := range []string{"Z1c", "b1c+v0", "b1c+s2", "b1c+v3+s0.6", "b1c+s0.5+v3", "v1c+jx", "f1c", "kfoo", "q0", "c1q", "w1c+z"} {
		if _, err := Parse(code, record.UnitCm); err == nil {
			t.Errorf("Parse(%q) succeeded", code)
		}
	}
}
