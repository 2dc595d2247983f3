package palette

import (
	"math"
	"strings"
	"testing"

	"geoplot/internal/paint"
	"geoplot/internal/prim"
)

var (
	red  = paint.RGB255(255, 0, 0)
	blue = paint.RGB255(0, 0, 255)
)

func twoBins(t *testing.T) *Palette {
	t.Helper()
	p, err := New([]Bin{{Lo: 0, Hi: 5, Color: red}, {Lo: 5, Hi: 10, Color: blue}})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLookupHalfOpen(t *testing.T) {
	p := twoBins(t)
	tests := []struct {
		v    float64
		want paint.Color
	}{
		{0, red},
		{4.999, red},
		{5, blue},
		{10, blue},
		{-1, p.Background},
		{11, p.Foreground},
		{math.NaN(), p.NaN},
	}
	for _, tt := range tests {
		got, skip := p.Lookup(tt.v)
		if skip {
			t.Errorf("Lookup(%g) skipped", tt.v)
		}
		if got != tt.want {
			t.Errorf("Lookup(%g) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestLookupSkip(t *testing.T) {
	p := twoBins(t)
	p.Bins[0].Skip = true
	p.SkipForeground = true
	if _, skip := p.Lookup(1); !skip {
		t.Error("skip bin not reported")
	}
	if _, skip := p.Lookup(100); !skip {
		t.Error("skip foreground not reported")
	}
	if _, skip := p.Lookup(7); skip {
		t.Error("unexpected skip")
	}
}

func TestCategorical(t *testing.T) {
	p, err := NewCategorical([]Bin{{Key: "forest", Color: red}, {Key: "3", Color: blue}})
	if err != nil {
		t.Fatal(err)
	}
	if c, _ := p.LookupKey("forest"); c != red {
		t.Errorf("forest = %v", c)
	}
	if c, _ := p.Lookup(3); c != blue {
		t.Errorf("3 = %v", c)
	}
	if c, _ := p.LookupKey("sea"); c != p.NaN {
		t.Errorf("unknown = %v", c)
	}
	if _, err := NewCategorical([]Bin{{Key: "a"}, {Key: "a"}}); err == nil {
		t.Error("duplicate category accepted")
	}
}

func TestValidate(t *testing.T) {
	if _, err := New([]Bin{{Lo: 0, Hi: 5}, {Lo: 4, Hi: 6}}); err == nil {
		t.Error("overlap accepted")
	}
	if _, err := New([]Bin{{Lo: 1, Hi: 1}}); err == nil {
		t.Error("empty bin accepted")
	}
	if _, err := New(nil); err == nil {
		t.Error("no bins accepted")
	}
}

func TestIlluminate(t *testing.T) {
	c := paint.RGB255(200, 50, 50)
	if got := Illuminate(c, 0); got != c {
		t.Error("zero intensity changed color")
	}
	if got := Illuminate(c, math.NaN()); got != c {
		t.Error("nan intensity changed color")
	}
	_, _, v0 := c.Hsv()
	_, _, vBright := Illuminate(c, 1).Hsv()
	_, _, vDark := Illuminate(c, -1).Hsv()
	if math.Abs(vBright-1) > 1e-9 {
		t.Errorf("full brighten value = %g, want 1", vBright)
	}
	if math.Abs(vDark-0.3) > 1e-9 {
		t.Errorf("full darken value = %g, want 0.3", vDark)
	}
	_, _, vHalf := Illuminate(c, 0.5).Hsv()
	if !(vHalf > v0 && vHalf < 1) {
		t.Errorf("half brighten value = %g, start %g", vHalf, v0)
	}
	_, _, vClamp := Illuminate(c, 5).Hsv()
	if vClamp != vBright {
		t.Errorf("intensity not clamped: %g vs %g", vClamp, vBright)
	}
}

func TestApplyTransparency(t *testing.T) {
	p := prim.Primitive{Fill: paint.Solid(red.WithTransparency(0.5)), Pen: paint.DefaultPen}
	ApplyTransparency(&p, 0.5, 1)
	if math.Abs(p.Fill.Color.Opacity()-0.25) > 1e-12 {
		t.Errorf("fill opacity = %g", p.Fill.Color.Opacity())
	}
	if p.Pen.Color.Opacity() != 0 {
		t.Errorf("pen opacity = %g", p.Pen.Color.Opacity())
	}
	if !p.Fill.Active || !p.Pen.Active {
		t.Error("transparency must not deactivate paint")
	}
}

func TestDecode(t *testing.T) {
	src := `
bins:
  - {lo: 0, hi: 5, color: red}
  - {lo: 5, hi: 10, color: "#0000ff", skip: true}
background: {color: white}
nan: {skip: true}
`
	p, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if c, skip := p.Lookup(5); c != blue || !skip {
		t.Errorf("Lookup(5) = %v %v", c, skip)
	}
	if p.Background != paint.White || !p.SkipNaN {
		t.Errorf("specials = %+v", p)
	}
	if _, err := Decode(strings.NewReader("bins:\n  - {color: red}\n")); err == nil {
		t.Error("numeric bin without range accepted")
	}
}
