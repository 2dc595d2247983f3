package style

import (
	"math"
	"testing"

	"geoplot/internal/paint"
	"geoplot/internal/palette"
)

var (
	red  = paint.RGB255(255, 0, 0)
	blue = paint.RGB255(0, 0, 255)
)

func base() State {
	return New(paint.Solid(paint.White), paint.DefaultPen, false)
}

func TestHeaderFillScopedToSegment(t *testing.T) {
	s, h, err := base().ApplyHeader("-Gred", nil)
	if err != nil {
		t.Fatal(err)
	}
	if h.Change != FillChanged || !s.Polygon || s.Fill.Color != red {
		t.Errorf("after -Gred: %+v %+v", s, h)
	}
	s = s.RestoreDefault()
	if s.Fill.Color != paint.White || s.Polygon {
		t.Errorf("after restore: %+v", s)
	}
}

func TestHeaderOffAndRevert(t *testing.T) {
	s, _, _ := base().ApplyHeader("-G- -W-", nil)
	if s.Fill.Active || s.Pen.Active {
		t.Errorf("fill/pen still active: %+v", s)
	}
	s, h, _ := s.ApplyHeader("-G -W", nil)
	if !s.Fill.Active || !s.Pen.Active || h.Change != FillChanged|PenChanged {
		t.Errorf("revert failed: %+v %+v", s, h)
	}
}

func TestHeaderPen(t *testing.T) {
	s, h, err := base().ApplyHeader("-W2p,blue", nil)
	if err != nil {
		t.Fatal(err)
	}
	if h.Change != PenChanged || s.Pen.Width != 2 || s.Pen.Color != blue {
		t.Errorf("pen = %+v", s.Pen)
	}
	if _, _, err := base().ApplyHeader("-Wbogus", nil); err == nil {
		t.Error("bad pen accepted")
	}
}

func TestHeaderZ(t *testing.T) {
	pal, _ := palette.New([]palette.Bin{{Lo: 0, Hi: 5, Color: red}, {Lo: 5, Hi: 10, Color: blue, Skip: false}})
	s, h, err := base().ApplyHeader("-Z5", pal)
	if err != nil {
		t.Fatal(err)
	}
	if h.Change != ZFill || h.Z != 5 || s.Fill.Color != blue {
		t.Errorf("-Z5: %+v %+v", s, h)
	}
	if s.Pen.Color != blue {
		t.Error("-Z on a line should recolor the pen")
	}
	s, _, _ = base().ApplyHeader("-Gred -Z1", pal)
	if s.Pen.Color == red {
		t.Error("-Z on a polygon must not recolor the outline")
	}
	_, h, _ = base().ApplyHeader("-ZNaN", pal)
	if !math.IsNaN(h.Z) {
		t.Errorf("nan z = %g", h.Z)
	}
	_, h, _ = base().ApplyHeader("-Z3", nil)
	if len(h.Unknown) != 1 {
		t.Error("-Z without palette should be reported")
	}
}

func TestHeaderMisc(t *testing.T) {
	s, h, err := base().ApplyHeader("Track 12 -Sq1c -t40 -L -Q", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !h.HasSymbol || h.Symbol != "q1c" {
		t.Errorf("symbol = %q", h.Symbol)
	}
	if s.Transparency != 0.4 || !s.Closed || !s.IsPolygon() {
		t.Errorf("state = %+v", s)
	}
	if len(h.Unknown) != 1 || h.Unknown[0] != "-Q" {
		t.Errorf("unknown = %v", h.Unknown)
	}
	if r := s.RestoreDefault(); r.Closed || r.Transparency != 0 {
		t.Errorf("restore kept segment state: %+v", r)
	}
}

func TestOverrideAndSnapshot(t *testing.T) {
	f := paint.Solid(red)
	s := base().ApplyOverride(Override{Fill: &f})
	if s.Fill.Color != red || !s.Pen.Active {
		t.Errorf("override = %+v", s)
	}
	if s.RestoreDefault().Fill.Color != paint.White {
		t.Error("override leaked into defaults")
	}
	s = s.SnapshotDefault()
	if s.RestoreDefault().Fill.Color != red {
		t.Error("snapshot did not capture current fill")
	}
}
