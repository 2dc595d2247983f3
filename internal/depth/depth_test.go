package depth

import (
	"errors"
	"slices"
	"testing"

	"geoplot/internal/prim"
	"geoplot/internal/proj"
)

func item(line int, planar, elev float64) prim.Primitive {
	return prim.Primitive{Line: line, Depth: prim.DepthKey{Planar: planar, Elevation: elev}}
}

func drainLines(t *testing.T, s *Sequencer) []int {
	t.Helper()
	var got []int
	if err := s.Drain(func(p *prim.Primitive) error {
		got = append(got, p.Line)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	return got
}

func TestSortStable(t *testing.T) {
	tests := []struct {
		name   string
		sort   bool
		in     []prim.Primitive
		expect []int
	}{
		{
			name:   "by planar",
			sort:   true,
			in:     []prim.Primitive{item(1, 3, 0), item(2, 1, 0), item(3, 2, 0)},
			expect: []int{2, 3, 1},
		},
		{
			name:   "elevation breaks ties",
			sort:   true,
			in:     []prim.Primitive{item(1, 1, 5), item(2, 1, 2), item(3, 0, 9)},
			expect: []int{3, 2, 1},
		},
		{
			name:   "equal keys keep input order",
			sort:   true,
			in:     []prim.Primitive{item(1, 1, 1), item(2, 0, 0), item(3, 1, 1), item(4, 1, 1)},
			expect: []int{2, 1, 3, 4},
		},
		{
			name:   "disabled",
			sort:   false,
			in:     []prim.Primitive{item(1, 3, 0), item(2, 1, 0), item(3, 2, 0)},
			expect: []int{1, 2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.sort)
			for _, p := range tt.in {
				if err := s.Append(p); err != nil {
					t.Fatal(err)
				}
			}
			if err := s.Sort(); err != nil {
				t.Fatal(err)
			}
			if got := drainLines(t, s); !slices.Equal(got, tt.expect) {
				t.Errorf("order %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestPhases(t *testing.T) {
	s := New(true)
	if err := s.Drain(func(*prim.Primitive) error { return nil }); !errors.Is(err, ErrNotSorted) {
		t.Errorf("drain while collecting: %v", err)
	}
	_ = s.Append(item(1, 0, 0))
	if err := s.Sort(); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(item(2, 0, 0)); !errors.Is(err, ErrNotCollecting) {
		t.Errorf("append after sort: %v", err)
	}
	if err := s.Sort(); !errors.Is(err, ErrNotCollecting) {
		t.Errorf("second sort: %v", err)
	}
	drainLines(t, s)
	if s.Phase() != Drained {
		t.Errorf("phase %v", s.Phase())
	}
	if err := s.Drain(func(*prim.Primitive) error { return nil }); !errors.Is(err, ErrNotSorted) {
		t.Errorf("second drain: %v", err)
	}
}

func TestDrainStops(t *testing.T) {
	s := New(false)
	_ = s.Append(item(1, 0, 0), item(2, 0, 0))
	_ = s.Sort()
	stop := errors.New("stop")
	n := 0
	err := s.Drain(func(*prim.Primitive) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Errorf("err %v after %d calls", err, n)
	}
}

func TestKeyFarthestFirst(t *testing.T) {
	// looking north from the south, northern points are farther away
	v := proj.NewView(180, 30, 1, 0, 100, 100, 10)
	near := Key(v, 50, 10, 0)
	far := Key(v, 50, 90, 0)
	if far.Compare(near) >= 0 {
		t.Errorf("far %+v should sort before near %+v", far, near)
	}
	high := Key(v, 50, 10, 5)
	if high.Compare(near) <= 0 {
		t.Errorf("higher point should sort after lower one")
	}
}
