// Package depth orders buffered 3-D primitives back to front.
package depth

import (
	"errors"
	"slices"

	"geoplot/internal/prim"
	"geoplot/internal/proj"
)

// Phase is the state of a Sequencer.
type Phase uint8

const (
	Collecting Phase = iota
	Sorted
	Drained
)

func (p Phase) String() string {
	switch p {
	case Collecting:
		return "collecting"
	case Sorted:
		return "sorted"
	case Drained:
		return "drained"
	}
	return "unknown"
}

var (
	ErrNotCollecting = errors.New("depth: append after sort")
	ErrNotSorted     = errors.New("depth: drain before sort")
)

// Key returns the depth key of a plot-plane point at data height z.
func Key(v *proj.View, x, y, z float64) prim.DepthKey {
	p, e := v.Depth(x, y, z)
	return prim.DepthKey{Planar: p, Elevation: e}
}

// Sequencer is an arena of primitives plus the permutation that draws them
// back to front. Nothing leaves the arena until Sort has run.
type Sequencer struct {
	arena  []prim.Primitive
	order  []int
	phase  Phase
	noSort bool
}

// New returns a sequencer. With sortByDepth false, Sort keeps input order.
func New(sortByDepth bool) *Sequencer {
	return &Sequencer{noSort: !sortByDepth}
}

func (s *Sequencer) Phase() Phase { return s.phase }
func (s *Sequencer) Len() int     { return len(s.arena) }

// Append adds primitives in input order.
func (s *Sequencer) Append(ps ...prim.Primitive) error {
	if s.phase != Collecting {
		return ErrNotCollecting
	}
	s.arena = append(s.arena, ps...)
	return nil
}

// Sort fixes the draw order: ascending by key, ties in insertion order.
func (s *Sequencer) Sort() error {
	if s.phase != Collecting {
		return ErrNotCollecting
	}
	s.order = make([]int, len(s.arena))
	for i := range s.order {
		s.order[i] = i
	}
	if !s.noSort {
		slices.SortStableFunc(s.order, func(a, b int) int {
			return s.arena[a].Depth.Compare(s.arena[b].Depth)
		})
	}
	s.phase = Sorted
	return nil
}

// Drain calls fn for every primitive in draw order and stops at the first
// error. The arena is released afterwards.
func (s *Sequencer) Drain(fn func(*prim.Primitive) error) error {
	if s.phase != Sorted {
		return ErrNotSorted
	}
	s.phase = Drained
	defer func() { s.arena, s.order = nil, nil }()
	for _, i := range s.order {
		if err := fn(&s.arena[i]); err != nil {
			return err
		}
	}
	return nil
}

// Order returns the draw permutation computed by Sort.
func (s *Sequencer) Order() []int { return slices.Clone(s.order) }
