// Package palette resolves record values to colors: palette lookup,
// intensity shading and transparency.
package palette

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"geoplot/internal/paint"
)

// Bin maps a half-open value range [Lo,Hi), or a category Key, to a color.
// The last numeric bin also contains its upper bound.
type Bin struct {
	Lo, Hi float64
	Key    string
	Color  paint.Color
	Skip   bool
}

// Palette is an ordered color table. Values below the first bin map to
// Background, above the last to Foreground, NaN to NaN; each of these may
// be marked skip so that matching records are not drawn.
type Palette struct {
	Bins        []Bin
	Categorical bool

	Background, Foreground, NaN             paint.Color
	SkipBackground, SkipForeground, SkipNaN bool
}

// New validates bins and returns a numeric palette with black background,
// white foreground and gray NaN color.
func New(bins []Bin) (*Palette, error) {
	return newPalette(bins, false)
}

// NewCategorical returns a palette keyed on category names.
func NewCategorical(bins []Bin) (*Palette, error) {
	return newPalette(bins, true)
}

func newPalette(bins []Bin, categorical bool) (*Palette, error) {
	p := &Palette{
		Bins:        slices.Clone(bins),
		Categorical: categorical,
		Background:  paint.Black,
		Foreground:  paint.White,
		NaN:         paint.RGB255(128, 128, 128),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that numeric bins are non-empty, sorted and do not overlap.
func (p *Palette) Validate() error {
	if len(p.Bins) == 0 {
		return errors.New("palette: no bins")
	}
	if p.Categorical {
		seen := make(map[string]bool, len(p.Bins))
		for _, b := range p.Bins {
			if seen[b.Key] {
				return fmt.Errorf("palette: duplicate category %q", b.Key)
			}
			seen[b.Key] = true
		}
		return nil
	}
	for i, b := range p.Bins {
		if !(b.Lo < b.Hi) {
			return fmt.Errorf("palette: bin %d has empty range [%g,%g)", i, b.Lo, b.Hi)
		}
		if i > 0 && b.Lo < p.Bins[i-1].Hi {
			return fmt.Errorf("palette: bin %d overlaps previous", i)
		}
	}
	return nil
}

// Lookup returns the color for v and whether records with this value are skipped.
func (p *Palette) Lookup(v float64) (paint.Color, bool) {
	if p.Categorical {
		return p.LookupKey(strconv.FormatFloat(v, 'g', -1, 64))
	}
	if math.IsNaN(v) {
		return p.NaN, p.SkipNaN
	}
	n := len(p.Bins)
	if v < p.Bins[0].Lo {
		return p.Background, p.SkipBackground
	}
	if v > p.Bins[n-1].Hi {
		return p.Foreground, p.SkipForeground
	}
	i := sort.Search(n, func(i int) bool { return p.Bins[i].Hi > v })
	if i == n {
		i = n - 1
	}
	b := p.Bins[i]
	if v < b.Lo {
		// gap between bins
		return p.NaN, p.SkipNaN
	}
	return b.Color, b.Skip
}

// LookupKey returns the color of a category. Unknown keys get the NaN color.
func (p *Palette) LookupKey(key string) (paint.Color, bool) {
	for _, b := range p.Bins {
		if b.Key == key {
			return b.Color, b.Skip
		}
	}
	return p.NaN, p.SkipNaN
}

// Range returns the low and high ends of a numeric palette.
func (p *Palette) Range() (lo, hi float64) {
	if len(p.Bins) == 0 {
		return math.NaN(), math.NaN()
	}
	return p.Bins[0].Lo, p.Bins[len(p.Bins)-1].Hi
}
