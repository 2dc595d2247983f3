package diag

import (
	"errors"
	"fmt"
)

// ErrPaletteMissing is returned before any record is read when the call
// requests palette coloring but no palette was supplied.
var ErrPaletteMissing = errors.New("palette coloring requested but no palette given")

// ErrNaNCoordinate marks a record whose projected coordinates are not finite.
// The record is skipped and counted, the call continues.
var ErrNaNCoordinate = errors.New("nan coordinate")

// ColumnCountError reports a record carrying fewer columns than the call requires.
type ColumnCountError struct {
	Line int
	Have int
	Need int
}

func (e *ColumnCountError) Error() string {
	return fmt.Sprintf("line %d: record has %d columns, need %d", e.Line, e.Have, e.Need)
}

// NonMonotonicBandsError is returned by stacked multiband bars and columns
// whose band boundaries decrease.
type NonMonotonicBandsError struct {
	Line  int
	Band  int
	Lower float64
	Upper float64
}

func (e *NonMonotonicBandsError) Error() string {
	return fmt.Sprintf("line %d: band %d boundary %g below previous %g", e.Line, e.Band, e.Upper, e.Lower)
}
