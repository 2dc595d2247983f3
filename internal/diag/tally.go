package diag

import (
	"log/slog"
	"slices"
)

// Warning identifies a class of recoverable problem.
type Warning uint8

const (
	// HeadLongerThanShaft: a vector head exceeds its shaft length; drawn anyway.
	HeadLongerThanShaft Warning = iota
	// HeadShrunkPastFloor: shrinking stopped at the floor and the head is still too long.
	HeadShrunkPastFloor
	// OutOfRangeClamp: an error-bar endpoint was clamped to the visible boundary.
	OutOfRangeClamp
	// NaNSkipped: a record with a non-finite coordinate was dropped.
	NaNSkipped
	// BadSymbol: a per-record symbol code did not parse; the record was dropped.
	BadSymbol
	// HeaderToken: a segment header contained a token the cascade does not know.
	HeaderToken
	// IgnoredRespec: a header asked for a symbol change the call cannot honor.
	IgnoredRespec
	numWarnings
)

func (w Warning) String() string {
	switch w {
	case HeadLongerThanShaft:
		return "vector head longer than shaft"
	case HeadShrunkPastFloor:
		return "vector head shrunk to floor and still longer than shaft"
	case OutOfRangeClamp:
		return "error bar clamped to map boundary"
	case NaNSkipped:
		return "record skipped: nan coordinate"
	case BadSymbol:
		return "record skipped: bad symbol code"
	case HeaderToken:
		return "unrecognized segment header token"
	case IgnoredRespec:
		return "symbol respecification ignored"
	default:
		return "unknown warning"
	}
}

// Tally counts warnings during one call. The zero value is ready to use.
// Counts are reported once, by Flush, when the call ends.
type Tally struct {
	n [numWarnings]int
}

func (t *Tally) Add(w Warning) {
	if w < numWarnings {
		t.n[w]++
	}
}

// AddN adds n occurrences of w.
func (t *Tally) AddN(w Warning, n int) {
	if w < numWarnings && n > 0 {
		t.n[w] += n
	}
}

func (t *Tally) Count(w Warning) int {
	if w >= numWarnings {
		return 0
	}
	return t.n[w]
}

// Total is the sum over all warning classes.
func (t *Tally) Total() int {
	s := 0
	for _, c := range t.n {
		s += c
	}
	return s
}

// Entry is one non-zero line of a tally.
type Entry struct {
	Warning Warning
	Count   int
}

// Entries lists non-zero counts, most frequent first.
func (t *Tally) Entries() []Entry {
	var out []Entry
	for i, c := range t.n {
		if c > 0 {
			out = append(out, Entry{Warning: Warning(i), Count: c})
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int { return b.Count - a.Count })
	return out
}

// Merge adds the counts of o into t.
func (t *Tally) Merge(o *Tally) {
	for i := range t.n {
		t.n[i] += o.n[i]
	}
}

// Flush logs one line per warning class seen.
func (t *Tally) Flush(l *slog.Logger) {
	if l == nil {
		l = Logger()
	}
	for _, e := range t.Entries() {
		l.Warn(e.Warning.String(), "count", e.Count)
	}
}
