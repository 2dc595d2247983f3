package record

import (
	"bufio"
	"io"
	"math"
	"strings"
)

// Kind tags a Record.
type Kind uint8

const (
	KindData Kind = iota
	KindHeader
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindHeader:
		return "header"
	default:
		return "eof"
	}
}

// Record is one input row or segment header. It is consumed once.
type Record struct {
	Kind   Kind
	Fields []RawValue
	Text   string // trailing text: per-record symbol code or label
	Header string // segment header text without the leading '>'
	Line   int
}

// Float returns column i as a plain number, NaN when absent.
func (r Record) Float(i int) float64 {
	if i < 0 || i >= len(r.Fields) {
		return math.NaN()
	}
	return r.Fields[i].Value
}

// Data builds a data record from plain numbers.
func Data(vals ...float64) Record {
	f := make([]RawValue, len(vals))
	for i, v := range vals {
		f[i] = Plain(v)
	}
	return Record{Kind: KindData, Fields: f}
}

// Header builds a segment header record.
func Header(text string) Record {
	return Record{Kind: KindHeader, Header: text}
}

// Source yields records in input order. At the end it returns a KindEOF record.
type Source interface {
	Next() (Record, error)
}

// Slice is an in-memory Source.
type Slice struct {
	recs []Record
	i    int
}

func NewSlice(recs []Record) *Slice { return &Slice{recs: recs} }

func (s *Slice) Next() (Record, error) {
	if s.i >= len(s.recs) {
		return Record{Kind: KindEOF}, nil
	}
	r := s.recs[s.i]
	s.i++
	if r.Line == 0 {
		r.Line = s.i
	}
	return r, nil
}

// Reader parses whitespace or comma separated text tables. Lines starting
// with '#' are comments, lines starting with '>' are segment headers. Numeric
// tokens become fields until the first non-numeric token; the rest of the
// line is the record text.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Reader{sc: sc}
}

func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		s := strings.TrimSpace(r.sc.Text())
		if s == "" || s[0] == '#' {
			continue
		}
		if s[0] == '>' {
			return Record{Kind: KindHeader, Header: strings.TrimSpace(s[1:]), Line: r.line}, nil
		}
		return parseData(s, r.line), nil
	}
	if err := r.sc.Err(); err != nil {
		return Record{}, err
	}
	return Record{Kind: KindEOF, Line: r.line}, nil
}

func parseData(s string, line int) Record {
	rec := Record{Kind: KindData, Line: line}
	rest := s
	for rest != "" {
		rest = strings.TrimLeft(rest, " \t,")
		end := strings.IndexAny(rest, " \t,")
		tok := rest
		if end >= 0 {
			tok = rest[:end]
		}
		if tok == "" {
			break
		}
		rv, ok := parseField(tok)
		if !ok {
			rec.Text = strings.TrimSpace(rest)
			break
		}
		rec.Fields = append(rec.Fields, rv)
		if end < 0 {
			break
		}
		rest = rest[end:]
	}
	return rec
}

func parseField(tok string) (RawValue, bool) {
	switch strings.ToLower(tok) {
	case "nan":
		return RawValue{Value: math.NaN()}, true
	}
	return ParseRaw(tok)
}
