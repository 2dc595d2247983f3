package dlist

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// schema is bumped whenever the encoded layout changes.
const schema uint16 = 1

type wire struct {
	Schema        uint16
	Width, Height float64
	Count         uint32
	Items         []Item
}

// Encode writes l as msgpack.
func (l *List) Encode(w io.Writer) error {
	n, err := safecast.Conv[uint32](len(l.Items))
	if err != nil {
		return fmt.Errorf("dlist: too many items: %w", err)
	}
	return msgpack.NewEncoder(w).Encode(&wire{
		Schema: schema,
		Width:  l.Width,
		Height: l.Height,
		Count:  n,
		Items:  l.Items,
	})
}

// Decode reads a list written by Encode.
func Decode(r io.Reader) (*List, error) {
	var in wire
	if err := msgpack.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("dlist: %w", err)
	}
	if in.Schema != schema {
		return nil, fmt.Errorf("dlist: schema %d, want %d", in.Schema, schema)
	}
	n, err := safecast.Conv[int](in.Count)
	if err != nil || n != len(in.Items) {
		return nil, fmt.Errorf("dlist: header says %d items, found %d", in.Count, len(in.Items))
	}
	return &List{Width: in.Width, Height: in.Height, Items: in.Items}, nil
}
