package diag

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTallyEntriesOrder(t *testing.T) {
	var ty Tally
	ty.Add(OutOfRangeClamp)
	ty.Add(HeadLongerThanShaft)
	ty.Add(HeadLongerThanShaft)
	ty.Add(numWarnings) // ignored

	got := ty.Entries()
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].Warning != HeadLongerThanShaft || got[0].Count != 2 {
		t.Errorf("first entry = %+v", got[0])
	}
	if ty.Total() != 3 {
		t.Errorf("total = %d, want 3", ty.Total())
	}
}

func TestTallyFlushOncePerClass(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	var ty Tally
	for range 50 {
		ty.Add(NaNSkipped)
	}
	ty.Flush(l)
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Fatalf("flush wrote %d lines, want 1:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "count=50") {
		t.Errorf("missing count in %q", buf.String())
	}
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled")
	}
}
