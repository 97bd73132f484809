package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestAlignToPeriod(t *testing.T) {
	in := time.Date(2024, 10, 10, 10, 37, 42, 0, time.UTC)

	if got := AlignToPeriod(in, 15); !got.Equal(time.Date(2024, 10, 10, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("15m align got %v", got)
	}
	if got := AlignToPeriod(in, 60); !got.Equal(time.Date(2024, 10, 10, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("1h align got %v", got)
	}
	if got := AlignToPeriod(in, 0); !got.Equal(time.Date(2024, 10, 10, 10, 37, 0, 0, time.UTC)) {
		t.Fatalf("fallback align got %v", got)
	}
}
