package repository

import "testing"

func TestPeriodMinutes(t *testing.T) {
	cases := []struct {
		p    Period
		want int
	}{
		{Period15m, 15},
		{Period1h, 60},
		{Period4h, 240},
		{Period1d, 1440},
		{Period("weird"), 1},
		{Period(""), 1},
	}
	for _, c := range cases {
		if got := c.p.Minutes(); got != c.want {
			t.Fatalf("%q: expected %d, got %d", c.p, c.want, got)
		}
	}
}

func TestParsePeriods(t *testing.T) {
	got := ParsePeriods("1h, 4h,bogus,")
	if len(got) != 3 {
		t.Fatalf("expected 3 periods, got %v", got)
	}
	if got[0] != Period1h || got[1] != Period4h || got[2] != Period("bogus") {
		t.Fatalf("unexpected parse result %v", got)
	}
}

func TestParsePeriodsEmptyFallsBack(t *testing.T) {
	if got := ParsePeriods(""); len(got) != 4 {
		t.Fatalf("expected default set, got %v", got)
	}
	if got := ParsePeriods(" , "); len(got) != 4 {
		t.Fatalf("expected default set for blank list, got %v", got)
	}
}
