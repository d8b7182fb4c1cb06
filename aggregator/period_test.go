// Copyright © 2026 The tempchart Authors

package aggregator

import (
	"errors"
	"testing"
	"time"
)

func TestIntervalFor(t *testing.T) {
	tests := []struct {
		period Period
		want   int64
	}{
		{"1m", 60},
		{"5m", 300},
		{"15m", 900},
		{"30m", 1800},
		{"1h", 3600},
		{"6h", 21600},
		{"24h", 86400},
		{"7d", 604800},
		{"unknown", 3600},
		{"", 3600},
	}
	for _, tt := range tests {
		if got := IntervalFor(tt.period); got != tt.want {
			t.Fatalf("IntervalFor(%q) = %d; want %d", tt.period, got, tt.want)
		}
	}
}

func TestFetchPeriod(t *testing.T) {
	for _, p := range []Period{Period1m, Period5m, Period15m, Period30m} {
		if got := p.FetchPeriod(); got != Period1h {
			t.Fatalf("%s fetches %s; want 1h", p, got)
		}
	}
	for _, p := range []Period{Period1h, Period6h, Period24h, Period7d} {
		if got := p.FetchPeriod(); got != p {
			t.Fatalf("%s fetches %s", p, got)
		}
	}
}

func TestSpan(t *testing.T) {
	if Period5m.Span() != time.Hour {
		t.Fatal("sub-hour periods span the 1h fetch")
	}
	if Period7d.Span() != 7*24*time.Hour {
		t.Fatal("7d span")
	}
	if Period("bogus").Span() != 24*time.Hour {
		t.Fatal("unknown periods span 24h")
	}
}

func TestParsePeriod(t *testing.T) {
	if _, err := ParsePeriod("6h"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParsePeriod("2w"); !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
	if len(Periods()) != 8 {
		t.Fatal("eight known periods")
	}
}
