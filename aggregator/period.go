// Copyright © 2026 The tempchart Authors

package aggregator

import (
	"errors"
	"fmt"
	"time"
)

// Period is a chart period selector as accepted by the device history API.
type Period string

const (
	Period1m  Period = "1m"
	Period5m  Period = "5m"
	Period15m Period = "15m"
	Period30m Period = "30m"
	Period1h  Period = "1h"
	Period6h  Period = "6h"
	Period24h Period = "24h"
	Period7d  Period = "7d"
)

// DefaultInterval is used for unknown periods.
const DefaultInterval int64 = 3600

var ErrUnknownPeriod = errors.New("unknown period")

var intervals = map[Period]int64{
	Period1m:  60,
	Period5m:  300,
	Period15m: 900,
	Period30m: 1800,
	Period1h:  3600,
	Period6h:  21600,
	Period24h: 86400,
	Period7d:  604800,
}

// Periods returns the known periods, shortest first.
func Periods() []Period {
	return []Period{Period1m, Period5m, Period15m, Period30m, Period1h, Period6h, Period24h, Period7d}
}

// IntervalFor returns the bucket width in seconds for a period.
func IntervalFor(period Period) int64 {
	if interval, ok := intervals[period]; ok {
		return interval
	}
	return DefaultInterval
}

func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.Known() {
		return p, fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

func (p Period) Known() bool {
	_, ok := intervals[p]
	return ok
}

func (p Period) Interval() int64 {
	return IntervalFor(p)
}

// FetchPeriod is the period sent to the device. Sub-hour periods are
// served from the 1h raw data and bucketed locally.
func (p Period) FetchPeriod() Period {
	switch p {
	case Period1m, Period5m, Period15m, Period30m:
		return Period1h
	}
	return p
}

// Span is the history window covered by a fetch for this period.
func (p Period) Span() time.Duration {
	switch p.FetchPeriod() {
	case Period1h:
		return time.Hour
	case Period6h:
		return 6 * time.Hour
	case Period7d:
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}
