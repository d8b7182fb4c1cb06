// Copyright © 2026 The tempchart Authors

// Package chart turns aggregated buckets into multi-series line charts.
package chart

import (
	"time"

	"github.com/guregu/null"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/units"
)

const (
	NoDataLabel = "no data"

	shortLabel = "15:04"
	longLabel  = "02/01 15:04"
)

type Request struct {
	Buckets  []aggregator.Bucket
	Selected []string
	Names    map[string]string
	Period   aggregator.Period
	View     ViewState
	Location *time.Location
	Unit     units.Unit
}

type Series struct {
	Key         string     `json:"key"`
	Label       string     `json:"label"`
	Data        []*float64 `json:"data"`
	Border      string     `json:"border_color"`
	Fill        string     `json:"background_color"`
	SpanGaps    bool       `json:"span_gaps"`
	Placeholder bool       `json:"placeholder,omitempty"`
}

// Axis bounds are nil when the axis auto-scales.
type Axis struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Title string   `json:"title"`
}

type Chart struct {
	Period aggregator.Period `json:"period"`
	Starts []int64           `json:"bucket_starts"`
	Labels []string          `json:"labels"`
	Series []Series          `json:"series"`
	Y      Axis              `json:"y"`
}

// HasData reports whether any series carries a real value.
func (c Chart) HasData() bool {
	for _, s := range c.Series {
		if s.Placeholder {
			continue
		}
		for _, v := range s.Data {
			if v != nil {
				return true
			}
		}
	}
	return false
}

// FormatLabel renders a bucket start for the x axis. Periods of a day or
// less show the time only.
func FormatLabel(period aggregator.Period, start int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(start, 0).In(loc)
	switch period {
	case aggregator.Period1m, aggregator.Period5m, aggregator.Period15m, aggregator.Period30m,
		aggregator.Period1h, aggregator.Period6h, aggregator.Period24h:
		return t.Format(shortLabel)
	}
	return t.Format(longLabel)
}

// Visible applies the pan offset. Offsets outside (0, len) show everything.
func Visible(buckets []aggregator.Bucket, offset int) []aggregator.Bucket {
	if offset > 0 && offset < len(buckets) {
		return buckets[offset:]
	}
	return buckets
}

func Render(req Request) Chart {
	unit := req.Unit
	if unit == "" {
		unit = units.Celsius
	}
	shown := Visible(req.Buckets, req.View.PanOffset)

	c := Chart{
		Period: req.Period,
		Starts: make([]int64, len(shown)),
		Labels: make([]string, len(shown)),
		Series: make([]Series, 0, len(req.Selected)),
		Y: Axis{
			Min:   copyFloat(req.View.Zoom.Min),
			Max:   copyFloat(req.View.Zoom.Max),
			Title: "Temperature (" + unit.Symbol() + ")",
		},
	}
	for i, b := range shown {
		c.Starts[i] = b.Start
		c.Labels[i] = FormatLabel(req.Period, b.Start, req.Location)
	}

	found := false
	for i, key := range req.Selected {
		color := ColorAt(i)
		s := Series{
			Key:      key,
			Label:    displayName(req.Names, key),
			Data:     make([]*float64, len(shown)),
			Border:   color.Border,
			Fill:     color.Fill,
			SpanGaps: true,
		}
		for j, b := range shown {
			avg, ok := b.Average(key)
			if !ok || !aggregator.Valid(null.FloatFrom(avg)) {
				continue
			}
			v := unit.FromCelsius(avg)
			s.Data[j] = &v
			found = true
		}
		c.Series = append(c.Series, s)
	}

	if !found {
		color := ColorAt(0)
		c.Series = []Series{{
			Label:       NoDataLabel,
			Data:        make([]*float64, len(shown)),
			Border:      color.Border,
			Fill:        color.Fill,
			SpanGaps:    true,
			Placeholder: true,
		}}
	}
	return c
}

func displayName(names map[string]string, key string) string {
	if name, ok := names[key]; ok && name != "" {
		return name
	}
	return key
}
