// Copyright © 2026 The tempchart Authors

// Package aggregator buckets raw temperature samples into fixed-width time
// intervals and averages them per sensor.
package aggregator

import (
	"github.com/guregu/null"
)

// Sentinel is the reading a disconnected probe reports.
const Sentinel = -127.0

type Sample struct {
	Timestamp   int64      `json:"timestamp"`
	SensorKey   string     `json:"sensor_key"`
	Temperature null.Float `json:"temperature"`
}

type Bucket struct {
	Start          int64              `json:"bucket_start"`
	SensorAverages map[string]float64 `json:"sensor_averages"`
	OverallAverage *float64           `json:"overall_average,omitempty"`
	SensorMinimums map[string]float64 `json:"sensor_minimums,omitempty"`
	SensorMaximums map[string]float64 `json:"sensor_maximums,omitempty"`
}

// Average returns the average for a sensor key, if the bucket holds one.
func (b Bucket) Average(key string) (float64, bool) {
	v, ok := b.SensorAverages[key]
	return v, ok
}

// Range returns the lowest and highest valid reading of a sensor.
func (b Bucket) Range(key string) (min, max float64, ok bool) {
	min, ok = b.SensorMinimums[key]
	if !ok {
		return 0, 0, false
	}
	max, ok = b.SensorMaximums[key]
	return min, max, ok
}

// Valid reports whether a temperature is an actual reading. Null, zero and
// the sentinel all mean "no reading".
func Valid(t null.Float) bool {
	if !t.Valid {
		return false
	}
	return t.Float64 != 0 && t.Float64 != Sentinel
}

// Boundary returns the start of the bucket containing timestamp.
func Boundary(timestamp, interval int64) int64 {
	q := timestamp / interval
	if timestamp%interval != 0 && timestamp < 0 {
		q--
	}
	return q * interval
}

// Aggregate groups pre-sorted samples into buckets of interval seconds.
func Aggregate(records []Sample, interval int64) []Bucket {
	return AggregateFunc(records, interval, nil)
}

// AggregateFunc is Aggregate with a per-sensor adjustment applied to every
// valid reading before it is averaged.
//
// Buckets are formed from contiguous runs of the same boundary. Input that
// is not sorted by timestamp can therefore yield several buckets with the
// same start.
func AggregateFunc(records []Sample, interval int64, adjust func(key string, t float64) float64) []Bucket {
	if interval <= 0 {
		interval = DefaultInterval
	}

	result := make([]Bucket, 0)
	var open *accumulator
	for _, r := range records {
		start := Boundary(r.Timestamp, interval)
		if open == nil || open.start != start {
			if open != nil {
				result = append(result, open.bucket())
			}
			open = newAccumulator(start)
		}
		if !Valid(r.Temperature) {
			continue
		}
		t := r.Temperature.Float64
		if adjust != nil {
			t = adjust(r.SensorKey, t)
		}
		open.add(r.SensorKey, t)
	}
	if open != nil {
		result = append(result, open.bucket())
	}
	return result
}

type accumulator struct {
	start   int64
	sensors map[string][]float64
	all     []float64
}

func newAccumulator(start int64) *accumulator {
	return &accumulator{start: start, sensors: make(map[string][]float64)}
}

func (a *accumulator) add(key string, t float64) {
	a.all = append(a.all, t)
	if key == "" {
		return
	}
	a.sensors[key] = append(a.sensors[key], t)
}

func (a *accumulator) bucket() Bucket {
	b := Bucket{
		Start:          a.start,
		SensorAverages: make(map[string]float64, len(a.sensors)),
		SensorMinimums: make(map[string]float64, len(a.sensors)),
		SensorMaximums: make(map[string]float64, len(a.sensors)),
	}
	for key, values := range a.sensors {
		b.SensorAverages[key] = Mean(values)
		b.SensorMinimums[key] = Minimum(values)
		b.SensorMaximums[key] = Maximum(values)
	}
	if len(a.all) > 0 {
		avg := Mean(a.all)
		b.OverallAverage = &avg
	}
	return b
}

func Minimum(d []float64) float64 {
	result := d[0]
	for _, x := range d {
		if x < result {
			result = x
		}
	}
	return result
}

func Maximum(d []float64) float64 {
	result := d[0]
	for _, x := range d {
		if x > result {
			result = x
		}
	}
	return result
}

func Mean(d []float64) float64 {
	sum := 0.0
	for _, x := range d {
		sum += x
	}
	return sum / float64(len(d))
}
