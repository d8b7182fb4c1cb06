// Copyright © 2026 The tempchart Authors

// Package exporter publishes the newest temperature bucket as Prometheus
// gauges.
package exporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/sensors"
)

const namespace = "tempchart"

// Source is the dashboard state the exporter reads at scrape time.
type Source interface {
	Latest() (aggregator.Bucket, bool)
	Registry() *sensors.Registry
}

type metricInfo struct {
	Desc *prometheus.Desc
	Type prometheus.ValueType
}

var (
	sensorTemperature = newMetric("temperature_celsius", "Average temperature of a sensor over the latest bucket", []string{"sensor", "name"})
	sensorMinimum     = newMetric("min_temperature_celsius", "Lowest temperature of a sensor in the latest bucket", []string{"sensor", "name"})
	sensorMaximum     = newMetric("max_temperature_celsius", "Highest temperature of a sensor in the latest bucket", []string{"sensor", "name"})
	overallAverage    = newMetric("overall_temperature_celsius", "Average of all valid readings in the latest bucket", nil)
	bucketStart       = newMetric("start_seconds", "Start of the latest bucket in seconds since the epoch", nil)
)

type Exporter struct {
	mutex  sync.Mutex
	source Source
}

func New(source Source) *Exporter {
	return &Exporter{source: source}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range []metricInfo{sensorTemperature, sensorMinimum, sensorMaximum, overallAverage, bucketStart} {
		ch <- m.Desc
	}
}

// Collect reports the latest bucket. Nothing is reported before the first
// successful fetch.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	b, ok := e.source.Latest()
	if !ok {
		return
	}
	registry := e.source.Registry()

	ch <- prometheus.MustNewConstMetric(bucketStart.Desc, bucketStart.Type, float64(b.Start))
	if b.OverallAverage != nil {
		ch <- prometheus.MustNewConstMetric(overallAverage.Desc, overallAverage.Type, *b.OverallAverage)
	}
	for key, avg := range b.SensorAverages {
		name := registry.DisplayName(key)
		ch <- prometheus.MustNewConstMetric(sensorTemperature.Desc, sensorTemperature.Type, avg, key, name)
		if min, max, ok := b.Range(key); ok {
			ch <- prometheus.MustNewConstMetric(sensorMinimum.Desc, sensorMinimum.Type, min, key, name)
			ch <- prometheus.MustNewConstMetric(sensorMaximum.Desc, sensorMaximum.Type, max, key, name)
		}
	}
}

func newMetric(metricName string, docString string, labelNames []string) metricInfo {
	return metricInfo{
		Desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "bucket", metricName),
			docString,
			labelNames,
			nil,
		),
		Type: prometheus.GaugeValue,
	}
}
