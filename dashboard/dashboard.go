// Copyright © 2026 The tempchart Authors

// Package dashboard holds the chart state of one dashboard: the sensor
// list, the selected period and view, and the last fetched raw history.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/chart"
	"github.com/grifmax/tempchart/device"
	"github.com/grifmax/tempchart/sensors"
	"github.com/grifmax/tempchart/units"
)

type HistorySource interface {
	History(ctx context.Context, period aggregator.Period) ([]aggregator.Sample, error)
}

type SensorSource interface {
	Sensors(ctx context.Context) ([]sensors.Sensor, error)
}

type Option func(*Dashboard)

func WithLocation(loc *time.Location) Option {
	return func(d *Dashboard) { d.loc = loc }
}

func WithUnit(u units.Unit) Option {
	return func(d *Dashboard) { d.unit = u }
}

// WithCorrection applies each sensor's configured correction offset to its
// readings before averaging.
func WithCorrection(enabled bool) Option {
	return func(d *Dashboard) { d.correct = enabled }
}

func WithPeriod(p aggregator.Period) Option {
	return func(d *Dashboard) { d.period = p }
}

func WithSelection(keys []string) Option {
	return func(d *Dashboard) { d.selection = append([]string(nil), keys...) }
}

type Dashboard struct {
	history HistorySource
	sensors SensorSource
	surface *chart.Surface
	loc     *time.Location
	unit    units.Unit
	correct bool

	mu         sync.Mutex
	period     aggregator.Period
	view       chart.ViewState
	selection  []string
	registry   *sensors.Registry
	raw        []aggregator.Sample
	rawPeriod  aggregator.Period
	hasRaw     bool
	buckets    []aggregator.Bucket
	generation uint64
	cancel     context.CancelFunc
}

func New(history HistorySource, sensorSource SensorSource, surface *chart.Surface, opts ...Option) *Dashboard {
	d := &Dashboard{
		history:  history,
		sensors:  sensorSource,
		surface:  surface,
		loc:      time.Local,
		unit:     units.Celsius,
		period:   aggregator.Period24h,
		view:     chart.DefaultView(),
		registry: sensors.NewRegistry(sensors.DefaultSensors()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init checks the surface once, loads the sensor list and draws the
// initial period.
func (d *Dashboard) Init(ctx context.Context) error {
	if !d.surface.Available() {
		jww.WARN.Println(chart.UnavailableText)
		return chart.ErrUnavailable
	}
	if err := d.LoadSensors(ctx); err != nil {
		jww.ERROR.Println(err)
	}
	return d.Refresh(ctx)
}

// LoadSensors replaces the sensor registry. On failure the previous
// registry stays in use.
func (d *Dashboard) LoadSensors(ctx context.Context) error {
	if d.sensors == nil {
		return nil
	}
	list, err := d.sensors.Sensors(ctx)
	if err != nil {
		return fmt.Errorf("load sensors: %w", err)
	}
	if len(list) == 0 {
		list = sensors.DefaultSensors()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.registry = sensors.NewRegistry(list)
	jww.DEBUG.Printf("loaded %d sensors", len(list))
	return d.render()
}

// SetPeriod switches period, resets the view and fetches fresh history.
// An in-flight fetch for the previous period is cancelled.
func (d *Dashboard) SetPeriod(ctx context.Context, p aggregator.Period) error {
	d.mu.Lock()
	d.period = p
	d.view.Reset()
	if d.hasRaw && d.rawPeriod.FetchPeriod() == p.FetchPeriod() {
		d.rawPeriod = p
		if err := d.render(); err != nil {
			jww.ERROR.Println(err)
		}
	}
	d.mu.Unlock()

	return d.fetch(ctx, p)
}

// Refresh is the periodic tick: it refetches the current period.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if !d.surface.Available() {
		jww.WARN.Println(chart.UnavailableText)
		return chart.ErrUnavailable
	}
	d.mu.Lock()
	p := d.period
	d.mu.Unlock()
	return d.fetch(ctx, p)
}

func (d *Dashboard) SetSelection(keys []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = append([]string(nil), keys...)
	return d.render()
}

func (d *Dashboard) Zoom(min, max *float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.SetZoom(min, max)
	return d.render()
}

func (d *Dashboard) Pan(offset int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	d.view.PanOffset = offset
	return d.render()
}

// ResetView restores the default view and redraws from the last raw
// history, bucketed at the current period's interval.
func (d *Dashboard) ResetView() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view.Reset()
	return d.render()
}

func (d *Dashboard) fetch(ctx context.Context, p aggregator.Period) error {
	d.mu.Lock()
	d.generation++
	gen := d.generation
	if d.cancel != nil {
		d.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	samples, err := d.history.History(fctx, p)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation || p != d.period {
		jww.DEBUG.Printf("discarding superseded %s history", p)
		return nil
	}
	d.cancel = nil

	if errors.Is(err, device.ErrNoHistory) {
		jww.WARN.Printf("%s: no history, keeping previous chart", p)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch %s history: %w", p, err)
	}

	d.raw = samples
	d.rawPeriod = p
	d.hasRaw = true
	return d.render()
}

// render must be called with mu held. Raw history fetched for another
// period is never drawn; the previous chart stays until the current
// period's fetch succeeds.
func (d *Dashboard) render() error {
	if !d.hasRaw || d.rawPeriod.FetchPeriod() != d.period.FetchPeriod() {
		return nil
	}

	registry := d.registry
	samples := make([]aggregator.Sample, len(d.raw))
	for i, s := range d.raw {
		s.SensorKey = registry.Canonical(s.SensorKey)
		samples[i] = s
	}

	var adjust func(string, float64) float64
	if d.correct {
		adjust = func(key string, t float64) float64 {
			return t + registry.Correction(key)
		}
	}
	d.buckets = aggregator.AggregateFunc(samples, d.period.Interval(), adjust)

	c := chart.Render(chart.Request{
		Buckets:  d.buckets,
		Selected: registry.Select(d.selection),
		Names:    registry.Names(),
		Period:   d.period,
		View:     d.view,
		Location: d.loc,
		Unit:     d.unit,
	})
	if err := d.surface.Draw(c); err != nil {
		return fmt.Errorf("draw %s chart: %w", d.period, err)
	}
	return nil
}

func (d *Dashboard) Period() aggregator.Period {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.period
}

func (d *Dashboard) View() chart.ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

func (d *Dashboard) Selection() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry.Select(d.selection)
}

func (d *Dashboard) Registry() *sensors.Registry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registry
}

func (d *Dashboard) Unit() units.Unit {
	return d.unit
}

// Chart returns the chart currently on the surface.
func (d *Dashboard) Chart() (chart.Chart, bool) {
	return d.surface.Current()
}

func (d *Dashboard) Buckets() []aggregator.Bucket {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]aggregator.Bucket, len(d.buckets))
	copy(out, d.buckets)
	return out
}

// Latest returns the most recent bucket of the current aggregation.
func (d *Dashboard) Latest() (aggregator.Bucket, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.buckets) == 0 {
		return aggregator.Bucket{}, false
	}
	return d.buckets[len(d.buckets)-1], true
}
