// Copyright © 2026 The tempchart Authors

// Package device talks to the temperature monitor's HTTP API.
package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/sensors"
)

const (
	historyPath = "/api/temperature/history"
	sensorsPath = "/api/sensors"
)

// ErrNoHistory means the device answered without a data array.
var ErrNoHistory = errors.New("no history data")

type Client struct {
	resty *resty.Client
}

type Option func(*resty.Client)

func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

func WithRetries(n int) Option {
	return func(c *resty.Client) { c.SetRetryCount(n) }
}

func New(baseURL string, opts ...Option) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)
	for _, opt := range opts {
		opt(r)
	}
	return &Client{resty: r}
}

// History fetches the raw samples backing a chart period. Sub-hour
// periods request the 1h data.
func (c *Client) History(ctx context.Context, period aggregator.Period) ([]aggregator.Sample, error) {
	fetch := period.FetchPeriod()
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParam("period", string(fetch)).
		SetResult(&HistoryResult{}).
		Get(historyPath)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get history: %s", resp.Status())
	}

	result := resp.Result().(*HistoryResult)
	if result.Data == nil {
		return nil, ErrNoHistory
	}
	jww.DEBUG.Printf("history %s: %d records", fetch, len(*result.Data))

	samples := make([]aggregator.Sample, len(*result.Data))
	for i, r := range *result.Data {
		samples[i] = r.Sample()
	}
	return samples, nil
}

func (c *Client) Sensors(ctx context.Context) ([]sensors.Sensor, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&SensorsResult{}).
		Get(sensorsPath)
	if err != nil {
		return nil, fmt.Errorf("get sensors: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get sensors: %s", resp.Status())
	}
	return resp.Result().(*SensorsResult).Sensors, nil
}
