// Copyright © 2026 The tempchart Authors

package cmd

import (
	"fmt"
	"strings"
	"time"

	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/chart"
	"github.com/grifmax/tempchart/dashboard"
	"github.com/grifmax/tempchart/data"
	"github.com/grifmax/tempchart/device"
	"github.com/grifmax/tempchart/units"
)

// sources are the history and sensor list feeding a dashboard.
type sources struct {
	history dashboard.HistorySource
	sensors dashboard.SensorSource
	db      *data.Database
}

func (s *sources) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// openSources picks where history comes from. The sensor list always comes
// from the controller when one is configured.
func openSources(source string) (*sources, error) {
	s := &sources{}

	var client *device.Client
	if url := viper.GetString("device"); url != "" {
		client = newDeviceClient(url)
		s.sensors = client
	}

	switch source {
	case "", "device":
		if client == nil {
			return nil, fmt.Errorf("no device configured")
		}
		s.history = client
	case "database":
		db, err := data.OpenDatabase(viper.GetString("dbDriver"), viper.GetString("database"))
		if err != nil {
			return nil, err
		}
		s.db = db
		s.history = db
	default:
		return nil, fmt.Errorf("unknown history source %q", source)
	}
	jww.DEBUG.Printf("history source: %s", source)
	return s, nil
}

// newDeviceClient applies the deviceTimeout and deviceRetries settings.
func newDeviceClient(url string) *device.Client {
	var opts []device.Option
	if timeout := viper.GetDuration("deviceTimeout"); timeout > 0 {
		opts = append(opts, device.WithTimeout(timeout))
	}
	if retries := viper.GetInt("deviceRetries"); retries > 0 {
		opts = append(opts, device.WithRetries(retries))
	}
	return device.New(url, opts...)
}

func newDashboard(src *sources, surface *chart.Surface, selection []string) (*dashboard.Dashboard, error) {
	period, err := aggregator.ParsePeriod(viper.GetString("period"))
	if err != nil {
		return nil, err
	}
	unit, err := units.ParseUnit(viper.GetString("units.temperature"))
	if err != nil {
		return nil, err
	}
	loc, err := location(viper.GetString("timezone"))
	if err != nil {
		return nil, err
	}

	return dashboard.New(src.history, src.sensors, surface,
		dashboard.WithPeriod(period),
		dashboard.WithUnit(unit),
		dashboard.WithLocation(loc),
		dashboard.WithCorrection(viper.GetBool("correction")),
		dashboard.WithSelection(selection),
	), nil
}

func location(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// parseSensors splits a comma separated sensor list.
func parseSensors(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// refreshInterval reads the refresh setting, either a duration ("30s") or
// plain seconds.
func refreshInterval() time.Duration {
	raw := viper.GetString("refresh")
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs := viper.GetInt("refresh"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	jww.WARN.Printf("invalid refresh interval %q, using 5s", raw)
	return 5 * time.Second
}
