// Copyright © 2026 The tempchart Authors

package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grifmax/tempchart/aggregator"
)

func deviceServer(t *testing.T, history string, status int) (*httptest.Server, *string) {
	t.Helper()
	var requested string
	mux := http.NewServeMux()
	mux.HandleFunc(historyPath, func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Query().Get("period")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(history))
	})
	mux.HandleFunc(sensorsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sensors":[{"id":1,"name":"Probe","enabled":true,"correction":0.25}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &requested
}

func TestHistory(t *testing.T) {
	srv, requested := deviceServer(t, `{"data":[
		{"timestamp":100,"sensor_id":1,"temperature":21.5},
		{"timestamp":160,"sensor_address":"28FF","sensor_index":0,"sensor_id":2,"temperature":-127},
		{"timestamp":220,"sensor_index":3,"temperature":null},
		{"timestamp":280}
	],"count":4,"period":"1h"}`, http.StatusOK)

	c := New(srv.URL)
	samples, err := c.History(context.Background(), aggregator.Period5m)
	require.NoError(t, err)
	assert.Equal(t, "1h", *requested, "sub-hour periods fetch the 1h data")

	require.Len(t, samples, 4)
	assert.Equal(t, "1", samples[0].SensorKey)
	assert.True(t, aggregator.Valid(samples[0].Temperature))
	assert.Equal(t, "28FF", samples[1].SensorKey)
	assert.False(t, aggregator.Valid(samples[1].Temperature))
	assert.Equal(t, "3", samples[2].SensorKey)
	assert.False(t, samples[2].Temperature.Valid)
	assert.Equal(t, "", samples[3].SensorKey)

	_, err = c.History(context.Background(), aggregator.Period7d)
	require.NoError(t, err)
	assert.Equal(t, "7d", *requested)
}

func TestHistoryMissingData(t *testing.T) {
	srv, _ := deviceServer(t, `{"count":0}`, http.StatusOK)
	_, err := New(srv.URL).History(context.Background(), aggregator.Period24h)
	assert.True(t, errors.Is(err, ErrNoHistory))

	srv, _ = deviceServer(t, `{"data":null}`, http.StatusOK)
	_, err = New(srv.URL).History(context.Background(), aggregator.Period24h)
	assert.True(t, errors.Is(err, ErrNoHistory))

	srv, _ = deviceServer(t, `{"data":[]}`, http.StatusOK)
	samples, err := New(srv.URL).History(context.Background(), aggregator.Period24h)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestHistoryHTTPError(t *testing.T) {
	srv, _ := deviceServer(t, `{"error":"busy"}`, http.StatusServiceUnavailable)
	_, err := New(srv.URL).History(context.Background(), aggregator.Period24h)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoHistory))
}

func TestHistoryCancelled(t *testing.T) {
	srv, _ := deviceServer(t, `{"data":[]}`, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(srv.URL).History(ctx, aggregator.Period24h)
	assert.Error(t, err)
}

func TestSensors(t *testing.T) {
	srv, _ := deviceServer(t, `{}`, http.StatusOK)
	list, err := New(srv.URL, WithRetries(1)).Sensors(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Probe", list[0].Name)
	assert.Equal(t, 0.25, list[0].Correction)
	key, ok := list[0].Key()
	assert.True(t, ok)
	assert.Equal(t, "1", key.String())
}
