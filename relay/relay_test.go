// Copyright © 2026 The tempchart Authors

package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grifmax/tempchart/aggregator"
	"github.com/grifmax/tempchart/chart"
)

type token struct {
	err error
}

func (t token) Wait() bool                     { return true }
func (t token) WaitTimeout(time.Duration) bool { return true }
func (t token) Error() error                   { return t.err }
func (t token) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	retained bool
	payload  []byte
}

// fakeClient overrides the calls the relay makes; anything else panics.
type fakeClient struct {
	MQTT.Client

	mu         sync.Mutex
	connected  bool
	failures   int
	attempts   int
	publishErr error
	published  map[string]message
}

func (f *fakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeClient) Connect() MQTT.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return token{err: errors.New("connection refused")}
	}
	f.connected = true
	return token{}
}

func (f *fakeClient) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) MQTT.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return token{err: f.publishErr}
	}
	if f.published == nil {
		f.published = make(map[string]message)
	}
	f.published[topic] = message{retained: retained, payload: payload.([]byte)}
	return token{}
}

func testChart() chart.Chart {
	avg := func(v float64) map[string]float64 { return map[string]float64{"A": v} }
	return chart.Render(chart.Request{
		Buckets: []aggregator.Bucket{
			{Start: 0, SensorAverages: avg(20)},
			{Start: 3600, SensorAverages: avg(22)},
		},
		Selected: []string{"A", "B"},
		Names:    map[string]string{"A": "Kitchen"},
		Period:   aggregator.Period24h,
		Location: time.UTC,
	})
}

func TestPublish(t *testing.T) {
	client := &fakeClient{connected: true}
	r := New(client, "home/temps")
	require.True(t, r.Available())

	s := chart.NewSurface(r)
	require.NoError(t, s.Draw(testChart()))

	msg, ok := client.published["home/temps/chart"]
	require.True(t, ok)
	assert.True(t, msg.retained)
	var cfg chart.JSConfig
	require.NoError(t, json.Unmarshal(msg.payload, &cfg))
	assert.Equal(t, "line", cfg.Type)

	msg, ok = client.published["home/temps/bucket"]
	require.True(t, ok)
	var latest Latest
	require.NoError(t, json.Unmarshal(msg.payload, &latest))
	assert.Equal(t, Latest{Start: 3600, Label: "01:00", Values: map[string]float64{"A": 22}}, latest)
}

func TestPublishNoData(t *testing.T) {
	client := &fakeClient{connected: true}
	r := New(client, "")
	require.NoError(t, r.Update(chart.Render(chart.Request{Period: aggregator.Period1h})))
	assert.Contains(t, client.published, DefaultTopic+"/chart")
	assert.NotContains(t, client.published, DefaultTopic+"/bucket")
}

func TestPublishError(t *testing.T) {
	client := &fakeClient{connected: true, publishErr: errors.New("broker gone")}
	s := chart.NewSurface(New(client, "t"))
	assert.Error(t, s.Draw(testChart()))
	assert.Equal(t, chart.StateEmpty, s.State())
}

func TestUnavailableWhileDisconnected(t *testing.T) {
	client := &fakeClient{}
	s := chart.NewSurface(New(client, "t"))
	assert.Equal(t, chart.StateUnavailable, s.State())
	assert.ErrorIs(t, s.Draw(testChart()), chart.ErrUnavailable)
	assert.Empty(t, client.published)
}

func TestConnectBackoff(t *testing.T) {
	initialBackoff = time.Millisecond
	defer func() { initialBackoff = time.Second }()

	client := &fakeClient{failures: 3}
	require.NoError(t, Connect(context.Background(), client))
	assert.Equal(t, 4, client.attempts)
	assert.True(t, client.IsConnected())
}

func TestConnectCancelled(t *testing.T) {
	initialBackoff = time.Millisecond
	defer func() { initialBackoff = time.Second }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeClient{failures: 100}
	assert.ErrorIs(t, Connect(ctx, client), context.Canceled)
	assert.Equal(t, 1, client.attempts)
}

func TestReconnectStopsOnShutdown(t *testing.T) {
	initialBackoff = time.Millisecond
	defer func() { initialBackoff = time.Second }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &fakeClient{failures: 100}

	done := make(chan struct{})
	go func() {
		reconnect(ctx)(client, errors.New("broker gone"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reconnect loop kept running after cancel")
	}
	assert.False(t, client.IsConnected())
}

func TestReconnect(t *testing.T) {
	initialBackoff = time.Millisecond
	defer func() { initialBackoff = time.Second }()

	client := &fakeClient{failures: 2}
	reconnect(context.Background())(client, errors.New("broker gone"))
	assert.True(t, client.IsConnected())
	assert.Equal(t, 3, client.attempts)
}

func TestLatestOf(t *testing.T) {
	_, ok := LatestOf(chart.Chart{})
	assert.False(t, ok)

	c := testChart()
	c.Series[0].Data[1] = nil
	latest, ok := LatestOf(c)
	require.True(t, ok)
	assert.Empty(t, latest.Values, "gap in the last column")
}
