// Copyright © 2026 The tempchart Authors

// Package relay publishes rendered charts to an MQTT broker.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	jww "github.com/spf13/jwalterweatherman"

	"github.com/grifmax/tempchart/chart"
)

const (
	DefaultTopic = "tempchart"

	maxBackoff = 5 * time.Minute
)

var initialBackoff = time.Second

// Latest is the newest column of a chart, published next to the full config.
type Latest struct {
	Start  int64              `json:"bucket_start"`
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

// Relay is a chart.Backend. Charts are published retained so that new
// subscribers get the current state straight away.
type Relay struct {
	client MQTT.Client
	topic  string
}

func New(client MQTT.Client, topic string) *Relay {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Relay{client: client, topic: topic}
}

// NewClient builds a client that reconnects with backoff when the broker
// goes away, until ctx is cancelled. A random suffix keeps several relays
// from kicking each other off the broker.
func NewClient(ctx context.Context, broker, clientID string) MQTT.Client {
	opts := MQTT.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID + "-" + uuid.NewString()).
		SetCleanSession(true)
	opts.AutoReconnect = false
	opts.OnConnectionLost = reconnect(ctx)
	return MQTT.NewClient(opts)
}

func reconnect(ctx context.Context) MQTT.ConnectionLostHandler {
	return func(c MQTT.Client, e error) {
		jww.ERROR.Println("MQTT Connection Lost", e)
		if err := Connect(ctx, c); err != nil {
			jww.INFO.Println("giving up reconnecting:", err)
		}
	}
}

// Connect retries until the client is connected or ctx is done, doubling the
// wait between attempts up to five minutes.
func Connect(ctx context.Context, client MQTT.Client) error {
	timeout := initialBackoff

	for {
		token := client.Connect()
		if token.Wait() && token.Error() == nil {
			return nil
		}
		jww.ERROR.Println(token.Error())
		jww.ERROR.Printf("Waiting %v before reconnecting...", timeout)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(timeout):
		}
		timeout *= 2
		if timeout > maxBackoff {
			timeout = maxBackoff
		}
	}
}

func (r *Relay) Client() MQTT.Client {
	return r.client
}

func (r *Relay) Topic() string {
	return r.topic
}

func (r *Relay) Available() bool {
	return r.client.IsConnected()
}

func (r *Relay) Create(c chart.Chart) error {
	return r.publish(c)
}

func (r *Relay) Update(c chart.Chart) error {
	return r.publish(c)
}

func (r *Relay) Close() {
	r.client.Disconnect(250)
}

func (r *Relay) publish(c chart.Chart) error {
	if err := publishJSON(r.client, r.topic+"/chart", true, c.Config()); err != nil {
		return fmt.Errorf("publish chart: %w", err)
	}
	latest, ok := LatestOf(c)
	if !ok {
		return nil
	}
	if err := publishJSON(r.client, r.topic+"/bucket", true, latest); err != nil {
		return fmt.Errorf("publish latest bucket: %w", err)
	}
	return nil
}

// LatestOf picks the last column of the chart. Series with a gap there are
// left out. It reports false for charts without columns or real series.
func LatestOf(c chart.Chart) (Latest, bool) {
	n := len(c.Starts)
	if n == 0 || !c.HasData() {
		return Latest{}, false
	}
	latest := Latest{
		Start:  c.Starts[n-1],
		Label:  c.Labels[n-1],
		Values: make(map[string]float64),
	}
	for _, s := range c.Series {
		if s.Placeholder || len(s.Data) < n || s.Data[n-1] == nil {
			continue
		}
		latest.Values[s.Key] = *s.Data[n-1]
	}
	return latest, true
}

func publishJSON(client MQTT.Client, topic string, retained bool, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := client.Publish(topic, 0, retained, b)
	token.Wait()
	return token.Error()
}
