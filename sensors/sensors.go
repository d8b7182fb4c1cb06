// Copyright © 2026 The tempchart Authors

package sensors

import (
	"github.com/guregu/null"
)

type Sensor struct {
	Address    string     `json:"address,omitempty"`
	Index      null.Int   `json:"index"`
	ID         null.Int   `json:"id"`
	Name       string     `json:"name"`
	Enabled    bool       `json:"enabled"`
	Correction float64    `json:"correction"`
	Mode       string     `json:"mode,omitempty"`
	Current    null.Float `json:"currentTemp"`
}

// Key returns the sensor's primary identity: address, then index, then id.
func (s Sensor) Key() (Key, bool) {
	switch {
	case s.Address != "":
		return AddressKey(s.Address), true
	case s.Index.Valid:
		return IndexKey(int(s.Index.Int64)), true
	case s.ID.Valid:
		return IDKey(int(s.ID.Int64)), true
	}
	return Key{}, false
}

func (s Sensor) matches(kind KeyKind, raw string) bool {
	switch kind {
	case Address:
		return s.Address != "" && s.Address == raw
	case Index:
		return s.Index.Valid && IndexKey(int(s.Index.Int64)).String() == raw
	case ID:
		return s.ID.Valid && IDKey(int(s.ID.Int64)).String() == raw
	}
	return false
}

// DefaultSensors is what the dashboard shows when the device reports no
// configured sensors.
func DefaultSensors() []Sensor {
	return []Sensor{{
		ID:      null.IntFrom(1),
		Name:    "Sensor 1",
		Enabled: true,
		Mode:    "monitoring",
	}}
}
