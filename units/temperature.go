// Copyright © 2026 The tempchart Authors

// Package units converts the device's Celsius readings for display.
package units

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownUnit = errors.New("unknown unit")

type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
	Kelvin     Unit = "K"
)

// ParseUnit accepts the short or long unit name in any case. An empty
// string means Celsius.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "celsius":
		return Celsius, nil
	case "f", "fahrenheit":
		return Fahrenheit, nil
	case "k", "kelvin":
		return Kelvin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

func (u Unit) Symbol() string {
	switch u {
	case Fahrenheit:
		return "°F"
	case Kelvin:
		return "K"
	}
	return "°C"
}

// FromCelsius converts a reading; unknown units leave it untouched.
func (u Unit) FromCelsius(c float64) float64 {
	switch u {
	case Fahrenheit:
		return c*1.8 + 32
	case Kelvin:
		return c + 273.15
	}
	return c
}
