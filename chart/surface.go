// Copyright © 2026 The tempchart Authors

package chart

import (
	"errors"
	"fmt"
	"sync"
)

// UnavailableText is shown in place of a chart when no backend can draw.
const UnavailableText = "chart unavailable"

var ErrUnavailable = errors.New(UnavailableText)

// Backend draws charts. Create is called once, every later draw is an
// Update of the same chart.
type Backend interface {
	Available() bool
	Create(Chart) error
	Update(Chart) error
}

type State int

const (
	StateEmpty State = iota
	StateRendered
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateRendered:
		return "rendered"
	case StateUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Surface is the rendering state machine. Once rendered it never goes back
// to empty: failed draws leave the previous chart in place.
type Surface struct {
	mu       sync.Mutex
	backend  Backend
	rendered bool
	current  Chart
}

func NewSurface(backend Backend) *Surface {
	return &Surface{backend: backend}
}

func (s *Surface) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available()
}

func (s *Surface) available() bool {
	return s.backend != nil && s.backend.Available()
}

func (s *Surface) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.available() {
		return StateUnavailable
	}
	if s.rendered {
		return StateRendered
	}
	return StateEmpty
}

// Current returns the last successfully drawn chart.
func (s *Surface) Current() (Chart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.rendered
}

func (s *Surface) Draw(c Chart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.available() {
		return ErrUnavailable
	}
	if len(c.Series) == 0 {
		return nil
	}

	if s.rendered {
		if err := s.backend.Update(c); err != nil {
			return fmt.Errorf("update chart: %w", err)
		}
	} else {
		if err := s.backend.Create(c); err != nil {
			return fmt.Errorf("create chart: %w", err)
		}
		s.rendered = true
	}
	s.current = c
	return nil
}

// MemoryBackend keeps the last drawn chart for serving over HTTP.
type MemoryBackend struct {
	mu      sync.RWMutex
	chart   Chart
	updates int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Available() bool { return true }

func (m *MemoryBackend) Create(c Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chart = c
	return nil
}

func (m *MemoryBackend) Update(c Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chart = c
	m.updates++
	return nil
}

func (m *MemoryBackend) Chart() Chart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chart
}

func (m *MemoryBackend) Updates() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updates
}

// Multi draws to several backends. It is available when any of them is;
// unavailable members are skipped.
type Multi []Backend

func (m Multi) Available() bool {
	for _, b := range m {
		if b.Available() {
			return true
		}
	}
	return false
}

func (m Multi) Create(c Chart) error {
	return m.each(func(b Backend) error { return b.Create(c) })
}

func (m Multi) Update(c Chart) error {
	return m.each(func(b Backend) error { return b.Update(c) })
}

func (m Multi) each(f func(Backend) error) error {
	var errs []error
	for _, b := range m {
		if !b.Available() {
			continue
		}
		if err := f(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
