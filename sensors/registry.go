// Copyright © 2026 The tempchart Authors

package sensors

// Registry resolves the inconsistent keys found in stored history to the
// configured sensors. Lookups try every sensor's address before any index,
// and any index before any id.
type Registry struct {
	sensors []Sensor
}

func NewRegistry(list []Sensor) *Registry {
	r := &Registry{sensors: make([]Sensor, len(list))}
	copy(r.sensors, list)
	return r
}

func (r *Registry) Sensors() []Sensor {
	out := make([]Sensor, len(r.sensors))
	copy(out, r.sensors)
	return out
}

func (r *Registry) Len() int {
	return len(r.sensors)
}

func (r *Registry) Resolve(raw string) (Sensor, bool) {
	if raw == "" {
		if len(r.sensors) == 1 {
			return r.sensors[0], true
		}
		return Sensor{}, false
	}
	for _, kind := range []KeyKind{Address, Index, ID} {
		for _, s := range r.sensors {
			if s.matches(kind, raw) {
				return s, true
			}
		}
	}
	return Sensor{}, false
}

// Canonical maps a raw key to the primary key of the sensor it resolves to.
// Unresolved keys are returned unchanged.
func (r *Registry) Canonical(raw string) string {
	s, ok := r.Resolve(raw)
	if !ok {
		return raw
	}
	if key, ok := s.Key(); ok {
		return key.String()
	}
	return raw
}

func (r *Registry) Enabled() []Sensor {
	var out []Sensor
	for _, s := range r.sensors {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) DisplayName(key string) string {
	if s, ok := r.Resolve(key); ok && s.Name != "" {
		return s.Name
	}
	return key
}

func (r *Registry) Correction(key string) float64 {
	if s, ok := r.Resolve(key); ok {
		return s.Correction
	}
	return 0
}

// Names maps the primary key of every configured sensor to its display name.
func (r *Registry) Names() map[string]string {
	names := make(map[string]string, len(r.sensors))
	for _, s := range r.sensors {
		key, ok := s.Key()
		if !ok {
			continue
		}
		if s.Name != "" {
			names[key.String()] = s.Name
		} else {
			names[key.String()] = key.String()
		}
	}
	return names
}

// Select canonicalises a chart selection. An empty selection means every
// enabled sensor.
func (r *Registry) Select(keys []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(key string) {
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, key)
	}
	if len(keys) == 0 {
		for _, s := range r.Enabled() {
			if key, ok := s.Key(); ok {
				add(key.String())
			}
		}
		return out
	}
	for _, k := range keys {
		add(r.Canonical(k))
	}
	return out
}
