// Copyright © 2026 The tempchart Authors

package sensors

import (
	"encoding/json"
	"testing"

	"github.com/guregu/null"
)

func TestKeyPriority(t *testing.T) {
	s := Sensor{Address: "A1", Index: null.IntFrom(0), ID: null.IntFrom(7)}
	key, ok := s.Key()
	if !ok || key.Kind != Address || key.String() != "A1" {
		t.Fatalf("address must win, got %+v", key)
	}

	s.Address = ""
	key, _ = s.Key()
	if key.Kind != Index || key.String() != "0" {
		t.Fatalf("index must win over id, got %+v", key)
	}

	s.Index = null.Int{}
	key, _ = s.Key()
	if key.Kind != ID || key.String() != "7" {
		t.Fatalf("id fallback, got %+v", key)
	}

	if _, ok := (Sensor{}).Key(); ok {
		t.Fatal("sensor without identity has no key")
	}
}

func TestResolvePriority(t *testing.T) {
	r := NewRegistry([]Sensor{
		{Address: "A1", Index: null.IntFrom(0), Name: "kitchen"},
		{ID: null.IntFrom(0), Name: "legacy"},
		{Address: "0", Name: "odd"},
	})

	s, ok := r.Resolve("A1")
	if !ok || s.Name != "kitchen" {
		t.Fatalf("A1 resolved to %+v", s)
	}

	// "0" is an address of one sensor, the index of another and the id of
	// a third: the address match wins.
	s, ok = r.Resolve("0")
	if !ok || s.Name != "odd" {
		t.Fatalf("0 resolved to %+v", s)
	}

	r = NewRegistry([]Sensor{
		{ID: null.IntFrom(0), Name: "legacy"},
		{Address: "A1", Index: null.IntFrom(0), Name: "kitchen"},
	})
	s, _ = r.Resolve("0")
	if s.Name != "kitchen" {
		t.Fatalf("index must win over id, got %+v", s)
	}
	if got := r.Canonical("0"); got != "A1" {
		t.Fatalf("Canonical(0) = %q", got)
	}
	if got := r.Canonical("zz"); got != "zz" {
		t.Fatalf("unresolved keys pass through, got %q", got)
	}
}

func TestResolveEmptyKey(t *testing.T) {
	r := NewRegistry(DefaultSensors())
	if got := r.Canonical(""); got != "1" {
		t.Fatalf("single sensor claims unkeyed records, got %q", got)
	}

	r = NewRegistry([]Sensor{{ID: null.IntFrom(1)}, {ID: null.IntFrom(2)}})
	if _, ok := r.Resolve(""); ok {
		t.Fatal("unkeyed records are ambiguous with several sensors")
	}
}

func TestSelect(t *testing.T) {
	r := NewRegistry([]Sensor{
		{Address: "A1", Name: "a", Enabled: true},
		{Address: "B2", Name: "b", Enabled: false},
		{ID: null.IntFrom(3), Name: "c", Enabled: true},
	})

	got := r.Select(nil)
	if len(got) != 2 || got[0] != "A1" || got[1] != "3" {
		t.Fatalf("empty selection = %v", got)
	}

	got = r.Select([]string{"B2", "A1", "A1"})
	if len(got) != 2 || got[0] != "B2" || got[1] != "A1" {
		t.Fatalf("explicit selection = %v", got)
	}
}

func TestNames(t *testing.T) {
	r := NewRegistry([]Sensor{{Address: "A1", Name: "a"}, {ID: null.IntFrom(4)}})
	names := r.Names()
	if names["A1"] != "a" || names["4"] != "4" {
		t.Fatalf("names = %v", names)
	}
	if r.DisplayName("missing") != "missing" {
		t.Fatal("unknown keys display as themselves")
	}
}

func TestUnmarshalSensors(t *testing.T) {
	js := `{"sensors":[
		{"id":1,"name":"Probe","enabled":true,"correction":-0.5,"mode":"monitoring"},
		{"address":"28FF","index":2,"name":"Tank","enabled":false,"correction":0}
	]}`
	var payload struct {
		Sensors []Sensor `json:"sensors"`
	}
	if err := json.Unmarshal([]byte(js), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Sensors) != 2 {
		t.Fatalf("sensors len: %d", len(payload.Sensors))
	}
	if payload.Sensors[0].Index.Valid || payload.Sensors[0].ID.Int64 != 1 || payload.Sensors[0].Correction != -0.5 {
		t.Fatalf("sensor0 incorrect: %+v", payload.Sensors[0])
	}
	r := NewRegistry(payload.Sensors)
	if r.Correction("1") != -0.5 {
		t.Fatal("correction lookup by id")
	}
	if r.Canonical("2") != "28FF" {
		t.Fatal("index resolves to address")
	}
}
