package store

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/tripmap/pkg/bounds"
)

func TestOverridesStoreLookupDelete(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}

	entries := []bounds.Entry{
		{City: "Paris", Country: "France", Point: bounds.Point{Longitude: 2.35, Latitude: 48.85}},
		{City: "São Paulo", Country: "Brazil", Point: bounds.Point{Longitude: -46.63, Latitude: -23.55}},
		{City: "Tiny Village", Point: bounds.Point{Longitude: 1, Latitude: 2}},
	}
	for _, e := range entries {
		if err := p.Store(e); err != nil {
			t.Fatalf("store %s: %v", e.City, err)
		}
	}

	pt, ok := p.Lookup(" são paulo ", "BRAZIL")
	if !ok || pt.Latitude != -23.55 {
		t.Fatalf("expected override for São Paulo, got %v %v", pt, ok)
	}
	if _, ok := p.Lookup("Tiny Village", ""); !ok {
		t.Fatalf("expected override without country")
	}

	list := p.List(context.Background())
	if len(list) != 3 {
		t.Fatalf("expected 3 overrides, got %d", len(list))
	}

	if err := p.Delete("Paris", "France"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := p.Lookup("Paris", "France"); ok {
		t.Fatalf("expected Paris override removed")
	}
	if err := p.Delete("Paris", "France"); !errors.Is(err, ErrNoOverride) {
		t.Fatalf("expected ErrNoOverride, got %v", err)
	}
	if err := p.Store(bounds.Entry{City: " "}); err == nil {
		t.Fatalf("expected error for blank city")
	}
}

func TestGazetteerPrefersOverrides(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load overrides: %v", err)
	}
	moved := bounds.Point{Longitude: 10, Latitude: 10}
	if err := p.Store(bounds.Entry{City: "Paris", Country: "France", Point: moved}); err != nil {
		t.Fatalf("store: %v", err)
	}

	g := Gazetteer(p)
	if pt, _ := g.Lookup("Paris", "France"); pt != moved {
		t.Fatalf("expected override, got %v", pt)
	}
	if _, ok := g.Lookup("Rome", "Italy"); !ok {
		t.Fatalf("expected built-in entry behind the overrides")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	key := toKey("Kraków", "Poland")
	ev := eventForKey(key)
	if ev.City != "kraków" || ev.Country != "poland" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev := eventForKey(toKey("Nowhere", "")); ev.Country != "" {
		t.Fatalf("expected empty country, got %q", ev.Country)
	}
}
