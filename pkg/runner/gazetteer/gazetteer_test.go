package gazetteer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/printers"
	"tableflip.dev/tripmap/pkg/store"
)

// fakeOverrides keeps overrides in memory.
type fakeOverrides struct {
	mu    sync.Mutex
	table bounds.Table
}

func newFake() *fakeOverrides { return &fakeOverrides{table: bounds.NewTable()} }

func (f *fakeOverrides) Lookup(city, country string) (bounds.Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.table.Lookup(city, country)
}

func (f *fakeOverrides) List(context.Context) []bounds.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.table.Entries()
}

func (f *fakeOverrides) Store(e bounds.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table.Add(e)
	return nil
}

func (f *fakeOverrides) Delete(city, country string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := bounds.Key(city, country)
	if _, ok := f.table[key]; !ok {
		return store.ErrNoOverride
	}
	delete(f.table, key)
	return nil
}

func (f *fakeOverrides) Watch(context.Context) (<-chan store.Event, error) {
	return nil, errors.New("not supported")
}

func TestAddListRemove(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	g := Gazetteer{Overrides: newFake(), Format: printers.FormatJSON, Out: &buf}

	porto := bounds.Entry{City: "Porto", Country: "Portugal", Point: bounds.Point{Longitude: -8.6291, Latitude: 41.1579}}
	if err := g.Add(ctx, porto); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.List(ctx, false); err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []bounds.Entry
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].City != "Porto" {
		t.Fatalf("unexpected entries %+v", got)
	}

	if err := g.Remove(ctx, "Porto", "Portugal"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := g.Remove(ctx, "Porto", "Portugal"); !errors.Is(err, store.ErrNoOverride) {
		t.Fatalf("expected ErrNoOverride, got %v", err)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	g := Gazetteer{Overrides: newFake()}
	if err := g.Add(context.Background(), bounds.Entry{Country: "Nowhere"}); err == nil {
		t.Errorf("expected missing city to fail")
	}
	if err := g.Add(context.Background(), bounds.Entry{City: "X", Point: bounds.Point{Longitude: 200}}); err == nil {
		t.Errorf("expected out of range longitude to fail")
	}
}

func TestLookupPrefersOverride(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	_ = fake.Store(bounds.Entry{City: "Paris", Country: "France", Point: bounds.Point{Longitude: 1, Latitude: 2}})

	var buf bytes.Buffer
	g := Gazetteer{Overrides: fake, Format: printers.FormatJSON, Out: &buf}
	if err := g.Lookup(ctx, "paris", "france", 0.1); err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	var got struct {
		Point bounds.Point `json:"point"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Point.Longitude-1) > 1e-9 || math.Abs(got.Point.Latitude-2) > 1e-9 {
		t.Fatalf("expected override coordinate, got %+v", got.Point)
	}

	if err := g.Lookup(ctx, "Atlantis", "", 0.1); err == nil {
		t.Fatalf("expected unknown city to fail")
	}
}

func TestListBuiltin(t *testing.T) {
	var buf bytes.Buffer
	g := Gazetteer{Out: &buf}
	if err := g.List(context.Background(), true); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(buf.String(), "Built-in") || !strings.Contains(buf.String(), "Paris") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
