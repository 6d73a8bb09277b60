package entitystore

import (
	"sync"
	"testing"
)

type record struct {
	ID   int64
	Name string
	Tags []string
}

func (r record) RecordID() int64 { return r.ID }

func (r record) Clone() record {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}

func names(records []record) string {
	out := ""
	for _, r := range records {
		if out != "" {
			out += ","
		}
		out += r.Name
	}
	return out
}

func TestUpsertIsIdempotent(t *testing.T) {
	current := []record{{ID: 1, Name: "a"}}
	incoming := []record{{ID: 1, Name: "b"}, {ID: 2, Name: "c"}}

	once := Upsert(current, incoming)
	twice := Upsert(once, incoming)
	if names(once) != names(twice) {
		t.Fatalf("upsert not idempotent: %q vs %q", names(once), names(twice))
	}
	if names(once) != "b,c" {
		t.Fatalf("unexpected merge %q", names(once))
	}
}

func TestUpsertKeepsRecordsAbsentFromIncoming(t *testing.T) {
	current := []record{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	merged := Upsert(current, []record{{ID: 3, Name: "c"}})
	if names(merged) != "a,b,c" {
		t.Fatalf("expected merge completeness, got %q", names(merged))
	}
}

func TestUpsertCommutesAcrossDisjointBatches(t *testing.T) {
	x := []record{{ID: 1, Name: "a"}, {ID: 4, Name: "d"}}
	y := []record{{ID: 2, Name: "b"}, {ID: 3, Name: "c"}}
	xy := Upsert(Upsert(nil, x), y)
	yx := Upsert(Upsert(nil, y), x)
	if names(xy) != names(yx) || names(xy) != "a,b,c,d" {
		t.Fatalf("expected same result in either order, got %q and %q", names(xy), names(yx))
	}
}

func TestUpsertLastDuplicateWins(t *testing.T) {
	merged := Upsert(nil, []record{{ID: 1, Name: "first"}, {ID: 1, Name: "last"}})
	if names(merged) != "last" {
		t.Fatalf("expected last duplicate to win, got %q", names(merged))
	}
}

func TestUpsertDoesNotAliasInputs(t *testing.T) {
	current := []record{{ID: 1, Name: "a", Tags: []string{"x"}}}
	merged := Upsert(current, nil)
	merged[0].Tags[0] = "changed"
	if current[0].Tags[0] != "x" {
		t.Fatalf("merge result aliases input")
	}
}

func TestStoreUpsertEmitsChanges(t *testing.T) {
	s := New[record](8)

	changes := s.Upsert(record{ID: 1, Name: "a"}, record{ID: 2, Name: "b"})
	if len(changes) != 2 || changes[0].Action != ActionCreate {
		t.Fatalf("expected two creates, got %+v", changes)
	}

	changes = s.Upsert(record{ID: 1, Name: "a"})
	if len(changes) != 0 {
		t.Fatalf("re-applying identical record should not change anything, got %+v", changes)
	}

	changes = s.Upsert(record{ID: 1, Name: "z"})
	if len(changes) != 1 || changes[0].Action != ActionUpdate {
		t.Fatalf("expected one update, got %+v", changes)
	}
	if changes[0].Previous == nil || changes[0].Previous.Name != "a" {
		t.Fatalf("expected previous record on update, got %+v", changes[0].Previous)
	}

	var got []Action
	for len(s.Events()) > 0 {
		got = append(got, (<-s.Events()).Action)
	}
	if len(got) != 3 || got[2] != ActionUpdate {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestStoreReadsReturnClones(t *testing.T) {
	s := New[record](1)
	s.Upsert(record{ID: 1, Name: "a", Tags: []string{"x"}})

	rec, ok := s.Get(1)
	if !ok {
		t.Fatalf("expected record")
	}
	rec.Tags[0] = "mutated"

	again, _ := s.Get(1)
	if again.Tags[0] != "x" {
		t.Fatalf("store exposed internal state")
	}
	if _, ok := s.Get(99); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestStoreListAndFilterAscending(t *testing.T) {
	s := New[record](0)
	s.Upsert(record{ID: 3, Name: "c"}, record{ID: 1, Name: "a"}, record{ID: 2, Name: "b"})

	if got := names(s.List()); got != "a,b,c" {
		t.Fatalf("expected ascending order, got %q", got)
	}
	odd := s.Filter(func(r record) bool { return r.ID%2 == 1 })
	if got := names(odd); got != "a,c" {
		t.Fatalf("unexpected filter result %q", got)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", s.Len())
	}
}

func TestStoreEventsDropWhenFull(t *testing.T) {
	s := New[record](1)
	s.Upsert(record{ID: 1}, record{ID: 2}, record{ID: 3})
	if len(s.Events()) != 1 {
		t.Fatalf("expected buffered channel to hold one event, got %d", len(s.Events()))
	}
	if s.Len() != 3 {
		t.Fatalf("dropped events must not drop records")
	}
}

func TestStoreConcurrentUpsertsAreAdditive(t *testing.T) {
	s := New[record](1)
	var wg sync.WaitGroup
	for batch := 0; batch < 4; batch++ {
		wg.Add(1)
		go func(base int64) {
			defer wg.Done()
			for i := int64(0); i < 25; i++ {
				s.Upsert(record{ID: base*100 + i})
			}
		}(int64(batch))
	}
	wg.Wait()
	if s.Len() != 100 {
		t.Fatalf("expected 100 records, got %d", s.Len())
	}
}
