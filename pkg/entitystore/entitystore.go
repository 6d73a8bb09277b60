// Package entitystore keeps normalized records keyed by id. Writes only ever
// merge: a record supplied by one fetch is never lost because another fetch
// resolved first.
package entitystore

import (
	"reflect"
	"sort"
	"sync"

	"github.com/google/btree"
)

// Record is an entity the store can hold.
type Record[T any] interface {
	RecordID() int64
	Clone() T
}

// Action describes how an upsert changed the store.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Change is emitted for each record an upsert created or altered.
type Change[T any] struct {
	Action   Action
	ID       int64
	Current  T
	Previous *T
}

// Upsert merges incoming into current and returns the merged set in ascending
// id order. A record in incoming fully replaces the record sharing its id,
// records absent from incoming are kept, and when incoming repeats an id the
// last one wins. Neither argument is modified.
func Upsert[T Record[T]](current, incoming []T) []T {
	byID := make(map[int64]T, len(current)+len(incoming))
	for _, rec := range current {
		byID[rec.RecordID()] = rec
	}
	for _, rec := range incoming {
		byID[rec.RecordID()] = rec
	}
	out := make([]T, 0, len(byID))
	for _, rec := range byID {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordID() < out[j].RecordID()
	})
	return out
}

// Store is the shared id-keyed collection for one entity type. It is safe
// for concurrent use; reads hand out clones.
type Store[T Record[T]] struct {
	mu      sync.RWMutex
	tree    *btree.BTree
	eventCh chan Change[T]
}

type item[T Record[T]] struct {
	id  int64
	rec T
}

func (i item[T]) Less(than btree.Item) bool {
	return i.id < than.(item[T]).id
}

// New creates an empty store. Change events are buffered up to buffer
// entries and dropped when nobody drains them.
func New[T Record[T]](buffer int) *Store[T] {
	if buffer <= 0 {
		buffer = 64
	}
	return &Store[T]{
		tree:    btree.New(8),
		eventCh: make(chan Change[T], buffer),
	}
}

// Events exposes the change stream.
func (s *Store[T]) Events() <-chan Change[T] {
	return s.eventCh
}

// Upsert merges records into the store and returns the changes it made.
// Re-applying records identical to the stored ones changes nothing.
func (s *Store[T]) Upsert(records ...T) []Change[T] {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var changes []Change[T]
	for _, rec := range records {
		next := item[T]{id: rec.RecordID(), rec: rec.Clone()}
		prev := s.tree.ReplaceOrInsert(next)
		change := Change[T]{ID: next.id, Current: next.rec.Clone()}
		if prev == nil {
			change.Action = ActionCreate
		} else {
			old := prev.(item[T]).rec
			if reflect.DeepEqual(old, next.rec) {
				continue
			}
			change.Action = ActionUpdate
			change.Previous = &old
		}
		changes = append(changes, change)
		s.emit(change)
	}
	return changes
}

// Get returns the record with the given id.
func (s *Store[T]) Get(id int64) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := s.tree.Get(item[T]{id: id})
	if found == nil {
		var zero T
		return zero, false
	}
	return found.(item[T]).rec.Clone(), true
}

// List returns every record in ascending id order.
func (s *Store[T]) List() []T {
	return s.Filter(nil)
}

// Filter returns the records keep accepts, in ascending id order. A nil keep
// accepts everything.
func (s *Store[T]) Filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, s.tree.Len())
	s.tree.Ascend(func(i btree.Item) bool {
		rec := i.(item[T]).rec.Clone()
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
		return true
	})
	return out
}

// Len reports how many records are stored.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}

func (s *Store[T]) emit(change Change[T]) {
	select {
	case s.eventCh <- change:
	default:
	}
}
