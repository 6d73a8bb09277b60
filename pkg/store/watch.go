package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
)

// EventType describes an override change notification.
type EventType int

const (
	// EventOverrideChanged is one city override written or removed.
	EventOverrideChanged EventType = iota
	// EventOverridesInvalidated means the change could not be tied to a
	// single city; reload everything.
	EventOverridesInvalidated
)

// Event is emitted by Overrides.Watch.
type Event struct {
	Type    EventType
	City    string
	Country string
}

const (
	watchBuffer = 64
	watchDelay  = 100 * time.Millisecond
)

// Watch streams change events until ctx is cancelled. Events are dropped
// while the channel is full, so callers should keep draining it. The channel
// closes when ctx is done or the watcher fails.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	w := &dirWatcher{p: p, fs: fw, watched: map[string]bool{}}

	// Overrides live at <base>/<country>/<city>, so two levels cover it.
	countries, err := os.ReadDir(p.basePath)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("store: list %s: %w", p.basePath, err)
	}
	if err := w.add(p.basePath); err != nil {
		_ = fw.Close()
		return nil, err
	}
	for _, c := range countries {
		if !c.IsDir() {
			continue
		}
		if err := w.add(filepath.Join(p.basePath, c.Name())); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	out := make(chan Event, watchBuffer)
	go w.run(ctx, out)
	return out, nil
}

type dirWatcher struct {
	p       *persistence
	fs      *fsnotify.Watcher
	watched map[string]bool
}

func (w *dirWatcher) add(dir string) error {
	dir = filepath.Clean(dir)
	if w.watched[dir] {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("store: watch %s: %w", dir, err)
	}
	w.watched[dir] = true
	return nil
}

func (w *dirWatcher) run(ctx context.Context, out chan<- Event) {
	b := newBatcher(watchDelay, func(ev Event) {
		select {
		case out <- ev:
		default:
		}
	})
	defer close(out)
	defer b.stop()
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			b.add(Event{Type: EventOverridesInvalidated})
		case evt, ok := <-w.fs.Events:
			if !ok {
				return
			}
			b.add(w.classify(evt))
		}
	}
}

// classify turns a filesystem event into an override event, starting to
// watch country directories as they appear.
func (w *dirWatcher) classify(evt fsnotify.Event) Event {
	if evt.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if err := w.add(evt.Name); err != nil {
				return Event{Type: EventOverridesInvalidated}
			}
			// The city file write follows as its own event.
			return Event{Type: EventOverridesInvalidated}
		}
	}
	key, ok := w.p.keyForPath(evt.Name)
	if !ok {
		return Event{Type: EventOverridesInvalidated}
	}
	w.p.bust(key)
	return eventForKey(key)
}

// keyForPath maps a file under the base path back to its diskv key.
func (p *persistence) keyForPath(path string) (string, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil {
		return "", false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || parts[0] == ".." {
		return "", false
	}
	return pathToKeyTransform(&diskv.PathKey{Path: parts[:1], FileName: parts[1]}), true
}

func eventForKey(key string) Event {
	pk := keyToPathTransform(key)
	ev := Event{Type: EventOverrideChanged, City: decodePart(pk.FileName)}
	if len(pk.Path) > 0 {
		ev.Country = decodePart(pk.Path[0])
	}
	return ev
}

// batcher collects events for delay after the first one arrives and then
// hands each distinct event to send once, in arrival order.
type batcher struct {
	delay time.Duration
	send  func(Event)

	mu      sync.Mutex
	timer   *time.Timer
	pending []Event
	seen    map[Event]bool
}

func newBatcher(delay time.Duration, send func(Event)) *batcher {
	return &batcher{delay: delay, send: send, seen: map[Event]bool{}}
}

func (b *batcher) add(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seen[ev] {
		return
	}
	b.seen[ev] = true
	b.pending = append(b.pending, ev)
	if b.timer == nil {
		b.timer = time.AfterFunc(b.delay, b.flush)
	}
}

func (b *batcher) flush() {
	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	b.seen = map[Event]bool{}
	b.timer = nil
	b.mu.Unlock()

	for _, ev := range batch {
		b.send(ev)
	}
}

func (b *batcher) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
