// Package navigator drives the trip browser: which view is active, what is
// selected, and how asynchronous fetch results are merged into the shared
// entity stores without letting a stale response overwrite newer state.
//
// Transitions are methods that return a tea.Cmd performing any fetch they
// need. The resulting messages are fed back through Update. Every transition
// that replaces the selection bumps a generation counter; results tagged
// with an older generation are dropped.
package navigator

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/entitystore"
	"tableflip.dev/tripmap/pkg/trip"
)

// View identifies the active screen.
type View int

const (
	Home View = iota
	TripList
	TripDetail
	LocationDetail
	Friends
)

func (v View) String() string {
	switch v {
	case Home:
		return "home"
	case TripList:
		return "trips"
	case TripDetail:
		return "trip"
	case LocationDetail:
		return "location"
	case Friends:
		return "friends"
	default:
		return "unknown"
	}
}

// Backend is the remote source of trips and locations.
type Backend interface {
	Trips(ctx context.Context) ([]trip.Trip, error)
	Trip(ctx context.Context, id int64) (trip.Trip, []trip.Location, error)
	Location(ctx context.Context, id int64) (trip.Location, []trip.Photo, error)
	UpdateLocation(ctx context.Context, loc trip.Location) (trip.Location, error)
}

// Uploader hands pending photos to the upload pipeline once the location
// they belong to has been saved.
type Uploader interface {
	UploadPhotos(ctx context.Context, locationID int64, pending []trip.PendingPhotoUpload) ([]trip.Photo, error)
}

// Options configures a Navigator.
type Options struct {
	Backend Backend
	// Uploader is optional; without it pending uploads are dropped after save.
	Uploader  Uploader
	Trips     *entitystore.Store[trip.Trip]
	Locations *entitystore.Store[trip.Location]
	Gazetteer bounds.Gazetteer
	// FocusRadius is the half-width in degrees of a city fallback box.
	FocusRadius float64
	// Timeout bounds each backend call. Zero means no limit.
	Timeout time.Duration
	// UserID is the signed in user, used for edit permission.
	UserID int64
	Logger *zap.Logger
}

type selection struct {
	view        View
	trip        *trip.Trip
	location    *trip.Location
	editing     bool
	draft       *trip.Location
	sharedOwner string
	viaPhoto    bool
}

func (s selection) clone() selection {
	out := s
	if s.trip != nil {
		t := s.trip.Clone()
		out.trip = &t
	}
	if s.location != nil {
		l := s.location.Clone()
		out.location = &l
	}
	if s.draft != nil {
		d := s.draft.Clone()
		out.draft = &d
	}
	return out
}

// Navigator is the view state machine. It is not safe for concurrent use;
// it belongs to a single update loop. The entity stores it writes to may be
// shared with other readers.
type Navigator struct {
	backend   Backend
	uploader  Uploader
	trips     *entitystore.Store[trip.Trip]
	locations *entitystore.Store[trip.Location]
	calc      bounds.Calculator
	timeout   time.Duration
	userID    int64
	logger    *zap.Logger

	cur        selection
	rollback   *selection
	generation uint64
	clicks     uint64
	saving     bool

	focus    bounds.Bounds
	hasFocus bool
	lastErr  error
}

// New creates a navigator in the Home view.
func New(opts Options) *Navigator {
	n := &Navigator{
		backend:   opts.Backend,
		uploader:  opts.Uploader,
		trips:     opts.Trips,
		locations: opts.Locations,
		calc:      bounds.Calculator{Gazetteer: opts.Gazetteer, Radius: opts.FocusRadius},
		timeout:   opts.Timeout,
		userID:    opts.UserID,
		logger:    opts.Logger,
		cur:       selection{view: Home},
	}
	if n.trips == nil {
		n.trips = entitystore.New[trip.Trip](0)
	}
	if n.locations == nil {
		n.locations = entitystore.New[trip.Location](0)
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// View returns the active screen.
func (n *Navigator) View() View { return n.cur.view }

// Generation returns the tag of the most recent selection-replacing
// transition.
func (n *Navigator) Generation() uint64 { return n.generation }

// SelectedTrip returns the trip context, reflecting the latest stored copy.
func (n *Navigator) SelectedTrip() (trip.Trip, bool) {
	if n.cur.trip == nil {
		return trip.Trip{}, false
	}
	if stored, ok := n.trips.Get(n.cur.trip.ID); ok {
		return stored, true
	}
	return n.cur.trip.Clone(), true
}

// SelectedLocation returns the location being shown.
func (n *Navigator) SelectedLocation() (trip.Location, bool) {
	if n.cur.location == nil {
		return trip.Location{}, false
	}
	return n.cur.location.Clone(), true
}

// Editing reports whether the location view is in edit mode.
func (n *Navigator) Editing() bool { return n.cur.editing }

// Saving reports whether a save is in flight.
func (n *Navigator) Saving() bool { return n.saving }

// Draft returns the working copy while editing.
func (n *Navigator) Draft() (trip.Location, bool) {
	if !n.cur.editing || n.cur.draft == nil {
		return trip.Location{}, false
	}
	return n.cur.draft.Clone(), true
}

// Focus returns the region the map should show, if one has been computed.
func (n *Navigator) Focus() (bounds.Bounds, bool) { return n.focus, n.hasFocus }

// LastError returns the most recent failure, cleared by the next
// transition.
func (n *Navigator) LastError() error { return n.lastErr }

// SharedOwner names the owner of a shared photo the location was opened
// from.
func (n *Navigator) SharedOwner() string { return n.cur.sharedOwner }

// CanEdit reports whether userID may edit the selected location. With a
// trip context only the trip's owner may edit; otherwise anything not
// reached through someone else's photo is editable.
func (n *Navigator) CanEdit(userID int64) bool {
	if n.cur.location == nil {
		return false
	}
	if t, ok := n.SelectedTrip(); ok {
		if t.UserID == 0 {
			return !t.Shared()
		}
		return t.UserID == userID
	}
	return n.cur.sharedOwner == ""
}

// Trips lists stored trips, newest first.
func (n *Navigator) Trips() []trip.Trip {
	trips := n.trips.List()
	sort.SliceStable(trips, func(i, j int) bool {
		a, b := trips[i].StartDate, trips[j].StartDate
		if !a.Equal(b.Time) {
			return a.After(b.Time)
		}
		return trips[i].ID > trips[j].ID
	})
	return trips
}

// TripLocations lists the stored locations of tripID in id order.
func (n *Navigator) TripLocations(tripID int64) []trip.Location {
	return n.locations.Filter(func(l trip.Location) bool {
		return l.TripID == tripID
	})
}

// Store returns the trip and location stores backing the navigator.
func (n *Navigator) Store() (*entitystore.Store[trip.Trip], *entitystore.Store[trip.Location]) {
	return n.trips, n.locations
}

// advance starts a selection-replacing transition. When revertible, the
// current state is kept so a failed fetch can restore it.
func (n *Navigator) advance(revertible bool) uint64 {
	n.generation++
	n.lastErr = nil
	n.saving = false
	n.rollback = nil
	if revertible {
		prev := n.cur.clone()
		n.rollback = &prev
	}
	return n.generation
}

func (n *Navigator) stale(gen uint64, kind string) bool {
	if gen == n.generation {
		return false
	}
	n.logger.Debug("discarding stale result",
		zap.String("kind", kind),
		zap.Uint64("generation", gen),
		zap.Uint64("current", n.generation))
	return true
}

func (n *Navigator) fail(kind string, err error, fields ...zap.Field) {
	n.lastErr = err
	n.logger.Warn(kind+" failed", append(fields, zap.Error(err))...)
}

func (n *Navigator) restore() {
	if n.rollback == nil {
		return
	}
	n.cur = *n.rollback
	n.rollback = nil
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func (n *Navigator) setFocus(b bounds.Bounds, ok bool) {
	if !ok {
		return
	}
	n.focus = b
	n.hasFocus = true
}
