package api

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"tableflip.dev/tripmap/pkg/aggregate"
	"tableflip.dev/tripmap/pkg/trip"
)

// Memory is an in-process backend used by the demo UI and tests. Like the
// real service it derives trip rating and photo count from locations on
// every read.
type Memory struct {
	mu        sync.Mutex
	userID    int64
	trips     map[int64]trip.Trip
	locations map[int64]trip.Location
	nextID    int64
	latency   time.Duration
	rng       *rand.Rand
}

// MemoryOption configures a Memory backend.
type MemoryOption func(*Memory)

// WithLatency delays every call by up to max, chosen at random so
// responses can arrive out of order.
func WithLatency(max time.Duration, seed int64) MemoryOption {
	return func(m *Memory) {
		m.latency = max
		m.rng = rand.New(rand.NewSource(seed))
	}
}

// WithOwner sets the id used for trips and photos the backend creates.
func WithOwner(userID int64) MemoryOption {
	return func(m *Memory) {
		m.userID = userID
	}
}

// NewMemory returns a backend holding the given records.
func NewMemory(trips []trip.Trip, locations []trip.Location, opts ...MemoryOption) *Memory {
	m := &Memory{
		userID:    1,
		trips:     make(map[int64]trip.Trip, len(trips)),
		locations: make(map[int64]trip.Location, len(locations)),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, t := range trips {
		m.trips[t.ID] = t.Clone()
		m.bump(t.ID)
	}
	for _, l := range locations {
		m.locations[l.ID] = l.Clone()
		m.bump(l.ID)
	}
	return m
}

// Trips implements navigator.Backend.
func (m *Memory) Trips(ctx context.Context) ([]trip.Trip, error) {
	if err := m.wait(ctx); err != nil {
		return nil, fmt.Errorf("api: list trips: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]trip.Trip, 0, len(m.trips))
	for id := range m.trips {
		out = append(out, m.tripLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Trip implements navigator.Backend.
func (m *Memory) Trip(ctx context.Context, id int64) (trip.Trip, []trip.Location, error) {
	if err := m.wait(ctx); err != nil {
		return trip.Trip{}, nil, fmt.Errorf("api: get trip %d: %w", id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return trip.Trip{}, nil, fmt.Errorf("api: get trip %d: %w", id, ErrNotFound)
	}
	return m.tripLocked(id), m.locationsLocked(id), nil
}

// Location implements navigator.Backend.
func (m *Memory) Location(ctx context.Context, id int64) (trip.Location, []trip.Photo, error) {
	if err := m.wait(ctx); err != nil {
		return trip.Location{}, nil, fmt.Errorf("api: get location %d: %w", id, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.locations[id]
	if !ok {
		return trip.Location{}, nil, fmt.Errorf("api: get location %d: %w", id, ErrNotFound)
	}
	photos := make([]trip.Photo, 0, len(loc.Photos))
	for _, p := range loc.Photos {
		photos = append(photos, p.Clone())
	}
	loc = loc.Clone()
	loc.Photos = nil
	return loc, photos, nil
}

// UpdateLocation implements navigator.Backend. Photos are owned by the
// upload pipeline, so the stored ones are kept.
func (m *Memory) UpdateLocation(ctx context.Context, loc trip.Location) (trip.Location, error) {
	if err := m.wait(ctx); err != nil {
		return trip.Location{}, fmt.Errorf("api: update location %d: %w", loc.ID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.locations[loc.ID]
	if !ok {
		return trip.Location{}, fmt.Errorf("api: update location %d: %w", loc.ID, ErrNotFound)
	}
	next := loc.Normalize()
	next.Photos = stored.Photos
	next.PendingPhotoUploads = nil
	m.locations[loc.ID] = next
	return next.Clone(), nil
}

// CreateLocation stores a new location in tripID and turns the pending
// uploads targeting it into photos. It stands in for the upload pipeline
// when running without a server.
func (m *Memory) CreateLocation(ctx context.Context, loc trip.Location, pending []trip.PendingPhotoUpload) (trip.Location, error) {
	if err := m.wait(ctx); err != nil {
		return trip.Location{}, fmt.Errorf("api: create location: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[loc.TripID]; !ok {
		return trip.Location{}, fmt.Errorf("api: create location in trip %d: %w", loc.TripID, ErrNotFound)
	}
	m.nextID++
	next := loc.Normalize()
	next.ID = m.nextID
	next.PendingPhotoUploads = nil
	m.attachLocked(&next, pending)
	m.locations[next.ID] = next
	return next.Clone(), nil
}

// UploadPhotos implements navigator.Uploader. Uploads without their own
// coordinates take the location's, and the first photo becomes the cover
// when the location has none.
func (m *Memory) UploadPhotos(ctx context.Context, locationID int64, pending []trip.PendingPhotoUpload) ([]trip.Photo, error) {
	if err := m.wait(ctx); err != nil {
		return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.locations[locationID]
	if !ok {
		return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, ErrNotFound)
	}
	created := m.attachLocked(&loc, pending)
	m.locations[locationID] = loc
	out := make([]trip.Photo, 0, len(created))
	for _, p := range created {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *Memory) attachLocked(loc *trip.Location, pending []trip.PendingPhotoUpload) []trip.Photo {
	hasCover := false
	for _, p := range loc.Photos {
		hasCover = hasCover || p.IsCoverPhoto
	}
	var created []trip.Photo
	for _, p := range pending {
		if !p.Targets(loc.ID) {
			continue
		}
		m.nextID++
		photo := trip.Photo{
			ID:               m.nextID,
			LocationID:       trip.ID(loc.ID),
			UserID:           m.userID,
			FileURL:          "memory://photos/" + uuid.NewString(),
			OriginalFilename: p.File,
			X:                p.X,
			Y:                p.Y,
			TakenAt:          time.Now().Unix(),
			TripID:           loc.TripID,
			LocationName:     loc.Name,
		}
		if photo.X == nil || photo.Y == nil {
			photo.X, photo.Y = loc.X, loc.Y
		}
		if !hasCover {
			photo.IsCoverPhoto = true
			hasCover = true
		}
		photo = photo.Clone()
		created = append(created, photo)
		loc.Photos = append(loc.Photos, photo)
	}
	return created
}

func (m *Memory) tripLocked(id int64) trip.Trip {
	return aggregate.Apply(m.trips[id], aggregate.Recalculate(m.locationsLocked(id)))
}

func (m *Memory) locationsLocked(tripID int64) []trip.Location {
	var out []trip.Location
	for _, l := range m.locations {
		if l.TripID == tripID {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) bump(id int64) {
	if id > m.nextID {
		m.nextID = id
	}
}

func (m *Memory) wait(ctx context.Context) error {
	m.mu.Lock()
	var d time.Duration
	if m.latency > 0 && m.rng != nil {
		d = time.Duration(m.rng.Int63n(int64(m.latency)))
	}
	m.mu.Unlock()
	if d == 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNetworkFailure, ctx.Err())
	case <-timer.C:
		return nil
	}
}
