package navigator

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"tableflip.dev/tripmap/pkg/aggregate"
	"tableflip.dev/tripmap/pkg/trip"
)

// Init loads the trip catalog.
func (n *Navigator) Init() tea.Cmd {
	return n.RefreshTrips()
}

// RefreshTrips reloads the trip catalog.
func (n *Navigator) RefreshTrips() tea.Cmd {
	if n.backend == nil {
		return nil
	}
	return n.fetchTripsCmd()
}

// OpenTripList moves from Home to the trip list.
func (n *Navigator) OpenTripList() tea.Cmd {
	if n.cur.view != Home {
		return nil
	}
	n.cur.view = TripList
	return nil
}

// SelectTrip opens t and fetches its locations. It is accepted from the
// home and trip list views and from another trip. If the fetch fails the
// previous view is restored.
func (n *Navigator) SelectTrip(t trip.Trip) tea.Cmd {
	switch n.cur.view {
	case Home, TripList, TripDetail:
	default:
		return nil
	}
	gen := n.advance(true)
	selected := t.Clone()
	n.cur = selection{view: TripDetail, trip: &selected}
	n.logger.Debug("select trip", zap.Int64("trip", t.ID), zap.Uint64("generation", gen))
	return n.fetchTripCmd(gen, t.ID, false)
}

// SelectLocation opens loc from the trip view and fetches its photos.
func (n *Navigator) SelectLocation(loc trip.Location) tea.Cmd {
	if n.cur.view != TripDetail {
		return nil
	}
	gen := n.advance(true)
	selected := loc.Clone()
	n.cur.view = LocationDetail
	n.cur.location = &selected
	n.cur.editing = false
	n.cur.draft = nil
	n.logger.Debug("select location", zap.Int64("location", loc.ID), zap.Uint64("generation", gen))
	return n.fetchLocationCmd(gen, 0, loc.ID, nil)
}

// PhotoClicked opens the location a map photo belongs to. Nothing changes
// until the location has been fetched: the click is tagged with the current
// generation and its own click number, and only the result of the latest
// click replaces the selection. Photos without a location are ignored.
func (n *Navigator) PhotoClicked(photo trip.Photo) tea.Cmd {
	id, ok := photo.Location()
	if !ok {
		n.logger.Debug("ignoring photo without location", zap.Int64("photo", photo.ID))
		return nil
	}
	n.clicks++
	p := photo.Clone()
	return n.fetchLocationCmd(n.generation, n.clicks, id, &p)
}

// RequestEdit switches the location view into edit mode.
func (n *Navigator) RequestEdit() tea.Cmd {
	if n.cur.view != LocationDetail || n.cur.editing || n.cur.location == nil {
		return nil
	}
	if !n.CanEdit(n.userID) {
		n.logger.Debug("edit not permitted", zap.Int64("location", n.cur.location.ID))
		return nil
	}
	draft := n.cur.location.Clone()
	n.cur.editing = true
	n.cur.draft = &draft
	return nil
}

// Cancel discards the draft.
func (n *Navigator) Cancel() tea.Cmd {
	if !n.cur.editing {
		return nil
	}
	n.cur.editing = false
	n.cur.draft = nil
	return nil
}

// Save validates edited and persists it. Validation failures are reported
// without contacting the backend and keep the edit view open.
func (n *Navigator) Save(edited trip.Location) tea.Cmd {
	if n.cur.view != LocationDetail || !n.cur.editing || n.saving {
		return nil
	}
	draft := edited.Normalize()
	n.cur.draft = &draft
	if err := draft.Validate(); err != nil {
		n.fail("save location", err, zap.Int64("location", draft.ID))
		return nil
	}
	n.lastErr = nil
	n.saving = true
	return n.saveCmd(n.generation, draft)
}

// Back leaves the current view. It is ignored while editing.
func (n *Navigator) Back() tea.Cmd {
	switch n.cur.view {
	case LocationDetail:
		if n.cur.editing {
			return nil
		}
		if n.cur.trip == nil {
			n.advance(false)
			n.cur = selection{view: Home}
			return nil
		}
		gen := n.advance(false)
		n.cur = selection{view: TripDetail, trip: n.cur.trip}
		return n.fetchTripCmd(gen, n.cur.trip.ID, true)
	case TripDetail:
		n.advance(false)
		n.cur = selection{view: TripList}
	case TripList, Friends:
		n.advance(false)
		n.cur = selection{view: Home}
	}
	return nil
}

// Navigate switches to a top level view, clearing any selection.
func (n *Navigator) Navigate(v View) tea.Cmd {
	switch v {
	case Home, TripList, Friends:
	default:
		return nil
	}
	n.advance(false)
	n.cur = selection{view: v}
	return nil
}

// Update applies a fetch result. Results from superseded transitions are
// dropped.
func (n *Navigator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case TripsLoadedMsg:
		n.tripsLoaded(msg)
	case TripLoadedMsg:
		n.tripLoaded(msg)
	case LocationLoadedMsg:
		n.locationLoaded(msg)
	case LocationSavedMsg:
		return n.locationSaved(msg)
	case PhotosUploadedMsg:
		n.photosUploaded(msg)
	case UploadEvent:
		return n.UploadCompleted(msg)
	}
	return nil
}

func (n *Navigator) tripsLoaded(msg TripsLoadedMsg) {
	if msg.Err != nil {
		n.fail("load trips", msg.Err)
		return
	}
	n.trips.Upsert(msg.Trips...)
}

func (n *Navigator) tripLoaded(msg TripLoadedMsg) {
	if n.stale(msg.Generation, "trip") {
		return
	}
	if msg.Err != nil {
		n.fail("load trip", msg.Err, zap.Int64("trip", msg.TripID))
		if !msg.Reconcile {
			n.restore()
		}
		return
	}
	n.rollback = nil
	n.trips.Upsert(msg.Trip)
	n.locations.Upsert(msg.Locations...)

	selected := msg.Trip.Clone()
	n.cur.trip = &selected
	n.recalculate(selected.ID)
	n.setFocus(n.calc.Compute(trip.Points(msg.Locations), selected.Place()))
}

func (n *Navigator) locationLoaded(msg LocationLoadedMsg) {
	if msg.Photo != nil {
		n.photoLocationLoaded(msg)
		return
	}
	if n.stale(msg.Generation, "location") {
		return
	}
	if msg.Err != nil {
		n.fail("load location", msg.Err, zap.Int64("location", msg.LocationID))
		n.restore()
		return
	}
	n.rollback = nil
	enriched := n.storeEnriched(msg)
	n.cur.location = &enriched
	n.cur.editing = false
	n.cur.draft = nil
}

// photoLocationLoaded applies the fetch started by a map photo click. A
// failure leaves the current view as it was.
func (n *Navigator) photoLocationLoaded(msg LocationLoadedMsg) {
	if n.stale(msg.Generation, "photo location") {
		return
	}
	if msg.Click != n.clicks {
		n.logger.Debug("discarding superseded photo click",
			zap.Uint64("click", msg.Click), zap.Uint64("current", n.clicks))
		return
	}
	if msg.Err != nil {
		n.fail("load photo location", msg.Err, zap.Int64("location", msg.LocationID))
		return
	}
	gen := n.advance(false)
	enriched := n.storeEnriched(msg)

	ctx := n.cur.trip
	if ctx != nil && ctx.ID != enriched.TripID {
		ctx = nil
	}
	n.cur = selection{
		view:        LocationDetail,
		trip:        ctx,
		location:    &enriched,
		sharedOwner: msg.Photo.Owner(),
		viaPhoto:    true,
	}
	n.logger.Debug("open photo location", zap.Int64("location", enriched.ID), zap.Uint64("generation", gen))
}

// storeEnriched upserts the fetched location with its photos and rederives
// the stats of its trip.
func (n *Navigator) storeEnriched(msg LocationLoadedMsg) trip.Location {
	enriched := msg.Location.Clone()
	enriched.Photos = append([]trip.Photo(nil), msg.Photos...)
	n.locations.Upsert(enriched)
	n.recalculate(enriched.TripID)
	return enriched
}

func (n *Navigator) locationSaved(msg LocationSavedMsg) tea.Cmd {
	if n.stale(msg.Generation, "save") {
		return nil
	}
	n.saving = false
	if msg.Err != nil {
		n.fail("save location", msg.Err, zap.Int64("location", msg.Draft.ID))
		return nil
	}
	saved := msg.Location.Clone()
	if saved.Photos == nil {
		saved.Photos = msg.Draft.Clone().Photos
	}
	saved.PendingPhotoUploads = nil
	n.locations.Upsert(saved)
	n.recalculate(saved.TripID)

	n.cur.location = &saved
	n.cur.editing = false
	n.cur.draft = nil
	n.logger.Info("location saved", zap.Int64("location", saved.ID), zap.Int64("trip", saved.TripID))

	var pending []trip.PendingPhotoUpload
	for _, p := range msg.Draft.PendingPhotoUploads {
		if p.Targets(saved.ID) {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	if n.uploader == nil {
		n.logger.Warn("no uploader configured, dropping pending photos",
			zap.Int64("location", saved.ID), zap.Int("count", len(pending)))
		return nil
	}
	return n.uploadCmd(n.generation, saved.ID, pending)
}

func (n *Navigator) photosUploaded(msg PhotosUploadedMsg) {
	if n.stale(msg.Generation, "upload") {
		return
	}
	if msg.Err != nil {
		n.fail("upload photos", msg.Err, zap.Int64("location", msg.LocationID))
		return
	}
	loc, ok := n.locations.Get(msg.LocationID)
	if !ok {
		return
	}
	loc.Photos = mergePhotos(loc.Photos, msg.Photos)
	n.locations.Upsert(loc)
	n.recalculate(loc.TripID)
	if n.cur.location != nil && n.cur.location.ID == loc.ID {
		n.cur.location = &loc
	}
}

// recalculate rederives the stats of tripID from the stored locations.
func (n *Navigator) recalculate(tripID int64) {
	t, ok := n.trips.Get(tripID)
	if !ok {
		return
	}
	updated := aggregate.Apply(t, aggregate.ForTrip(n.locations, tripID))
	n.trips.Upsert(updated)
	if n.cur.trip != nil && n.cur.trip.ID == tripID {
		n.cur.trip = &updated
	}
}

func mergePhotos(current, incoming []trip.Photo) []trip.Photo {
	seen := make(map[int64]int, len(current))
	out := make([]trip.Photo, 0, len(current)+len(incoming))
	for _, p := range current {
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	for _, p := range incoming {
		if idx, ok := seen[p.ID]; ok {
			out[idx] = p
			continue
		}
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
