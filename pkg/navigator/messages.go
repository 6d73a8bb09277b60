package navigator

import (
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tripmap/pkg/trip"
)

// TripsLoadedMsg carries the trip catalog. Catalog refreshes never touch
// the selection, so they carry no generation.
type TripsLoadedMsg struct {
	Trips []trip.Trip
	Err   error
}

// TripLoadedMsg carries a trip and its locations.
type TripLoadedMsg struct {
	Generation uint64
	TripID     int64
	Trip       trip.Trip
	Locations  []trip.Location
	// Reconcile marks a refetch after leaving a location; failure keeps the
	// trip view instead of reverting.
	Reconcile bool
	Err       error
}

// LocationLoadedMsg carries a location enriched with its photos.
type LocationLoadedMsg struct {
	Generation uint64
	LocationID int64
	Location   trip.Location
	Photos     []trip.Photo
	// Photo and Click are set when the fetch came from a map photo click.
	Photo *trip.Photo
	Click uint64
	Err   error
}

// LocationSavedMsg reports the outcome of persisting an edit.
type LocationSavedMsg struct {
	Generation uint64
	Draft      trip.Location
	Location   trip.Location
	Err        error
}

// PhotosUploadedMsg reports photos the upload pipeline accepted for a
// location.
type PhotosUploadedMsg struct {
	Generation uint64
	LocationID int64
	Photos     []trip.Photo
	Err        error
}

func (n *Navigator) fetchTripsCmd() tea.Cmd {
	backend := n.backend
	timeout := n.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		trips, err := backend.Trips(ctx)
		return TripsLoadedMsg{Trips: trips, Err: err}
	}
}

func (n *Navigator) fetchTripCmd(gen uint64, id int64, reconcile bool) tea.Cmd {
	backend := n.backend
	timeout := n.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		t, locations, err := backend.Trip(ctx, id)
		return TripLoadedMsg{Generation: gen, TripID: id, Trip: t, Locations: locations, Reconcile: reconcile, Err: err}
	}
}

func (n *Navigator) fetchLocationCmd(gen, click uint64, id int64, photo *trip.Photo) tea.Cmd {
	backend := n.backend
	timeout := n.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		loc, photos, err := backend.Location(ctx, id)
		return LocationLoadedMsg{Generation: gen, LocationID: id, Location: loc, Photos: photos, Photo: photo, Click: click, Err: err}
	}
}

func (n *Navigator) saveCmd(gen uint64, draft trip.Location) tea.Cmd {
	backend := n.backend
	timeout := n.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		wire := draft.Clone()
		wire.PendingPhotoUploads = nil
		saved, err := backend.UpdateLocation(ctx, wire)
		return LocationSavedMsg{Generation: gen, Draft: draft, Location: saved, Err: err}
	}
}

func (n *Navigator) uploadCmd(gen uint64, locationID int64, pending []trip.PendingPhotoUpload) tea.Cmd {
	uploader := n.uploader
	timeout := n.timeout
	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()
		photos, err := uploader.UploadPhotos(ctx, locationID, pending)
		return PhotosUploadedMsg{Generation: gen, LocationID: locationID, Photos: photos, Err: err}
	}
}
