package navigator

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"tableflip.dev/tripmap/pkg/trip"
)

// UploadEvent is delivered by the upload pipeline once new locations (and
// possibly a new trip) exist on the backend. Pending holds the photos the
// user picked that still have to be sent once the location is saved.
type UploadEvent struct {
	Trip      *trip.Trip
	Locations []trip.Location
	Pending   []trip.PendingPhotoUpload
}

// UploadCompleted merges the uploaded records, rederives trip stats and,
// when the trip is known, opens the first new location for editing with
// its pending photos attached. Only that last step replaces the selection,
// so an event that does not open a location leaves in-flight fetches and
// saves alone. The trip catalog is refreshed afterwards.
func (n *Navigator) UploadCompleted(ev UploadEvent) tea.Cmd {
	touched := make(map[int64]struct{})
	if ev.Trip != nil {
		n.trips.Upsert(*ev.Trip)
		touched[ev.Trip.ID] = struct{}{}
	}
	n.locations.Upsert(ev.Locations...)
	for _, l := range ev.Locations {
		touched[l.TripID] = struct{}{}
	}
	for id := range touched {
		n.recalculate(id)
	}
	n.logger.Info("upload completed",
		zap.Int("locations", len(ev.Locations)),
		zap.Int("pending", len(ev.Pending)))

	if len(ev.Locations) > 0 {
		first := ev.Locations[0]
		var ctx *trip.Trip
		if ev.Trip != nil {
			t := ev.Trip.Clone()
			ctx = &t
		} else if t, ok := n.trips.Get(first.TripID); ok {
			ctx = &t
		}
		if ctx != nil {
			if stored, ok := n.trips.Get(ctx.ID); ok {
				ctx = &stored
			}
			loc := first.Clone()
			for _, p := range ev.Pending {
				if p.Targets(loc.ID) {
					loc.PendingPhotoUploads = append(loc.PendingPhotoUploads, p.Clone())
				}
			}
			draft := loc.Clone()
			gen := n.advance(false)
			n.logger.Debug("open uploaded location", zap.Int64("location", loc.ID), zap.Uint64("generation", gen))
			n.cur = selection{
				view:     LocationDetail,
				trip:     ctx,
				location: &loc,
				editing:  true,
				draft:    &draft,
			}
			n.setFocus(n.calc.Compute(trip.Points(ev.Locations), ctx.Place()))
		}
	}
	return n.RefreshTrips()
}
