package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tripmap/pkg/entitystore"
	"tableflip.dev/tripmap/pkg/trip"
)

// storeChangedMsg batches the entity store changes queued when it was sent.
type storeChangedMsg struct {
	trips     []entitystore.Change[trip.Trip]
	locations []entitystore.Change[trip.Location]
}

// forwardChanges relays store change events to send until ctx is done. Each
// message carries the first event plus whatever else was already queued.
func forwardChanges(ctx context.Context, trips <-chan entitystore.Change[trip.Trip], locations <-chan entitystore.Change[trip.Location], send func(tea.Msg)) {
	for {
		var msg storeChangedMsg
		select {
		case <-ctx.Done():
			return
		case c := <-trips:
			msg.trips = append(msg.trips, c)
		case c := <-locations:
			msg.locations = append(msg.locations, c)
		}
	drain:
		for {
			select {
			case c := <-trips:
				msg.trips = append(msg.trips, c)
			case c := <-locations:
				msg.locations = append(msg.locations, c)
			default:
				break drain
			}
		}
		send(msg)
	}
}

// handleStoreChange reports what the last fetch or save changed.
func (m *Model) handleStoreChange(msg storeChangedMsg) {
	switch {
	case len(msg.locations) == 1:
		c := msg.locations[0]
		verb := "Updated"
		if c.Action == entitystore.ActionCreate {
			verb = "Added"
		}
		m.setStatus(fmt.Sprintf("%s %s", verb, c.Current.Name))
	case len(msg.locations) > 1:
		m.setStatus(fmt.Sprintf("Synced %d locations", len(msg.locations)))
	case len(msg.trips) == 1:
		m.setStatus("Synced " + msg.trips[0].Current.Title)
	case len(msg.trips) > 1:
		m.setStatus(fmt.Sprintf("Synced %d trips", len(msg.trips)))
	}
}
