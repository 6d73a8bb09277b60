// Package aggregate derives trip statistics from the trip's locations.
package aggregate

import (
	"tableflip.dev/tripmap/pkg/entitystore"
	"tableflip.dev/tripmap/pkg/trip"
)

// Stats are the derived values shown on a trip.
type Stats struct {
	// AverageRating is the mean over rated locations, nil when none is rated.
	AverageRating *float64
	PhotoCount    int
}

// Recalculate computes stats from a snapshot of one trip's locations.
// Unrated locations (rating 0) do not count toward the average.
func Recalculate(locations []trip.Location) Stats {
	var (
		stats Stats
		sum   int
		rated int
	)
	for _, loc := range locations {
		stats.PhotoCount += len(loc.Photos)
		if loc.Rating > 0 {
			sum += loc.Rating
			rated++
		}
	}
	if rated > 0 {
		avg := float64(sum) / float64(rated)
		stats.AverageRating = &avg
	}
	return stats
}

// Apply returns a copy of t carrying s.
func Apply(t trip.Trip, s Stats) trip.Trip {
	out := t.Clone()
	out.Rating = nil
	if s.AverageRating != nil {
		avg := *s.AverageRating
		out.Rating = &avg
	}
	out.PhotoCount = s.PhotoCount
	return out
}

// ForTrip computes stats from the locations currently stored for tripID.
func ForTrip(locations *entitystore.Store[trip.Location], tripID int64) Stats {
	return Recalculate(locations.Filter(func(l trip.Location) bool {
		return l.TripID == tripID
	}))
}
