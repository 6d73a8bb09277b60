package api

import (
	"time"

	"tableflip.dev/tripmap/pkg/trip"
)

// NewDemo returns a Memory backend seeded with a few trips, for running the
// UI without a server.
func NewDemo(opts ...MemoryOption) *Memory {
	trips, locations := SampleData()
	return NewMemory(trips, locations, opts...)
}

// SampleData returns demo trips and locations. One trip is shared by another
// user and one has no geocoded locations, so the city fallback is visible.
func SampleData() ([]trip.Trip, []trip.Location) {
	day := func(s string) trip.Date {
		t, _ := time.Parse("2006-01-02", s)
		return trip.Date{Time: t}
	}
	photo := func(id, loc int64, x, y float64) trip.Photo {
		return trip.Photo{ID: id, LocationID: trip.ID(loc), UserID: 1, FileURL: "memory://photos/sample",
			X: trip.Float(x), Y: trip.Float(y)}
	}
	shared := func(id, loc int64, x, y float64) trip.Photo {
		p := photo(id, loc, x, y)
		p.UserID = 2
		p.AccessType = trip.AccessShared
		p.OwnerName, p.OwnerUsername = "Ana Sousa", "ana"
		return p
	}

	trips := []trip.Trip{
		{ID: 1, UserID: 1, Title: "Paris weekend", City: "Paris", Country: "France",
			StartDate: day("2025-03-07"), EndDate: day("2025-03-09"), AccessType: trip.AccessOwner},
		{ID: 2, UserID: 1, Title: "Kyoto in spring", City: "Kyoto", Country: "Japan",
			StartDate: day("2025-04-01"), EndDate: day("2025-04-08"), AccessType: trip.AccessOwner},
		{ID: 3, UserID: 2, Title: "Lisbon with Ana", City: "Lisbon", Country: "Portugal",
			StartDate: day("2024-10-12"), EndDate: day("2024-10-16"), AccessType: trip.AccessShared,
			OwnerName: "Ana Sousa", OwnerUsername: "ana"},
		{ID: 4, UserID: 1, Title: "Rome, still planning", City: "Rome", Country: "Italy",
			StartDate: day("2025-09-20"), AccessType: trip.AccessOwner},
	}

	locations := []trip.Location{
		{ID: 10, TripID: 1, Name: "Louvre", Address: "Rue de Rivoli", X: trip.Float(2.3376), Y: trip.Float(48.8606),
			Rating: 5, Tags: []string{"museum", "art"}, CostLevel: trip.CostMedium, TimeNeeded: trip.Int(240),
			Notes:  "Book the morning slot, the Denon wing fills up fast.",
			Photos: []trip.Photo{photo(100, 10, 2.3364, 48.8611), photo(101, 10, 2.3381, 48.8603)}},
		{ID: 11, TripID: 1, Name: "Canal Saint-Martin", X: trip.Float(2.3660), Y: trip.Float(48.8718),
			Rating: 4, Tags: []string{"walk"}, CostLevel: trip.CostFree, TimeNeeded: trip.Int(90)},
		{ID: 12, TripID: 1, Name: "Bakery on Rue Cler", X: trip.Float(2.3059), Y: trip.Float(48.8556),
			Tags: []string{"food"}, CostLevel: trip.CostLow,
			Photos: []trip.Photo{photo(102, 12, 2.3059, 48.8556)}},
		{ID: 20, TripID: 2, Name: "Fushimi Inari", X: trip.Float(135.7727), Y: trip.Float(34.9671),
			Rating: 5, Tags: []string{"shrine", "hike"}, CostLevel: trip.CostFree, TimeNeeded: trip.Int(180),
			Photos: []trip.Photo{photo(200, 20, 135.7727, 34.9671)}},
		{ID: 21, TripID: 2, Name: "Nishiki Market", X: trip.Float(135.7649), Y: trip.Float(35.0050),
			Rating: 3, Tags: []string{"food", "market"}, CostLevel: trip.CostMedium},
		{ID: 30, TripID: 3, Name: "Time Out Market", X: trip.Float(-9.1459), Y: trip.Float(38.7069),
			Rating: 4, Tags: []string{"food"}, CostLevel: trip.CostMedium,
			Photos: []trip.Photo{shared(300, 30, -9.1459, 38.7069)}},
		{ID: 40, TripID: 4, Name: "Trastevere dinner", Tags: []string{"food"}, CostLevel: trip.CostHigh,
			Notes: "Ask the hotel for a recommendation."},
	}
	return trips, locations
}
