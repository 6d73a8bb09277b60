package trip

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrValidation is returned when a record is missing required fields before
// a mutating action. It is detected locally and never reaches the network.
var ErrValidation = errors.New("validation failed")

// Validate checks the location before it is persisted.
func (l Location) Validate() error {
	var problems []string
	if l.ID == 0 {
		problems = append(problems, "id is required")
	}
	if l.TripID == 0 {
		problems = append(problems, "trip_id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		problems = append(problems, "name is required")
	}
	if l.Rating < 0 || l.Rating > MaxRating {
		problems = append(problems, fmt.Sprintf("rating %d outside 0..%d", l.Rating, MaxRating))
	}
	if !l.CostLevel.Valid() {
		problems = append(problems, fmt.Sprintf("unknown cost level %q", l.CostLevel))
	}
	if l.TimeNeeded != nil && *l.TimeNeeded < 0 {
		problems = append(problems, "time_needed must not be negative")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("location %d: %s: %w", l.ID, strings.Join(problems, ", "), ErrValidation)
}

// Normalize returns a copy with tags cleaned up and the cost level defaulted.
func (l Location) Normalize() Location {
	out := l.Clone()
	out.Name = strings.TrimSpace(out.Name)
	out.Tags = NormalizeTags(out.Tags)
	out.CostLevel = out.Cost()
	return out
}

// NewPendingUpload describes a local file queued for upload onto a location.
// A zero locationID targets the location being created alongside it.
func NewPendingUpload(file string, locationID int64) (PendingPhotoUpload, error) {
	file = strings.TrimSpace(file)
	if file == "" {
		return PendingPhotoUpload{}, fmt.Errorf("pending upload: file is required: %w", ErrValidation)
	}
	return PendingPhotoUpload{
		Token:      uuid.NewString(),
		File:       filepath.Clean(file),
		LocationID: locationID,
	}, nil
}

// Targets reports whether the upload belongs to the location with the given
// id.
func (p PendingPhotoUpload) Targets(locationID int64) bool {
	return p.LocationID == 0 || p.LocationID == locationID
}
