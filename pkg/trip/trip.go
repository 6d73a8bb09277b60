// Package trip defines the trip, location and photo records exchanged with
// the backend and cached by the client.
package trip

import (
	"strings"

	"tableflip.dev/tripmap/pkg/bounds"
)

// AccessType tells whether the current user owns a trip or photo or sees it
// through a share.
type AccessType string

const (
	AccessOwner  AccessType = "owner"
	AccessShared AccessType = "shared"
)

// CostLevel is the coarse price band of a location.
type CostLevel string

const (
	CostFree   CostLevel = "Free"
	CostLow    CostLevel = "$"
	CostMedium CostLevel = "$$"
	CostHigh   CostLevel = "$$$"
)

// MaxRating is the highest rating a location can carry. Zero means unrated.
const MaxRating = 5

// CostLevels returns the supported cost levels, cheapest first.
func CostLevels() []CostLevel {
	return []CostLevel{CostFree, CostLow, CostMedium, CostHigh}
}

// Valid reports whether c is a known level. Empty counts as valid and is
// treated as Free.
func (c CostLevel) Valid() bool {
	if c == "" {
		return true
	}
	for _, level := range CostLevels() {
		if c == level {
			return true
		}
	}
	return false
}

// Trip is a travel outing owning a set of locations.
type Trip struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id,omitempty"`
	Title         string     `json:"title"`
	City          string     `json:"city,omitempty"`
	Country       string     `json:"country,omitempty"`
	StartDate     Date       `json:"start_date"`
	EndDate       Date       `json:"end_date"`
	Rating        *float64   `json:"rating,omitempty"`
	PhotoCount    int        `json:"photo_count"`
	CoverPhoto    *Photo     `json:"cover_photo,omitempty"`
	AccessType    AccessType `json:"access_type,omitempty"`
	OwnerName     string     `json:"owner_name,omitempty"`
	OwnerUsername string     `json:"owner_username,omitempty"`
}

// RecordID implements entitystore.Record.
func (t Trip) RecordID() int64 { return t.ID }

// Clone implements entitystore.Record.
func (t Trip) Clone() Trip {
	out := t
	if t.Rating != nil {
		r := *t.Rating
		out.Rating = &r
	}
	if t.CoverPhoto != nil {
		cover := t.CoverPhoto.Clone()
		out.CoverPhoto = &cover
	}
	return out
}

// Shared reports whether the trip is visible through a share.
func (t Trip) Shared() bool {
	return t.AccessType == AccessShared
}

// Owner returns the display name of a shared trip's owner.
func (t Trip) Owner() string {
	if !t.Shared() {
		return ""
	}
	if t.OwnerName != "" {
		return t.OwnerName
	}
	return t.OwnerUsername
}

// Place returns the trip's city and country for gazetteer lookups.
func (t Trip) Place() *bounds.Place {
	if strings.TrimSpace(t.City) == "" {
		return nil
	}
	return &bounds.Place{City: t.City, Country: t.Country}
}

// Location is a point of interest within a trip.
type Location struct {
	ID         int64     `json:"id"`
	TripID     int64     `json:"trip_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	X          *float64  `json:"x"`
	Y          *float64  `json:"y"`
	Rating     int       `json:"rating"`
	Tags       []string  `json:"tags"`
	CostLevel  CostLevel `json:"cost_level,omitempty"`
	TimeNeeded *int      `json:"time_needed,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	Photos     []Photo   `json:"photos,omitempty"`

	// PendingPhotoUploads lives only between local creation and the upload
	// pipeline confirming the photos; it never goes over the wire.
	PendingPhotoUploads []PendingPhotoUpload `json:"-"`
}

// RecordID implements entitystore.Record.
func (l Location) RecordID() int64 { return l.ID }

// Clone implements entitystore.Record.
func (l Location) Clone() Location {
	out := l
	out.X = cloneFloat(l.X)
	out.Y = cloneFloat(l.Y)
	if l.TimeNeeded != nil {
		n := *l.TimeNeeded
		out.TimeNeeded = &n
	}
	if l.Tags != nil {
		out.Tags = append([]string(nil), l.Tags...)
	}
	if l.Photos != nil {
		out.Photos = make([]Photo, len(l.Photos))
		for i := range l.Photos {
			out.Photos[i] = l.Photos[i].Clone()
		}
	}
	if l.PendingPhotoUploads != nil {
		out.PendingPhotoUploads = make([]PendingPhotoUpload, len(l.PendingPhotoUploads))
		for i := range l.PendingPhotoUploads {
			out.PendingPhotoUploads[i] = l.PendingPhotoUploads[i].Clone()
		}
	}
	return out
}

// Coordinates returns the location's point once it has been geocoded.
func (l Location) Coordinates() (bounds.Point, bool) {
	if l.X == nil || l.Y == nil {
		return bounds.Point{}, false
	}
	return bounds.Point{Longitude: *l.X, Latitude: *l.Y}, true
}

// SetCoordinates stores p on the location.
func (l *Location) SetCoordinates(p bounds.Point) {
	x, y := p.Longitude, p.Latitude
	l.X = &x
	l.Y = &y
}

// Cost returns the cost level, defaulting to Free.
func (l Location) Cost() CostLevel {
	if l.CostLevel == "" {
		return CostFree
	}
	return l.CostLevel
}

// HasTag reports whether tag is set, ignoring case.
func (l Location) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range l.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// NormalizeTags trims tags and removes blanks and case-insensitive
// duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Points collects the coordinates of every geocoded location.
func Points(locations []Location) []bounds.Point {
	points := make([]bounds.Point, 0, len(locations))
	for _, l := range locations {
		if p, ok := l.Coordinates(); ok {
			points = append(points, p)
		}
	}
	return points
}

// Photo is an uploaded image tied to a location.
type Photo struct {
	ID               int64      `json:"id"`
	LocationID       *int64     `json:"location_id"`
	UserID           int64      `json:"user_id,omitempty"`
	FileURL          string     `json:"file_url"`
	OriginalFilename string     `json:"original_filename,omitempty"`
	X                *float64   `json:"x,omitempty"`
	Y                *float64   `json:"y,omitempty"`
	TakenAt          int64      `json:"taken_at,omitempty"`
	IsCoverPhoto     bool       `json:"is_cover_photo,omitempty"`
	LocationName     string     `json:"location_name,omitempty"`
	TripID           int64      `json:"trip_id,omitempty"`
	AccessType       AccessType `json:"access_type,omitempty"`
	OwnerName        string     `json:"owner_name,omitempty"`
	OwnerUsername    string     `json:"owner_username,omitempty"`
}

// Clone returns a deep copy of the photo.
func (p Photo) Clone() Photo {
	out := p
	if p.LocationID != nil {
		id := *p.LocationID
		out.LocationID = &id
	}
	out.X = cloneFloat(p.X)
	out.Y = cloneFloat(p.Y)
	return out
}

// Location returns the owning location id, if any.
func (p Photo) Location() (int64, bool) {
	if p.LocationID == nil || *p.LocationID == 0 {
		return 0, false
	}
	return *p.LocationID, true
}

// Owner returns the display name of a shared photo's owner.
func (p Photo) Owner() string {
	if p.AccessType != AccessShared {
		return ""
	}
	if p.OwnerName != "" {
		return p.OwnerName
	}
	return p.OwnerUsername
}

// PendingPhotoUpload describes a photo selected for upload that the backend
// has not confirmed yet.
type PendingPhotoUpload struct {
	Token      string   `json:"token"`
	File       string   `json:"file"`
	LocationID int64    `json:"location_id"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
}

// Clone returns a deep copy of the upload descriptor.
func (p PendingPhotoUpload) Clone() PendingPhotoUpload {
	out := p
	out.X = cloneFloat(p.X)
	out.Y = cloneFloat(p.Y)
	return out
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional fields.
func Int(v int) *int { return &v }

// ID returns a pointer to v, for optional id fields.
func ID(v int64) *int64 { return &v }

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
