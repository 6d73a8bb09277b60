package trip

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	starFull  = "★"
	starEmpty = "☆"
	noValue   = "-"
)

// Stars renders a 0-5 rating as a star strip. Zero renders as a dash.
func Stars(rating int) string {
	if rating <= 0 {
		return noValue
	}
	if rating > MaxRating {
		rating = MaxRating
	}
	return strings.Repeat(starFull, rating) + strings.Repeat(starEmpty, MaxRating-rating)
}

// AverageString formats a derived trip rating.
func AverageString(rating *float64) string {
	if rating == nil {
		return noValue
	}
	return strconv.FormatFloat(*rating, 'f', 1, 64)
}

// Row returns the columns used when a trip is listed.
func (t Trip) Row() (string, string, string, string, string, string) {
	place := t.City
	if t.Country != "" {
		if place != "" {
			place += ", "
		}
		place += t.Country
	}
	title := t.Title
	if owner := t.Owner(); owner != "" {
		title = fmt.Sprintf("%s (shared by %s)", title, owner)
	}
	return strconv.FormatInt(t.ID, 10), title, place, FormatRange(t.StartDate, t.EndDate), AverageString(t.Rating), strconv.Itoa(t.PhotoCount)
}

// Row returns the columns used when a location is listed.
func (l Location) Row() (string, string, string, string, string, string) {
	coords := noValue
	if p, ok := l.Coordinates(); ok {
		coords = p.String()
	}
	return strconv.FormatInt(l.ID, 10), l.Name, Stars(l.Rating), string(l.Cost()), coords, strings.Join(l.Tags, ",")
}

// Duration renders time_needed minutes as "1h30m" style text.
func (l Location) Duration() string {
	if l.TimeNeeded == nil || *l.TimeNeeded <= 0 {
		return noValue
	}
	h, m := *l.TimeNeeded/60, *l.TimeNeeded%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

func (t Trip) String() string {
	return fmt.Sprintf("%s (%s)", t.Title, FormatRange(t.StartDate, t.EndDate))
}

func (l Location) String() string {
	return fmt.Sprintf("%s %s", Stars(l.Rating), l.Name)
}
