package trip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const layoutISO = "2006-01-02"

// ParseDate accepts an ISO day, RFC3339, or unix seconds.
func ParseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(layoutISO, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("trip: unrecognized date %q", v)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// Date is a trip boundary day. The backend stores unix seconds but accepts
// ISO days from forms, so both are decoded.
type Date struct {
	time.Time
}

// MarshalJSON writes unix seconds, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(d.Unix(), 10)), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		t, err := ParseDate(raw)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("trip: decode date: %w", err)
	}
	d.Time = time.Unix(int64(secs), 0).UTC()
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.UTC().Format(layoutISO)
}

// FormatRange renders a trip's date range, collapsing the month when both
// ends share it: "Mar 3 - 9, 2025" or "Mar 28 - Apr 2, 2025".
func FormatRange(start, end Date) string {
	switch {
	case start.IsZero() && end.IsZero():
		return ""
	case end.IsZero():
		return start.UTC().Format("Jan 2, 2006")
	case start.IsZero():
		return end.UTC().Format("Jan 2, 2006")
	}
	s, e := start.UTC(), end.UTC()
	if s.Month() == e.Month() && s.Year() == e.Year() {
		return fmt.Sprintf("%s %d - %d, %d", s.Format("Jan"), s.Day(), e.Day(), s.Year())
	}
	if s.Year() == e.Year() {
		return fmt.Sprintf("%s %d - %s %d, %d", s.Format("Jan"), s.Day(), e.Format("Jan"), e.Day(), s.Year())
	}
	return fmt.Sprintf("%s - %s", s.Format("Jan 2, 2006"), e.Format("Jan 2, 2006"))
}
