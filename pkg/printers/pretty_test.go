package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/tripmap/pkg/aggregate"
	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/trip"
)

func init() {
	color.NoColor = true
}

func sampleTrip() (trip.Trip, []trip.Location) {
	t := trip.Trip{
		ID:        1,
		Title:     "Paris Weekend",
		City:      "Paris",
		Country:   "France",
		StartDate: trip.Date{Time: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
		EndDate:   trip.Date{Time: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)},
	}
	locs := []trip.Location{
		{ID: 10, TripID: 1, Name: "Louvre", Rating: 5, X: trip.Float(2.3376), Y: trip.Float(48.8606),
			Notes:      "Go early. The line for the pyramid entrance gets long by ten and the Richelieu wing is quieter in the afternoon.",
			TimeNeeded: trip.Int(180)},
		{ID: 11, TripID: 1, Name: "Cafe", Rating: 3},
	}
	return t, locs
}

func TestTripsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	tr, _ := sampleTrip()
	pp.Trips(tr)

	out := buf.String()
	for _, want := range []string{"Trips - 1 trip", "TITLE", "Paris Weekend", "Paris, France"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTripsEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Trips()
	if !strings.Contains(buf.String(), "Trips - 0 trips") || !strings.Contains(buf.String(), "none") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestTripDetail(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	tr, locs := sampleTrip()
	stats := aggregate.Recalculate(locs)
	focus, _ := bounds.Span(trip.Points(locs))
	pp.Trip(tr, locs, stats, &focus)

	out := buf.String()
	for _, want := range []string{"rating 4.0", "photos 0", "focus", "Locations - 2 locations", "Louvre (3h)", "Richelieu"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "  ") && len(line) > notesWidth+2 {
			t.Errorf("note line not wrapped: %q", line)
		}
	}
}

func TestFocusMissing(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Focus(nil)
	if got := strings.TrimSpace(buf.String()); got != "no map focus" {
		t.Fatalf("got %q", got)
	}
}

func TestGazetteer(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Gazetteer("Overrides", bounds.Entry{City: "Lyon", Country: "France", Point: bounds.Point{Longitude: 4.8357, Latitude: 45.764}})
	out := buf.String()
	if !strings.Contains(out, "Overrides - 1 city") || !strings.Contains(out, "4.8357") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestStructured(t *testing.T) {
	tr, _ := sampleTrip()

	var js bytes.Buffer
	if err := Structured(&js, FormatJSON, tr); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js.String(), `"title": "Paris Weekend"`) {
		t.Errorf("json output: %s", js.String())
	}

	var ym bytes.Buffer
	if err := Structured(&ym, FormatYAML, tr); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ym.String(), "title: Paris Weekend") {
		t.Errorf("yaml output: %s", ym.String())
	}
}
