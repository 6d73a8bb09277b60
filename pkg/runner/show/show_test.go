package show

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/tripmap/pkg/api"
	"tableflip.dev/tripmap/pkg/bounds"
	"tableflip.dev/tripmap/pkg/printers"
)

func TestShowPretty(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	s := Show{Backend: api.NewDemo(), TripID: 1, Gazetteer: bounds.Static(), Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Paris weekend", "rating 4.5", "photos 3", "Louvre", "focus"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestShowBoundsFallback(t *testing.T) {
	var buf bytes.Buffer
	s := Show{Backend: api.NewDemo(), TripID: 4, Gazetteer: bounds.Static(), BoundsOnly: true,
		Format: printers.FormatJSON, Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	var got struct {
		Focus *bounds.Bounds `json:"focus"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	rome := bounds.Point{Longitude: 12.4964, Latitude: 41.9028}
	if got.Focus == nil || !got.Focus.Contains(rome) {
		t.Fatalf("expected Rome fallback, got %+v", got.Focus)
	}
}

func TestShowNoFocus(t *testing.T) {
	var buf bytes.Buffer
	s := Show{Backend: api.NewDemo(), TripID: 4, Gazetteer: bounds.NewTable(), BoundsOnly: true,
		Format: printers.FormatJSON, Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !strings.Contains(buf.String(), `"focus": null`) {
		t.Fatalf("expected null focus, got %s", buf.String())
	}
}

func TestShowNotFound(t *testing.T) {
	s := Show{Backend: api.NewDemo(), TripID: 99}
	if err := s.Do(context.Background()); !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
