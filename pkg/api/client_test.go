package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/tripmap/pkg/trip"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithHTTPClient(srv.Client()), WithUserID(1))
}

func TestClientTrips(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trips" || r.URL.Query().Get("user_id") != "1" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"success":true,"trips":[{"id":1,"title":"Paris","rating":4.5,"photo_count":3}]}`))
	})
	trips, err := c.Trips(context.Background())
	if err != nil {
		t.Fatalf("Trips: %v", err)
	}
	if len(trips) != 1 || trips[0].Title != "Paris" || *trips[0].Rating != 4.5 || trips[0].PhotoCount != 3 {
		t.Fatalf("unexpected trips %+v", trips)
	}
}

func TestClientTripAttachesPhotos(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"success": true,
			"trip": {"id": 7, "title": "Kyoto"},
			"locations": [{"id": 1, "trip_id": 7, "name": "Shrine", "x": 135.7, "y": 34.9}, {"id": 2, "trip_id": 7, "name": "Market", "x": null, "y": null}],
			"photos": [{"id": 9, "location_id": 1, "file_url": "/p/9.jpg"}]
		}`))
	})
	tr, locations, err := c.Trip(context.Background(), 7)
	if err != nil {
		t.Fatalf("Trip: %v", err)
	}
	if tr.ID != 7 || len(locations) != 2 {
		t.Fatalf("unexpected trip %+v %+v", tr, locations)
	}
	if len(locations[0].Photos) != 1 || locations[0].Photos[0].ID != 9 {
		t.Fatalf("expected photo attached to location 1, got %+v", locations[0].Photos)
	}
	if _, ok := locations[1].Coordinates(); ok {
		t.Fatalf("expected location 2 without coordinates")
	}
}

func TestClientLocationNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"Location not found"}`))
	})
	_, _, err := c.Location(context.Background(), 3)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientMissingEntityIsNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	if _, _, err := c.Trip(context.Background(), 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientServerErrorIsNetworkFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.Trips(context.Background())
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestClientSuccessFalseIsNetworkFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Not logged in"}`))
	})
	_, err := c.Trips(context.Background())
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestClientTransportErrorIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Trips(context.Background())
	if !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestClientUpdateLocation(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/locations/5" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if _, ok := in["PendingPhotoUploads"]; ok {
			t.Errorf("pending uploads sent to backend")
		}
		if in["cost_level"] != "$$" {
			t.Errorf("unexpected cost level %v", in["cost_level"])
		}
		_, _ = w.Write([]byte(`{"success":true,"location":{"id":5,"trip_id":1,"name":"Saved","rating":5,"cost_level":"$$"}}`))
	})
	saved, err := c.UpdateLocation(context.Background(), trip.Location{
		ID: 5, TripID: 1, Name: "Draft", Rating: 5, CostLevel: trip.CostMedium,
		PendingPhotoUploads: []trip.PendingPhotoUpload{{Token: "x", File: "a.jpg"}},
	})
	if err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	if saved.Name != "Saved" || saved.Rating != 5 {
		t.Fatalf("unexpected saved location %+v", saved)
	}
}

func TestClientUploadPhotos(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "louvre.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/photos/batch-upload" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.FormValue("location_id") != "10" || r.FormValue("user_id") != "1" {
			t.Errorf("unexpected form %v", r.MultipartForm.Value)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 || files[0].Filename != "louvre.jpg" {
			t.Errorf("unexpected files %+v", files)
		}
		_, _ = w.Write([]byte(`{"success":true,"photos_uploaded":1,"photos":[{"id":7,"location_id":10,"file_url":"/uploads/louvre.jpg","is_cover_photo":true}]}`))
	})

	mine, _ := trip.NewPendingUpload(path, 10)
	other, _ := trip.NewPendingUpload(path, 11)
	photos, err := c.UploadPhotos(context.Background(), 10, []trip.PendingPhotoUpload{mine, other})
	if err != nil {
		t.Fatalf("UploadPhotos: %v", err)
	}
	if len(photos) != 1 || photos[0].ID != 7 || !photos[0].IsCoverPhoto {
		t.Fatalf("unexpected photos %+v", photos)
	}
}

func TestClientUploadPhotosNothingTargeted(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})
	other, _ := trip.NewPendingUpload("x.jpg", 11)
	photos, err := c.UploadPhotos(context.Background(), 10, []trip.PendingPhotoUpload{other})
	if err != nil || photos != nil {
		t.Fatalf("expected no-op, got %v %v", photos, err)
	}
}

func TestClientUploadPhotosBadServerURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "louvre.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := NewClient("http://bad\x7fhost")
	mine, _ := trip.NewPendingUpload(path, 10)
	_, err := c.UploadPhotos(context.Background(), 10, []trip.PendingPhotoUpload{mine})
	if err == nil || !strings.HasPrefix(err.Error(), "api: upload photos to location 10: ") {
		t.Fatalf("expected wrapped request error, got %v", err)
	}
}

func TestClientUploadPhotosMissingFile(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})
	missing, _ := trip.NewPendingUpload(filepath.Join(t.TempDir(), "gone.jpg"), 10)
	_, err := c.UploadPhotos(context.Background(), 10, []trip.PendingPhotoUpload{missing})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}
