// Package api talks to the trip backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tableflip.dev/tripmap/pkg/trip"
)

// DefaultURL is where the backend listens during development.
const DefaultURL = "http://localhost:8000/api"

// Client is the HTTP backend.
type Client struct {
	httpClient *http.Client
	server     string
	userID     int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserID sends the current user with every request.
func WithUserID(id int64) Option {
	return func(c *Client) {
		c.userID = id
	}
}

// NewClient returns a client for the backend rooted at server.
func NewClient(server string, opts ...Option) *Client {
	if strings.TrimSpace(server) == "" {
		server = DefaultURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		server:     strings.TrimRight(server, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success   *bool           `json:"success"`
	Error     string          `json:"error"`
	Trips     []trip.Trip     `json:"trips"`
	Trip      *trip.Trip      `json:"trip"`
	Location  *trip.Location  `json:"location"`
	Locations []trip.Location `json:"locations"`
	Photos    []trip.Photo    `json:"photos"`
}

// Trips lists every trip visible to the user.
func (c *Client) Trips(ctx context.Context) ([]trip.Trip, error) {
	var env envelope
	if err := c.request(ctx, http.MethodGet, "/trips", nil, &env); err != nil {
		return nil, fmt.Errorf("api: list trips: %w", err)
	}
	return env.Trips, nil
}

// Trip fetches one trip with its locations. Photos returned alongside are
// attached to locations that came without their own.
func (c *Client) Trip(ctx context.Context, id int64) (trip.Trip, []trip.Location, error) {
	var env envelope
	if err := c.request(ctx, http.MethodGet, "/trips/"+strconv.FormatInt(id, 10), nil, &env); err != nil {
		return trip.Trip{}, nil, fmt.Errorf("api: get trip %d: %w", id, err)
	}
	if env.Trip == nil {
		return trip.Trip{}, nil, fmt.Errorf("api: get trip %d: %w", id, ErrNotFound)
	}
	return *env.Trip, attachPhotos(env.Locations, env.Photos), nil
}

// Location fetches one location and its photos.
func (c *Client) Location(ctx context.Context, id int64) (trip.Location, []trip.Photo, error) {
	var env envelope
	if err := c.request(ctx, http.MethodGet, "/locations/"+strconv.FormatInt(id, 10), nil, &env); err != nil {
		return trip.Location{}, nil, fmt.Errorf("api: get location %d: %w", id, err)
	}
	if env.Location == nil {
		return trip.Location{}, nil, fmt.Errorf("api: get location %d: %w", id, ErrNotFound)
	}
	return *env.Location, env.Photos, nil
}

// UpdateLocation persists loc and returns the backend's copy.
func (c *Client) UpdateLocation(ctx context.Context, loc trip.Location) (trip.Location, error) {
	var env envelope
	if err := c.request(ctx, http.MethodPut, "/locations/"+strconv.FormatInt(loc.ID, 10), loc, &env); err != nil {
		return trip.Location{}, fmt.Errorf("api: update location %d: %w", loc.ID, err)
	}
	if env.Location == nil {
		return trip.Location{}, fmt.Errorf("api: update location %d: %w", loc.ID, ErrNotFound)
	}
	return *env.Location, nil
}

// UploadPhotos sends the pending uploads targeting locationID as one
// multipart batch. File names are read from disk.
func (c *Client) UploadPhotos(ctx context.Context, locationID int64, pending []trip.PendingPhotoUpload) ([]trip.Photo, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fields := [][2]string{
		{"location_id", strconv.FormatInt(locationID, 10)},
		{"user_id", strconv.FormatInt(c.userID, 10)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, err)
		}
	}

	files := 0
	for _, p := range pending {
		if !p.Targets(locationID) {
			continue
		}
		if err := addFile(w, p.File); err != nil {
			return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, err)
		}
		files++
	}
	if files == 0 {
		return nil, nil
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/photos/batch-upload", body)
	if err != nil {
		return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var env envelope
	if err := c.do(req, &env); err != nil {
		return nil, fmt.Errorf("api: upload photos to location %d: %w", locationID, err)
	}
	return env.Photos, nil
}

func addFile(w *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	part, err := w.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func (c *Client) request(ctx context.Context, method, path string, in any, out *envelope) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out *envelope) error {
	req.Header.Set("Accept", "application/json")
	if c.userID != 0 {
		q := req.URL.Query()
		q.Set("user_id", strconv.FormatInt(c.userID, 10))
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, reason(resp.Body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d: %s", ErrNetworkFailure, resp.StatusCode, reason(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrNetworkFailure, err)
	}
	if out.Success != nil && !*out.Success {
		msg := out.Error
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("%w: %s", ErrNetworkFailure, msg)
	}
	return nil
}

func reason(r io.Reader) string {
	payload, _ := io.ReadAll(io.LimitReader(r, 4096))
	var env envelope
	if err := json.Unmarshal(payload, &env); err == nil && env.Error != "" {
		return env.Error
	}
	return strings.TrimSpace(string(payload))
}

func attachPhotos(locations []trip.Location, photos []trip.Photo) []trip.Location {
	if len(photos) == 0 {
		return locations
	}
	byLocation := make(map[int64][]trip.Photo)
	for _, p := range photos {
		if id, ok := p.Location(); ok {
			byLocation[id] = append(byLocation[id], p)
		}
	}
	for i := range locations {
		if len(locations[i].Photos) == 0 {
			locations[i].Photos = byLocation[locations[i].ID]
		}
	}
	return locations
}
