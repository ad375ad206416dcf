// Package elevation fetches terrain heights along a link path from an
// Open-Elevation compatible service.
//
// Heights are informational only. Nothing here feeds the Fresnel geometry.
package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/woozymasta/rflink/internal/geo"
)

// DefaultURL is the public Open-Elevation lookup endpoint.
const DefaultURL = "https://api.open-elevation.com/api/v1/lookup"

// DefaultSamples is the number of points sampled along a path.
const DefaultSamples = 11

// Internal structures for JSON encoding
type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupRequest struct {
	Locations []location `json:"locations"`
}

type lookupResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Elevation float64 `json:"elevation"`
	} `json:"results"`
}

// Client talks to the elevation service.
type Client struct {
	HTTP *http.Client
	URL  string
}

// NewClient returns a client for url with the given request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}

	return &Client{
		HTTP: &http.Client{Timeout: timeout},
		URL:  url,
	}
}

// Lookup returns one elevation in meters per point, in input order.
func (c *Client) Lookup(ctx context.Context, points []geo.GeoPoint) ([]float64, error) {
	req := lookupRequest{Locations: make([]location, 0, len(points))}
	for _, p := range points {
		req.Locations = append(req.Locations, location{Latitude: p.Lat, Longitude: p.Lon})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevation lookup: status %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("elevation lookup: decode: %w", err)
	}
	if len(out.Results) != len(points) {
		return nil, fmt.Errorf("elevation lookup: got %d results for %d points", len(out.Results), len(points))
	}

	heights := make([]float64, len(out.Results))
	for i, r := range out.Results {
		heights[i] = r.Elevation
	}

	return heights, nil
}

// SamplePath returns samples points evenly spaced in lat/lon from a to b,
// both ends included. Fewer than 2 samples gives just the endpoints.
func SamplePath(a, b geo.GeoPoint, samples int) []geo.GeoPoint {
	if samples < 2 {
		samples = 2
	}

	points := make([]geo.GeoPoint, 0, samples)
	for i := 0; i < samples; i++ {
		points = append(points, geo.Interpolate(a, b, float64(i)/float64(samples-1)))
	}

	return points
}
