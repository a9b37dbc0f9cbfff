// Package distance is a thin client for the external distance/geocoding
// service. The service is an opaque collaborator: it takes two city+country
// points and returns per-point geocodes and the distance between them.
package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carpool-backend/internal/apperr"
)

// Point is one end of a route query
type Point struct {
	City    string
	Country string
}

// Geocode is the resolved form of a point
type Geocode struct {
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Result is the answer to a two-point query
type Result struct {
	LocationFrom Geocode `json:"locationFrom"`
	LocationTo   Geocode `json:"locationTo"`
	Distance     struct {
		Km float64 `json:"km"`
		Mi float64 `json:"mi"`
	} `json:"distance"`
}

// Client calls the distance service over HTTP
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new distance client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// upstream request/response shapes; the wire format tags each point as
// {"t":"city,country"}.
type requestPoint struct {
	T string `json:"t"`
}

type upstreamResponse struct {
	Points []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"points"`
	Distance struct {
		Km float64 `json:"km"`
		Mi float64 `json:"mi"`
	} `json:"distance"`
}

// Distance queries the route between two points. Upstream failures
// propagate as a generic upstream error.
func (c *Client) Distance(ctx context.Context, from, to Point) (*Result, error) {
	body, err := json.Marshal([]requestPoint{
		{T: fmt.Sprintf("%s,%s", from.City, from.Country)},
		{T: fmt.Sprintf("%s,%s", to.City, to.Country)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode distance request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/distance", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build distance request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: distance service returned %d", apperr.ErrUpstream, resp.StatusCode)
	}

	var upstream upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}
	if len(upstream.Points) < 2 {
		return nil, fmt.Errorf("%w: distance service returned %d points", apperr.ErrUpstream, len(upstream.Points))
	}

	result := &Result{
		LocationFrom: Geocode{
			Location:  upstream.Points[0].Name,
			Latitude:  upstream.Points[0].Latitude,
			Longitude: upstream.Points[0].Longitude,
		},
		LocationTo: Geocode{
			Location:  upstream.Points[1].Name,
			Latitude:  upstream.Points[1].Latitude,
			Longitude: upstream.Points[1].Longitude,
		},
	}
	result.Distance.Km = upstream.Distance.Km
	result.Distance.Mi = upstream.Distance.Mi
	return result, nil
}
