package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Location is a geographic coordinate pair resolved from a street address.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Error reports a failed geocoding call together with the upstream HTTP
// status, so the API layer can surface it unchanged.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Client resolves addresses against a Google-style geocoding endpoint.
// Base URL and API key are fixed at construction.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns the coordinate for the given address. Any upstream
// failure, empty result set included, comes back as *Error.
func (c *Client) Resolve(ctx context.Context, address string) (Location, error) {
	q := url.Values{}
	q.Set("address", address)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("build geocode request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return Location{}, &Error{Status: http.StatusBadGateway, Message: "could not reach geocoding service"}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return Location{}, &Error{Status: res.StatusCode, Message: "geocoding request failed"}
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Location{}, &Error{Status: http.StatusBadGateway, Message: "invalid geocoding response"}
	}
	if parsed.Status == "ZERO_RESULTS" || len(parsed.Results) == 0 {
		return Location{}, &Error{Status: http.StatusUnprocessableEntity, Message: "could not find location for the specified address"}
	}

	return parsed.Results[0].Geometry.Location, nil
}
