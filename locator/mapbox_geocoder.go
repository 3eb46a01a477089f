// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/geniehub/locator/utils/httputils"
)

const mapboxBaseURL = "https://api.mapbox.com"

// MapboxGeocoder uses the Mapbox forward geocoding API (mapbox.places).
type MapboxGeocoder struct {
	token      TokenSource
	httpClient *http.Client
	baseURL    string
	countries  string
	types      string
}

// NewMapboxGeocoder creates a geocoder biased to the US and Canada. A nil
// client gets the default 10s client.
func NewMapboxGeocoder(token TokenSource, client *http.Client) *MapboxGeocoder {
	if client == nil {
		client = httputils.NewClient(httputils.ClientOptions{})
	}

	return &MapboxGeocoder{
		token:      token,
		httpClient: client,
		baseURL:    mapboxBaseURL,
		countries:  "us,ca",
		types:      "postcode,place,locality,address",
	}
}

type mapboxResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // lng, lat
		Relevance float64   `json:"relevance"`
		PlaceType []string  `json:"place_type"`
	} `json:"features"`
	Message string `json:"message"`
}

func (g *MapboxGeocoder) Geocode(ctx context.Context, address string) (*GeocodingResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "mapbox: empty query"}
	}

	token, err := g.token()
	if err != nil {
		return nil, fmt.Errorf("reading mapbox token: %w", err)
	}

	if token == "" {
		return nil, &GeocodingError{
			Type:    ErrorTypeUnauthorized,
			Message: "mapbox: no access token configured",
			Err:     ErrMissingToken,
		}
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("limit", "1")
	params.Set("country", g.countries)
	params.Set("types", g.types)

	reqURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		g.baseURL, url.PathEscape(address), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building mapbox request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, "mapbox")
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "mapbox")
	}

	var mbResp mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&mbResp); err != nil {
		return nil, fmt.Errorf("decoding mapbox response: %w", err)
	}

	if len(mbResp.Features) == 0 || len(mbResp.Features[0].Center) < 2 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("mapbox: no results for %q", address),
		}
	}

	f := mbResp.Features[0]

	confidence := "low"

	switch {
	case f.Relevance >= 0.9:
		confidence = "high"
	case f.Relevance >= 0.6:
		confidence = "medium"
	}

	return &GeocodingResult{
		Latitude:    f.Center[1],
		Longitude:   f.Center[0],
		Confidence:  confidence,
		Provider:    "mapbox",
		DisplayName: f.PlaceName,
	}, nil
}
