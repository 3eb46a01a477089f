// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/geniehub/locator/utils/httputils"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

const googleMapsBaseURL = "https://maps.googleapis.com"

// GoogleKeyDisplayName is the display name of the API key looked up through
// Application Default Credentials.
const GoogleKeyDisplayName = "Genie Hub Geocoding Key"

// GoogleMapsGeocoder uses Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	region     string
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder. A nil client gets
// the default 10s client.
func NewGoogleMapsGeocoder(apiKey string, client *http.Client) *GoogleMapsGeocoder {
	if client == nil {
		client = httputils.NewClient(httputils.ClientOptions{})
	}

	return &GoogleMapsGeocoder{
		apiKey:     apiKey,
		httpClient: client,
		baseURL:    googleMapsBaseURL,
		region:     "us",
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, address string) (*GeocodingResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google_maps: empty query"}
	}

	if g.apiKey == "" {
		return nil, &GeocodingError{
			Type:    ErrorTypeUnauthorized,
			Message: "google_maps: no API key configured",
			Err:     ErrMissingToken,
		}
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)
	params.Set("region", g.region)

	reqURL := g.baseURL + "/maps/api/geocode/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building google maps request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err, "google_maps")
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "google_maps")
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if err := classifyGoogleStatus(gmResp.Status, gmResp.ErrorMessage); err != nil {
		return nil, err
	}

	if len(gmResp.Results) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("google_maps: no results for %q", address),
		}
	}

	result := gmResp.Results[0]

	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	}

	return &GeocodingResult{
		Latitude:    result.Geometry.Location.Lat,
		Longitude:   result.Geometry.Location.Lng,
		Confidence:  confidence,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
	}, nil
}

func classifyGoogleStatus(status, message string) error {
	switch status {
	case "OK":
		return nil
	case "ZERO_RESULTS":
		return &GeocodingError{Type: ErrorTypeNotFound, Message: "google_maps: zero results"}
	case "OVER_QUERY_LIMIT":
		return &GeocodingError{Type: ErrorTypeRateLimit, Message: "google_maps: over query limit"}
	case "OVER_DAILY_LIMIT":
		return &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "google_maps: quota exceeded"}
	case "REQUEST_DENIED":
		return &GeocodingError{Type: ErrorTypeUnauthorized, Message: "google_maps: request denied: " + message}
	case "INVALID_REQUEST":
		return &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google_maps: invalid request"}
	default:
		return &GeocodingError{Type: ErrorTypeUnknown, Message: "google_maps status: " + status}
	}
}

// LookupGoogleAPIKey finds the geocoding key of the ADC project through the
// API Keys service. projectID overrides the credentials' project when set.
func LookupGoogleAPIKey(ctx context.Context, projectID string) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	if projectID == "" {
		projectID = creds.ProjectID
	}

	if projectID == "" {
		return "", errors.New("no project id in default credentials; set GOOGLE_CLOUD_PROJECT")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != GoogleKeyDisplayName {
			continue
		}

		// ListKeys redacts the secret.
		log.Printf("Found key resource '%s', retrieving secret...", key.Name)

		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key '%s' has an empty key string", GoogleKeyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name '%s' not found in project %s", GoogleKeyDisplayName, projectID)
}
