// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoogle(t *testing.T, body string) *GoogleMapsGeocoder {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "us", r.URL.Query().Get("region"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	g := NewGoogleMapsGeocoder("test-key", srv.Client())
	g.baseURL = srv.URL

	return g
}

func TestGoogleGeocode(t *testing.T) {
	g := newTestGoogle(t, `{
		"status": "OK",
		"results": [{
			"formatted_address": "Houston, TX 77030, USA",
			"geometry": {
				"location": {"lat": 29.7079, "lng": -95.4012},
				"location_type": "APPROXIMATE"
			}
		}]
	}`)

	res, err := g.Geocode(context.Background(), "77030")
	require.NoError(t, err)
	assert.Equal(t, &GeocodingResult{
		Latitude:    29.7079,
		Longitude:   -95.4012,
		Confidence:  "low",
		Provider:    "google_maps",
		DisplayName: "Houston, TX 77030, USA",
	}, res)
}

func TestGoogleStatuses(t *testing.T) {
	tests := []struct {
		status string
		check  func(error) bool
	}{
		{"ZERO_RESULTS", IsNotFoundError},
		{"OVER_QUERY_LIMIT", IsRateLimitError},
		{"OVER_DAILY_LIMIT", IsQuotaExceededError},
		{"REQUEST_DENIED", IsUnauthorizedError},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			g := newTestGoogle(t, `{"status":"`+tt.status+`","results":[]}`)

			_, err := g.Geocode(context.Background(), "77030")
			require.Error(t, err)
			assert.True(t, tt.check(err), "%v", err)
		})
	}
}

func TestGoogleMissingKey(t *testing.T) {
	_, err := NewGoogleMapsGeocoder("", nil).Geocode(context.Background(), "77030")
	assert.ErrorIs(t, err, ErrMissingToken)
}
