// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"

	"github.com/geniehub/locator/spatial"
)

// GeocodingResult represents a geocoding result from any provider.
type GeocodingResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Confidence  string  `json:"confidence"` // high, medium, low
	Provider    string  `json:"provider"`
	DisplayName string  `json:"display_name"`
}

// Point returns the result location.
func (r *GeocodingResult) Point() spatial.Point {
	return spatial.Point{Lat: r.Latitude, Lng: r.Longitude}
}

// Geocoder turns free text (a ZIP or postal code, a city) into a location.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodingResult, error)
}

// KeyValueStore is the slice of the device store the locator needs.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// TokenSource yields the current provider credential. It is consulted on
// every request so a token saved while the server runs takes effect.
type TokenSource func() (string, error)

// StaticToken returns a TokenSource for a fixed token.
func StaticToken(token string) TokenSource {
	return func() (string, error) {
		return token, nil
	}
}

// StoredToken reads key from store, falling back to fallback when the key is
// absent or empty.
func StoredToken(store KeyValueStore, key, fallback string) TokenSource {
	return func() (string, error) {
		token, ok, err := store.Get(key)
		if err != nil {
			return "", err
		}

		if ok && token != "" {
			return token, nil
		}

		return fallback, nil
	}
}
