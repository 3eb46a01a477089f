// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/geniehub/locator/spatial"
)

// Resolution is a postal lookup outcome.
type Resolution struct {
	Query  string           `json:"query"`
	Point  spatial.Point    `json:"point"`
	Cached bool             `json:"cached"`
	Result *GeocodingResult `json:"result,omitempty"`
}

// Resolver turns postal input into a reference point, consulting the cache
// before the provider.
type Resolver struct {
	geocoder Geocoder
	cache    *GeocodeCache
}

// NewResolver creates a resolver. Either argument may be nil.
func NewResolver(geocoder Geocoder, cache *GeocodeCache) *Resolver {
	return &Resolver{geocoder: geocoder, cache: cache}
}

// Lookup resolves text, reporting why it could not.
func (r *Resolver) Lookup(ctx context.Context, text string) (*Resolution, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "empty postal input"}
	}

	if r.cache != nil {
		if p, ok := r.cache.Get(text); ok {
			return &Resolution{Query: text, Point: p, Cached: true}, nil
		}
	}

	if r.geocoder == nil {
		return nil, &GeocodingError{
			Type:    ErrorTypeUnauthorized,
			Message: "no geocoder configured",
			Err:     ErrMissingToken,
		}
	}

	res, err := r.geocoder.Geocode(ctx, text)
	if err != nil {
		return nil, err
	}

	p := res.Point()
	if !p.Valid() {
		return nil, &GeocodingError{Type: ErrorTypeNotFound, Message: "provider returned an invalid location"}
	}

	if r.cache != nil {
		r.cache.Put(text, p)
	}

	return &Resolution{Query: text, Point: p, Result: res}, nil
}

// Resolve is Lookup for callers that only care about the point. Any failure
// means no reference point.
func (r *Resolver) Resolve(ctx context.Context, text string) (spatial.Point, bool) {
	res, err := r.Lookup(ctx, text)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("Geocoding %q failed: %v", text, err)
		}

		return spatial.Point{}, false
	}

	return res.Point, true
}
