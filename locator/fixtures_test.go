// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"errors"
	"sync"

	"github.com/geniehub/locator/spatial"
)

func ptr(f float64) *float64 {
	return &f
}

var raleigh = spatial.Point{Lat: 35.7796, Lng: -78.6382}

// fixtureCenters returns a fresh copy of a small national dataset. Seattle
// has no coordinates.
func fixtureCenters() []*Center {
	return []*Center{
		{
			ID: "duke", Name: "Duke Cancer Institute",
			Latitude: ptr(36.0), Longitude: ptr(-78.94),
			City: "Durham", State: "NC", Zip: "27710", Country: "US",
			TherapeuticAreas: []string{"Oncology"},
			Manufacturers:    []string{"Novartis", "Kite"},
			Products:         []string{"Kymriah", "Yescarta"},
			Verified:         true,
		},
		{
			ID: "unc", Name: "UNC Lineberger",
			Latitude: ptr(35.90), Longitude: ptr(-79.05),
			City: "Chapel Hill", State: "NC", Zip: "27514", Country: "US",
			TherapeuticAreas: []string{"Oncology"},
			Manufacturers:    []string{"Kite"},
			Products:         []string{"Yescarta"},
		},
		{
			ID: "mda", Name: "MD Anderson",
			Latitude: ptr(29.71), Longitude: ptr(-95.40),
			City: "Houston", State: "TX", Zip: "77030", Country: "US",
			TherapeuticAreas: []string{"Oncology"},
			Manufacturers:    []string{"Novartis", "BMS"},
			Products:         []string{"Kymriah", "Breyanzi"},
			Verified:         true,
		},
		{
			ID: "bch", Name: "Boston Children's Hospital",
			Latitude: ptr(42.34), Longitude: ptr(-71.10),
			City: "Boston", State: "MA", Zip: "02115", Country: "US",
			TherapeuticAreas: []string{"Gene Therapy"},
			Manufacturers:    []string{"Novartis"},
			Products:         []string{"Zolgensma"},
		},
		{
			ID: "sch", Name: "Seattle Children's",
			City: "Seattle", State: "WA", Zip: "98105", Country: "US",
			TherapeuticAreas: []string{"Gene Therapy"},
			Manufacturers:    []string{"bluebird bio"},
			Products:         []string{"Zynteglo"},
		},
		{
			ID: "mayo", Name: "Mayo Clinic",
			Latitude: ptr(44.02), Longitude: ptr(-92.47),
			City: "Rochester", State: "MN", Zip: "55905", Country: "US",
			TherapeuticAreas: []string{"Oncology", "Hematology"},
			Manufacturers:    []string{"BMS"},
			Products:         []string{"Abecma"},
		},
	}
}

func resultIDs(results []Result) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}

	return ids
}

func centerIDs(centers []*Center) []string {
	ids := make([]string, 0, len(centers))
	for _, c := range centers {
		ids = append(ids, c.ID)
	}

	return ids
}

// memoryStore is a KeyValueStore with injectable failures.
type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
	sets   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string)}
}

func (m *memoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return "", false, m.getErr
	}

	v, ok := m.values[key]

	return v, ok, nil
}

func (m *memoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++

	if m.setErr != nil {
		return m.setErr
	}

	m.values[key] = value

	return nil
}

// fakeGeocoder answers from a fixed table and counts calls.
type fakeGeocoder struct {
	mu      sync.Mutex
	results map[string]*GeocodingResult
	err     error
	calls   int
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*GeocodingResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++

	if f.err != nil {
		return nil, f.err
	}

	if r, ok := f.results[address]; ok {
		return r, nil
	}

	return nil, &GeocodingError{Type: ErrorTypeNotFound, Message: "not found"}
}

func (f *fakeGeocoder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

func newFakeGeocoder() *fakeGeocoder {
	return &fakeGeocoder{results: map[string]*GeocodingResult{
		"27514": {Latitude: 35.9132, Longitude: -79.0558, Confidence: "high", Provider: "fake", DisplayName: "Chapel Hill, NC 27514"},
		"77030": {Latitude: 29.7079, Longitude: -95.4012, Confidence: "high", Provider: "fake", DisplayName: "Houston, TX 77030"},
		"55905": {Latitude: 44.0225, Longitude: -92.4668, Confidence: "high", Provider: "fake", DisplayName: "Rochester, MN 55905"},
	}}
}

var errBoom = errors.New("boom")
