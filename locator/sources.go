// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/supabase-community/supabase-go"
)

// DefaultCentersTable is the managed backend table holding the dataset.
const DefaultCentersTable = "treatment_centers"

// SupabaseSource reads centers from the managed backend through PostgREST.
type SupabaseSource struct {
	client  *supabase.Client
	table   string
	country string
}

// NewSupabaseSource connects to the project at url with the public anon key.
// An empty table uses DefaultCentersTable.
func NewSupabaseSource(url, anonKey, table string) (*SupabaseSource, error) {
	if url == "" {
		return nil, errors.New("SUPABASE_URL is not set")
	}

	if anonKey == "" {
		return nil, errors.New("SUPABASE_ANON_KEY is not set")
	}

	client, err := supabase.NewClient(url, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}

	if table == "" {
		table = DefaultCentersTable
	}

	return &SupabaseSource{client: client, table: table}, nil
}

// WithCountry restricts loads to one country code.
func (s *SupabaseSource) WithCountry(country string) *SupabaseSource {
	s.country = country

	return s
}

// LoadCenters fetches every row of the table. The client does not take a
// context, so ctx is only checked before the request.
func (s *SupabaseSource) LoadCenters(ctx context.Context) ([]*Center, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := s.client.From(s.table).Select("*", "exact", false)
	if s.country != "" {
		q = q.Eq("country", s.country)
	}

	data, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.table, err)
	}

	var centers []*Center
	if err := json.Unmarshal(data, &centers); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.table, err)
	}

	return PrepareCenters(centers), nil
}

// JSONFileSource reads a JSON array of centers from disk.
type JSONFileSource struct {
	Path string
}

func (s JSONFileSource) LoadCenters(ctx context.Context) ([]*Center, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}

	var centers []*Center
	if err := json.Unmarshal(data, &centers); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.Path, err)
	}

	return PrepareCenters(centers), nil
}

// StaticSource serves an in-memory dataset.
type StaticSource []*Center

func (s StaticSource) LoadCenters(context.Context) ([]*Center, error) {
	return s, nil
}
