// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/geniehub/locator/locator"
	"github.com/spf13/cobra"
)

// filterFlags are the search options shared by list style commands.
type filterFlags struct {
	source        string
	file          string
	areas         []string
	manufacturers []string
	products      []string
	state         string
	city          string
	query         string
	zip           string
	limit         int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.source, "source", "duckdb", "Where to read centers from: duckdb, supabase or file")
	flags.StringVar(&f.file, "file", "", "JSON file with centers, for --source file")
	flags.StringSliceVar(&f.areas, "area", nil, "Therapeutic area, repeatable")
	flags.StringSliceVar(&f.manufacturers, "manufacturer", nil, "Manufacturer, repeatable")
	flags.StringSliceVar(&f.products, "product", nil, "Product, repeatable")
	flags.StringVar(&f.state, "state", "", "State or province code")
	flags.StringVar(&f.city, "city", "", "City name, partial match")
	flags.StringVarP(&f.query, "query", "q", "", "Free text over name, address, city, state and zip")
	flags.StringVar(&f.zip, "zip", "", "ZIP or postal code to sort by distance")
	flags.IntVar(&f.limit, "limit", locator.DefaultLimit, "Maximum number of results")
}

// load opens the database and the configured source and builds the criteria,
// geocoding --zip through the cache.
func (f *filterFlags) load(ctx context.Context, db *sql.DB) ([]*locator.Center, locator.Criteria, error) {
	src, err := newSource(f.source, f.file, db)
	if err != nil {
		return nil, locator.Criteria{}, err
	}

	centers, err := src.LoadCenters(ctx)
	if err != nil {
		return nil, locator.Criteria{}, fmt.Errorf("loading centers: %w", err)
	}

	c := locator.Criteria{
		Areas:         f.areas,
		Manufacturers: f.manufacturers,
		Products:      f.products,
		State:         f.state,
		City:          f.city,
		Query:         f.query,
		Limit:         f.limit,
	}

	if f.zip != "" {
		resolver, err := newResolver(ctx, db)
		if err != nil {
			return nil, locator.Criteria{}, err
		}

		if p, ok := resolver.Resolve(ctx, f.zip); ok {
			c.Reference = &p
		} else {
			log.Printf("⚠️ Could not locate %q, results are not sorted by distance", f.zip)
		}
	}

	return centers, c, nil
}
