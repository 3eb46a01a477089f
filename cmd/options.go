// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/geniehub/locator/devicestore"
	"github.com/geniehub/locator/locator"
	"github.com/geniehub/locator/utils/httputils"
)

const dbFile = "locator.duckdb"

// Options are the settings shared by every command.
type Options struct {
	DbPath              string
	Geocoder            string
	EnableHTTPTrace     bool
	EnableHTTPBodyTrace bool
	CacheMaxEntries     int
}

var options = &Options{}

func openDatabase() (*sql.DB, error) {
	if err := os.MkdirAll(options.DbPath, 0o750); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(options.DbPath, dbFile))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}

func openDeviceStore(db *sql.DB) (*devicestore.Store, error) {
	store := devicestore.New(db)
	if err := store.CreateSchema(); err != nil {
		return nil, fmt.Errorf("creating device store: %w", err)
	}

	return store, nil
}

func newHTTPClient() *http.Client {
	opts := httputils.ClientOptions{
		UserAgent: fmt.Sprintf("locator/%s", Version),
		TraceBody: options.EnableHTTPBodyTrace,
	}

	if options.EnableHTTPTrace || options.EnableHTTPBodyTrace {
		opts.Trace = os.Stderr
	}

	return httputils.NewClient(opts)
}

// newGeocoder builds the configured provider. It returns nil when geocoding
// is disabled.
func newGeocoder(ctx context.Context, store *devicestore.Store) (locator.Geocoder, error) {
	switch options.Geocoder {
	case "mapbox":
		token := locator.StoredToken(store, devicestore.MapboxTokenKey, os.Getenv("MAPBOX_ACCESS_TOKEN"))

		return locator.NewMapboxGeocoder(token, newHTTPClient()), nil
	case "google":
		apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
		if apiKey == "" {
			log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

			var err error

			apiKey, err = locator.LookupGoogleAPIKey(ctx, os.Getenv("GOOGLE_CLOUD_PROJECT"))
			if err != nil {
				log.Printf("⚠️ Failed to retrieve API key via ADC: %v", err)
			} else {
				log.Println("✅ Successfully retrieved Google Maps API Key via ADC")
			}
		}

		return locator.NewGoogleMapsGeocoder(apiKey, newHTTPClient()), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q (want mapbox, google or none)", options.Geocoder)
	}
}

// newResolver wires the geocode cache on the device store in front of the
// configured provider.
func newResolver(ctx context.Context, db *sql.DB) (*locator.Resolver, error) {
	store, err := openDeviceStore(db)
	if err != nil {
		return nil, err
	}

	geocoder, err := newGeocoder(ctx, store)
	if err != nil {
		return nil, err
	}

	cache := locator.NewGeocodeCache(store, devicestore.GeocodeCacheKey, options.CacheMaxEntries)

	return locator.NewResolver(geocoder, cache), nil
}

func newSupabaseSource(country string) (*locator.SupabaseSource, error) {
	src, err := locator.NewSupabaseSource(
		os.Getenv("SUPABASE_URL"),
		os.Getenv("SUPABASE_ANON_KEY"),
		os.Getenv("SUPABASE_TABLE"),
	)
	if err != nil {
		return nil, err
	}

	return src.WithCountry(country), nil
}

// newSource picks where centers are loaded from: the local replica, the
// managed backend or a JSON file.
func newSource(kind, file string, db *sql.DB) (locator.CenterSource, error) {
	switch kind {
	case "duckdb":
		repo := locator.NewCenterRepository(db)
		if err := repo.CreateSchema(); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}

		return repo, nil
	case "supabase":
		return newSupabaseSource("")
	case "file":
		if file == "" {
			return nil, fmt.Errorf("--file is required with --source file")
		}

		return locator.JSONFileSource{Path: file}, nil
	default:
		return nil, fmt.Errorf("unknown source %q (want duckdb, supabase or file)", kind)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&options.DbPath,
		"db-path",
		"db",
		"Base directory for the local database",
	)
	rootCmd.PersistentFlags().StringVar(
		&options.Geocoder,
		"geocoder",
		"mapbox",
		"Geocoding provider: mapbox, google or none",
	)
	rootCmd.PersistentFlags().IntVar(
		&options.CacheMaxEntries,
		"geocode-cache-max",
		0,
		"Maximum geocode cache entries, 0 keeps every entry",
	)
	rootCmd.PersistentFlags().BoolVar(
		&options.EnableHTTPTrace,
		"http-trace",
		false,
		"Display HTTP requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&options.EnableHTTPBodyTrace,
		"http-trace-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
