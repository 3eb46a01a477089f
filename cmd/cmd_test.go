// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/geniehub/locator/devicestore"
	"github.com/geniehub/locator/locator"
	"github.com/geniehub/locator/spatial"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvMissingFile(t *testing.T) {
	require.NoError(t, loadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestLoadEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOCATOR_TEST_A=file\nLOCATOR_TEST_B=file\n"), 0o600))

	t.Setenv("LOCATOR_TEST_A", "shell")
	t.Setenv("LOCATOR_TEST_B", "")
	require.NoError(t, os.Unsetenv("LOCATOR_TEST_B"))

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "shell", os.Getenv("LOCATOR_TEST_A"))
	assert.Equal(t, "file", os.Getenv("LOCATOR_TEST_B"))
}

func newTestFlags() (*pflag.FlagSet, *string, *string) {
	var dbPath, geocoder string

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringVar(&dbPath, "db-path", "db", "")
	flags.StringVar(&geocoder, "geocoder", "mapbox", "")

	return flags, &dbPath, &geocoder
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LOCATOR_DB_PATH", "/var/lib/locator")
	t.Setenv("LOCATOR_GEOCODER", "google")

	flags, dbPath, geocoder := newTestFlags()
	require.NoError(t, flags.Parse([]string{"--geocoder", "none"}))
	require.NoError(t, applyEnv(flags))

	assert.Equal(t, "/var/lib/locator", *dbPath)
	assert.Equal(t, "none", *geocoder, "explicit flags win over the environment")
}

func TestApplyEnvUnset(t *testing.T) {
	t.Setenv("LOCATOR_DB_PATH", "")
	t.Setenv("LOCATOR_GEOCODER", "")

	flags, dbPath, geocoder := newTestFlags()
	require.NoError(t, applyEnv(flags))

	assert.Equal(t, "db", *dbPath)
	assert.Equal(t, "mapbox", *geocoder)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "", maskToken(""))
	assert.Equal(t, "*****", maskToken("short"))
	assert.Equal(t, "pk.eyJ**********wxyz", maskToken("pk.eyJ0123456789wxyz"))
}

func TestPrintResults(t *testing.T) {
	lat, lng := locator.Coordinates(35.9049, -79.0469)
	d := 12.34

	results := []locator.Result{
		{
			Center: &locator.Center{
				Name:      "UNC Lineberger",
				City:      "Chapel Hill",
				State:     "NC",
				Latitude:  lat,
				Longitude: lng,
				Products:  []string{"Yescarta", "Carvykti"},
			},
			Distance: &d,
		},
		{Center: &locator.Center{Name: "Nationwide Children's", City: "Columbus", State: "OH"}},
	}

	var buf bytes.Buffer
	require.NoError(t, printResults(&buf, results, true))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "12.3 mi")
	assert.Contains(t, out, "Yescarta, Carvykti")
	assert.Contains(t, out, "showing all centers")
}

func TestSeedDatabase(t *testing.T) {
	options.DbPath = t.TempDir()
	dbPath := filepath.Join(options.DbPath, dbFile)
	chapelHill := spatial.Point{Lat: 35.9132, Lng: -79.0558}

	db, err := openDatabase()
	require.NoError(t, err)

	store, err := openDeviceStore(db)
	require.NoError(t, err)
	require.NoError(t, store.Set(devicestore.MapboxTokenKey, "pk.test-token"))
	locator.NewGeocodeCache(store, devicestore.GeocodeCacheKey, 0).Put("27514", chapelHill)
	require.NoError(t, db.Close())

	require.NoError(t, seedDatabase(t.Context(), dbPath, "testdata/centers.json"))
	require.NoError(t, seedDatabase(t.Context(), dbPath, "testdata/centers.json"))

	db, err = openDatabase()
	require.NoError(t, err)
	defer db.Close()

	n, err := locator.NewCenterRepository(db).Count()
	require.NoError(t, err)
	assert.Equal(t, 8, n, "seeding twice replaces the centers")

	store, err = openDeviceStore(db)
	require.NoError(t, err)

	token, ok, err := store.Get(devicestore.MapboxTokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pk.test-token", token)

	got, ok := locator.NewGeocodeCache(store, devicestore.GeocodeCacheKey, 0).Get("27514")
	assert.True(t, ok)
	assert.Equal(t, chapelHill, got)
}

func TestSeedDatabaseBadFileKeepsData(t *testing.T) {
	options.DbPath = t.TempDir()
	dbPath := filepath.Join(options.DbPath, dbFile)

	require.NoError(t, seedDatabase(t.Context(), dbPath, "testdata/centers.json"))
	require.Error(t, seedDatabase(t.Context(), dbPath, filepath.Join(t.TempDir(), "missing.json")))

	db, err := openDatabase()
	require.NoError(t, err)
	defer db.Close()

	n, err := locator.NewCenterRepository(db).Count()
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
