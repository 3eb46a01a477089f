// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

// Package devicestore persists small values on the local device under fixed
// keys, the way a browser keeps them in local storage.
package devicestore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Fixed keys. Each component owns its own namespace.
const (
	GeocodeCacheKey = "treatment-centers/geocode-cache"
	MapboxTokenKey  = "mapbox/access-token"
)

// Store is a string key-value table in the local DuckDB file.
type Store struct {
	db *sql.DB
}

// New wraps an open database. CreateSchema must run before first use.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateSchema creates the device_storage table.
func (s *Store) CreateSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS device_storage (
			key VARCHAR PRIMARY KEY,
			value VARCHAR NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

// Get returns the value stored under key. The boolean is false when the key
// was never written.
func (s *Store) Get(key string) (string, bool, error) {
	var value string

	err := s.db.QueryRow(`SELECT value FROM device_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}

	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO device_storage (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM device_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}

	return nil
}

// Keys lists the stored keys in lexical order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM device_storage ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}

		keys = append(keys, k)
	}

	return keys, rows.Err()
}
