// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package locator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/geniehub/locator/utils/textutils"
	"github.com/uber/h3-go/v4"
)

const (
	minH3Res = 3
	maxH3Res = 8
)

// CellCount is the number of centers inside one H3 cell.
type CellCount struct {
	Cell  string `json:"cell"`
	Count int    `json:"count"`
}

// CenterSource loads the center dataset.
type CenterSource interface {
	LoadCenters(ctx context.Context) ([]*Center, error)
}

// CenterRepository is the local DuckDB replica of the center dataset.
type CenterRepository interface {
	CenterSource

	// CreateSchema creates the centers table
	CreateSchema() error

	// ReplaceAll swaps the replica content for centers in one transaction.
	// progress, if not nil, is called once per inserted row.
	ReplaceAll(centers []*Center, progress func()) error

	// Count returns the number of stored centers
	Count() (int, error)

	// CellCounts aggregates centers per H3 cell at res (3 to 8)
	CellCounts(res int) ([]CellCount, error)

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlCenterRepository struct {
	db *sql.DB
}

// NewCenterRepository creates a new center repository.
func NewCenterRepository(db *sql.DB) CenterRepository {
	return &sqlCenterRepository{db: db}
}

func (r *sqlCenterRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlCenterRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS centers_seq START 1;

		CREATE TABLE IF NOT EXISTS centers (
			seq INTEGER PRIMARY KEY DEFAULT nextval('centers_seq'),
			id VARCHAR,
			name VARCHAR NOT NULL,
			latitude DOUBLE,
			longitude DOUBLE,
			address VARCHAR,
			city VARCHAR,
			state VARCHAR,
			country VARCHAR,
			zip VARCHAR,
			therapeutic_areas VARCHAR[],
			manufacturers VARCHAR[],
			products VARCHAR[],
			verified BOOLEAN DEFAULT FALSE,
			accreditations VARCHAR[],
			phone VARCHAR,
			website VARCHAR,
			email VARCHAR,
			synced_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res3 UBIGINT,
			h3_res4 UBIGINT,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)
	if err != nil {
		return fmt.Errorf("creating centers table: %w", err)
	}

	return nil
}

// h3Cells returns the cells of c for res 3 to 8, nil entries when c has no
// point.
func h3Cells(c *Center) []any {
	cells := make([]any, 0, maxH3Res-minH3Res+1)

	for res := minH3Res; res <= maxH3Res; res++ {
		if cell := c.H3Cell(res); cell != 0 {
			cells = append(cells, int64(cell))
		} else {
			cells = append(cells, nil)
		}
	}

	return cells
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}

	return *f
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}

	return tags
}

func (r *sqlCenterRepository) ReplaceAll(centers []*Center, progress func()) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	rollback := func(err error) error {
		if rErr := tx.Rollback(); rErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rErr)
		}

		return err
	}

	if _, err := tx.Exec(`DELETE FROM centers`); err != nil {
		return rollback(fmt.Errorf("clearing centers: %w", err))
	}

	stmt, err := tx.Prepare(`
		INSERT INTO centers(
			id,
			name,
			latitude,
			longitude,
			address,
			city,
			state,
			country,
			zip,
			therapeutic_areas,
			manufacturers,
			products,
			verified,
			accreditations,
			phone,
			website,
			email,
			h3_res3,
			h3_res4,
			h3_res5,
			h3_res6,
			h3_res7,
			h3_res8
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return rollback(err)
	}
	defer stmt.Close()

	for _, c := range centers {
		args := []any{
			c.ID,
			c.Name,
			nullableFloat(c.Latitude),
			nullableFloat(c.Longitude),
			c.Address,
			c.City,
			c.State,
			c.Country,
			c.Zip,
			nonNilTags(c.TherapeuticAreas),
			nonNilTags(c.Manufacturers),
			nonNilTags(c.Products),
			c.Verified,
			nonNilTags(c.Accreditations),
			c.Phone,
			c.Website,
			c.Email,
		}
		args = append(args, h3Cells(c)...)

		if _, err := stmt.Exec(args...); err != nil {
			return rollback(fmt.Errorf("inserting center %q: %w", c.Name, err))
		}

		if progress != nil {
			progress()
		}
	}

	return tx.Commit()
}

func (r *sqlCenterRepository) LoadCenters(ctx context.Context) ([]*Center, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, latitude, longitude, address, city, state, country, zip,
			therapeutic_areas, manufacturers, products, verified, accreditations,
			phone, website, email
		FROM centers
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying centers: %w", err)
	}
	defer rows.Close()

	var centers []*Center

	for rows.Next() {
		var (
			c                                              Center
			id, address, city, state, country, zip         sql.NullString
			phone, website, email                          sql.NullString
			lat, lng                                       sql.NullFloat64
			verified                                       sql.NullBool
			areas, manufacturers, products, accreditations any
		)

		if err := rows.Scan(
			&id, &c.Name, &lat, &lng, &address, &city, &state, &country, &zip,
			&areas, &manufacturers, &products, &verified, &accreditations,
			&phone, &website, &email,
		); err != nil {
			return nil, fmt.Errorf("scanning center: %w", err)
		}

		c.ID, c.Address, c.City = id.String, address.String, city.String
		c.State, c.Country, c.Zip = state.String, country.String, zip.String
		c.Phone, c.Website, c.Email = phone.String, website.String, email.String
		c.Verified = verified.Bool

		if lat.Valid && lng.Valid {
			c.Latitude, c.Longitude = Coordinates(lat.Float64, lng.Float64)
		}

		for _, l := range []struct {
			dst *[]string
			src any
		}{
			{&c.TherapeuticAreas, areas},
			{&c.Manufacturers, manufacturers},
			{&c.Products, products},
			{&c.Accreditations, accreditations},
		} {
			tags, ok := textutils.AnyToStringSlice(l.src)
			if !ok {
				return nil, fmt.Errorf("center %q: unexpected list type %T", c.Name, l.src)
			}

			*l.dst = tags
		}

		centers = append(centers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating centers: %w", err)
	}

	return centers, nil
}

func (r *sqlCenterRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM centers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting centers: %w", err)
	}

	return n, nil
}

func (r *sqlCenterRepository) CellCounts(res int) ([]CellCount, error) {
	if res < minH3Res || res > maxH3Res {
		return nil, fmt.Errorf("h3 resolution %d out of range [%d, %d]", res, minH3Res, maxH3Res)
	}

	// res is range checked above; column names can't be bound.
	col := fmt.Sprintf("h3_res%d", res)

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT %[1]s, COUNT(*) AS n
		FROM centers
		WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s
		ORDER BY n DESC, %[1]s
	`, col))
	if err != nil {
		return nil, fmt.Errorf("querying cell counts: %w", err)
	}
	defer rows.Close()

	var out []CellCount

	for rows.Next() {
		var (
			cell uint64
			n    int
		)

		if err := rows.Scan(&cell, &n); err != nil {
			return nil, fmt.Errorf("scanning cell count: %w", err)
		}

		out = append(out, CellCount{Cell: h3.Cell(int64(cell)).String(), Count: n})
	}

	return out, rows.Err()
}
