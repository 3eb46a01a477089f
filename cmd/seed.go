// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geniehub/locator/locator"
	"github.com/spf13/cobra"
)

const seedFile = "cmd/testdata/centers.json"

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seeds the database with data from " + seedFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(options.DbPath, 0o750); err != nil {
				return fmt.Errorf("creating db directory: %w", err)
			}

			return seedDatabase(cmd.Context(), filepath.Join(options.DbPath, dbFile), file)
		},
	}

	cmd.Flags().StringVar(&file, "file", seedFile, "JSON file with the centers to load")

	return cmd
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}

// seedDatabase replaces the centers in the database at dbPath with the ones in
// file. The device store shares the database and is left untouched.
func seedDatabase(ctx context.Context, dbPath, file string) error {
	centers, err := locator.JSONFileSource{Path: file}.LoadCenters(ctx)
	if err != nil {
		return err
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := locator.NewCenterRepository(db)
	if err := repo.CreateSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := repo.ReplaceAll(centers, nil); err != nil {
		return fmt.Errorf("failed to save centers: %w", err)
	}

	fmt.Printf("Database seeded with %d centers.\n", len(centers))

	return nil
}
