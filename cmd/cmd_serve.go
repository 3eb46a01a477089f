// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/geniehub/locator/locator"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		source string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the locator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			src, err := newSource(source, file, db)
			if err != nil {
				return err
			}

			centers, err := src.LoadCenters(ctx)
			if err != nil {
				return fmt.Errorf("loading centers: %w", err)
			}

			if len(centers) == 0 {
				log.Printf("⚠️ No centers loaded from %s - run 'centers sync' or 'seed' first", source)
			}

			resolver, err := newResolver(ctx, db)
			if err != nil {
				return err
			}

			log.Printf("📍 Serving %d centers on http://%s (geocoder: %s)", len(centers), addr, options.Geocoder)

			return locator.NewServer(centers, resolver).Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	cmd.Flags().StringVar(&source, "source", "duckdb", "Where to read centers from: duckdb, supabase or file")
	cmd.Flags().StringVar(&file, "file", "", "JSON file with centers, for --source file")

	return cmd
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}
