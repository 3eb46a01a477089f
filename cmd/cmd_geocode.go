// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGeocodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode <text>",
		Short: "Resolve a ZIP or postal code through the geocode cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			resolver, err := newResolver(cmd.Context(), db)
			if err != nil {
				return err
			}

			res, err := resolver.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("geocoding: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%.6f,%.6f", res.Query, res.Point.Lat, res.Point.Lng)

			switch {
			case res.Cached:
				fmt.Fprint(out, "\t(cached)")
			case res.Result != nil:
				fmt.Fprintf(out, "\t%s [%s, %s]", res.Result.DisplayName, res.Result.Provider, res.Result.Confidence)
			}

			fmt.Fprintln(out)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newGeocodeCmd())
}
