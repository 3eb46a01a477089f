// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/geniehub/locator/locator"
	"github.com/spf13/cobra"
)

func printClusters(w io.Writer, clusters []locator.Cluster) {
	for i, c := range clusters {
		if c.IsSingle() {
			center := c.Centers[0]
			fmt.Fprintf(w, "%3d  %-14s  %s (%s, %s)\n", i, c.ID, center.Name, center.City, center.State)

			continue
		}

		fmt.Fprintf(w, "%3d  %-14s  %d centers around %.4f,%.4f\n", i, c.ID, c.Count(), c.Point.Lat, c.Point.Lng)
	}
}

func newClustersCmd() *cobra.Command {
	var (
		f       filterFlags
		zoom    float64
		geoJSON bool
	)

	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Group matching centers as the map would at a zoom level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			centers, c, err := f.load(cmd.Context(), db)
			if err != nil {
				return err
			}

			v := locator.Locate(centers, c, zoom)

			if geoJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(locator.ClustersToGeoJSON(v.Clusters))
			}

			printClusters(cmd.OutOrStdout(), v.Clusters)

			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Float64Var(&zoom, "zoom", locator.DefaultZoom, "Map zoom level")
	cmd.Flags().BoolVar(&geoJSON, "geojson", false, "Print a GeoJSON feature collection")

	return cmd
}

func init() {
	rootCmd.AddCommand(newClustersCmd())
}
