// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/geniehub/locator/locator"
	"github.com/geniehub/locator/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var centersCmd = &cobra.Command{
	Use:   "centers",
	Short: "Manage and query the treatment center dataset",
}

func newCentersSyncCmd() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the managed backend dataset into the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := newSupabaseSource(country)
			if err != nil {
				return err
			}

			centers, err := src.LoadCenters(cmd.Context())
			if err != nil {
				return err
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := locator.NewCenterRepository(db)
			if err := repo.CreateSchema(); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}

			if err := replaceWithProgress(repo, centers, "Syncing centers"); err != nil {
				return fmt.Errorf("storing centers: %w", err)
			}

			log.Printf("✅ Synced %s centers", textutils.FormatInt(int64(len(centers))))

			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Only sync centers of this country code")

	return cmd
}

const progressEvery = 100

// replaceWithProgress stores centers, drawing a progress bar on terminals.
func replaceWithProgress(repo locator.CenterRepository, centers []*locator.Center, description string) error {
	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(centers),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	done := 0
	progress := func() {
		done++
		if bar != nil {
			_ = bar.Add(1)
		} else if done%progressEvery == 0 {
			log.Printf("📥 Stored %d/%d centers", done, len(centers))
		}
	}

	if err := repo.ReplaceAll(centers, progress); err != nil {
		return err
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return nil
}

func printResults(w io.Writer, results []locator.Result, fellBack bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "NAME\tCITY\tSTATE\tDISTANCE\tPRODUCTS")

	for _, r := range results {
		distance := "-"
		if r.Distance != nil {
			distance = fmt.Sprintf("%.1f mi", *r.Distance)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.City, r.State, distance, strings.Join(r.Products, ", "))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if fellBack {
		fmt.Fprintln(w, "\nNo centers matched the location filter; showing all centers for the selected therapies.")
	}

	return nil
}

func newCentersListCmd() *cobra.Command {
	var f filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List centers matching the filters",
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

			v := locator.Locate(centers, c, locator.DefaultZoom)

			return printResults(cmd.OutOrStdout(), v.Results, v.Fallback)
		},
	}

	f.register(cmd)

	return cmd
}

func newCentersCoverageCmd() *cobra.Command {
	var res int

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Count local centers per H3 cell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := locator.NewCenterRepository(db)
			if err := repo.CreateSchema(); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}

			counts, err := repo.CellCounts(res)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CELL\tCENTERS")

			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%s\n", c.Cell, textutils.FormatInt(int64(c.Count)))
			}

			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&res, "res", 5, "H3 resolution, 3 to 8")

	return cmd
}

func init() {
	rootCmd.AddCommand(centersCmd)
	centersCmd.AddCommand(newCentersSyncCmd())
	centersCmd.AddCommand(newCentersListCmd())
	centersCmd.AddCommand(newCentersCoverageCmd())
}
