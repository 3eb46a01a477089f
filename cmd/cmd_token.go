// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/geniehub/locator/devicestore"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the mapping access token stored on this device",
	Long: `
The token is kept in plain text in the local database and is only sent to the
mapping provider. MAPBOX_ACCESS_TOKEN is used when no token is stored.
`,
}

// maskToken keeps enough of t to recognize it.
func maskToken(t string) string {
	if len(t) <= 8 {
		return strings.Repeat("*", len(t))
	}

	return t[:6] + strings.Repeat("*", len(t)-10) + t[len(t)-4:]
}

func withDeviceStore(fn func(*devicestore.Store) error) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := openDeviceStore(db)
	if err != nil {
		return err
	}

	return fn(store)
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Save the access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		token := strings.TrimSpace(args[0])
		if token == "" {
			return errors.New("token can't be empty")
		}

		return withDeviceStore(func(store *devicestore.Store) error {
			if err := store.Set(devicestore.MapboxTokenKey, token); err != nil {
				return fmt.Errorf("saving token: %w", err)
			}

			log.Printf("✅ Saved token %s", maskToken(token))

			return nil
		})
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved access token, masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDeviceStore(func(store *devicestore.Store) error {
			token, ok, err := store.Get(devicestore.MapboxTokenKey)
			if err != nil {
				return fmt.Errorf("reading token: %w", err)
			}

			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no token saved")

				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), maskToken(token))

			return nil
		})
	},
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved access token",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return withDeviceStore(func(store *devicestore.Store) error {
			if err := store.Delete(devicestore.MapboxTokenKey); err != nil {
				return fmt.Errorf("removing token: %w", err)
			}

			log.Println("🗑️ Token removed")

			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenSetCmd, tokenShowCmd, tokenClearCmd)
}
