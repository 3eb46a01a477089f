// Copyright 2025 The Genie Hub Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envFlags maps flags to the environment variables that set them when the
// flag is not given.
var envFlags = map[string]string{
	"db-path":  "LOCATOR_DB_PATH",
	"geocoder": "LOCATOR_GEOCODER",
}

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "locator",
	Short: "cell and gene therapy treatment center locator",
	Long: `
locator finds qualified treatment centers for cell and gene therapies. It
filters the center dataset by therapeutic area, manufacturer, product and
location, sorts by distance from a postal code and groups centers into map
clusters.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadEnv(".env"); err != nil {
			return err
		}

		return applyEnv(cmd.Flags())
	},
}

var Version = "dev"

// loadEnv reads path into the environment. Variables already set win and a
// missing file is not an error.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return nil
}

func applyEnv(flags *pflag.FlagSet) error {
	for name, key := range envFlags {
		v := os.Getenv(key)
		if v == "" || flags.Lookup(name) == nil || flags.Changed(name) {
			continue
		}

		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("applying %s: %w", key, err)
		}
	}

	return nil
}

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
