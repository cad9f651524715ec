// Copyright 2025-26 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli holds the root command and helpers shared by the adiff
// subcommands.
package cli

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"m4o.io/adiff/internal/config"
)

var (
	cfg    = config.Default()
	logger = slog.Default()
)

// RootCmd is the adiff command; subcommands register themselves on it.
var RootCmd = &cobra.Command{
	Use:           "adiff",
	Short:         "Inspect and map OpenStreetMap augmented diffs",
	Long:          "Inspect and map OpenStreetMap augmented diffs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()

		verbose, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}

		logger = NewLogger(os.Stderr, verbose)
		slog.SetDefault(logger)

		path, err := flags.GetString("config")
		if err != nil {
			return err
		}

		c, err := config.Load(path)
		if err != nil {
			return err
		}

		cfg = c

		return nil
	},
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "TOML configuration file")
	flags.BoolP("verbose", "v", false, "log debug messages")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// Config returns the configuration loaded for the running command.
func Config() *config.Config {
	return cfg
}

// Logger returns the logger set up for the running command.
func Logger() *slog.Logger {
	return logger
}

// NewLogger creates a slog logger writing human readable records to w.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	h := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	return slog.New(h)
}
