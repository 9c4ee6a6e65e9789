// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command vrbridge inspects the pieces of a stereo session without an
// emulator attached: GPU adapters, swapchain format selection and the
// projection built from a field of view.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/vrbridge"
	"github.com/gogpu/vrbridge/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "vrbridge",
	Short:             "VR stereo bridge tools",
	Long:              `vrbridge - inspect GPU adapters, swapchain formats and eye projections for the VR bridge`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vrbridge v%s\n", vrbridge.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is vrbridge.yaml in the user config directory)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(fovCmd)
	rootCmd.AddCommand(probeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and sets up logging before any
// subcommand runs.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	vrbridge.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: c.Level(),
	})))
	c.Validate()
	vrbridge.SetLogEvery(c.LogEvery)
	cfg = c
	return nil
}
