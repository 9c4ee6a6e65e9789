// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "List the Vulkan adapters the bridge can run on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("built with nogpu: adapter probing unavailable")
	},
}
