// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package main

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/spf13/cobra"

	"github.com/gogpu/vrbridge"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "List the Vulkan adapters the bridge can run on",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return errors.New("vulkan backend not available")
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err != nil {
			return fmt.Errorf("create instance: %w", err)
		}
		defer instance.Destroy()

		adapters := instance.EnumerateAdapters(nil)
		if len(adapters) == 0 {
			return errors.New("no GPU adapters found")
		}
		out := cmd.OutOrStdout()
		for i := range adapters {
			info := adapters[i].Info
			fmt.Fprintf(out, "%d  %-40s %v\n", i, info.Name, info.DeviceType)
			vrbridge.Logger().Debug("probe: adapter", "index", i, "name", info.Name, "type", info.DeviceType)
		}
		return nil
	},
}
