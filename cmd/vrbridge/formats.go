// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gogpu/vrbridge/config"
	"github.com/gogpu/vrbridge/swapchain"
	"github.com/gogpu/vrbridge/vkapi"
)

var preferredName string

var formatsCmd = &cobra.Command{
	Use:   "formats [runtime-vkformat...]",
	Short: "List known formats or pick one from a runtime's list",
	Long: `With no arguments, list the formats the bridge can present.
With arguments, treat them as the VkFormat values a runtime offers, in its
order of preference, and print the format the bridge would choose.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, name := range config.Formats() {
				f, _ := formatByName(name)
				fmt.Fprintf(out, "%-16s %d\n", name, f)
			}
			return nil
		}

		runtime := make([]int64, 0, len(args))
		for _, a := range args {
			v, err := strconv.ParseInt(a, 10, 64)
			if err != nil {
				return fmt.Errorf("runtime format %q: %w", a, err)
			}
			runtime = append(runtime, v)
		}

		name := cfg.PreferredFormat
		if preferredName != "" {
			name = preferredName
		}
		preferred, err := formatByName(name)
		if err != nil {
			return err
		}
		chosen, err := swapchain.SelectFormat(runtime, appFormats(), preferred)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %d\n", nameOf(chosen), chosen)
		return nil
	},
}

func init() {
	formatsCmd.Flags().StringVar(&preferredName, "preferred", "", "preferred format name (overrides preferred_format)")
}

func formatByName(name string) (vkapi.Format, error) {
	tf, err := config.ParseFormat(name)
	if err != nil {
		return vkapi.FormatUndefined, err
	}
	f, ok := vkapi.FormatFromGPUTypes(tf)
	if !ok {
		return vkapi.FormatUndefined, fmt.Errorf("format %q has no Vulkan equivalent", name)
	}
	return f, nil
}

// appFormats lists the Vulkan formats of every config.Formats name.
func appFormats() []vkapi.Format {
	var out []vkapi.Format
	for _, name := range config.Formats() {
		if f, err := formatByName(name); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func nameOf(f vkapi.Format) string {
	for _, name := range config.Formats() {
		if g, err := formatByName(name); err == nil && g == f {
			return name
		}
	}
	return "unknown"
}
