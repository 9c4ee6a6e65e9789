// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"

	"github.com/gogpu/vrbridge/stereo"
)

var (
	fovFlags       stereo.Fov
	nearZ, farZ    float32
	zScale, zShift float32
)

var fovCmd = &cobra.Command{
	Use:   "fov",
	Short: "Print the frustum offsets and projection for a field of view",
	Long: `Print what the game hooks would write for one eye: aspect ratio,
vertical FOV and frustum offsets, then the off-axis projection and its
device-depth variant. Angles are in radians.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		off, err := stereo.ComputeFovOffsets(fovFlags)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "aspect  %.6f\nfov_y   %.6f\noffset  %.6f %.6f\n",
			off.AspectRatio, off.FovY, off.OffsetX, off.OffsetY)

		proj := stereo.ProjectionMatrix(nearZ, farZ, fovFlags)
		fmt.Fprintln(out, "projection")
		printMatrix(out, proj)
		fmt.Fprintln(out, "device projection")
		printMatrix(out, stereo.DeviceProjection(proj, zScale, zShift))
		return nil
	},
}

func init() {
	f := fovCmd.Flags()
	f.Float32Var(&fovFlags.Left, "left", -0.9, "left edge angle")
	f.Float32Var(&fovFlags.Right, "right", 0.7, "right edge angle")
	f.Float32Var(&fovFlags.Up, "up", 0.8, "top edge angle")
	f.Float32Var(&fovFlags.Down, "down", -0.8, "bottom edge angle")
	f.Float32Var(&nearZ, "near", 1, "near plane distance")
	f.Float32Var(&farZ, "far", 25000, "far plane distance")
	f.Float32Var(&zScale, "z-scale", 0.5, "device depth scale")
	f.Float32Var(&zShift, "z-offset", 0.5, "device depth offset")
}

func printMatrix(w io.Writer, m mgl32.Mat4) {
	for i := range 4 {
		r := m.Row(i)
		fmt.Fprintf(w, "  % .6f % .6f % .6f % .6f\n", r[0], r[1], r[2], r[3])
	}
}
