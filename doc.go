// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vrbridge injects head-tracked stereo rendering into an emulated
// console game and hands each eye to a D3D12 compositor.
//
// # Overview
//
// The emulator renders with Vulkan. The compositor, usually an OpenXR
// runtime, consumes D3D12 textures. vrbridge allocates each eye's images
// in D3D12, exports them, and imports them into Vulkan, so that a frame
// copied on the emulator's queue is visible to the compositor without a
// CPU round trip. A D3D12 fence imported as a Vulkan timeline semaphore
// orders the two queues.
//
// On the game side, the patched camera routines call into
// stereo.Hooks, which rewrite the guest camera and projection for the eye
// being rendered.
//
// # Quick Start
//
//	s, err := vrbridge.NewSession(vkDev, vkQueue, d3dDev, d3dQueue,
//	    poses, guestMem, 2016, 2240,
//	    vrbridge.WithDepth(),
//	    vrbridge.WithPlayerHeight(1.6))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	// Emulator render thread, once per frame:
//	s.Frames().BeginFrame()
//	b := s.Frames().Record(cmd)
//	b.Capture(stereo.Left, frame.Color, leftImage)
//	b.Capture(stereo.Right, frame.Color, rightImage)
//	s.Frames().Submit(b)
//	s.EndFrame()
//
// # Architecture
//
// The library is organized into:
//   - vkapi, d3dapi: the slices of Vulkan and D3D12 the bridge uses
//   - backend/vulkan, backend/d3d12: implementations over the real APIs
//   - texture: shared textures and layout tracking
//   - timeline: the cross-API timeline
//   - frame: per-frame copy and synchronization
//   - stereo: pose, projection and the game hooks
//   - swapchain: runtime swapchain format selection
//   - config: file and environment settings
//
// # Errors
//
// Recoverable failures are returned. Failures that leave the session
// unusable, such as a missing memory type during setup, are passed to a
// FatalHandler; the default logs and panics.
package vrbridge

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
