// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vkapi describes the slice of the Vulkan API used by the stereo
// bridge: handles, enum values, barrier and copy descriptions, and the
// Device interface through which all commands are recorded.
//
// The numeric values of every enum match the Vulkan headers so that a
// backend can pass them to the driver unchanged. Nothing in this package
// talks to a driver; see backend/vulkan for the concrete implementation
// and the test doubles in the consuming packages for fakes.
//
// # Synchronization
//
// Barriers are described in the synchronization2 shape (ImageMemoryBarrier2,
// MemoryBarrier2, DependencyInfo). Backends that only expose the original
// vkCmdPipelineBarrier fold the per-barrier stage masks into a single
// source and destination mask; the low 32 bits of every flag are identical
// between the two generations.
//
// # Memory
//
// FindMemoryType selects a memory type from the physical device's memory
// properties, honoring only the first MemoryTypeCount entries.
package vkapi
