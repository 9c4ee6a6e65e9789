// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package stereo turns per-eye head poses and fields of view into the
// camera and projection structures the emulated game reads from memory.
//
// The math is pure: [ComputeFovOffsets], [ProjectionMatrix],
// [DeviceProjection], [RecenterCamera] and [RenderCamera] have no side
// effects. [Hooks] connects them to emulated memory. Each hook reads its
// arguments from guest registers, computes the per-eye result and writes
// the big-endian struct back.
//
// Per-eye state lives in a [FrameContext] that the caller threads through
// every hook call. The camera protocol of the game is two-phase: the
// position hook computes a rotation and caches it in the context, and a
// later rotation hook serializes the cached value without recomputing it.
//
// Guest structures mirror the game's in-memory layout field for field and
// are encoded big-endian with encoding/binary:
//
//	mem := stereo.NewBigEndianMemory(stereo.RAM(guest))
//	hooks := stereo.NewHooks(runtime, mem, stereo.WithPlayerHeight(0.2))
//	ctx := stereo.NewFrameContext()
//	hooks.BeginCameraSide(ctx, &regs)
package stereo
