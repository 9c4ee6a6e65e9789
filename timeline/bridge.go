// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package timeline synchronizes Vulkan and D3D12 work on one shared
// 64-bit timeline: a D3D12 fence whose payload is imported into a Vulkan
// timeline semaphore.
//
// Either API can signal a value and the other can wait for it. Waits are
// GPU-side only; nothing here blocks the CPU. The values each API signals
// must strictly increase. Signals of the two APIs may be issued out of
// value order when a wait orders them on the GPU: a Vulkan submit that
// waits for 2 and signals 3 may be issued before the D3D12 signal of 2.
package timeline

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/vkapi"
)

// ErrNonMonotonic is returned when a signal value does not exceed the last
// value the same API signaled on the bridge.
var ErrNonMonotonic = errors.New("timeline: signal value not increasing")

// Bridge couples a D3D12 fence and the Vulkan semaphore importing it.
type Bridge struct {
	semaphore vkapi.Semaphore
	queue     d3dapi.CommandQueue
	fence     d3dapi.Fence

	lastVulkan  atomic.Uint64
	lastD3D     atomic.Uint64
	lastAwaited atomic.Uint64

	signals logging.Sampler
	waits   logging.Sampler
}

// New creates a bridge. semaphore must be the import of fence; queue is
// the D3D12 queue on which D3D12-side signals and waits are enqueued.
func New(semaphore vkapi.Semaphore, fence d3dapi.Fence, queue d3dapi.CommandQueue) *Bridge {
	return &Bridge{
		semaphore: semaphore,
		queue:     queue,
		fence:     fence,
	}
}

// Semaphore returns the Vulkan timeline semaphore.
func (b *Bridge) Semaphore() vkapi.Semaphore { return b.semaphore }

// LastSignaled returns the highest value signaled so far by either API.
func (b *Bridge) LastSignaled() uint64 { return max(b.lastVulkan.Load(), b.lastD3D.Load()) }

// LastAwaited returns the highest value waited for so far.
func (b *Bridge) LastAwaited() uint64 { return b.lastAwaited.Load() }

// reserve claims value as the next signal of the API whose last value is
// held in last.
func reserve(last *atomic.Uint64, value uint64) error {
	for {
		prev := last.Load()
		if value <= prev {
			return fmt.Errorf("%w: %d after %d", ErrNonMonotonic, value, prev)
		}
		if last.CompareAndSwap(prev, value) {
			return nil
		}
	}
}

func (b *Bridge) noteWait(value uint64) {
	for {
		last := b.lastAwaited.Load()
		if value <= last || b.lastAwaited.CompareAndSwap(last, value) {
			return
		}
	}
}

// SignalVulkan reserves value and returns the semaphore signal to attach
// to the submit that produces it. The returned entry must be part of the
// same vkQueueSubmit as the work it orders.
func (b *Bridge) SignalVulkan(value uint64, stage vkapi.PipelineStageFlags2) (vkapi.SemaphoreSubmit, error) {
	if err := reserve(&b.lastVulkan, value); err != nil {
		return vkapi.SemaphoreSubmit{}, err
	}
	if n, ok := b.signals.Tick(); ok {
		logging.Logger().Debug("timeline: vulkan signal", "value", value, "count", n)
	}
	return vkapi.SemaphoreSubmit{Semaphore: b.semaphore, Value: value, StageMask: stage}, nil
}

// WaitVulkan returns the semaphore wait that makes a Vulkan submit wait
// until value is reached.
func (b *Bridge) WaitVulkan(value uint64, stage vkapi.PipelineStageFlags2) vkapi.SemaphoreSubmit {
	b.noteWait(value)
	if n, ok := b.waits.Tick(); ok {
		logging.Logger().Debug("timeline: vulkan wait", "value", value, "count", n)
	}
	return vkapi.SemaphoreSubmit{Semaphore: b.semaphore, Value: value, StageMask: stage}
}

// SignalD3D enqueues a signal of value on the D3D12 queue.
func (b *Bridge) SignalD3D(value uint64) error {
	if err := reserve(&b.lastD3D, value); err != nil {
		return err
	}
	if n, ok := b.signals.Tick(); ok {
		logging.Logger().Debug("timeline: d3d12 signal", "value", value, "count", n)
	}
	if err := b.queue.Signal(b.fence, value); err != nil {
		logging.Logger().Error("timeline: d3d12 signal failed", "value", value, "err", err)
		return fmt.Errorf("timeline: signal %d: %w", value, err)
	}
	return nil
}

// WaitD3D makes the D3D12 queue wait until value is reached. A fence in
// the error state is logged and reported as d3dapi.ErrDeviceRemoved after
// the wait is still enqueued.
func (b *Bridge) WaitD3D(value uint64) error {
	b.noteWait(value)
	if n, ok := b.waits.Tick(); ok {
		logging.Logger().Debug("timeline: d3d12 wait", "value", value,
			"completed", b.fence.CompletedValue(), "count", n)
	}
	if err := b.queue.Wait(b.fence, value); err != nil {
		logging.Logger().Error("timeline: d3d12 wait failed", "value", value, "err", err)
		return fmt.Errorf("timeline: wait %d: %w", value, err)
	}
	if b.fence.CompletedValue() == d3dapi.FenceErrorValue {
		logging.Logger().Error("timeline: fence in error state", "value", value)
		return d3dapi.ErrDeviceRemoved
	}
	return nil
}

// Completed returns the fence's completed value as seen by the CPU.
func (b *Bridge) Completed() (uint64, error) {
	v := b.fence.CompletedValue()
	if v == d3dapi.FenceErrorValue {
		return 0, d3dapi.ErrDeviceRemoved
	}
	return v, nil
}
