// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package frame copies each rendered eye from the emulator's render
// targets into shared textures and orders the copies against the
// consumer through the textures' timelines.
//
// Frame n uses two timeline values per shared texture: the Vulkan submit
// that records the copy signals 2n-1, and the consumer signals 2n after it
// is done reading. Before overwriting a texture the producer waits for the
// release of the copy the consumer last took. A copy the consumer never
// took is overwritten without waiting, so a consumer that skips frames
// never deadlocks the producer.
//
// A typical frame on the emulator's render thread:
//
//	o.BeginFrame()
//	b := o.Record(cmd)
//	b.Capture(stereo.Left, frame.Color, leftImage)
//	b.Capture(stereo.Right, frame.Color, rightImage)
//	o.Submit(b)
//
// and on the compositor:
//
//	o.Consume(stereo.Left, list)
//	// read the D3D12 resources
//	o.Release(stereo.Left)
package frame

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/stereo"
	"github.com/gogpu/vrbridge/texture"
	"github.com/gogpu/vrbridge/timeline"
	"github.com/gogpu/vrbridge/vkapi"
)

// Kind selects the color or depth target of an eye.
type Kind uint8

const (
	Color Kind = iota
	Depth
)

func (k Kind) String() string {
	if k == Depth {
		return "depth"
	}
	return "color"
}

var (
	// ErrAlreadyCaptured is returned for a second capture of the same
	// eye and kind within one frame.
	ErrAlreadyCaptured = errors.New("frame: target already captured this frame")

	// ErrNoTarget is returned when the eye has no target of the kind.
	ErrNoTarget = errors.New("frame: no target for eye")

	// ErrUnknownSource is returned when capturing an image the source
	// tracker does not follow.
	ErrUnknownSource = errors.New("frame: source image not tracked")

	// ErrNothingSubmitted is returned by Consume when no copy of the eye
	// was submitted since the last one it took.
	ErrNothingSubmitted = errors.New("frame: no copy submitted for eye")

	// ErrNotConsumed is returned by Release when the eye has no consumed
	// copy awaiting release.
	ErrNotConsumed = errors.New("frame: no consumed copy to release")

	// ErrNotReleased is returned by Consume while the previously consumed
	// copy of the eye has not been released.
	ErrNotReleased = errors.New("frame: previous copy not released")

	// ErrBatchDone is returned when using a batch after Submit.
	ErrBatchDone = errors.New("frame: batch already submitted")

	// ErrNoFrame is returned when capturing before the first BeginFrame.
	ErrNoFrame = errors.New("frame: no frame begun")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("frame: orchestrator closed")
)

// EyeTargets are the shared textures an eye is copied into. Depth may be
// nil.
type EyeTargets struct {
	Color *texture.SharedTexture
	Depth *texture.SharedTexture
}

type target struct {
	tex    *texture.SharedTexture
	bridge *timeline.Bridge

	// copyValue is the value signaled by the last submitted copy.
	copyValue uint64
	// consumedValue is the copy value the consumer last waited for.
	consumedValue uint64
	// releaseValue is the last value the consumer signaled.
	releaseValue uint64
	captured     bool
}

// Orchestrator drives the per-frame copy and synchronization of both eyes.
type Orchestrator struct {
	device  vkapi.Device
	queue   vkapi.Queue
	sources *texture.SourceTracker

	mu      sync.Mutex
	frame   uint64
	closed  bool
	targets [2][2]*target // [eye][kind]

	submits logging.Sampler
	drops   logging.Sampler
}

// New creates an orchestrator. Copies are submitted to queue on device;
// consumer waits and signals are enqueued on d3dQueue. Every eye needs a
// color target.
func New(device vkapi.Device, queue vkapi.Queue, d3dQueue d3dapi.CommandQueue, sources *texture.SourceTracker, eyes [2]EyeTargets) (*Orchestrator, error) {
	o := &Orchestrator{device: device, queue: queue, sources: sources}
	for _, eye := range stereo.Eyes {
		t := eyes[eye]
		if t.Color == nil {
			return nil, fmt.Errorf("%w: %s color", ErrNoTarget, eye)
		}
		for kind, tex := range [2]*texture.SharedTexture{t.Color, t.Depth} {
			if tex == nil {
				continue
			}
			o.targets[eye][kind] = &target{
				tex:    tex,
				bridge: timeline.New(tex.Semaphore(), tex.Fence(), d3dQueue),
			}
		}
	}
	return o, nil
}

// Frame returns the current frame number. It is zero before the first
// BeginFrame.
func (o *Orchestrator) Frame() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frame
}

// Bridge returns the timeline of an eye's target, or nil.
func (o *Orchestrator) Bridge(eye stereo.Eye, kind Kind) *timeline.Bridge {
	if t, err := o.target(eye, kind); err == nil {
		return t.bridge
	}
	return nil
}

func (o *Orchestrator) eyeTargets(eye stereo.Eye) (*[2]*target, error) {
	if eye > stereo.Right {
		return nil, fmt.Errorf("%w: %s", ErrNoTarget, eye)
	}
	return &o.targets[eye], nil
}

// BeginFrame starts the next frame and returns its number.
func (o *Orchestrator) BeginFrame() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frame++
	for _, kinds := range o.targets {
		for _, t := range kinds {
			if t != nil {
				t.captured = false
			}
		}
	}
	return o.frame
}

// Record starts a batch of captures recorded into cmd.
func (o *Orchestrator) Record(cmd vkapi.CommandBuffer) *Batch {
	return &Batch{o: o, cmd: cmd, restore: make(map[vkapi.Image]vkapi.ImageLayout)}
}

func (o *Orchestrator) target(eye stereo.Eye, kind Kind) (*target, error) {
	if eye > stereo.Right || kind > Depth {
		return nil, fmt.Errorf("%w: %s %s", ErrNoTarget, eye, kind)
	}
	t := o.targets[eye][kind]
	if t == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrNoTarget, eye, kind)
	}
	return t, nil
}

// Submit ends b and submits its command buffer together with the timeline
// operations of every captured target: a wait for the release of the copy
// the consumer last took and a signal of 2n-1. A batch without captures
// submits nothing.
//
// When the consumer has taken a copy but not released it yet, the submit
// waits for the release value Release will signal.
func (o *Orchestrator) Submit(b *Batch) error {
	if err := b.End(); err != nil && !errors.Is(err, ErrBatchDone) {
		return err
	}
	if b.submitted {
		return ErrBatchDone
	}
	b.submitted = true

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	if len(b.captured) == 0 {
		return nil
	}

	value := 2*o.frame - 1
	submit := vkapi.SubmitInfo{CommandBuffers: []vkapi.CommandBuffer{b.cmd}}
	for _, t := range b.captured {
		if wait := t.pendingRelease(); wait > 0 {
			submit.WaitSemaphores = append(submit.WaitSemaphores,
				t.bridge.WaitVulkan(wait, vkapi.PipelineStageTransfer))
		}
		s, err := t.bridge.SignalVulkan(value, vkapi.PipelineStageAllCommands)
		if err != nil {
			o.drop("signal rejected", err)
			return err
		}
		submit.SignalSemaphores = append(submit.SignalSemaphores, s)
	}

	if err := o.device.QueueSubmit(o.queue, []vkapi.SubmitInfo{submit}); err != nil {
		err = fmt.Errorf("frame: submit frame %d: %w", o.frame, err)
		o.drop("queue submit failed", err)
		return err
	}
	for _, t := range b.captured {
		t.copyValue = value
	}
	if n, ok := o.submits.Tick(); ok {
		logging.Logger().Debug("frame: copies submitted", "frame", o.frame, "value", value,
			"targets", len(b.captured), "count", n)
	}
	return nil
}

// pendingRelease returns the value the next copy into t must wait for:
// the release of the copy the consumer last took, whether or not it has
// been signaled yet. It is zero when nothing was ever consumed.
func (t *target) pendingRelease() uint64 {
	if t.consumedValue > t.releaseValue {
		return t.consumedValue + 1
	}
	return t.releaseValue
}

// Consume makes the D3D12 queue wait for the last submitted copy of eye.
// When list is not nil the eye's textures are also transitioned for
// shader reads on it. A consumed copy must be released before the next
// Consume.
func (o *Orchestrator) Consume(eye stereo.Eye, list d3dapi.CommandList) error {
	targets, err := o.eyeTargets(eye)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	for kind, t := range targets {
		if t != nil && t.consumedValue > t.releaseValue {
			return fmt.Errorf("%w: %s %s copy %d", ErrNotReleased, eye, Kind(kind), t.consumedValue)
		}
	}

	waited := false
	for kind, t := range targets {
		if t == nil || t.copyValue <= t.consumedValue {
			continue
		}
		if err := t.bridge.WaitD3D(t.copyValue); err != nil {
			o.drop("consumer wait failed", err)
			return fmt.Errorf("frame: %s %s wait: %w", eye, Kind(kind), err)
		}
		t.consumedValue = t.copyValue
		if list != nil {
			state := d3dapi.ResourceStatePixelShaderResource
			if Kind(kind) == Depth {
				state = d3dapi.ResourceStateDepthRead | d3dapi.ResourceStatePixelShaderResource
			}
			t.tex.TransitionState(list, state)
		}
		waited = true
	}
	if !waited {
		return fmt.Errorf("%w: %s", ErrNothingSubmitted, eye)
	}
	return nil
}

// Release signals that the consumer is done reading the copies of eye it
// last consumed, allowing the producer to overwrite them.
func (o *Orchestrator) Release(eye stereo.Eye) error {
	targets, err := o.eyeTargets(eye)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}

	released := false
	for kind, t := range targets {
		if t == nil || t.consumedValue <= t.releaseValue {
			continue
		}
		value := t.consumedValue + 1
		if err := t.bridge.SignalD3D(value); err != nil {
			o.drop("consumer signal failed", err)
			return fmt.Errorf("frame: %s %s release: %w", eye, Kind(kind), err)
		}
		t.releaseValue = value
		released = true
	}
	if !released {
		return fmt.Errorf("%w: %s", ErrNotConsumed, eye)
	}
	return nil
}

// Close makes every later capture, submit, consume and release fail with
// ErrClosed. The shared textures are owned by the caller, which closes
// them after this.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
}

func (o *Orchestrator) drop(reason string, err error) {
	n, _ := o.drops.Tick()
	logging.Logger().Warn("frame: dropped", "reason", reason, "frame", o.frame, "drops", n, "err", err)
}
