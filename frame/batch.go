// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package frame

import (
	"errors"
	"fmt"

	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/stereo"
	"github.com/gogpu/vrbridge/vkapi"
)

// Batch records the captures of one frame into a single command buffer.
// It is used from one goroutine.
type Batch struct {
	o   *Orchestrator
	cmd vkapi.CommandBuffer

	captured []*target

	// restore holds the layout each tracked source had before its first
	// capture in this batch.
	restore map[vkapi.Image]vkapi.ImageLayout
	order   []vkapi.Image

	ended     bool
	submitted bool
}

// Capture copies the tracked emulator image src into the eye's target of
// the given kind.
//
// The first capture of src in a batch moves it to TRANSFER_SRC_OPTIMAL;
// later captures reuse that layout and copy in caller-managed mode. End
// restores the original layout once.
func (b *Batch) Capture(eye stereo.Eye, kind Kind, src vkapi.Image) error {
	if b.ended {
		return ErrBatchDone
	}
	s, ok := b.o.sources.Lookup(src)
	if !ok {
		b.o.drop("untracked source", fmt.Errorf("%w: %#x", ErrUnknownSource, uint64(src)))
		return fmt.Errorf("%w: %#x", ErrUnknownSource, uint64(src))
	}
	t, err := b.claim(eye, kind)
	if err != nil {
		return err
	}

	if _, seen := b.restore[src]; !seen && s.Layout() != vkapi.ImageLayoutTransferSrcOptimal {
		b.restore[src] = s.Layout()
		b.order = append(b.order, src)
		if err := s.TransitionLayout(b.cmd, vkapi.ImageLayoutTransferSrcOptimal); err != nil {
			b.unclaim(t)
			return fmt.Errorf("frame: prepare %s %s source: %w", eye, kind, err)
		}
	}

	if err := t.tex.CopyFromVkImage(b.cmd, src, vkapi.ImageLayoutTransferSrcOptimal); err != nil {
		b.unclaim(t)
		b.o.drop("copy failed", err)
		return fmt.Errorf("frame: copy %s %s: %w", eye, kind, err)
	}
	return nil
}

// CaptureImage copies an untracked image src, currently in srcLayout, into
// the eye's target. The copy records its own source barriers and leaves
// src in srcLayout.
func (b *Batch) CaptureImage(eye stereo.Eye, kind Kind, src vkapi.Image, srcLayout vkapi.ImageLayout) error {
	if b.ended {
		return ErrBatchDone
	}
	t, err := b.claim(eye, kind)
	if err != nil {
		return err
	}
	if err := t.tex.CopyFromVkImage(b.cmd, src, srcLayout); err != nil {
		b.unclaim(t)
		b.o.drop("copy failed", err)
		return fmt.Errorf("frame: copy %s %s: %w", eye, kind, err)
	}
	return nil
}

func (b *Batch) claim(eye stereo.Eye, kind Kind) (*target, error) {
	b.o.mu.Lock()
	defer b.o.mu.Unlock()
	if b.o.closed {
		return nil, ErrClosed
	}
	if b.o.frame == 0 {
		return nil, ErrNoFrame
	}
	t, err := b.o.target(eye, kind)
	if err != nil {
		return nil, err
	}
	if t.captured {
		return nil, fmt.Errorf("%w: %s %s frame %d", ErrAlreadyCaptured, eye, kind, b.o.frame)
	}
	t.captured = true
	b.captured = append(b.captured, t)
	return t, nil
}

func (b *Batch) unclaim(t *target) {
	b.o.mu.Lock()
	t.captured = false
	b.o.mu.Unlock()
	for i, c := range b.captured {
		if c == t {
			b.captured = append(b.captured[:i], b.captured[i+1:]...)
			break
		}
	}
}

// End restores every tracked source to the layout it had before the
// batch. It is called by Submit and may be called earlier to record
// more commands after the captures.
func (b *Batch) End() error {
	if b.ended {
		return ErrBatchDone
	}
	b.ended = true

	var errs []error
	for _, img := range b.order {
		s, ok := b.o.sources.Lookup(img)
		if !ok {
			// Forgotten mid-frame; nothing left to restore.
			continue
		}
		if err := s.TransitionLayout(b.cmd, b.restore[img]); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		logging.Logger().Warn("frame: restoring source layouts", "err", err)
	}
	return err
}

// Captured returns how many targets the batch has copied into.
func (b *Batch) Captured() int { return len(b.captured) }
