// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"testing"

	"github.com/gogpu/vrbridge/registry"
	"github.com/gogpu/vrbridge/vkapi"
)

func TestSourceTrackerLifecycle(t *testing.T) {
	vk := newMockVkDevice()
	var created, forgotten []vkapi.Image
	tracker := NewSourceTracker(vk, registry.Hooks[vkapi.Image, *Source]{
		OnCreate:  func(img vkapi.Image, _ *Source) { created = append(created, img) },
		OnDestroy: func(img vkapi.Image, _ *Source) { forgotten = append(forgotten, img) },
	})

	src, err := tracker.Track(0x42, vkapi.FormatB8G8R8A8Unorm, 1920, 1080, vkapi.ImageLayoutColorAttachmentOptimal)
	if err != nil {
		t.Fatalf("Track() error = %v", err)
	}
	if _, err := tracker.Track(0x42, vkapi.FormatB8G8R8A8Unorm, 1920, 1080, vkapi.ImageLayoutUndefined); !errors.Is(err, registry.ErrExists) {
		t.Errorf("second Track() error = %v, want ErrExists", err)
	}

	if !tracker.Observe(0x42, vkapi.ImageLayoutShaderReadOnlyOptimal) {
		t.Error("Observe() of tracked image = false")
	}
	if src.Layout() != vkapi.ImageLayoutShaderReadOnlyOptimal {
		t.Errorf("Layout() = %v, want SHADER_READ_ONLY_OPTIMAL", src.Layout())
	}
	if tracker.Observe(0x99, vkapi.ImageLayoutGeneral) {
		t.Error("Observe() of untracked image = true")
	}

	if err := tracker.Forget(0x42); err != nil {
		t.Fatal(err)
	}
	if err := tracker.Forget(0x42); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("second Forget() error = %v, want ErrNotFound", err)
	}
	if err := src.TransitionLayout(1, vkapi.ImageLayoutGeneral); !errors.Is(err, ErrDestroyed) {
		t.Errorf("TransitionLayout() after Forget error = %v, want ErrDestroyed", err)
	}
	if len(created) != 1 || len(forgotten) != 1 || tracker.Len() != 0 {
		t.Errorf("hooks: created %v, forgotten %v, len %d", created, forgotten, tracker.Len())
	}
	if vk.destroyed["image"] != 0 {
		t.Error("tracker destroyed an emulator image")
	}
}

func TestSourceTrackerRejectsNilImage(t *testing.T) {
	tracker := NewSourceTracker(newMockVkDevice(), registry.Hooks[vkapi.Image, *Source]{})
	if _, err := tracker.Track(0, vkapi.FormatB8G8R8A8Unorm, 1, 1, vkapi.ImageLayoutUndefined); !errors.Is(err, ErrNilImage) {
		t.Errorf("Track(0) error = %v, want ErrNilImage", err)
	}
}

func TestSourceTransitionUsesTrackedLayout(t *testing.T) {
	vk := newMockVkDevice()
	tracker := NewSourceTracker(vk, registry.Hooks[vkapi.Image, *Source]{})
	src, err := tracker.Track(0x42, vkapi.FormatD32Sfloat, 64, 64, vkapi.ImageLayoutDepthStencilAttachmentOptimal)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.TransitionLayout(1, vkapi.ImageLayoutTransferSrcOptimal); err != nil {
		t.Fatal(err)
	}
	bs := vk.imageBarriersFor(0x42)
	if len(bs) != 1 {
		t.Fatalf("barriers = %d, want 1", len(bs))
	}
	b := bs[0]
	if b.OldLayout != vkapi.ImageLayoutDepthStencilAttachmentOptimal || b.NewLayout != vkapi.ImageLayoutTransferSrcOptimal {
		t.Errorf("barrier %v -> %v", b.OldLayout, b.NewLayout)
	}
	if b.SubresourceRange.AspectMask != vkapi.ImageAspectDepth {
		t.Errorf("aspect = %#x, want depth", b.SubresourceRange.AspectMask)
	}
}
