// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"fmt"

	"github.com/gogpu/vrbridge/registry"
	"github.com/gogpu/vrbridge/vkapi"
)

// Source is an image owned by the emulator, typically a render target the
// game draws an eye into. Its layout is tracked from the emulator's own
// barriers via SetLayout and from transitions recorded through it. A
// Source never destroys the image.
type Source struct {
	Image
}

// SetLayout records a layout change made outside this package, such as a
// barrier or render pass recorded by the emulator.
func (s *Source) SetLayout(layout vkapi.ImageLayout) { s.layout = layout }

// SourceTracker follows the emulator's images by handle.
type SourceTracker struct {
	device  vkapi.Device
	sources *registry.Registry[vkapi.Image, *Source]
}

// NewSourceTracker creates an empty tracker for images of device. hooks
// observe images as they are tracked and forgotten.
func NewSourceTracker(device vkapi.Device, hooks registry.Hooks[vkapi.Image, *Source]) *SourceTracker {
	return &SourceTracker{
		device:  device,
		sources: registry.New(hooks),
	}
}

// Track starts following image, created by the emulator in layout.
func (t *SourceTracker) Track(image vkapi.Image, format vkapi.Format, width, height uint32, layout vkapi.ImageLayout) (*Source, error) {
	if image == 0 {
		return nil, ErrNilImage
	}
	s := &Source{Image: Image{
		device: t.device,
		image:  image,
		width:  width,
		height: height,
		format: format,
		layout: layout,
	}}
	if err := t.sources.Register(image, s); err != nil {
		return nil, fmt.Errorf("texture: track image %#x: %w", uint64(image), err)
	}
	return s, nil
}

// Lookup returns the source for image.
func (t *SourceTracker) Lookup(image vkapi.Image) (*Source, bool) {
	return t.sources.Lookup(image)
}

// Observe records that image is now in layout. Untracked images are
// ignored and reported as false.
func (t *SourceTracker) Observe(image vkapi.Image, layout vkapi.ImageLayout) bool {
	s, ok := t.sources.Lookup(image)
	if ok {
		s.SetLayout(layout)
	}
	return ok
}

// Forget stops following image, typically when the emulator destroys it.
func (t *SourceTracker) Forget(image vkapi.Image) error {
	s, err := t.sources.Destroy(image)
	if err != nil {
		return fmt.Errorf("texture: forget image %#x: %w", uint64(image), err)
	}
	s.destroyed = true
	return nil
}

// Len returns the number of tracked images.
func (t *SourceTracker) Len() int { return t.sources.Len() }
