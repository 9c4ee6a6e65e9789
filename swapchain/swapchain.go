// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package swapchain creates the per-eye image streams submitted to the XR
// runtime and picks the formats and present modes they use.
package swapchain

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/stereo"
	"github.com/gogpu/vrbridge/vkapi"
)

// DefaultPreferred is the format tried first when none is configured.
const DefaultPreferred = vkapi.FormatB8G8R8A8Srgb

var (
	// ErrNoFormat is returned when the runtime and the application share
	// no swapchain format.
	ErrNoFormat = errors.New("swapchain: runtime supports none of the application's formats")

	// ErrNoViews is returned when the runtime reports an empty view.
	ErrNoViews = errors.New("swapchain: runtime reported an empty view configuration")
)

// Usage is a set of XrSwapchainUsageFlags.
type Usage uint64

const (
	UsageColorAttachment Usage = 0x01
	UsageTransferDst     Usage = 0x10
	UsageSampled         Usage = 0x20
)

// ViewConfig is the runtime's recommendation for one eye.
type ViewConfig struct {
	RecommendedWidth   uint32
	RecommendedHeight  uint32
	RecommendedSamples uint32
}

// CreateInfo describes one swapchain.
type CreateInfo struct {
	Width       uint32
	Height      uint32
	Format      vkapi.Format
	SampleCount uint32
	ArraySize   uint32
	MipCount    uint32
	FaceCount   uint32
	Usage       Usage
}

// Handle identifies a runtime swapchain.
type Handle uint64

// Runtime is the part of the XR runtime that owns swapchains.
type Runtime interface {
	// SwapchainFormats returns the runtime's formats in its order of
	// preference.
	SwapchainFormats() ([]int64, error)
	// Views returns the recommended configuration of both eyes.
	Views() ([2]ViewConfig, error)
	CreateSwapchain(info *CreateInfo) (Handle, error)
	DestroySwapchain(h Handle) error
}

// SelectFormat returns preferred when both the runtime and the application
// support it, otherwise the first runtime format the application supports.
func SelectFormat(runtime []int64, supported []vkapi.Format, preferred vkapi.Format) (vkapi.Format, error) {
	has := func(f int64) bool {
		return f >= math.MinInt32 && f <= math.MaxInt32 && slices.Contains(supported, vkapi.Format(f))
	}
	if preferred != vkapi.FormatUndefined && slices.Contains(runtime, int64(preferred)) && has(int64(preferred)) {
		return preferred, nil
	}
	for _, f := range runtime {
		if has(f) {
			return vkapi.Format(f), nil
		}
	}
	return vkapi.FormatUndefined, fmt.Errorf("%w (runtime %v, application %v)", ErrNoFormat, runtime, supported)
}

// FilterPresentModes reduces modes to IMMEDIATE when it is offered, so the
// emulator never blocks on its own window's vertical sync. Otherwise modes
// is returned unchanged.
func FilterPresentModes(modes []vkapi.PresentMode) []vkapi.PresentMode {
	if slices.Contains(modes, vkapi.PresentModeImmediate) {
		return []vkapi.PresentMode{vkapi.PresentModeImmediate}
	}
	return modes
}

// PickPresentMode returns IMMEDIATE when offered, FIFO otherwise.
func PickPresentMode(modes []vkapi.PresentMode) vkapi.PresentMode {
	if slices.Contains(modes, vkapi.PresentModeImmediate) {
		return vkapi.PresentModeImmediate
	}
	return vkapi.PresentModeFIFO
}

// PreferredFromProvider returns the Vulkan format of the provider's surface,
// or DefaultPreferred when it has none or no Vulkan equivalent.
func PreferredFromProvider(p gpucontext.DeviceProvider) vkapi.Format {
	if p == nil {
		return DefaultPreferred
	}
	tf := p.SurfaceFormat()
	if tf == gputypes.TextureFormatUndefined {
		return DefaultPreferred
	}
	if f, ok := vkapi.FormatFromGPUTypes(tf); ok {
		return f
	}
	return DefaultPreferred
}

// Options configure NewStereo.
type Options struct {
	// Preferred is tried first; zero means DefaultPreferred.
	Preferred vkapi.Format
	// RenderScale multiplies the recommended size; zero means 1.
	RenderScale float32
}

// Stereo is one swapchain per eye.
type Stereo struct {
	rt Runtime

	Format     vkapi.Format
	Views      [2]ViewConfig
	Swapchains [2]Handle
	Sizes      [2][2]uint32 // [eye]{width, height}
}

// NewStereo queries the runtime's formats and views and creates a
// swapchain for each eye. supported lists the formats the application can
// render to.
func NewStereo(rt Runtime, supported []vkapi.Format, opts Options) (*Stereo, error) {
	preferred := opts.Preferred
	if preferred == vkapi.FormatUndefined {
		preferred = DefaultPreferred
	}
	scale := opts.RenderScale
	if scale <= 0 {
		scale = 1
	}

	runtimeFormats, err := rt.SwapchainFormats()
	if err != nil {
		return nil, fmt.Errorf("swapchain: enumerate formats: %w", err)
	}
	logging.Logger().Debug("swapchain: runtime formats", "formats", runtimeFormats)

	format, err := SelectFormat(runtimeFormats, supported, preferred)
	if err != nil {
		return nil, err
	}
	logging.Logger().Info("swapchain: format picked", "format", int32(format), "preferred", format == preferred)

	views, err := rt.Views()
	if err != nil {
		return nil, fmt.Errorf("swapchain: view configuration: %w", err)
	}

	s := &Stereo{rt: rt, Format: format, Views: views}
	for _, eye := range stereo.Eyes {
		v := views[eye]
		if v.RecommendedWidth == 0 || v.RecommendedHeight == 0 {
			s.Destroy()
			return nil, fmt.Errorf("%w: %s eye", ErrNoViews, eye)
		}
		samples := v.RecommendedSamples
		if samples == 0 {
			samples = 1
		}
		info := &CreateInfo{
			Width:       scaled(v.RecommendedWidth, scale),
			Height:      scaled(v.RecommendedHeight, scale),
			Format:      format,
			SampleCount: samples,
			ArraySize:   1,
			MipCount:    1,
			FaceCount:   1,
			Usage:       UsageSampled | UsageTransferDst | UsageColorAttachment,
		}
		h, err := rt.CreateSwapchain(info)
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("swapchain: create %s eye: %w", eye, err)
		}
		s.Swapchains[eye] = h
		s.Sizes[eye] = [2]uint32{info.Width, info.Height}
		logging.Logger().Info("swapchain: created", "eye", eye.String(),
			"width", info.Width, "height", info.Height, "samples", samples)
	}
	return s, nil
}

func scaled(n uint32, scale float32) uint32 {
	v := uint32(math.Round(float64(n) * float64(scale)))
	if v == 0 {
		return 1
	}
	return v
}

// Destroy releases the swapchains created so far.
func (s *Stereo) Destroy() error {
	var errs []error
	for i, h := range s.Swapchains {
		if h == 0 {
			continue
		}
		if err := s.rt.DestroySwapchain(h); err != nil {
			errs = append(errs, err)
		}
		s.Swapchains[i] = 0
	}
	return errors.Join(errs...)
}
