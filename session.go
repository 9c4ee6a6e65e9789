// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrbridge

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/frame"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/registry"
	"github.com/gogpu/vrbridge/stereo"
	"github.com/gogpu/vrbridge/texture"
	"github.com/gogpu/vrbridge/vkapi"
)

// Session ties one emulator Vulkan device to one D3D12 compositor device.
// It owns the shared eye textures and everything built on them.
type Session struct {
	vk   vkapi.Device
	gpu  vkapi.PhysicalDeviceInfo
	opts sessionOptions

	eyes    [2]frame.EyeTargets
	sources *texture.SourceTracker
	frames  *frame.Orchestrator
	hooks   *stereo.Hooks
	ctx     *stereo.FrameContext

	mu     sync.Mutex
	closed bool
}

// NewSession creates the shared textures of both eyes at width x height,
// multiplied by the render scale option, and wires the copy orchestrator and game hooks around them.
//
// vk and vkQueue are the emulator's device and the queue frames are
// submitted on. d3d and d3dQueue belong to the compositor. poses supplies
// head tracking; mem is the guest memory the hooks patch.
//
// Failure to create a shared texture leaves no usable session and is
// passed to the fatal handler as a *FatalError before being returned.
func NewSession(vk vkapi.Device, vkQueue vkapi.Queue, d3d d3dapi.Device, d3dQueue d3dapi.CommandQueue,
	poses stereo.PoseSource, mem stereo.Memory, width, height uint32, opts ...Option) (*Session, error) {
	if vk == nil || d3d == nil || d3dQueue == nil {
		return nil, ErrNilDevice
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	width, height = scaleSize(width, o.renderScale), scaleSize(height, o.renderScale)

	s := &Session{vk: vk, gpu: vk.PhysicalDeviceInfo(), opts: o}
	props := vk.MemoryProperties()
	logging.Logger().Info("vrbridge: session starting",
		"gpu", s.gpu.Name,
		"vendor", fmt.Sprintf("%#04x", s.gpu.VendorID),
		"device_local_bytes", vkapi.DeviceLocalBytes(&props),
		"eye_width", width, "eye_height", height,
		"render_scale", o.renderScale,
		"depth", o.depth)

	if _, err := vkapi.FindMemoryType(&props, ^uint32(0), vkapi.MemoryPropertyDeviceLocal); err != nil {
		return nil, fatal(o.fatal, "find device-local memory", err)
	}

	postCopy := s.gpu.IsAMD() || o.alwaysPostCopyBarrier
	for _, eye := range stereo.Eyes {
		color, err := s.newTexture(d3d, eye, "color", o.colorFormat, width, height, postCopy)
		if err != nil {
			s.closeTextures()
			return nil, fatal(o.fatal, "create shared texture", err)
		}
		s.eyes[eye].Color = color
		if !o.depth {
			continue
		}
		depth, err := s.newTexture(d3d, eye, "depth", o.depthFormat, width, height, postCopy)
		if err != nil {
			s.closeTextures()
			return nil, fatal(o.fatal, "create shared texture", err)
		}
		s.eyes[eye].Depth = depth
	}

	s.sources = texture.NewSourceTracker(vk, registry.Hooks[vkapi.Image, *texture.Source]{
		OnDestroy: func(img vkapi.Image, _ *texture.Source) {
			logging.Logger().Debug("vrbridge: source forgotten", "image", fmt.Sprintf("%#x", uint64(img)))
		},
	})
	frames, err := frame.New(vk, vkQueue, d3dQueue, s.sources, s.eyes)
	if err != nil {
		s.closeTextures()
		return nil, err
	}
	s.frames = frames

	hookOpts := []stereo.Option{
		stereo.WithPlayerHeight(o.playerHeight),
		stereo.WithFatalHandler(func(err error) { _ = fatal(o.fatal, "game hook", err) }),
	}
	if o.projectionVTable != 0 {
		hookOpts = append(hookOpts, stereo.WithProjectionVTable(o.projectionVTable))
	}
	s.hooks = stereo.NewHooks(poses, mem, hookOpts...)
	s.ctx = stereo.NewFrameContext()
	return s, nil
}

func scaleSize(n uint32, scale float32) uint32 {
	if scale == 1 {
		return n
	}
	return max(1, uint32(math.Round(float64(n)*float64(scale))))
}

func (s *Session) newTexture(d3d d3dapi.Device, eye stereo.Eye, kind string, format gputypes.TextureFormat, width, height uint32, postCopy bool) (*texture.SharedTexture, error) {
	return texture.NewSharedTexture(s.vk, d3d, &texture.Descriptor{
		Label:           eye.String() + " " + kind,
		Width:           width,
		Height:          height,
		Format:          format,
		Usage:           gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
		PostCopyBarrier: postCopy,
	})
}

// GPU returns the identity of the emulator's physical device.
func (s *Session) GPU() vkapi.PhysicalDeviceInfo { return s.gpu }

// Eye returns the shared textures of eye.
func (s *Session) Eye(eye stereo.Eye) frame.EyeTargets { return s.eyes[eye] }

// Frames returns the copy orchestrator.
func (s *Session) Frames() *frame.Orchestrator { return s.frames }

// Sources returns the tracker of emulator images that may be captured.
func (s *Session) Sources() *texture.SourceTracker { return s.sources }

// Hooks returns the game hooks. Call them with Context.
func (s *Session) Hooks() *stereo.Hooks { return s.hooks }

// Context returns the per-frame state shared by the hooks.
func (s *Session) Context() *stereo.FrameContext { return s.ctx }

// EndFrame ends the frame for the hooks. Call it once per emulated frame,
// after both eyes are rendered.
func (s *Session) EndFrame() { s.ctx.EndFrame() }

// Close releases the shared textures. The caller must make sure neither
// device still uses them. Afterwards the frame operations fail with
// ErrClosed. Close is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.frames.Close()
	err := s.closeTextures()
	logging.Logger().Info("vrbridge: session closed", "gpu", s.gpu.Name, "err", err)
	return err
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) closeTextures() error {
	var errs []error
	for i := range s.eyes {
		for _, tex := range []*texture.SharedTexture{s.eyes[i].Color, s.eyes[i].Depth} {
			if tex != nil {
				errs = append(errs, tex.Close())
			}
		}
	}
	return errors.Join(errs...)
}
