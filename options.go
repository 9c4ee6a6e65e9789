// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrbridge

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/vrbridge/config"
)

// Default shared texture formats.
const (
	DefaultColorFormat = gputypes.TextureFormatRGBA8Unorm
	DefaultDepthFormat = gputypes.TextureFormatDepth32Float
)

// Option configures a Session during creation.
//
// Example:
//
//	s, err := vrbridge.NewSession(vkDev, vkQueue, d3dDev, d3dQueue,
//	    poses, mem, w, h,
//	    vrbridge.WithDepth(),
//	    vrbridge.WithFatalHandler(onFatal))
type Option func(*sessionOptions)

type sessionOptions struct {
	playerHeight float32
	fatal        FatalHandler

	colorFormat gputypes.TextureFormat
	depth       bool
	depthFormat gputypes.TextureFormat

	renderScale float32

	alwaysPostCopyBarrier bool
	projectionVTable      uint32
}

func defaultOptions() sessionOptions {
	return sessionOptions{
		fatal:       DefaultFatalHandler,
		colorFormat: DefaultColorFormat,
		depthFormat: DefaultDepthFormat,
		renderScale: 1,
	}
}

// WithPlayerHeight raises the recentred camera by h game units.
func WithPlayerHeight(h float32) Option {
	return func(o *sessionOptions) {
		o.playerHeight = h
	}
}

// WithFatalHandler replaces DefaultFatalHandler. The handler also receives
// contract violations detected by the game hooks.
//
// Example:
//
//	vrbridge.WithFatalHandler(func(err error) {
//	    emulator.Stop(err)
//	})
func WithFatalHandler(fn FatalHandler) Option {
	return func(o *sessionOptions) {
		if fn != nil {
			o.fatal = fn
		}
	}
}

// WithColorFormat sets the format of the shared color textures. It must
// be copy-compatible with the emulator's render targets.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *sessionOptions) {
		o.colorFormat = f
	}
}

// WithDepth also shares each eye's depth buffer, in DefaultDepthFormat
// unless WithDepthFormat is given.
func WithDepth() Option {
	return func(o *sessionOptions) {
		o.depth = true
	}
}

// WithDepthFormat shares each eye's depth buffer in format f.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(o *sessionOptions) {
		o.depth = true
		o.depthFormat = f
	}
}

// WithRenderScale multiplies the eye size passed to NewSession by scale.
// Values that are not positive are ignored.
func WithRenderScale(scale float32) Option {
	return func(o *sessionOptions) {
		if scale > 0 {
			o.renderScale = scale
		}
	}
}

// WithPostCopyBarrier applies the post-copy memory barrier on every GPU.
// It is always applied on AMD.
func WithPostCopyBarrier() Option {
	return func(o *sessionOptions) {
		o.alwaysPostCopyBarrier = true
	}
}

// WithProjectionVTable overrides the address identifying the game's
// perspective projection class.
func WithProjectionVTable(addr uint32) Option {
	return func(o *sessionOptions) {
		o.projectionVTable = addr
	}
}

// WithConfig applies the session settings of cfg: player height, render
// scale and the post-copy barrier. Logging settings are left to the caller (see
// SetLogger and SetLogEvery). A nil cfg is ignored.
func WithConfig(cfg *config.Config) Option {
	return func(o *sessionOptions) {
		if cfg == nil {
			return
		}
		o.playerHeight = cfg.PlayerHeight
		if cfg.RenderScale > 0 {
			o.renderScale = cfg.RenderScale
		}
		o.alwaysPostCopyBarrier = o.alwaysPostCopyBarrier || cfg.AlwaysPostCopyBarrier
	}
}
