// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Eye selects one of the two stereo views.
type Eye uint8

const (
	Left Eye = iota
	Right
)

// Eyes lists both eyes in render order.
var Eyes = [2]Eye{Left, Right}

func (e Eye) String() string {
	if e == Left {
		return "left"
	}
	return "right"
}

// EyeFromSide maps the game's camera side argument to an eye. Side zero
// is the left eye; anything else is the right eye.
func EyeFromSide(side uint32) Eye {
	if side == 0 {
		return Left
	}
	return Right
}

// FrameContext carries per-eye camera state between hook calls. One
// context is shared by all hooks of a render thread; it is safe for
// concurrent use.
type FrameContext struct {
	mu  sync.Mutex
	eye Eye

	rotation    mgl32.Vec3
	rotationEye Eye
	hasRotation bool

	anchorPos mgl32.Vec3
	anchorRot mgl32.Quat

	framesSinceCameraUpdate uint32
}

// NewFrameContext returns a context whose current eye is Right, matching
// the game before its first side switch.
func NewFrameContext() *FrameContext {
	return &FrameContext{eye: Right, anchorRot: mgl32.QuatIdent()}
}

// Eye returns the current eye.
func (c *FrameContext) Eye() Eye {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eye
}

// SetEye switches the current eye.
func (c *FrameContext) SetEye(e Eye) {
	c.mu.Lock()
	c.eye = e
	c.mu.Unlock()
}

// CachedRotation returns the rotation cached by the last position update,
// the eye it was computed for, and whether one has been computed.
func (c *FrameContext) CachedRotation() (mgl32.Vec3, Eye, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation, c.rotationEye, c.hasRotation
}

// Anchor returns the unrotated camera position (with player height) and
// the game's look-at orientation from the last position update. Tracked
// controllers are placed relative to it.
func (c *FrameContext) Anchor() (mgl32.Vec3, mgl32.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchorPos, c.anchorRot
}

// FramesSinceCameraUpdate returns how many frames ended without a camera
// hook firing. A growing value means the game is not rendering its
// world camera (menus, loading screens).
func (c *FrameContext) FramesSinceCameraUpdate() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framesSinceCameraUpdate
}

// EndFrame advances the stale-camera counter.
func (c *FrameContext) EndFrame() {
	c.mu.Lock()
	c.framesSinceCameraUpdate++
	c.mu.Unlock()
}

func (c *FrameContext) storeRecenter(res Recentered) {
	c.mu.Lock()
	c.rotation = res.Up
	c.rotationEye = c.eye
	c.hasRotation = true
	c.anchorPos = res.AnchorPos
	c.anchorRot = res.LookAt
	c.framesSinceCameraUpdate = 0
	c.mu.Unlock()
}

func (c *FrameContext) cameraUpdated() {
	c.mu.Lock()
	c.framesSinceCameraUpdate = 0
	c.mu.Unlock()
}
