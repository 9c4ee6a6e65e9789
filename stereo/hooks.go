// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import (
	"fmt"
	"math"

	"github.com/gogpu/vrbridge/internal/logging"
)

// CPU exposes the guest's general purpose registers to a hook.
type CPU interface {
	GPR(n int) uint32
	SetGPR(n int, v uint32)
}

// Registers is a plain register file implementing CPU.
type Registers [32]uint32

// GPR returns register n.
func (r *Registers) GPR(n int) uint32 { return r[n] }

// SetGPR sets register n.
func (r *Registers) SetGPR(n int, v uint32) { r[n] = v }

// Guest registers carrying hook arguments.
const (
	RegCameraSide     = 3
	RegCameraIn       = 7
	RegCameraOut      = 3
	RegRotationOut    = 3
	RegRenderIn       = 3
	RegRenderOut      = 12
	RegReturn         = 3
	RegOffsetOut      = 11
	RegAspectRatioOut = 28
	RegProjectionIn   = 3
	RegProjectionOut  = 12
)

// FatalHandler receives contract violations that leave no sane way to
// continue. It normally does not return.
type FatalHandler func(err error)

func panicFatal(err error) { panic(err) }

// Option configures Hooks.
type Option func(*Hooks)

// WithPlayerHeight raises the recentred camera by h game units.
func WithPlayerHeight(h float32) Option {
	return func(hk *Hooks) { hk.playerHeight = h }
}

// WithFatalHandler replaces the default handler, which panics.
func WithFatalHandler(fn FatalHandler) Option {
	return func(hk *Hooks) {
		if fn != nil {
			hk.fatal = fn
		}
	}
}

// WithProjectionVTable sets the virtual table address identifying the
// perspective projection class. The default matches the supported game
// build.
func WithProjectionVTable(addr uint32) Option {
	return func(hk *Hooks) { hk.perspectiveVTable = addr }
}

// Hooks implements the patched game routines. Each method reads its
// arguments from cpu, consults the pose source for ctx's current eye and
// writes the result to guest memory.
//
// Memory errors are returned and the hook leaves guest memory untouched
// where possible; the game then renders with its own camera for that call.
type Hooks struct {
	poses PoseSource
	mem   Memory

	playerHeight      float32
	perspectiveVTable uint32
	fatal             FatalHandler
}

// NewHooks creates hooks reading poses from poses and guest state from mem.
func NewHooks(poses PoseSource, mem Memory, opts ...Option) *Hooks {
	hk := &Hooks{
		poses:             poses,
		mem:               mem,
		perspectiveVTable: PerspectiveProjectionVTable,
		fatal:             panicFatal,
	}
	for _, opt := range opts {
		opt(hk)
	}
	return hk
}

// PlayerHeight returns the configured player height.
func (hk *Hooks) PlayerHeight() float32 { return hk.playerHeight }

// BeginCameraSide switches ctx to the eye named by the side register.
func (hk *Hooks) BeginCameraSide(ctx *FrameContext, cpu CPU) {
	eye := EyeFromSide(cpu.GPR(RegCameraSide))
	ctx.SetEye(eye)
	logging.Logger().Debug("stereo: begin camera side", "eye", eye)
}

// EndCameraSide marks the end of the current eye's camera pass. The eye
// stays selected until the next BeginCameraSide.
func (hk *Hooks) EndCameraSide(ctx *FrameContext, _ CPU) {
	logging.Logger().Debug("stereo: end camera side", "eye", ctx.Eye())
}

// UpdateCameraPositionAndTarget recentres the game camera on the head
// pose, writes the new position and target and caches the rotation for
// UpdateCameraRotation.
func (hk *Hooks) UpdateCameraPositionAndTarget(ctx *FrameContext, cpu CPU) error {
	var in CameraIn
	if err := hk.mem.Read(cpu.GPR(RegCameraIn), &in); err != nil {
		return hk.softError("camera position", err)
	}
	eye := ctx.Eye()
	res := RecenterCamera(in, hk.poses.Pose(eye), hk.playerHeight)
	if err := hk.mem.Write(cpu.GPR(RegCameraOut), &res.Camera); err != nil {
		return hk.softError("camera position", err)
	}
	ctx.storeRecenter(res)
	logging.Logger().Debug("stereo: camera position updated", "eye", eye,
		"pos", res.Camera.Pos, "target", res.Camera.Target)
	return nil
}

// UpdateCameraRotation writes the rotation cached by the last position
// update. It computes nothing.
func (hk *Hooks) UpdateCameraRotation(ctx *FrameContext, cpu CPU) error {
	rot, _, _ := ctx.CachedRotation()
	out := CameraRotationOut{Enabled: true, Rot: rot}
	if err := hk.mem.Write(cpu.GPR(RegRotationOut), &out); err != nil {
		return hk.softError("camera rotation", err)
	}
	return nil
}

// UpdateCameraOffset writes the current eye's FOV and frustum offset.
func (hk *Hooks) UpdateCameraOffset(ctx *FrameContext, cpu CPU) error {
	_, off, err := hk.offsets(ctx)
	if err != nil {
		return err
	}
	out := CameraOffsetOut{
		AspectRatio: off.AspectRatio,
		FovY:        off.FovY,
		OffsetX:     off.OffsetX,
		OffsetY:     off.OffsetY,
	}
	if err := hk.mem.Write(cpu.GPR(RegOffsetOut), &out); err != nil {
		return hk.softError("camera offset", err)
	}
	return nil
}

// CalculateCameraAspectRatio writes the current eye's aspect ratio and
// vertical FOV.
func (hk *Hooks) CalculateCameraAspectRatio(ctx *FrameContext, cpu CPU) error {
	_, off, err := hk.offsets(ctx)
	if err != nil {
		return err
	}
	out := CameraAspectRatioOut{AspectRatio: off.AspectRatio, FovY: off.FovY}
	if err := hk.mem.Write(cpu.GPR(RegAspectRatioOut), &out); err != nil {
		return hk.softError("camera aspect ratio", err)
	}
	return nil
}

// GetRenderProjection rewrites a perspective projection for the current
// eye. Other projection classes are left alone and the return register
// is not changed.
func (hk *Hooks) GetRenderProjection(ctx *FrameContext, cpu CPU) error {
	in := cpu.GPR(RegProjectionIn)

	var head Projection
	if err := hk.mem.Read(in, &head); err != nil {
		return hk.softError("render projection", err)
	}
	if head.VTable != hk.perspectiveVTable {
		return nil
	}

	var proj PerspectiveProjection
	if err := hk.mem.Read(in, &proj); err != nil {
		return hk.softError("render projection", err)
	}

	fov, off, err := hk.offsets(ctx)
	if err != nil {
		return err
	}
	applyProjection(&proj, fov, off)

	out := cpu.GPR(RegProjectionOut)
	if err := hk.mem.Write(out, &proj); err != nil {
		return hk.softError("render projection", err)
	}
	cpu.SetGPR(RegReturn, out)
	return nil
}

func applyProjection(proj *PerspectiveProjection, fov Fov, off FovOffsets) {
	half := float64(off.FovY) * 0.5
	proj.Aspect = off.AspectRatio
	proj.FovY = off.FovY
	proj.FovySin = float32(math.Sin(half))
	proj.FovyCos = float32(math.Cos(half))
	proj.FovyTan = float32(math.Tan(half))
	proj.Offset[0] = off.OffsetX
	proj.Offset[1] = off.OffsetY

	m := ProjectionMatrix(proj.Near, proj.Far, fov)
	proj.Matrix = rowMajor(m)
	proj.DeviceMatrix = rowMajor(DeviceProjection(m, proj.DeviceZScale, proj.DeviceZOffset))
	proj.Dirty = true
	proj.DeviceDirty = true
}

// GetRenderCamera applies the current eye's pose to the game's render
// camera. Cameras whose position has a zero X coordinate are not yet
// initialized by the game and are skipped.
func (hk *Hooks) GetRenderCamera(ctx *FrameContext, cpu CPU) error {
	var cam LookAtCamera
	if err := hk.mem.Read(cpu.GPR(RegRenderIn), &cam); err != nil {
		return hk.softError("render camera", err)
	}
	if cam.Pos.X() == 0 {
		return nil
	}
	ctx.cameraUpdated()

	out := RenderCamera(cam, hk.poses.Pose(ctx.Eye()))
	addr := cpu.GPR(RegRenderOut)
	if err := hk.mem.Write(addr, &out); err != nil {
		return hk.softError("render camera", err)
	}
	cpu.SetGPR(RegReturn, addr)
	return nil
}

// offsets validates and converts the current eye's FOV. An inverted FOV
// is passed to the fatal handler.
func (hk *Hooks) offsets(ctx *FrameContext) (Fov, FovOffsets, error) {
	eye := ctx.Eye()
	fov := hk.poses.FOV(eye)
	off, err := ComputeFovOffsets(fov)
	if err != nil {
		err = fmt.Errorf("%s eye: %w", eye, err)
		logging.Logger().Error("stereo: pose source contract violated", "eye", eye, "err", err)
		hk.fatal(err)
		return fov, FovOffsets{}, err
	}
	return fov, off, nil
}

func (hk *Hooks) softError(what string, err error) error {
	logging.Logger().Warn("stereo: hook skipped", "hook", what, "err", err)
	return fmt.Errorf("stereo: %s: %w", what, err)
}
