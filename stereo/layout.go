// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import "github.com/go-gl/mathgl/mgl32"

// Guest structures. Field order and sizes match the game's memory layout;
// blank fields are padding. All values are big-endian in guest memory.

// Matrix44 is a row-major 4x4 matrix.
type Matrix44 [16]float32

// Mat4 converts m to a column-major mgl32 matrix.
func (m Matrix44) Mat4() mgl32.Mat4 { return mgl32.Mat4(m).Transpose() }

// Matrix34 holds the top three rows of a row-major 4x4 matrix whose last
// row is (0, 0, 0, 1).
type Matrix34 [12]float32

// Mat4 expands m to a full column-major matrix.
func (m Matrix34) Mat4() mgl32.Mat4 {
	out := mgl32.Ident4()
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out.Set(r, c, m[r*4+c])
		}
	}
	return out
}

func matrix34(m mgl32.Mat4) Matrix34 {
	var out Matrix34
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m.At(r, c)
		}
	}
	return out
}

// CameraIn is the game's camera before the position update.
type CameraIn struct {
	Pos    mgl32.Vec3
	Target mgl32.Vec3
}

// CameraOut replaces the camera position and target.
type CameraOut struct {
	Enabled bool
	_       [3]byte
	Pos     mgl32.Vec3
	Target  mgl32.Vec3
}

// CameraRotationOut carries the camera's up axis (pivot, roll and pitch).
type CameraRotationOut struct {
	Enabled bool
	_       [3]byte
	Rot     mgl32.Vec3
}

// CameraOffsetOut carries FOV and frustum offset.
type CameraOffsetOut struct {
	AspectRatio float32
	FovY        float32
	OffsetX     float32
	OffsetY     float32
}

// CameraAspectRatioOut carries aspect ratio and vertical FOV.
type CameraAspectRatioOut struct {
	AspectRatio float32
	FovY        float32
}

// Projection is the common head of the engine's projection objects. The
// virtual table pointer follows the data members.
type Projection struct {
	Dirty         bool
	DeviceDirty   bool
	_             [2]byte
	Matrix        Matrix44
	DeviceMatrix  Matrix44
	DevicePosture uint32
	DeviceZScale  float32
	DeviceZOffset float32
	VTable        uint32
}

// PerspectiveProjection is the engine's perspective projection object.
type PerspectiveProjection struct {
	Projection
	Near    float32
	Far     float32
	FovY    float32
	FovySin float32
	FovyCos float32
	FovyTan float32
	Aspect  float32
	Offset  mgl32.Vec2
}

// LookAtCamera is the engine's look-at camera. Mtx is the view matrix.
type LookAtCamera struct {
	Mtx    Matrix34
	VTable uint32
	Pos    mgl32.Vec3
	At     mgl32.Vec3
	Up     mgl32.Vec3
}

// Virtual table addresses of the engine's projection classes.
const (
	PerspectiveProjectionVTable uint32 = 0x1027B54C
	OrthoProjectionVTable       uint32 = 0x1027B5BC
)
