// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvertedFov is returned for a field of view whose left edge lies
// right of its right edge, or whose bottom lies above its top. The pose
// source broke its contract; callers escalate it as fatal.
var ErrInvertedFov = errors.New("stereo: inverted field of view")

// Fov holds the four edge angles of an eye's field of view, in radians.
// Left and Down are usually negative.
type Fov struct {
	Left  float32
	Right float32
	Up    float32
	Down  float32
}

// Validate reports ErrInvertedFov when the edges are out of order.
func (f Fov) Validate() error {
	if f.Left > f.Right {
		return fmt.Errorf("%w: left %g > right %g", ErrInvertedFov, f.Left, f.Right)
	}
	if f.Down > f.Up {
		return fmt.Errorf("%w: down %g > up %g", ErrInvertedFov, f.Down, f.Up)
	}
	return nil
}

// FovOffsets is the game's description of an off-axis frustum.
type FovOffsets struct {
	AspectRatio float32
	FovY        float32
	OffsetX     float32
	OffsetY     float32
}

// ComputeFovOffsets converts edge angles into aspect ratio, vertical FOV
// and the frustum's angular centre.
func ComputeFovOffsets(fov Fov) (FovOffsets, error) {
	if err := fov.Validate(); err != nil {
		return FovOffsets{}, err
	}
	width := fov.Right - fov.Left
	height := fov.Up - fov.Down
	return FovOffsets{
		AspectRatio: width / height,
		FovY:        height,
		OffsetX:     (fov.Right + fov.Left) / 2,
		OffsetY:     (fov.Up + fov.Down) / 2,
	}, nil
}

// ProjectionMatrix builds a right-handed off-axis perspective projection
// from the tangents of the four edges scaled by near. Clip-space depth
// spans [-1, 1].
func ProjectionMatrix(near, far float32, fov Fov) mgl32.Mat4 {
	l := tan32(fov.Left) * near
	r := tan32(fov.Right) * near
	b := tan32(fov.Down) * near
	t := tan32(fov.Up) * near

	invW := 1 / (r - l)
	invH := 1 / (t - b)
	invD := 1 / (far - near)

	var m mgl32.Mat4
	m.Set(0, 0, 2*near*invW)
	m.Set(0, 2, (r+l)*invW)
	m.Set(1, 1, 2*near*invH)
	m.Set(1, 2, (t+b)*invH)
	m.Set(2, 2, -(far+near)*invD)
	m.Set(2, 3, -2*far*near*invD)
	m.Set(3, 2, -1)
	return m
}

// DeviceProjection remaps the Z row of m to a device depth convention.
// zScale and zOffset come from the game's projection object, typically
// (1, 0) for [-1, 1] depth or (0.5, 0.5) for [0, 1].
func DeviceProjection(m mgl32.Mat4, zScale, zOffset float32) mgl32.Mat4 {
	d := m
	d.Set(2, 0, m.At(2, 0)*zScale)
	d.Set(2, 1, m.At(2, 1)*zScale)
	d.Set(2, 2, (m.At(2, 2)+m.At(3, 2)*zOffset)*zScale)
	d.Set(2, 3, m.At(2, 3)*zScale+m.At(3, 3)*zOffset)
	return d
}

// rowMajor lays m out the way the game stores a 4x4 matrix.
func rowMajor(m mgl32.Mat4) Matrix44 {
	return Matrix44(m.Transpose())
}

func tan32(a float32) float32 { return float32(math.Tan(float64(a))) }
