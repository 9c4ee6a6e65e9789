// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import "github.com/go-gl/mathgl/mgl32"

// Pose is an eye's position and orientation in tracking space.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityPose is the pose at the tracking origin looking down -Z.
func IdentityPose() Pose { return Pose{Orientation: mgl32.QuatIdent()} }

// PoseSource supplies the current pose and field of view per eye. It is
// implemented by the XR runtime; values are read once per hook call and
// never modified.
type PoseSource interface {
	Pose(eye Eye) Pose
	FOV(eye Eye) Fov
}

var (
	worldUp      = mgl32.Vec3{0, 1, 0}
	worldForward = mgl32.Vec3{0, 0, -1}
)

// lookAtQuat returns the right-handed orientation whose -Z axis points
// along direction with up as the approximate +Y axis.
func lookAtQuat(direction, up mgl32.Vec3) mgl32.Quat {
	back := direction.Mul(-1)
	right := up.Cross(back)
	if l := right.Len(); l > 1e-5 {
		right = right.Mul(1 / l)
	} else {
		// direction is parallel to up
		right = mgl32.Vec3{1, 0, 0}
	}
	newUp := back.Cross(right)
	return mgl32.Mat4ToQuat(mgl32.Mat3FromCols(right, newUp, back).Mat4())
}

// Recentered is the result of RecenterCamera.
type Recentered struct {
	// Camera is the replacement position and target.
	Camera CameraOut
	// Up is the combined orientation's +Y axis, later written by the
	// rotation hook.
	Up mgl32.Vec3
	// LookAt is the game camera's orientation before head rotation.
	LookAt mgl32.Quat
	// AnchorPos is the game camera position raised by the player height.
	AnchorPos mgl32.Vec3
}

// RecenterCamera layers a head pose on top of the game's look-at camera.
//
// The game camera is levelled first: its target is moved to the camera's
// height so head pitch replaces the game's pitch. The head position is
// rotated into the game's look direction and added to the camera
// position, and the new target lies along the combined orientation's
// forward axis at the original camera-to-target distance.
func RecenterCamera(in CameraIn, pose Pose, playerHeight float32) Recentered {
	pos := in.Pos
	target := mgl32.Vec3{in.Target.X(), pos.Y(), in.Target.Z()}

	delta := target.Sub(pos)
	dist := delta.Len()
	forward := worldForward
	if dist > 0 {
		forward = delta.Mul(1 / dist)
	}

	lookAt := lookAtQuat(forward, worldUp)
	combined := lookAt.Mul(pose.Orientation).Normalize()
	back := combined.Rotate(mgl32.Vec3{0, 0, 1})
	height := mgl32.Vec3{0, playerHeight, 0}

	newPos := pos.Add(lookAt.Rotate(pose.Position))
	return Recentered{
		Camera: CameraOut{
			Enabled: true,
			Pos:     newPos.Add(height),
			Target:  newPos.Add(back.Mul(-dist)).Add(height),
		},
		Up:        combined.Rotate(worldUp),
		LookAt:    lookAt,
		AnchorPos: pos.Add(height),
	}
}

// RenderCamera recomposes the game's render camera with a head pose. The
// view matrix is inverted to a world transform, the pose is applied in
// the camera's local frame, and the result is inverted back. Pos, At and
// Up are rebuilt from the new view matrix.
func RenderCamera(cam LookAtCamera, pose Pose) LookAtCamera {
	world := cam.Mtx.Mat4().Inv()
	baseRot := mgl32.Mat4ToQuat(world)
	basePos := world.Col(3).Vec3()

	newPos := basePos.Add(baseRot.Rotate(pose.Position))
	newRot := baseRot.Mul(pose.Orientation)

	view := mgl32.Translate3D(newPos.X(), newPos.Y(), newPos.Z()).Mul4(newRot.Mat4()).Inv()

	out := cam
	out.Mtx = matrix34(view)
	out.Pos = newPos
	out.At = newPos.Sub(view.Row(2).Vec3())
	out.Up = view.Row(1).Vec3()
	return out
}
