// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func nearVec(a, b mgl32.Vec3) bool {
	return near(a[0], b[0]) && near(a[1], b[1]) && near(a[2], b[2])
}

func yaw(angle float32) mgl32.Quat { return mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}) }

func TestLookAtQuat(t *testing.T) {
	tests := []struct {
		name string
		dir  mgl32.Vec3
	}{
		{"forward", mgl32.Vec3{0, 0, -1}},
		{"right", mgl32.Vec3{1, 0, 0}},
		{"back", mgl32.Vec3{0, 0, 1}},
		{"diagonal", mgl32.Vec3{1, 0, -1}.Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := lookAtQuat(tt.dir, worldUp)
			if got := q.Rotate(worldForward); !nearVec(got, tt.dir) {
				t.Errorf("lookAtQuat(%v) forward = %v", tt.dir, got)
			}
			if got := q.Rotate(worldUp); !nearVec(got, worldUp) {
				t.Errorf("lookAtQuat(%v) up = %v, want %v", tt.dir, got, worldUp)
			}
		})
	}
}

func TestRecenterCameraIdentityPose(t *testing.T) {
	in := CameraIn{Pos: mgl32.Vec3{1, 2, 3}, Target: mgl32.Vec3{1, 5, -7}}
	res := RecenterCamera(in, IdentityPose(), 0.5)

	if !res.Camera.Enabled {
		t.Error("Camera.Enabled = false")
	}
	if want := (mgl32.Vec3{1, 2.5, 3}); !nearVec(res.Camera.Pos, want) {
		t.Errorf("Pos = %v, want %v", res.Camera.Pos, want)
	}
	if want := (mgl32.Vec3{1, 2.5, -7}); !nearVec(res.Camera.Target, want) {
		t.Errorf("Target = %v, want %v", res.Camera.Target, want)
	}
	if !nearVec(res.Up, worldUp) {
		t.Errorf("Up = %v, want %v", res.Up, worldUp)
	}
	if want := (mgl32.Vec3{1, 2.5, 3}); !nearVec(res.AnchorPos, want) {
		t.Errorf("AnchorPos = %v, want %v", res.AnchorPos, want)
	}
}

func TestRecenterCameraRotatesHeadPosition(t *testing.T) {
	in := CameraIn{Pos: mgl32.Vec3{0, 0, 0}, Target: mgl32.Vec3{10, 0, 0}}
	pose := Pose{Position: mgl32.Vec3{0, 0, -1}, Orientation: mgl32.QuatIdent()}
	res := RecenterCamera(in, pose, 0)

	// One unit forward in head space is one unit along the game's +X.
	if want := (mgl32.Vec3{1, 0, 0}); !nearVec(res.Camera.Pos, want) {
		t.Errorf("Pos = %v, want %v", res.Camera.Pos, want)
	}
	if want := (mgl32.Vec3{11, 0, 0}); !nearVec(res.Camera.Target, want) {
		t.Errorf("Target = %v, want %v", res.Camera.Target, want)
	}
}

func TestRecenterCameraHeadYaw(t *testing.T) {
	in := CameraIn{Pos: mgl32.Vec3{1, 2, 3}, Target: mgl32.Vec3{1, 2, -7}}
	pose := Pose{Orientation: yaw(math.Pi / 2)}
	res := RecenterCamera(in, pose, 0)

	// Turning the head left by 90 degrees looks down -X.
	if want := (mgl32.Vec3{-9, 2, 3}); !nearVec(res.Camera.Target, want) {
		t.Errorf("Target = %v, want %v", res.Camera.Target, want)
	}
	if dist := res.Camera.Target.Sub(res.Camera.Pos).Len(); !near(dist, 10) {
		t.Errorf("distance = %g, want 10", dist)
	}
}

func TestRecenterCameraHeadPitchTiltsUp(t *testing.T) {
	in := CameraIn{Pos: mgl32.Vec3{0, 0, 0}, Target: mgl32.Vec3{0, 0, -5}}
	const pitch = 0.3
	pose := Pose{Orientation: mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})}
	res := RecenterCamera(in, pose, 0)

	want := mgl32.Vec3{0, float32(math.Cos(pitch)), float32(math.Sin(pitch))}
	if !nearVec(res.Up, want) {
		t.Errorf("Up = %v, want %v", res.Up, want)
	}
}

func TestRecenterCameraIgnoresTargetHeight(t *testing.T) {
	pose := Pose{Position: mgl32.Vec3{0.1, 0.2, 0}, Orientation: yaw(0.4)}
	a := RecenterCamera(CameraIn{Pos: mgl32.Vec3{4, 1, 4}, Target: mgl32.Vec3{0, 100, 0}}, pose, 0)
	b := RecenterCamera(CameraIn{Pos: mgl32.Vec3{4, 1, 4}, Target: mgl32.Vec3{0, -100, 0}}, pose, 0)
	if !nearVec(a.Camera.Target, b.Camera.Target) || !nearVec(a.Camera.Pos, b.Camera.Pos) {
		t.Errorf("results differ: %+v vs %+v", a.Camera, b.Camera)
	}
}

func TestRecenterCameraDegenerateTarget(t *testing.T) {
	res := RecenterCamera(CameraIn{Pos: mgl32.Vec3{1, 1, 1}, Target: mgl32.Vec3{1, 9, 1}}, IdentityPose(), 0)
	for _, v := range []mgl32.Vec3{res.Camera.Pos, res.Camera.Target, res.Up} {
		for _, c := range v {
			if math.IsNaN(float64(c)) {
				t.Fatalf("NaN in result %+v", res)
			}
		}
	}
}

func cameraAt(pos mgl32.Vec3, rot mgl32.Quat) LookAtCamera {
	view := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(rot.Mat4()).Inv()
	return LookAtCamera{Mtx: matrix34(view), Pos: pos}
}

func TestRenderCameraIdentityPose(t *testing.T) {
	cam := cameraAt(mgl32.Vec3{5, 1, 2}, mgl32.QuatIdent())
	out := RenderCamera(cam, IdentityPose())

	for i := range out.Mtx {
		if !near(out.Mtx[i], cam.Mtx[i]) {
			t.Fatalf("Mtx = %v, want %v", out.Mtx, cam.Mtx)
		}
	}
	if want := (mgl32.Vec3{5, 1, 2}); !nearVec(out.Pos, want) {
		t.Errorf("Pos = %v, want %v", out.Pos, want)
	}
	if want := (mgl32.Vec3{5, 1, 1}); !nearVec(out.At, want) {
		t.Errorf("At = %v, want %v", out.At, want)
	}
	if !nearVec(out.Up, worldUp) {
		t.Errorf("Up = %v, want %v", out.Up, worldUp)
	}
}

func TestRenderCameraEyeOffsetInCameraSpace(t *testing.T) {
	cam := cameraAt(mgl32.Vec3{5, 1, 2}, yaw(math.Pi/2))
	pose := Pose{Position: mgl32.Vec3{0.1, 0, 0}, Orientation: mgl32.QuatIdent()}
	out := RenderCamera(cam, pose)

	// The camera faces -X, so its local +X is world -Z.
	if want := (mgl32.Vec3{5, 1, 1.9}); !nearVec(out.Pos, want) {
		t.Errorf("Pos = %v, want %v", out.Pos, want)
	}
	if want := (mgl32.Vec3{4, 1, 1.9}); !nearVec(out.At, want) {
		t.Errorf("At = %v, want %v", out.At, want)
	}
	if out.VTable != cam.VTable {
		t.Error("VTable changed")
	}
}
