// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrbridge

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vrbridge/config"
	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/frame"
	"github.com/gogpu/vrbridge/internal/fakegpu"
	"github.com/gogpu/vrbridge/registry"
	"github.com/gogpu/vrbridge/stereo"
	"github.com/gogpu/vrbridge/texture"
	"github.com/gogpu/vrbridge/vkapi"
)

const testQueue vkapi.Queue = 1

type fakePoses struct {
	fovs [2]stereo.Fov
}

func (p *fakePoses) Pose(stereo.Eye) stereo.Pose  { return stereo.IdentityPose() }
func (p *fakePoses) FOV(e stereo.Eye) stereo.Fov { return p.fovs[e] }

type env struct {
	vk    *fakegpu.VkDevice
	d3d   *fakegpu.D3DDevice
	queue *fakegpu.Queue
	poses *fakePoses
	mem   *stereo.BigEndianMemory
	fatal []error
}

func newEnv() *env {
	return &env{
		vk:    fakegpu.NewVkDevice(),
		d3d:   &fakegpu.D3DDevice{},
		queue: &fakegpu.Queue{},
		poses: &fakePoses{fovs: [2]stereo.Fov{
			{Left: -0.9, Right: 0.7, Up: 0.8, Down: -0.8},
			{Left: -0.7, Right: 0.9, Up: 0.8, Down: -0.8},
		}},
		mem: stereo.NewBigEndianMemory(make(stereo.RAM, 0x1000)),
	}
}

func (e *env) open(t *testing.T, opts ...Option) (*Session, error) {
	t.Helper()
	opts = append([]Option{WithFatalHandler(func(err error) { e.fatal = append(e.fatal, err) })}, opts...)
	return NewSession(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 1920, 1080, opts...)
}

func (e *env) mustOpen(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := e.open(t, opts...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewSessionColorOnly(t *testing.T) {
	e := newEnv()
	s := e.mustOpen(t)

	if len(e.d3d.Resources) != 2 || len(e.d3d.Fences) != 2 {
		t.Fatalf("created %d resources, %d fences, want 2 and 2", len(e.d3d.Resources), len(e.d3d.Fences))
	}
	for _, eye := range stereo.Eyes {
		targets := s.Eye(eye)
		if targets.Color == nil {
			t.Errorf("%s color is nil", eye)
		}
		if targets.Depth != nil {
			t.Errorf("%s depth created without WithDepth", eye)
		}
	}
	desc := e.d3d.Resources[0].Description
	if desc.Width != 1920 || desc.Height != 1080 || desc.Format != d3dapi.FormatR8G8B8A8Unorm {
		t.Errorf("color resource = %+v", desc)
	}
	if s.Frames() == nil || s.Hooks() == nil || s.Context() == nil || s.Sources() == nil {
		t.Error("session is missing a component")
	}
	if len(e.fatal) != 0 {
		t.Errorf("fatal handler called: %v", e.fatal)
	}
}

func TestNewSessionWithDepth(t *testing.T) {
	e := newEnv()
	s := e.mustOpen(t, WithDepth())

	if len(e.d3d.Resources) != 4 {
		t.Fatalf("created %d resources, want 4", len(e.d3d.Resources))
	}
	if s.Eye(stereo.Right).Depth == nil {
		t.Fatal("right depth is nil")
	}
	var depth int
	for _, r := range e.d3d.Resources {
		if r.Description.Format == d3dapi.FormatD32Float {
			depth++
		}
	}
	if depth != 2 {
		t.Errorf("depth resources = %d, want 2", depth)
	}
}

func TestNewSessionRejectsInput(t *testing.T) {
	e := newEnv()
	if _, err := NewSession(nil, testQueue, e.d3d, e.queue, e.poses, e.mem, 1, 1); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil vulkan device: error = %v, want ErrNilDevice", err)
	}
	if _, err := NewSession(e.vk, testQueue, e.d3d, nil, e.poses, e.mem, 1, 1); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil d3d queue: error = %v, want ErrNilDevice", err)
	}
	if _, err := NewSession(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 0, 1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: error = %v, want ErrInvalidSize", err)
	}
	if len(e.d3d.Resources) != 0 {
		t.Error("resources created for rejected input")
	}
}

func TestNewSessionNoDeviceLocalMemoryIsFatal(t *testing.T) {
	e := newEnv()
	e.vk.Props.Types[0].PropertyFlags = vkapi.MemoryPropertyHostVisible

	_, err := e.open(t)
	if !errors.Is(err, vkapi.ErrNoMemoryType) {
		t.Fatalf("error = %v, want ErrNoMemoryType", err)
	}
	if len(e.fatal) != 1 {
		t.Fatalf("fatal handler called %d times, want 1", len(e.fatal))
	}
	var fe *FatalError
	if !errors.As(e.fatal[0], &fe) || fe.Op != "find device-local memory" {
		t.Errorf("fatal error = %v", e.fatal[0])
	}
	if len(e.d3d.Resources) != 0 {
		t.Error("resources created after fatal error")
	}
}

func TestNewSessionTextureFailureIsFatal(t *testing.T) {
	e := newEnv()
	_, err := e.open(t, WithColorFormat(gputypes.TextureFormatUndefined))

	var step *texture.StepError
	if !errors.As(err, &step) || step.Step != texture.StepValidateDescriptor {
		t.Fatalf("error = %v, want StepError at %q", err, texture.StepValidateDescriptor)
	}
	if len(e.fatal) != 1 {
		t.Errorf("fatal handler called %d times, want 1", len(e.fatal))
	}
}

func TestNewSessionDepthFailureClosesColor(t *testing.T) {
	e := newEnv()
	_, err := e.open(t, WithDepthFormat(gputypes.TextureFormatUndefined))
	if err == nil {
		t.Fatal("expected error")
	}
	if len(e.d3d.Resources) != 1 {
		t.Fatalf("created %d resources, want 1", len(e.d3d.Resources))
	}
	if e.d3d.Resources[0].Released != 1 || e.d3d.Fences[0].Released != 1 {
		t.Error("left color texture not released after depth failure")
	}
}

func TestDefaultFatalHandlerPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered %v, want error", r)
		}
		var fe *FatalError
		if !errors.As(err, &fe) {
			t.Errorf("panic value %v is not a *FatalError", err)
		}
	}()
	e := newEnv()
	_, _ = NewSession(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 64, 64,
		WithColorFormat(gputypes.TextureFormatUndefined))
}

func postCopyBarriers(vk *fakegpu.VkDevice) int {
	var n int
	for _, dep := range vk.Barriers {
		n += len(dep.MemoryBarriers)
	}
	return n
}

func captureOnce(t *testing.T, s *Session) {
	t.Helper()
	if _, err := s.Sources().Track(0x42, vkapi.FormatR8G8B8A8Unorm, 1920, 1080, vkapi.ImageLayoutColorAttachmentOptimal); err != nil {
		t.Fatal(err)
	}
	s.Frames().BeginFrame()
	b := s.Frames().Record(7)
	if err := b.Capture(stereo.Left, frame.Color, 0x42); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if err := s.Frames().Submit(b); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestPostCopyBarrierByVendor(t *testing.T) {
	tests := []struct {
		name   string
		vendor uint32
		opts   []Option
		want   bool
	}{
		{"nvidia", vkapi.VendorNVIDIA, nil, false},
		{"amd", vkapi.VendorAMD, nil, true},
		{"forced", vkapi.VendorNVIDIA, []Option{WithPostCopyBarrier()}, true},
		{"config", vkapi.VendorNVIDIA, []Option{WithConfig(&config.Config{AlwaysPostCopyBarrier: true})}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			e.vk.Info.VendorID = tt.vendor
			s := e.mustOpen(t, tt.opts...)
			captureOnce(t, s)
			if got := postCopyBarriers(e.vk) > 0; got != tt.want {
				t.Errorf("post-copy barrier recorded = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionFrameRoundTrip(t *testing.T) {
	e := newEnv()
	s := e.mustOpen(t)
	captureOnce(t, s)

	list := &fakegpu.CommandList{}
	if err := s.Frames().Consume(stereo.Left, list); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if err := s.Frames().Release(stereo.Left); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if len(e.queue.Ops) != 2 || e.queue.Ops[0].Signal || !e.queue.Ops[1].Signal {
		t.Errorf("d3d queue ops = %+v, want wait then signal", e.queue.Ops)
	}
	if got := e.queue.Ops[1].Value; got != 2 {
		t.Errorf("release value = %d, want 2", got)
	}
	if len(list.Barriers) != 1 {
		t.Errorf("consumer barriers = %d, want 1", len(list.Barriers))
	}
}

func TestSessionHookFatalUsesSessionHandler(t *testing.T) {
	e := newEnv()
	e.poses.fovs[stereo.Right] = stereo.Fov{Left: 0.5, Right: -0.5, Up: 0.5, Down: -0.5}
	s := e.mustOpen(t)

	var regs stereo.Registers
	regs[stereo.RegOffsetOut] = 0x400
	if err := s.Hooks().UpdateCameraOffset(s.Context(), &regs); !errors.Is(err, stereo.ErrInvertedFov) {
		t.Fatalf("UpdateCameraOffset() error = %v, want ErrInvertedFov", err)
	}
	if len(e.fatal) != 1 {
		t.Fatalf("fatal handler called %d times, want 1", len(e.fatal))
	}
	var fe *FatalError
	if !errors.As(e.fatal[0], &fe) || fe.Op != "game hook" || !errors.Is(fe, stereo.ErrInvertedFov) {
		t.Errorf("fatal error = %v", e.fatal[0])
	}
}

func TestWithConfigPlayerHeight(t *testing.T) {
	e := newEnv()
	cfg := config.Default()
	cfg.PlayerHeight = 1.5
	s := e.mustOpen(t, WithConfig(cfg), WithConfig(nil))
	if got := s.Hooks().PlayerHeight(); got != 1.5 {
		t.Errorf("PlayerHeight() = %v, want 1.5", got)
	}
}

func TestRenderScaleSizesTextures(t *testing.T) {
	tests := []struct {
		name          string
		opts          []Option
		width, height uint64
	}{
		{"default", nil, 1920, 1080},
		{"config", []Option{WithConfig(&config.Config{RenderScale: 0.5})}, 960, 540},
		{"option", []Option{WithRenderScale(1.5)}, 2880, 1620},
		{"ignored", []Option{WithRenderScale(-1), WithConfig(&config.Config{})}, 1920, 1080},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			e.mustOpen(t, tt.opts...)
			for i, r := range e.d3d.Resources {
				if r.Description.Width != tt.width || r.Description.Height != uint32(tt.height) {
					t.Errorf("resource %d = %dx%d, want %dx%d", i,
						r.Description.Width, r.Description.Height, tt.width, tt.height)
				}
			}
		})
	}
}

func TestSessionClosedRejectsFrames(t *testing.T) {
	e := newEnv()
	s := e.mustOpen(t)
	captureOnce(t, s)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s.Frames().BeginFrame()
	b := s.Frames().Record(7)
	if err := b.Capture(stereo.Left, frame.Color, 0x42); !errors.Is(err, ErrClosed) {
		t.Errorf("Capture() error = %v, want ErrClosed", err)
	}
	if err := s.Frames().Submit(b); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() error = %v, want ErrClosed", err)
	}
	if err := s.Frames().Consume(stereo.Left, &fakegpu.CommandList{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Consume() error = %v, want ErrClosed", err)
	}
	if err := s.Frames().Release(stereo.Left); !errors.Is(err, ErrClosed) {
		t.Errorf("Release() error = %v, want ErrClosed", err)
	}
	if len(e.queue.Ops) != 0 {
		t.Errorf("d3d queue ops after Close = %+v", e.queue.Ops)
	}
}

func TestSessionClose(t *testing.T) {
	e := newEnv()
	s, err := e.open(t, WithDepth())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if !s.Closed() {
		t.Error("Closed() = false")
	}
	for i, r := range e.d3d.Resources {
		if r.Released != 1 {
			t.Errorf("resource %d released %d times, want 1", i, r.Released)
		}
	}
	for i, f := range e.d3d.Fences {
		if f.Released != 1 {
			t.Errorf("fence %d released %d times, want 1", i, f.Released)
		}
	}
}

func TestSessionsOpenReuses(t *testing.T) {
	e := newEnv()
	ss := NewSessions()
	t.Cleanup(ss.CloseAll)

	a, err := ss.Open(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ss.Open(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("Open() created a second session for the same device")
	}
	if len(e.d3d.Resources) != 2 {
		t.Errorf("created %d resources, want 2", len(e.d3d.Resources))
	}
	if got, ok := ss.Lookup(e.vk); !ok || got != a {
		t.Error("Lookup() did not return the open session")
	}
}

func TestSessionsClose(t *testing.T) {
	e := newEnv()
	other := newEnv()
	ss := NewSessions()

	a, err := ss.Open(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ss.Open(other.vk, testQueue, other.d3d, other.queue, other.poses, other.mem, 64, 64)
	if err != nil {
		t.Fatal(err)
	}
	if ss.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ss.Len())
	}

	if err := ss.Close(e.vk); err != nil {
		t.Fatal(err)
	}
	if !a.Closed() || b.Closed() {
		t.Errorf("closed: a=%v b=%v, want true false", a.Closed(), b.Closed())
	}
	if err := ss.Close(e.vk); !errors.Is(err, registry.ErrNotFound) {
		t.Errorf("second Close() error = %v, want ErrNotFound", err)
	}

	ss.CloseAll()
	if !b.Closed() || ss.Len() != 0 {
		t.Error("CloseAll() left a session open")
	}
}

func TestSessionsOpenFailureNotRegistered(t *testing.T) {
	e := newEnv()
	ss := NewSessions()
	_, err := ss.Open(e.vk, testQueue, e.d3d, e.queue, e.poses, e.mem, 0, 0)
	if !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("error = %v, want ErrInvalidSize", err)
	}
	if ss.Len() != 0 {
		t.Error("failed session was registered")
	}
}
