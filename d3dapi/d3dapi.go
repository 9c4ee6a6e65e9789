// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3dapi describes the slice of Direct3D 12 used by the stereo
// bridge on the compositor side: committed resources that can be shared,
// shared fences, resource state transitions and queue-side fence
// signal/wait.
//
// Numeric values match d3d12.h and dxgiformat.h. The concrete
// implementation lives in backend/d3d12 (Windows only).
package d3dapi

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// ErrDeviceRemoved is returned when the device was lost and a fence no
// longer advances.
var ErrDeviceRemoved = errors.New("d3dapi: device removed")

// FenceErrorValue is reported by a fence's completed value after device
// removal.
const FenceErrorValue = ^uint64(0)

// DefaultResourcePlacementAlignment is the alignment of committed textures.
const DefaultResourcePlacementAlignment = 64 * 1024

// AllSubresources addresses every subresource in a barrier.
const AllSubresources = 0xFFFFFFFF

// GenericAll is the access right requested for shared handles.
const GenericAll = 0x10000000

// Format is a DXGI_FORMAT.
type Format uint32

const (
	FormatUnknown           Format = 0
	FormatR16G16B16A16Float Format = 10
	FormatR32G8X24Typeless  Format = 19
	FormatD32FloatS8X24Uint Format = 20
	FormatR10G10B10A2Unorm  Format = 24
	FormatR8G8B8A8Unorm     Format = 28
	FormatR8G8B8A8UnormSrgb Format = 29
	FormatR32Typeless       Format = 39
	FormatD32Float          Format = 40
	FormatR24G8Typeless     Format = 44
	FormatD24UnormS8Uint    Format = 45
	FormatR16Typeless       Format = 53
	FormatD16Unorm          Format = 55
	FormatB8G8R8A8Unorm     Format = 87
	FormatB8G8R8A8UnormSrgb Format = 91
)

// IsDepthFormat reports whether f is a depth-stencil view format.
func (f Format) IsDepthFormat() bool {
	switch f {
	case FormatD32FloatS8X24Uint, FormatD32Float, FormatD24UnormS8Uint, FormatD16Unorm:
		return true
	}
	return false
}

// Typeless returns the typeless resource format for a depth format so the
// resource can be viewed both as depth and as a shader resource. Color
// formats are returned unchanged.
func (f Format) Typeless() Format {
	switch f {
	case FormatD32FloatS8X24Uint:
		return FormatR32G8X24Typeless
	case FormatD32Float:
		return FormatR32Typeless
	case FormatD24UnormS8Uint:
		return FormatR24G8Typeless
	case FormatD16Unorm:
		return FormatR16Typeless
	}
	return f
}

var fromGPUTypes = map[gputypes.TextureFormat]Format{
	gputypes.TextureFormatRGBA8Unorm:          FormatR8G8B8A8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb:      FormatR8G8B8A8UnormSrgb,
	gputypes.TextureFormatBGRA8Unorm:          FormatB8G8R8A8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb:      FormatB8G8R8A8UnormSrgb,
	gputypes.TextureFormatRGB10A2Unorm:        FormatR10G10B10A2Unorm,
	gputypes.TextureFormatRGBA16Float:         FormatR16G16B16A16Float,
	gputypes.TextureFormatDepth16Unorm:        FormatD16Unorm,
	gputypes.TextureFormatDepth32Float:        FormatD32Float,
	gputypes.TextureFormatDepth24PlusStencil8: FormatD24UnormS8Uint,
}

// FormatFromGPUTypes maps a portable texture format to its DXGI value.
func FormatFromGPUTypes(tf gputypes.TextureFormat) (Format, bool) {
	f, ok := fromGPUTypes[tf]
	return f, ok
}

// ResourceStates is a D3D12_RESOURCE_STATES mask.
type ResourceStates uint32

const (
	ResourceStateCommon              ResourceStates = 0
	ResourceStateRenderTarget        ResourceStates = 0x4
	ResourceStateUnorderedAccess     ResourceStates = 0x8
	ResourceStateDepthWrite          ResourceStates = 0x10
	ResourceStateDepthRead           ResourceStates = 0x20
	ResourceStatePixelShaderResource ResourceStates = 0x80
	ResourceStateCopyDest            ResourceStates = 0x400
	ResourceStateCopySource          ResourceStates = 0x800
)

// ResourceFlags is a D3D12_RESOURCE_FLAGS mask.
type ResourceFlags uint32

const (
	ResourceFlagNone                    ResourceFlags = 0
	ResourceFlagAllowRenderTarget       ResourceFlags = 0x1
	ResourceFlagAllowDepthStencil       ResourceFlags = 0x2
	ResourceFlagAllowUnorderedAccess    ResourceFlags = 0x4
	ResourceFlagAllowSimultaneousAccess ResourceFlags = 0x20
)

// HeapType is a D3D12_HEAP_TYPE.
type HeapType uint32

const HeapTypeDefault HeapType = 1

// HeapFlags is a D3D12_HEAP_FLAGS mask.
type HeapFlags uint32

const (
	HeapFlagNone   HeapFlags = 0
	HeapFlagShared HeapFlags = 0x1
)

// FenceFlags is a D3D12_FENCE_FLAGS mask.
type FenceFlags uint32

const (
	FenceFlagNone   FenceFlags = 0
	FenceFlagShared FenceFlags = 0x1
)

// ResourceDesc describes a 2D texture resource.
type ResourceDesc struct {
	Width     uint64
	Height    uint32
	Format    Format
	MipLevels uint16
	Alignment uint64
	Flags     ResourceFlags
}

// Object is any device child that can be released and shared.
type Object interface {
	// Release drops the caller's reference.
	Release()
}

// Resource is an ID3D12Resource.
type Resource interface {
	Object
	Desc() ResourceDesc
}

// Fence is an ID3D12Fence.
type Fence interface {
	Object
	CompletedValue() uint64
}

// TransitionBarrier is a D3D12 resource transition.
type TransitionBarrier struct {
	Resource    Resource
	Subresource uint32
	StateBefore ResourceStates
	StateAfter  ResourceStates
}

// CommandList is an ID3D12GraphicsCommandList in the recording state.
type CommandList interface {
	ResourceBarrier(barriers []TransitionBarrier)
}

// CommandQueue is an ID3D12CommandQueue.
type CommandQueue interface {
	// Signal enqueues a fence signal after all previously submitted work.
	Signal(fence Fence, value uint64) error
	// Wait makes the queue wait on the GPU until fence reaches value.
	Wait(fence Fence, value uint64) error
}

// Device is an ID3D12Device.
type Device interface {
	CreateCommittedResource(heap HeapType, heapFlags HeapFlags, desc *ResourceDesc, initial ResourceStates) (Resource, error)
	CreateFence(initialValue uint64, flags FenceFlags) (Fence, error)

	// CreateSharedHandle exports obj as an NT handle with GenericAll access.
	// The caller owns the returned handle.
	CreateSharedHandle(obj Object) (uintptr, error)
}
