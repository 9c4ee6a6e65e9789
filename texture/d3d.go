// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/internal/oshandle"
)

// ownHandle wraps exported handles; tests replace it.
var ownHandle = oshandle.Own

// D3DTexture is the exporting half of a shared texture: a committed D3D12
// resource on a shared heap plus a shared fence, each exported as an OS
// handle that this texture owns.
//
// Depth textures are created with the typeless variant of their format so
// they can be bound both as depth and as a shader resource.
type D3DTexture struct {
	device   d3dapi.Device
	resource d3dapi.Resource
	fence    d3dapi.Fence

	memoryHandle *oshandle.Handle
	fenceHandle  *oshandle.Handle

	width  uint32
	height uint32
	format d3dapi.Format
	state  d3dapi.ResourceStates
}

// NewD3DTexture creates and exports the resource and fence. On failure
// everything created so far is released and a *StepError is returned.
func NewD3DTexture(device d3dapi.Device, width, height uint32, format d3dapi.Format) (*D3DTexture, error) {
	if width == 0 || height == 0 {
		return nil, stepErr(StepValidateDescriptor, ErrInvalidSize)
	}

	flags := d3dapi.ResourceFlagAllowSimultaneousAccess | d3dapi.ResourceFlagAllowRenderTarget
	resourceFormat := format
	if format.IsDepthFormat() {
		// Simultaneous access is not allowed on depth-stencil resources.
		flags = d3dapi.ResourceFlagAllowDepthStencil
		resourceFormat = format.Typeless()
	}

	t := &D3DTexture{
		device: device,
		width:  width,
		height: height,
		format: format,
		state:  d3dapi.ResourceStateCommon,
	}

	var err error
	t.resource, err = device.CreateCommittedResource(d3dapi.HeapTypeDefault, d3dapi.HeapFlagShared, &d3dapi.ResourceDesc{
		Width:     uint64(width),
		Height:    height,
		Format:    resourceFormat,
		MipLevels: 1,
		Alignment: d3dapi.DefaultResourcePlacementAlignment,
		Flags:     flags,
	}, t.state)
	if err != nil {
		return nil, stepErr(StepCreateResource, err)
	}

	raw, err := device.CreateSharedHandle(t.resource)
	if err != nil {
		t.Close()
		return nil, stepErr(StepExportResource, err)
	}
	t.memoryHandle = ownHandle(raw)

	t.fence, err = device.CreateFence(0, d3dapi.FenceFlagShared)
	if err != nil {
		t.Close()
		return nil, stepErr(StepCreateFence, err)
	}
	raw, err = device.CreateSharedHandle(t.fence)
	if err != nil {
		t.Close()
		return nil, stepErr(StepExportFence, err)
	}
	t.fenceHandle = ownHandle(raw)

	return t, nil
}

// Resource returns the D3D12 resource.
func (t *D3DTexture) Resource() d3dapi.Resource { return t.resource }

// Fence returns the shared fence.
func (t *D3DTexture) Fence() d3dapi.Fence { return t.fence }

// MemoryHandle returns the owned handle of the exported resource.
func (t *D3DTexture) MemoryHandle() *oshandle.Handle { return t.memoryHandle }

// FenceHandle returns the owned handle of the exported fence.
func (t *D3DTexture) FenceHandle() *oshandle.Handle { return t.fenceHandle }

// D3DFormat returns the view format (never the typeless resource format).
func (t *D3DTexture) D3DFormat() d3dapi.Format { return t.format }

// State returns the tracked resource state.
func (t *D3DTexture) State() d3dapi.ResourceStates { return t.state }

// TransitionState records a transition to state and reports whether a
// barrier was recorded. Transitions to the current state are skipped.
func (t *D3DTexture) TransitionState(list d3dapi.CommandList, state d3dapi.ResourceStates) bool {
	if t.state == state {
		return false
	}
	list.ResourceBarrier([]d3dapi.TransitionBarrier{{
		Resource:    t.resource,
		Subresource: d3dapi.AllSubresources,
		StateBefore: t.state,
		StateAfter:  state,
	}})
	t.state = state
	return true
}

// Close closes the exported handles and releases the D3D12 objects. It is
// safe to call more than once.
func (t *D3DTexture) Close() error {
	var errs []error
	if t.fenceHandle != nil {
		errs = append(errs, t.fenceHandle.Close())
	}
	if t.memoryHandle != nil {
		errs = append(errs, t.memoryHandle.Close())
	}
	if t.fence != nil {
		t.fence.Release()
		t.fence = nil
	}
	if t.resource != nil {
		t.resource.Release()
		t.resource = nil
	}
	err := errors.Join(errs...)
	if err != nil {
		logging.Logger().Warn("texture: closing shared handles", "err", err)
	}
	return err
}
