// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d12

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/internal/logging"
)

var (
	iidResource = ole.NewGUID("{696442be-a72e-4059-bc79-5b5c98040fad}")
	iidFence    = ole.NewGUID("{0a753dcf-c4d8-4b91-adf6-be5a60d95a76}")
)

// ErrNilInterface is returned when wrapping a nil COM pointer.
var ErrNilInterface = errors.New("d3d12: nil interface")

func hresult(op string, hr uintptr) error {
	if int32(hr) < 0 {
		return fmt.Errorf("d3d12: %s: %w", op, ole.NewError(hr))
	}
	return nil
}

// com is a referenced COM pointer.
type com struct {
	unk *ole.IUnknown
}

func (c *com) raw() uintptr { return uintptr(unsafe.Pointer(c.unk)) }

// Release drops the reference held by the wrapper. Later calls are no-ops.
func (c *com) Release() {
	if c.unk != nil {
		c.unk.Release()
		c.unk = nil
	}
}

func wrap(ptr uintptr) (com, error) {
	if ptr == 0 {
		return com{}, ErrNilInterface
	}
	return com{unk: (*ole.IUnknown)(unsafe.Pointer(ptr))}, nil
}

// Device implements d3dapi.Device for an ID3D12Device.
type Device struct {
	com
}

var _ d3dapi.Device = (*Device)(nil)

// NewDevice wraps an ID3D12Device and takes a reference to it.
func NewDevice(ptr uintptr) (*Device, error) {
	c, err := wrap(ptr)
	if err != nil {
		return nil, err
	}
	c.unk.AddRef()
	return &Device{com: c}, nil
}

func (d *Device) vtbl() *deviceVtbl { return (*deviceVtbl)(unsafe.Pointer(d.unk.RawVTable)) }

// CreateCommittedResource implements d3dapi.Device.
func (d *Device) CreateCommittedResource(heap d3dapi.HeapType, heapFlags d3dapi.HeapFlags, desc *d3dapi.ResourceDesc, initial d3dapi.ResourceStates) (d3dapi.Resource, error) {
	props := newHeapProperties(heap)
	rd := newResourceDesc(desc)
	var out uintptr
	hr, _, _ := syscall.SyscallN(d.vtbl().CreateCommittedResource,
		d.raw(),
		uintptr(unsafe.Pointer(&props)),
		uintptr(heapFlags),
		uintptr(unsafe.Pointer(&rd)),
		uintptr(initial),
		0,
		uintptr(unsafe.Pointer(iidResource)),
		uintptr(unsafe.Pointer(&out)),
	)
	if err := hresult("create committed resource", hr); err != nil {
		logging.Logger().Error("d3d12: resource creation failed", "width", desc.Width, "height", desc.Height,
			"format", uint32(desc.Format), "err", err)
		return nil, err
	}
	c, err := wrap(out)
	if err != nil {
		return nil, err
	}
	return &Resource{com: c, desc: *desc}, nil
}

// CreateFence implements d3dapi.Device.
func (d *Device) CreateFence(initialValue uint64, flags d3dapi.FenceFlags) (d3dapi.Fence, error) {
	var out uintptr
	hr, _, _ := syscall.SyscallN(d.vtbl().CreateFence,
		d.raw(),
		uintptr(initialValue),
		uintptr(flags),
		uintptr(unsafe.Pointer(iidFence)),
		uintptr(unsafe.Pointer(&out)),
	)
	if err := hresult("create fence", hr); err != nil {
		return nil, err
	}
	c, err := wrap(out)
	if err != nil {
		return nil, err
	}
	return &Fence{com: c}, nil
}

// CreateSharedHandle implements d3dapi.Device.
func (d *Device) CreateSharedHandle(obj d3dapi.Object) (uintptr, error) {
	r, ok := obj.(rawer)
	if !ok || r.raw() == 0 {
		return 0, fmt.Errorf("d3d12: share %T: %w", obj, ErrNilInterface)
	}
	var handle uintptr
	hr, _, _ := syscall.SyscallN(d.vtbl().CreateSharedHandle,
		d.raw(),
		r.raw(),
		0,
		d3dapi.GenericAll,
		0,
		uintptr(unsafe.Pointer(&handle)),
	)
	if err := hresult("create shared handle", hr); err != nil {
		return 0, err
	}
	return handle, nil
}

// Resource implements d3dapi.Resource.
type Resource struct {
	com
	desc d3dapi.ResourceDesc
}

// Desc returns the description the resource was created with.
func (r *Resource) Desc() d3dapi.ResourceDesc { return r.desc }

// Fence implements d3dapi.Fence.
type Fence struct {
	com
}

// CompletedValue implements d3dapi.Fence.
func (f *Fence) CompletedValue() uint64 {
	if f.unk == nil {
		return d3dapi.FenceErrorValue
	}
	v := (*fenceVtbl)(unsafe.Pointer(f.unk.RawVTable))
	r, _, _ := syscall.SyscallN(v.GetCompletedValue, f.raw())
	return uint64(r)
}

// Queue implements d3dapi.CommandQueue for an ID3D12CommandQueue.
type Queue struct {
	com
}

var _ d3dapi.CommandQueue = (*Queue)(nil)

// NewQueue wraps an ID3D12CommandQueue and takes a reference to it.
func NewQueue(ptr uintptr) (*Queue, error) {
	c, err := wrap(ptr)
	if err != nil {
		return nil, err
	}
	c.unk.AddRef()
	return &Queue{com: c}, nil
}

func (q *Queue) call(method func(*commandQueueVtbl) uintptr, op string, fence d3dapi.Fence, value uint64) error {
	f, ok := fence.(*Fence)
	if !ok || f.unk == nil {
		return fmt.Errorf("d3d12: %s on %T: %w", op, fence, ErrNilInterface)
	}
	v := (*commandQueueVtbl)(unsafe.Pointer(q.unk.RawVTable))
	hr, _, _ := syscall.SyscallN(method(v), q.raw(), f.raw(), uintptr(value))
	return hresult(op, hr)
}

// Signal implements d3dapi.CommandQueue.
func (q *Queue) Signal(fence d3dapi.Fence, value uint64) error {
	return q.call(func(v *commandQueueVtbl) uintptr { return v.Signal }, "queue signal", fence, value)
}

// Wait implements d3dapi.CommandQueue.
func (q *Queue) Wait(fence d3dapi.Fence, value uint64) error {
	return q.call(func(v *commandQueueVtbl) uintptr { return v.Wait }, "queue wait", fence, value)
}

// CommandList implements d3dapi.CommandList for an
// ID3D12GraphicsCommandList. It does not take a reference; the list must
// outlive the wrapper.
type CommandList struct {
	unk *ole.IUnknown
}

// WrapCommandList wraps a command list in the recording state.
func WrapCommandList(ptr uintptr) (*CommandList, error) {
	c, err := wrap(ptr)
	if err != nil {
		return nil, err
	}
	return &CommandList{unk: c.unk}, nil
}

// ResourceBarrier implements d3dapi.CommandList.
func (l *CommandList) ResourceBarrier(barriers []d3dapi.TransitionBarrier) {
	raw, skipped := newBarriers(barriers)
	if skipped > 0 {
		logging.Logger().Warn("d3d12: barriers on foreign resources skipped", "count", skipped)
	}
	if len(raw) == 0 {
		return
	}
	v := (*graphicsCommandListVtbl)(unsafe.Pointer(l.unk.RawVTable))
	syscall.SyscallN(v.ResourceBarrier, uintptr(unsafe.Pointer(l.unk)), uintptr(len(raw)), uintptr(unsafe.Pointer(&raw[0])))
}
