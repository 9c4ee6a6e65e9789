// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package fakegpu provides recording implementations of the vkapi and
// d3dapi interfaces for tests. Nothing touches a GPU or the OS: handles
// are counters and every call is appended to a log.
package fakegpu

import (
	"errors"
	"sync"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/vkapi"
)

// ErrInjected is returned by calls configured to fail.
var ErrInjected = errors.New("fakegpu: injected failure")

// Copy is a recorded CmdCopyImage.
type Copy struct {
	Src       vkapi.Image
	SrcLayout vkapi.ImageLayout
	Dst       vkapi.Image
	DstLayout vkapi.ImageLayout
}

// VkDevice implements vkapi.Device.
type VkDevice struct {
	mu sync.Mutex

	Info  vkapi.PhysicalDeviceInfo
	Props vkapi.MemoryProperties

	// FailSubmit makes QueueSubmit fail.
	FailSubmit bool

	next      uint64
	Barriers  []vkapi.DependencyInfo
	Copies    []Copy
	Submits   []vkapi.SubmitInfo
	Destroyed int
}

// NewVkDevice returns a device with one device-local and one host-visible
// memory type.
func NewVkDevice() *VkDevice {
	d := &VkDevice{next: 0x1000}
	d.Info = vkapi.PhysicalDeviceInfo{Name: "Fake GPU", VendorID: vkapi.VendorNVIDIA}
	d.Props.TypeCount = 2
	d.Props.Types[0] = vkapi.MemoryType{PropertyFlags: vkapi.MemoryPropertyDeviceLocal, HeapIndex: 0}
	d.Props.Types[1] = vkapi.MemoryType{PropertyFlags: vkapi.MemoryPropertyHostVisible, HeapIndex: 1}
	d.Props.HeapCount = 2
	d.Props.Heaps[0] = vkapi.MemoryHeap{Size: 8 << 30, Flags: vkapi.MemoryHeapDeviceLocal}
	d.Props.Heaps[1] = vkapi.MemoryHeap{Size: 16 << 30}
	return d
}

func (d *VkDevice) handle() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	return d.next
}

func (d *VkDevice) PhysicalDeviceInfo() vkapi.PhysicalDeviceInfo { return d.Info }
func (d *VkDevice) MemoryProperties() vkapi.MemoryProperties     { return d.Props }

func (d *VkDevice) CreateImage(*vkapi.ImageCreateInfo) (vkapi.Image, error) {
	return vkapi.Image(d.handle()), nil
}

func (d *VkDevice) DestroyImage(vkapi.Image) { d.destroyed() }

func (d *VkDevice) ImageMemoryRequirements(vkapi.Image) vkapi.MemoryRequirements {
	return vkapi.MemoryRequirements{Size: 1 << 20, Alignment: 64 << 10, MemoryTypeBits: 0b11}
}

func (d *VkDevice) MemoryWin32HandleProperties(vkapi.ExternalMemoryHandleTypeFlags, uintptr) (uint32, error) {
	return 0b01, nil
}

func (d *VkDevice) AllocateMemory(*vkapi.MemoryAllocateInfo) (vkapi.DeviceMemory, error) {
	return vkapi.DeviceMemory(d.handle()), nil
}

func (d *VkDevice) FreeMemory(vkapi.DeviceMemory) { d.destroyed() }

func (d *VkDevice) BindImageMemory(vkapi.Image, vkapi.DeviceMemory, uint64) error { return nil }

func (d *VkDevice) CreateImageView(*vkapi.ImageViewCreateInfo) (vkapi.ImageView, error) {
	return vkapi.ImageView(d.handle()), nil
}

func (d *VkDevice) DestroyImageView(vkapi.ImageView) { d.destroyed() }

func (d *VkDevice) CreateTimelineSemaphore(uint64) (vkapi.Semaphore, error) {
	return vkapi.Semaphore(d.handle()), nil
}

func (d *VkDevice) ImportSemaphoreWin32Handle(*vkapi.ImportSemaphoreWin32Handle) error { return nil }

func (d *VkDevice) DestroySemaphore(vkapi.Semaphore) { d.destroyed() }

func (d *VkDevice) CmdPipelineBarrier2(_ vkapi.CommandBuffer, dep *vkapi.DependencyInfo) {
	d.mu.Lock()
	d.Barriers = append(d.Barriers, *dep)
	d.mu.Unlock()
}

func (d *VkDevice) CmdCopyImage(_ vkapi.CommandBuffer, src vkapi.Image, srcLayout vkapi.ImageLayout, dst vkapi.Image, dstLayout vkapi.ImageLayout, _ []vkapi.ImageCopy) {
	d.mu.Lock()
	d.Copies = append(d.Copies, Copy{src, srcLayout, dst, dstLayout})
	d.mu.Unlock()
}

func (d *VkDevice) CmdClearColorImage(vkapi.CommandBuffer, vkapi.Image, vkapi.ImageLayout, vkapi.ClearColorValue, []vkapi.ImageSubresourceRange) {
}

func (d *VkDevice) CmdClearDepthStencilImage(vkapi.CommandBuffer, vkapi.Image, vkapi.ImageLayout, float32, uint32, []vkapi.ImageSubresourceRange) {
}

func (d *VkDevice) QueueSubmit(_ vkapi.Queue, submits []vkapi.SubmitInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailSubmit {
		return ErrInjected
	}
	d.Submits = append(d.Submits, submits...)
	return nil
}

func (d *VkDevice) destroyed() {
	d.mu.Lock()
	d.Destroyed++
	d.mu.Unlock()
}

// ImageBarriers returns the image barriers recorded for image, in order.
func (d *VkDevice) ImageBarriers(image vkapi.Image) []vkapi.ImageMemoryBarrier2 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []vkapi.ImageMemoryBarrier2
	for _, dep := range d.Barriers {
		for _, b := range dep.ImageMemoryBarriers {
			if b.Image == image {
				out = append(out, b)
			}
		}
	}
	return out
}

// Resource implements d3dapi.Resource.
type Resource struct {
	Description d3dapi.ResourceDesc
	Released    int
}

func (r *Resource) Desc() d3dapi.ResourceDesc { return r.Description }
func (r *Resource) Release()                  { r.Released++ }

// Fence implements d3dapi.Fence. Signals from Queue complete immediately.
type Fence struct {
	mu        sync.Mutex
	completed uint64
	Released  int
}

func (f *Fence) CompletedValue() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// SetCompleted forces the completed value, e.g. to d3dapi.FenceErrorValue.
func (f *Fence) SetCompleted(v uint64) {
	f.mu.Lock()
	f.completed = v
	f.mu.Unlock()
}

func (f *Fence) Release() { f.Released++ }

// D3DDevice implements d3dapi.Device. Exported shared handles are zero,
// so closing them never reaches the OS.
type D3DDevice struct {
	mu        sync.Mutex
	Resources []*Resource
	Fences    []*Fence
	Exports   int
}

func (d *D3DDevice) CreateCommittedResource(_ d3dapi.HeapType, _ d3dapi.HeapFlags, desc *d3dapi.ResourceDesc, _ d3dapi.ResourceStates) (d3dapi.Resource, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r := &Resource{Description: *desc}
	d.Resources = append(d.Resources, r)
	return r, nil
}

func (d *D3DDevice) CreateFence(initial uint64, _ d3dapi.FenceFlags) (d3dapi.Fence, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := &Fence{completed: initial}
	d.Fences = append(d.Fences, f)
	return f, nil
}

func (d *D3DDevice) CreateSharedHandle(d3dapi.Object) (uintptr, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Exports++
	return 0, nil
}

// QueueOp is a recorded Signal or Wait.
type QueueOp struct {
	Signal bool
	Fence  d3dapi.Fence
	Value  uint64
}

// Queue implements d3dapi.CommandQueue.
type Queue struct {
	mu  sync.Mutex
	Ops []QueueOp
	// Err, when set, is returned by every call.
	Err error
}

func (q *Queue) Signal(f d3dapi.Fence, v uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Ops = append(q.Ops, QueueOp{Signal: true, Fence: f, Value: v})
	if ff, ok := f.(*Fence); ok {
		ff.SetCompleted(v)
	}
	return nil
}

func (q *Queue) Wait(f d3dapi.Fence, v uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.Err != nil {
		return q.Err
	}
	q.Ops = append(q.Ops, QueueOp{Fence: f, Value: v})
	return nil
}

// CommandList implements d3dapi.CommandList.
type CommandList struct {
	Barriers []d3dapi.TransitionBarrier
}

func (l *CommandList) ResourceBarrier(b []d3dapi.TransitionBarrier) {
	l.Barriers = append(l.Barriers, b...)
}
