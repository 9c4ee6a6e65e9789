// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/vkapi"
)

// mockVkDevice records every call made through vkapi.Device.
type mockVkDevice struct {
	info  vkapi.PhysicalDeviceInfo
	props vkapi.MemoryProperties

	nextHandle uint64

	handleTypeBits uint32
	failStep       string

	barriers  []vkapi.DependencyInfo
	copies    []copyCall
	clears    []clearCall
	allocs    []vkapi.MemoryAllocateInfo
	images    []vkapi.ImageCreateInfo
	imports   []vkapi.ImportSemaphoreWin32Handle
	views     []vkapi.ImageViewCreateInfo
	destroyed map[string]int
}

type copyCall struct {
	src       vkapi.Image
	srcLayout vkapi.ImageLayout
	dst       vkapi.Image
	dstLayout vkapi.ImageLayout
	regions   []vkapi.ImageCopy
}

type clearCall struct {
	image  vkapi.Image
	layout vkapi.ImageLayout
	depth  bool
}

var errMock = errors.New("mock failure")

func newMockVkDevice() *mockVkDevice {
	d := &mockVkDevice{
		nextHandle:     0x100,
		handleTypeBits: 0b1010,
		destroyed:      make(map[string]int),
	}
	d.props.TypeCount = 4
	d.props.Types[0] = vkapi.MemoryType{PropertyFlags: vkapi.MemoryPropertyHostVisible}
	d.props.Types[1] = vkapi.MemoryType{PropertyFlags: vkapi.MemoryPropertyDeviceLocal}
	d.props.Types[2] = vkapi.MemoryType{PropertyFlags: vkapi.MemoryPropertyHostVisible}
	d.props.Types[3] = vkapi.MemoryType{PropertyFlags: vkapi.MemoryPropertyDeviceLocal}
	return d
}

func (d *mockVkDevice) handle() uint64 {
	d.nextHandle++
	return d.nextHandle
}

func (d *mockVkDevice) fail(step string) error {
	if d.failStep == step {
		return errMock
	}
	return nil
}

func (d *mockVkDevice) PhysicalDeviceInfo() vkapi.PhysicalDeviceInfo { return d.info }
func (d *mockVkDevice) MemoryProperties() vkapi.MemoryProperties     { return d.props }

func (d *mockVkDevice) CreateImage(info *vkapi.ImageCreateInfo) (vkapi.Image, error) {
	if err := d.fail(StepCreateImage); err != nil {
		return 0, err
	}
	d.images = append(d.images, *info)
	return vkapi.Image(d.handle()), nil
}

func (d *mockVkDevice) DestroyImage(vkapi.Image) { d.destroyed["image"]++ }

func (d *mockVkDevice) ImageMemoryRequirements(vkapi.Image) vkapi.MemoryRequirements {
	return vkapi.MemoryRequirements{Size: 1 << 20, Alignment: 64 << 10, MemoryTypeBits: 0b1111}
}

func (d *mockVkDevice) MemoryWin32HandleProperties(vkapi.ExternalMemoryHandleTypeFlags, uintptr) (uint32, error) {
	if err := d.fail(StepHandleProperties); err != nil {
		return 0, err
	}
	return d.handleTypeBits, nil
}

func (d *mockVkDevice) AllocateMemory(info *vkapi.MemoryAllocateInfo) (vkapi.DeviceMemory, error) {
	if err := d.fail(StepImportMemory); err != nil {
		return 0, err
	}
	d.allocs = append(d.allocs, *info)
	return vkapi.DeviceMemory(d.handle()), nil
}

func (d *mockVkDevice) FreeMemory(vkapi.DeviceMemory) { d.destroyed["memory"]++ }

func (d *mockVkDevice) BindImageMemory(vkapi.Image, vkapi.DeviceMemory, uint64) error {
	return d.fail(StepBindMemory)
}

func (d *mockVkDevice) CreateImageView(info *vkapi.ImageViewCreateInfo) (vkapi.ImageView, error) {
	if err := d.fail(StepCreateView); err != nil {
		return 0, err
	}
	d.views = append(d.views, *info)
	return vkapi.ImageView(d.handle()), nil
}

func (d *mockVkDevice) DestroyImageView(vkapi.ImageView) { d.destroyed["view"]++ }

func (d *mockVkDevice) CreateTimelineSemaphore(uint64) (vkapi.Semaphore, error) {
	if err := d.fail(StepCreateSemaphore); err != nil {
		return 0, err
	}
	return vkapi.Semaphore(d.handle()), nil
}

func (d *mockVkDevice) ImportSemaphoreWin32Handle(info *vkapi.ImportSemaphoreWin32Handle) error {
	if err := d.fail(StepImportSemaphore); err != nil {
		return err
	}
	d.imports = append(d.imports, *info)
	return nil
}

func (d *mockVkDevice) DestroySemaphore(vkapi.Semaphore) { d.destroyed["semaphore"]++ }

func (d *mockVkDevice) CmdPipelineBarrier2(_ vkapi.CommandBuffer, dep *vkapi.DependencyInfo) {
	d.barriers = append(d.barriers, *dep)
}

func (d *mockVkDevice) CmdCopyImage(_ vkapi.CommandBuffer, src vkapi.Image, srcLayout vkapi.ImageLayout, dst vkapi.Image, dstLayout vkapi.ImageLayout, regions []vkapi.ImageCopy) {
	d.copies = append(d.copies, copyCall{src, srcLayout, dst, dstLayout, regions})
}

func (d *mockVkDevice) CmdClearColorImage(_ vkapi.CommandBuffer, image vkapi.Image, layout vkapi.ImageLayout, _ vkapi.ClearColorValue, _ []vkapi.ImageSubresourceRange) {
	d.clears = append(d.clears, clearCall{image: image, layout: layout})
}

func (d *mockVkDevice) CmdClearDepthStencilImage(_ vkapi.CommandBuffer, image vkapi.Image, layout vkapi.ImageLayout, _ float32, _ uint32, _ []vkapi.ImageSubresourceRange) {
	d.clears = append(d.clears, clearCall{image: image, layout: layout, depth: true})
}

func (d *mockVkDevice) QueueSubmit(vkapi.Queue, []vkapi.SubmitInfo) error { return nil }

// imageBarriersFor returns the image barriers recorded for image, in order.
func (d *mockVkDevice) imageBarriersFor(image vkapi.Image) []vkapi.ImageMemoryBarrier2 {
	var out []vkapi.ImageMemoryBarrier2
	for _, dep := range d.barriers {
		for _, b := range dep.ImageMemoryBarriers {
			if b.Image == image {
				out = append(out, b)
			}
		}
	}
	return out
}

func (d *mockVkDevice) memoryBarrierCount() int {
	n := 0
	for _, dep := range d.barriers {
		n += len(dep.MemoryBarriers)
	}
	return n
}

// mockD3DDevice hands out fake resources and fences.
type mockD3DDevice struct {
	nextHandle uintptr
	failStep   string

	resources []*mockResource
	fences    []*mockFence
	handles   []uintptr
}

type mockResource struct {
	desc     d3dapi.ResourceDesc
	released int
}

func (r *mockResource) Desc() d3dapi.ResourceDesc { return r.desc }
func (r *mockResource) Release()                  { r.released++ }

type mockFence struct {
	completed uint64
	released  int
}

func (f *mockFence) CompletedValue() uint64 { return f.completed }
func (f *mockFence) Release()               { f.released++ }

type mockCommandList struct {
	barriers []d3dapi.TransitionBarrier
}

func (l *mockCommandList) ResourceBarrier(b []d3dapi.TransitionBarrier) {
	l.barriers = append(l.barriers, b...)
}

func (d *mockD3DDevice) CreateCommittedResource(_ d3dapi.HeapType, _ d3dapi.HeapFlags, desc *d3dapi.ResourceDesc, _ d3dapi.ResourceStates) (d3dapi.Resource, error) {
	if d.failStep == StepCreateResource {
		return nil, errMock
	}
	r := &mockResource{desc: *desc}
	d.resources = append(d.resources, r)
	return r, nil
}

func (d *mockD3DDevice) CreateFence(uint64, d3dapi.FenceFlags) (d3dapi.Fence, error) {
	if d.failStep == StepCreateFence {
		return nil, errMock
	}
	f := &mockFence{}
	d.fences = append(d.fences, f)
	return f, nil
}

func (d *mockD3DDevice) CreateSharedHandle(obj d3dapi.Object) (uintptr, error) {
	if _, isFence := obj.(*mockFence); isFence && d.failStep == StepExportFence {
		return 0, errMock
	}
	d.nextHandle += 4
	d.handles = append(d.handles, d.nextHandle)
	return d.nextHandle, nil
}
