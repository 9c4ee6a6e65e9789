// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/vkapi"
)

// Device implements vkapi.Device for a VkDevice it does not own.
type Device struct {
	physical vk.PhysicalDevice
	device   vk.Device
	raw      uintptr

	info     vkapi.PhysicalDeviceInfo
	memProps vkapi.MemoryProperties

	procs procs
}

var _ vkapi.Device = (*Device)(nil)

// New wraps the dispatchable handles of a physical and logical device.
// The device properties are read once.
func New(physical, device uintptr) (*Device, error) {
	d := &Device{
		physical: vk.PhysicalDevice(unsafe.Pointer(physical)),
		device:   vk.Device(unsafe.Pointer(device)),
		raw:      device,
	}
	if err := d.procs.load(device); err != nil {
		return nil, err
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.physical, &props)
	props.Deref()
	d.info = vkapi.PhysicalDeviceInfo{
		Name:          vk.ToString(props.DeviceName[:]),
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		DriverVersion: props.DriverVersion,
	}

	var mem vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.physical, &mem)
	mem.Deref()
	d.memProps = convertMemoryProperties(&mem)

	logging.Logger().Info("vulkan: device opened", "gpu", d.info.Name,
		"vendor", fmt.Sprintf("%#x", d.info.VendorID), "memory_types", d.memProps.TypeCount)
	return d, nil
}

func convertMemoryProperties(mem *vk.PhysicalDeviceMemoryProperties) vkapi.MemoryProperties {
	var out vkapi.MemoryProperties
	out.TypeCount = min(mem.MemoryTypeCount, vkapi.MaxMemoryTypes)
	for i := range out.TypeCount {
		mem.MemoryTypes[i].Deref()
		out.Types[i] = vkapi.MemoryType{
			PropertyFlags: vkapi.MemoryPropertyFlags(mem.MemoryTypes[i].PropertyFlags),
			HeapIndex:     mem.MemoryTypes[i].HeapIndex,
		}
	}
	out.HeapCount = min(mem.MemoryHeapCount, vkapi.MaxMemoryHeaps)
	for i := range out.HeapCount {
		mem.MemoryHeaps[i].Deref()
		out.Heaps[i] = vkapi.MemoryHeap{
			Size:  uint64(mem.MemoryHeaps[i].Size),
			Flags: vkapi.MemoryHeapFlags(mem.MemoryHeaps[i].Flags),
		}
	}
	return out
}

func image(h vkapi.Image) vk.Image                { return vk.Image(unsafe.Pointer(uintptr(h))) }
func memory(h vkapi.DeviceMemory) vk.DeviceMemory { return vk.DeviceMemory(unsafe.Pointer(uintptr(h))) }
func semaphore(h vkapi.Semaphore) vk.Semaphore    { return vk.Semaphore(unsafe.Pointer(uintptr(h))) }
func commandBuffer(h vkapi.CommandBuffer) vk.CommandBuffer {
	return vk.CommandBuffer(unsafe.Pointer(h))
}

func result(op string, r vk.Result) error {
	if err := vk.Error(r); err != nil {
		return fmt.Errorf("vulkan: %s: %w", op, err)
	}
	return nil
}

// PhysicalDeviceInfo implements vkapi.Device.
func (d *Device) PhysicalDeviceInfo() vkapi.PhysicalDeviceInfo { return d.info }

// MemoryProperties implements vkapi.Device.
func (d *Device) MemoryProperties() vkapi.MemoryProperties { return d.memProps }

// CreateImage implements vkapi.Device.
func (d *Device) CreateImage(info *vkapi.ImageCreateInfo) (vkapi.Image, error) {
	var pinner runtime.Pinner
	defer pinner.Unpin()

	ci := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    vk.Format(info.Format),
		Extent: vk.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  max(info.Extent.Depth, 1),
		},
		MipLevels:     max(info.MipLevels, 1),
		ArrayLayers:   max(info.ArrayLayers, 1),
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(info.Usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayout(info.InitialLayout),
	}
	if info.ExternalHandleTypes != 0 {
		ext := &externalMemoryImageCreateInfo{
			sType:       structureTypeExternalMemoryImageCreateInfo,
			handleTypes: uint32(info.ExternalHandleTypes),
		}
		pinner.Pin(ext)
		ci.PNext = unsafe.Pointer(ext)
	}

	var img vk.Image
	if err := result("create image", vk.CreateImage(d.device, &ci, nil, &img)); err != nil {
		return 0, err
	}
	return vkapi.Image(uintptr(unsafe.Pointer(img))), nil
}

// DestroyImage implements vkapi.Device.
func (d *Device) DestroyImage(img vkapi.Image) {
	vk.DestroyImage(d.device, image(img), nil)
}

// ImageMemoryRequirements implements vkapi.Device.
func (d *Device) ImageMemoryRequirements(img vkapi.Image) vkapi.MemoryRequirements {
	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, image(img), &reqs)
	reqs.Deref()
	return vkapi.MemoryRequirements{
		Size:           uint64(reqs.Size),
		Alignment:      uint64(reqs.Alignment),
		MemoryTypeBits: reqs.MemoryTypeBits,
	}
}

// MemoryWin32HandleProperties implements vkapi.Device.
func (d *Device) MemoryWin32HandleProperties(handleType vkapi.ExternalMemoryHandleTypeFlags, handle uintptr) (uint32, error) {
	props := memoryWin32HandleProperties{sType: structureTypeMemoryWin32HandleProperties}
	r := d.procs.getMemoryWin32HandleProperties(d.raw, uint32(handleType), handle, &props)
	if err := result("memory win32 handle properties", vk.Result(r)); err != nil {
		return 0, err
	}
	return props.memoryTypeBits, nil
}

// AllocateMemory implements vkapi.Device.
func (d *Device) AllocateMemory(info *vkapi.MemoryAllocateInfo) (vkapi.DeviceMemory, error) {
	var pinner runtime.Pinner
	defer pinner.Unpin()

	ai := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(info.AllocationSize),
		MemoryTypeIndex: info.MemoryTypeIndex,
	}

	var next unsafe.Pointer
	if info.DedicatedImage != 0 {
		ded := &memoryDedicatedAllocateInfo{
			sType: structureTypeMemoryDedicatedAllocateInfo,
			image: uint64(info.DedicatedImage),
		}
		pinner.Pin(ded)
		next = unsafe.Pointer(ded)
	}
	if info.Import != nil {
		imp := &importMemoryWin32HandleInfo{
			sType:      structureTypeImportMemoryWin32HandleInfo,
			pNext:      next,
			handleType: uint32(info.Import.HandleType),
			handle:     info.Import.Handle,
		}
		pinner.Pin(imp)
		next = unsafe.Pointer(imp)
	}
	ai.PNext = next

	var mem vk.DeviceMemory
	if err := result("allocate memory", vk.AllocateMemory(d.device, &ai, nil, &mem)); err != nil {
		return 0, err
	}
	return vkapi.DeviceMemory(uintptr(unsafe.Pointer(mem))), nil
}

// FreeMemory implements vkapi.Device.
func (d *Device) FreeMemory(mem vkapi.DeviceMemory) {
	vk.FreeMemory(d.device, memory(mem), nil)
}

// BindImageMemory implements vkapi.Device.
func (d *Device) BindImageMemory(img vkapi.Image, mem vkapi.DeviceMemory, offset uint64) error {
	return result("bind image memory", vk.BindImageMemory(d.device, image(img), memory(mem), vk.DeviceSize(offset)))
}

// CreateImageView implements vkapi.Device.
func (d *Device) CreateImageView(info *vkapi.ImageViewCreateInfo) (vkapi.ImageView, error) {
	ci := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image(info.Image),
		ViewType: vk.ImageViewType2d,
		Format:   vk.Format(info.Format),
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzle(info.Components.R),
			G: vk.ComponentSwizzle(info.Components.G),
			B: vk.ComponentSwizzle(info.Components.B),
			A: vk.ComponentSwizzle(info.Components.A),
		},
		SubresourceRange: subresourceRange(info.SubresourceRange),
	}
	var view vk.ImageView
	if err := result("create image view", vk.CreateImageView(d.device, &ci, nil, &view)); err != nil {
		return 0, err
	}
	return vkapi.ImageView(uintptr(unsafe.Pointer(view))), nil
}

// DestroyImageView implements vkapi.Device.
func (d *Device) DestroyImageView(view vkapi.ImageView) {
	vk.DestroyImageView(d.device, vk.ImageView(unsafe.Pointer(uintptr(view))), nil)
}

// CreateTimelineSemaphore implements vkapi.Device.
func (d *Device) CreateTimelineSemaphore(initialValue uint64) (vkapi.Semaphore, error) {
	var pinner runtime.Pinner
	defer pinner.Unpin()

	typ := &semaphoreTypeCreateInfo{
		sType:         structureTypeSemaphoreTypeCreateInfo,
		semaphoreType: semaphoreTypeTimeline,
		initialValue:  initialValue,
	}
	pinner.Pin(typ)
	ci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: unsafe.Pointer(typ),
	}
	var sem vk.Semaphore
	if err := result("create timeline semaphore", vk.CreateSemaphore(d.device, &ci, nil, &sem)); err != nil {
		return 0, err
	}
	return vkapi.Semaphore(uintptr(unsafe.Pointer(sem))), nil
}

// ImportSemaphoreWin32Handle implements vkapi.Device.
func (d *Device) ImportSemaphoreWin32Handle(info *vkapi.ImportSemaphoreWin32Handle) error {
	imp := importSemaphoreWin32HandleInfo{
		sType:      structureTypeImportSemaphoreWin32HandleInfo,
		semaphore:  uint64(info.Semaphore),
		handleType: uint32(info.HandleType),
		handle:     info.Handle,
	}
	return result("import semaphore win32 handle", vk.Result(d.procs.importSemaphoreWin32Handle(d.raw, &imp)))
}

// DestroySemaphore implements vkapi.Device.
func (d *Device) DestroySemaphore(sem vkapi.Semaphore) {
	vk.DestroySemaphore(d.device, semaphore(sem), nil)
}

// CmdPipelineBarrier2 implements vkapi.Device.
func (d *Device) CmdPipelineBarrier2(cmd vkapi.CommandBuffer, dep *vkapi.DependencyInfo) {
	c := newDependency(dep)
	var pinner runtime.Pinner
	defer pinner.Unpin()
	if len(c.memory) > 0 {
		pinner.Pin(&c.memory[0])
	}
	if len(c.images) > 0 {
		pinner.Pin(&c.images[0])
	}
	d.procs.cmdPipelineBarrier2(uintptr(cmd), &c.info)
}

// CmdCopyImage implements vkapi.Device.
func (d *Device) CmdCopyImage(cmd vkapi.CommandBuffer, src vkapi.Image, srcLayout vkapi.ImageLayout, dst vkapi.Image, dstLayout vkapi.ImageLayout, regions []vkapi.ImageCopy) {
	vkRegions := make([]vk.ImageCopy, len(regions))
	for i, r := range regions {
		vkRegions[i] = vk.ImageCopy{
			SrcSubresource: subresourceLayers(r.SrcSubresource),
			SrcOffset:      vk.Offset3D{X: r.SrcOffset.X, Y: r.SrcOffset.Y, Z: r.SrcOffset.Z},
			DstSubresource: subresourceLayers(r.DstSubresource),
			DstOffset:      vk.Offset3D{X: r.DstOffset.X, Y: r.DstOffset.Y, Z: r.DstOffset.Z},
			Extent:         vk.Extent3D{Width: r.Extent.Width, Height: r.Extent.Height, Depth: r.Extent.Depth},
		}
	}
	vk.CmdCopyImage(commandBuffer(cmd), image(src), vk.ImageLayout(srcLayout), image(dst), vk.ImageLayout(dstLayout),
		uint32(len(vkRegions)), vkRegions)
}

// CmdClearColorImage implements vkapi.Device.
func (d *Device) CmdClearColorImage(cmd vkapi.CommandBuffer, img vkapi.Image, layout vkapi.ImageLayout, color vkapi.ClearColorValue, ranges []vkapi.ImageSubresourceRange) {
	if len(ranges) == 0 {
		return
	}
	d.procs.cmdClearColorImage(uintptr(cmd), uint64(img), int32(layout), &color, uint32(len(ranges)), &ranges[0])
}

// CmdClearDepthStencilImage implements vkapi.Device.
func (d *Device) CmdClearDepthStencilImage(cmd vkapi.CommandBuffer, img vkapi.Image, layout vkapi.ImageLayout, depth float32, stencil uint32, ranges []vkapi.ImageSubresourceRange) {
	vkRanges := make([]vk.ImageSubresourceRange, len(ranges))
	for i, r := range ranges {
		vkRanges[i] = subresourceRange(r)
	}
	value := vk.ClearDepthStencilValue{Depth: depth, Stencil: stencil}
	vk.CmdClearDepthStencilImage(commandBuffer(cmd), image(img), vk.ImageLayout(layout), &value,
		uint32(len(vkRanges)), vkRanges)
}

// QueueSubmit implements vkapi.Device. Timeline values are chained with
// VkTimelineSemaphoreSubmitInfo.
func (d *Device) QueueSubmit(queue vkapi.Queue, submits []vkapi.SubmitInfo) error {
	var pinner runtime.Pinner
	defer pinner.Unpin()

	infos := make([]vk.SubmitInfo, len(submits))
	for i := range submits {
		s := &submits[i]
		tv := newTimelineValues(s)
		pinner.Pin(tv)
		if len(tv.wait) > 0 {
			pinner.Pin(&tv.wait[0])
		}
		if len(tv.signal) > 0 {
			pinner.Pin(&tv.signal[0])
		}

		waits := make([]vk.Semaphore, len(s.WaitSemaphores))
		stages := make([]vk.PipelineStageFlags, len(s.WaitSemaphores))
		for j, w := range s.WaitSemaphores {
			waits[j] = semaphore(w.Semaphore)
			stages[j] = vk.PipelineStageFlags(legacyStages(w.StageMask))
		}
		signals := make([]vk.Semaphore, len(s.SignalSemaphores))
		for j, sig := range s.SignalSemaphores {
			signals[j] = semaphore(sig.Semaphore)
		}
		cmds := make([]vk.CommandBuffer, len(s.CommandBuffers))
		for j, c := range s.CommandBuffers {
			cmds[j] = commandBuffer(c)
		}

		infos[i] = vk.SubmitInfo{
			SType:                vk.StructureTypeSubmitInfo,
			PNext:                unsafe.Pointer(&tv.info),
			WaitSemaphoreCount:   uint32(len(waits)),
			PWaitSemaphores:      waits,
			PWaitDstStageMask:    stages,
			CommandBufferCount:   uint32(len(cmds)),
			PCommandBuffers:      cmds,
			SignalSemaphoreCount: uint32(len(signals)),
			PSignalSemaphores:    signals,
		}
	}
	var fence vk.Fence
	return result("queue submit", vk.QueueSubmit(vk.Queue(unsafe.Pointer(queue)), uint32(len(infos)), infos, fence))
}

func subresourceRange(r vkapi.ImageSubresourceRange) vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask:     vk.ImageAspectFlags(r.AspectMask),
		BaseMipLevel:   r.BaseMipLevel,
		LevelCount:     r.LevelCount,
		BaseArrayLayer: r.BaseArrayLayer,
		LayerCount:     r.LayerCount,
	}
}

func subresourceLayers(l vkapi.ImageSubresourceLayers) vk.ImageSubresourceLayers {
	return vk.ImageSubresourceLayers{
		AspectMask:     vk.ImageAspectFlags(l.AspectMask),
		MipLevel:       l.MipLevel,
		BaseArrayLayer: l.BaseArrayLayer,
		LayerCount:     l.LayerCount,
	}
}
