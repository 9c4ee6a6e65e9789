// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkapi

// PhysicalDeviceInfo identifies the GPU behind a Device.
type PhysicalDeviceInfo struct {
	Name          string
	VendorID      uint32
	DeviceID      uint32
	DriverVersion uint32
}

// IsAMD reports whether the device needs the post-copy memory barrier
// workaround.
func (p PhysicalDeviceInfo) IsAMD() bool {
	return p.VendorID == VendorAMD
}

// Device is the Vulkan device the bridge records and submits work on.
//
// Methods that record commands (Cmd*) must be called with a command buffer
// in the recording state. Create methods return a zero handle together
// with a non-nil error on failure.
type Device interface {
	// PhysicalDeviceInfo returns the identity of the physical device.
	PhysicalDeviceInfo() PhysicalDeviceInfo

	// MemoryProperties returns the physical device memory properties.
	MemoryProperties() MemoryProperties

	CreateImage(info *ImageCreateInfo) (Image, error)
	DestroyImage(image Image)
	ImageMemoryRequirements(image Image) MemoryRequirements

	// MemoryWin32HandleProperties reports which memory types can import
	// handle.
	MemoryWin32HandleProperties(handleType ExternalMemoryHandleTypeFlags, handle uintptr) (memoryTypeBits uint32, err error)

	AllocateMemory(info *MemoryAllocateInfo) (DeviceMemory, error)
	FreeMemory(memory DeviceMemory)
	BindImageMemory(image Image, memory DeviceMemory, offset uint64) error

	CreateImageView(info *ImageViewCreateInfo) (ImageView, error)
	DestroyImageView(view ImageView)

	// CreateTimelineSemaphore creates a timeline semaphore with the given
	// initial value.
	CreateTimelineSemaphore(initialValue uint64) (Semaphore, error)
	ImportSemaphoreWin32Handle(info *ImportSemaphoreWin32Handle) error
	DestroySemaphore(semaphore Semaphore)

	CmdPipelineBarrier2(cmd CommandBuffer, dep *DependencyInfo)
	CmdCopyImage(cmd CommandBuffer, src Image, srcLayout ImageLayout, dst Image, dstLayout ImageLayout, regions []ImageCopy)
	CmdClearColorImage(cmd CommandBuffer, image Image, layout ImageLayout, color ClearColorValue, ranges []ImageSubresourceRange)
	CmdClearDepthStencilImage(cmd CommandBuffer, image Image, layout ImageLayout, depth float32, stencil uint32, ranges []ImageSubresourceRange)

	// QueueSubmit submits batches to queue. Timeline values in the wait and
	// signal lists are honored by the implementation.
	QueueSubmit(queue Queue, submits []SubmitInfo) error
}
