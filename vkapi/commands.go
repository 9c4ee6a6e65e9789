// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkapi

// ImageSubresourceRange selects mip levels and array layers of an image.
type ImageSubresourceRange struct {
	AspectMask     ImageAspectFlags
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// WholeImage returns the range covering every mip level and layer of the
// given aspects.
func WholeImage(aspect ImageAspectFlags) ImageSubresourceRange {
	return ImageSubresourceRange{
		AspectMask: aspect,
		LevelCount: RemainingMipLevels,
		LayerCount: RemainingArrayLayers,
	}
}

// ImageSubresourceLayers selects one mip level of a set of layers.
type ImageSubresourceLayers struct {
	AspectMask     ImageAspectFlags
	MipLevel       uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// Offset3D is a texel offset.
type Offset3D struct {
	X, Y, Z int32
}

// Extent3D is a texel extent.
type Extent3D struct {
	Width, Height, Depth uint32
}

// ImageCopy is one region of vkCmdCopyImage.
type ImageCopy struct {
	SrcSubresource ImageSubresourceLayers
	SrcOffset      Offset3D
	DstSubresource ImageSubresourceLayers
	DstOffset      Offset3D
	Extent         Extent3D
}

// MemoryBarrier2 is a global memory dependency.
type MemoryBarrier2 struct {
	SrcStageMask  PipelineStageFlags2
	SrcAccessMask AccessFlags2
	DstStageMask  PipelineStageFlags2
	DstAccessMask AccessFlags2
}

// ImageMemoryBarrier2 is an image memory dependency, optionally with a
// layout transition.
type ImageMemoryBarrier2 struct {
	SrcStageMask        PipelineStageFlags2
	SrcAccessMask       AccessFlags2
	DstStageMask        PipelineStageFlags2
	DstAccessMask       AccessFlags2
	OldLayout           ImageLayout
	NewLayout           ImageLayout
	SrcQueueFamilyIndex uint32
	DstQueueFamilyIndex uint32
	Image               Image
	SubresourceRange    ImageSubresourceRange
}

// DependencyInfo groups the barriers recorded by one pipeline barrier
// command.
type DependencyInfo struct {
	MemoryBarriers      []MemoryBarrier2
	ImageMemoryBarriers []ImageMemoryBarrier2
}

// Empty reports whether d records nothing.
func (d *DependencyInfo) Empty() bool {
	return len(d.MemoryBarriers) == 0 && len(d.ImageMemoryBarriers) == 0
}

// ClearColorValue is the float interpretation of VkClearColorValue.
type ClearColorValue [4]float32

// SemaphoreSubmit is one timeline semaphore wait or signal of a submit.
type SemaphoreSubmit struct {
	Semaphore Semaphore
	Value     uint64
	StageMask PipelineStageFlags2
}

// SubmitInfo is one batch of a queue submission.
type SubmitInfo struct {
	WaitSemaphores   []SemaphoreSubmit
	CommandBuffers   []CommandBuffer
	SignalSemaphores []SemaphoreSubmit
}

// ImageCreateInfo describes a 2D, single-sample, optimally tiled image.
type ImageCreateInfo struct {
	Format        Format
	Extent        Extent3D
	MipLevels     uint32
	ArrayLayers   uint32
	Usage         ImageUsageFlags
	InitialLayout ImageLayout

	// ExternalHandleTypes, when non-zero, makes the image importable from
	// memory of these handle types.
	ExternalHandleTypes ExternalMemoryHandleTypeFlags
}

// MemoryRequirements is the result of vkGetImageMemoryRequirements2.
type MemoryRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

// ImportMemoryWin32Handle imports memory from an OS handle. The importing
// device does not take ownership of Handle.
type ImportMemoryWin32Handle struct {
	HandleType ExternalMemoryHandleTypeFlags
	Handle     uintptr
}

// MemoryAllocateInfo describes one device memory allocation.
type MemoryAllocateInfo struct {
	AllocationSize  uint64
	MemoryTypeIndex uint32

	// DedicatedImage, when non-zero, chains a dedicated-allocation record
	// naming the image the memory is bound to.
	DedicatedImage Image

	// Import, when non-nil, chains an import record.
	Import *ImportMemoryWin32Handle
}

// ComponentMapping remaps the channels of an image view.
type ComponentMapping struct {
	R, G, B, A ComponentSwizzle
}

// ImageViewCreateInfo describes a 2D image view.
type ImageViewCreateInfo struct {
	Image            Image
	Format           Format
	Components       ComponentMapping
	SubresourceRange ImageSubresourceRange
}

// ImportSemaphoreWin32Handle imports a semaphore payload from an OS handle.
type ImportSemaphoreWin32Handle struct {
	Semaphore  Semaphore
	HandleType ExternalSemaphoreHandleTypeFlags
	Handle     uintptr
}
