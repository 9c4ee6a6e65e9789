// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkapi

// Non-dispatchable handles are 64-bit on every platform.
type (
	Image        uint64
	ImageView    uint64
	DeviceMemory uint64
	Semaphore    uint64
)

// Dispatchable handles are pointers owned by the driver.
type (
	CommandBuffer uintptr
	Queue         uintptr
)

// Sentinel values from the Vulkan headers.
const (
	QueueFamilyIgnored   = ^uint32(0)
	RemainingMipLevels   = ^uint32(0)
	RemainingArrayLayers = ^uint32(0)
	WholeSize            = ^uint64(0)

	MaxMemoryTypes = 32
	MaxMemoryHeaps = 16
)

// PCI vendor identifiers reported in PhysicalDeviceInfo.VendorID.
const (
	VendorAMD    uint32 = 0x1002
	VendorNVIDIA uint32 = 0x10DE
	VendorIntel  uint32 = 0x8086
)

// ImageLayout is a VkImageLayout.
type ImageLayout int32

const (
	ImageLayoutUndefined                     ImageLayout = 0
	ImageLayoutGeneral                       ImageLayout = 1
	ImageLayoutColorAttachmentOptimal        ImageLayout = 2
	ImageLayoutDepthStencilAttachmentOptimal ImageLayout = 3
	ImageLayoutDepthStencilReadOnlyOptimal   ImageLayout = 4
	ImageLayoutShaderReadOnlyOptimal         ImageLayout = 5
	ImageLayoutTransferSrcOptimal            ImageLayout = 6
	ImageLayoutTransferDstOptimal            ImageLayout = 7
	ImageLayoutPreinitialized                ImageLayout = 8
	ImageLayoutPresentSrc                    ImageLayout = 1000001002
)

// String returns the layout name without the VK_IMAGE_LAYOUT_ prefix.
func (l ImageLayout) String() string {
	switch l {
	case ImageLayoutUndefined:
		return "UNDEFINED"
	case ImageLayoutGeneral:
		return "GENERAL"
	case ImageLayoutColorAttachmentOptimal:
		return "COLOR_ATTACHMENT_OPTIMAL"
	case ImageLayoutDepthStencilAttachmentOptimal:
		return "DEPTH_STENCIL_ATTACHMENT_OPTIMAL"
	case ImageLayoutDepthStencilReadOnlyOptimal:
		return "DEPTH_STENCIL_READ_ONLY_OPTIMAL"
	case ImageLayoutShaderReadOnlyOptimal:
		return "SHADER_READ_ONLY_OPTIMAL"
	case ImageLayoutTransferSrcOptimal:
		return "TRANSFER_SRC_OPTIMAL"
	case ImageLayoutTransferDstOptimal:
		return "TRANSFER_DST_OPTIMAL"
	case ImageLayoutPreinitialized:
		return "PREINITIALIZED"
	case ImageLayoutPresentSrc:
		return "PRESENT_SRC_KHR"
	default:
		return "UNKNOWN"
	}
}

// PipelineStageFlags2 is a VkPipelineStageFlags2 mask.
type PipelineStageFlags2 uint64

const (
	PipelineStageNone                  PipelineStageFlags2 = 0
	PipelineStageTopOfPipe             PipelineStageFlags2 = 0x00000001
	PipelineStageFragmentShader        PipelineStageFlags2 = 0x00000080
	PipelineStageEarlyFragmentTests    PipelineStageFlags2 = 0x00000100
	PipelineStageLateFragmentTests     PipelineStageFlags2 = 0x00000200
	PipelineStageColorAttachmentOutput PipelineStageFlags2 = 0x00000400
	PipelineStageTransfer              PipelineStageFlags2 = 0x00001000
	PipelineStageBottomOfPipe          PipelineStageFlags2 = 0x00002000
	PipelineStageAllGraphics           PipelineStageFlags2 = 0x00008000
	PipelineStageAllCommands           PipelineStageFlags2 = 0x00010000
)

// AccessFlags2 is a VkAccessFlags2 mask.
type AccessFlags2 uint64

const (
	AccessNone                        AccessFlags2 = 0
	AccessShaderRead                  AccessFlags2 = 0x00000020
	AccessColorAttachmentRead         AccessFlags2 = 0x00000080
	AccessColorAttachmentWrite        AccessFlags2 = 0x00000100
	AccessDepthStencilAttachmentRead  AccessFlags2 = 0x00000200
	AccessDepthStencilAttachmentWrite AccessFlags2 = 0x00000400
	AccessTransferRead                AccessFlags2 = 0x00000800
	AccessTransferWrite               AccessFlags2 = 0x00001000
	AccessMemoryRead                  AccessFlags2 = 0x00008000
	AccessMemoryWrite                 AccessFlags2 = 0x00010000
)

// ImageAspectFlags is a VkImageAspectFlags mask.
type ImageAspectFlags uint32

const (
	ImageAspectColor   ImageAspectFlags = 0x1
	ImageAspectDepth   ImageAspectFlags = 0x2
	ImageAspectStencil ImageAspectFlags = 0x4
)

// ImageUsageFlags is a VkImageUsageFlags mask.
type ImageUsageFlags uint32

const (
	ImageUsageTransferSrc            ImageUsageFlags = 0x01
	ImageUsageTransferDst            ImageUsageFlags = 0x02
	ImageUsageSampled                ImageUsageFlags = 0x04
	ImageUsageStorage                ImageUsageFlags = 0x08
	ImageUsageColorAttachment        ImageUsageFlags = 0x10
	ImageUsageDepthStencilAttachment ImageUsageFlags = 0x20
)

// MemoryPropertyFlags is a VkMemoryPropertyFlags mask.
type MemoryPropertyFlags uint32

const (
	MemoryPropertyDeviceLocal     MemoryPropertyFlags = 0x01
	MemoryPropertyHostVisible     MemoryPropertyFlags = 0x02
	MemoryPropertyHostCoherent    MemoryPropertyFlags = 0x04
	MemoryPropertyHostCached      MemoryPropertyFlags = 0x08
	MemoryPropertyLazilyAllocated MemoryPropertyFlags = 0x10
)

// MemoryHeapFlags is a VkMemoryHeapFlags mask.
type MemoryHeapFlags uint32

const MemoryHeapDeviceLocal MemoryHeapFlags = 0x1

// ExternalMemoryHandleTypeFlags is a VkExternalMemoryHandleTypeFlags mask.
type ExternalMemoryHandleTypeFlags uint32

const (
	ExternalMemoryHandleTypeOpaqueFD       ExternalMemoryHandleTypeFlags = 0x01
	ExternalMemoryHandleTypeOpaqueWin32    ExternalMemoryHandleTypeFlags = 0x02
	ExternalMemoryHandleTypeOpaqueWin32KMT ExternalMemoryHandleTypeFlags = 0x04
	ExternalMemoryHandleTypeD3D12Heap      ExternalMemoryHandleTypeFlags = 0x20
	ExternalMemoryHandleTypeD3D12Resource  ExternalMemoryHandleTypeFlags = 0x40
)

// ExternalSemaphoreHandleTypeFlags is a VkExternalSemaphoreHandleTypeFlags mask.
type ExternalSemaphoreHandleTypeFlags uint32

const (
	ExternalSemaphoreHandleTypeOpaqueFD    ExternalSemaphoreHandleTypeFlags = 0x01
	ExternalSemaphoreHandleTypeOpaqueWin32 ExternalSemaphoreHandleTypeFlags = 0x02
	ExternalSemaphoreHandleTypeD3D12Fence  ExternalSemaphoreHandleTypeFlags = 0x08
)

// ComponentSwizzle is a VkComponentSwizzle.
type ComponentSwizzle int32

const (
	ComponentSwizzleIdentity ComponentSwizzle = 0
	ComponentSwizzleZero     ComponentSwizzle = 1
	ComponentSwizzleOne      ComponentSwizzle = 2
)

// PresentMode is a VkPresentModeKHR.
type PresentMode int32

const (
	PresentModeImmediate   PresentMode = 0
	PresentModeMailbox     PresentMode = 1
	PresentModeFIFO        PresentMode = 2
	PresentModeFIFORelaxed PresentMode = 3
)
