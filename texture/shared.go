// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/vkapi"
)

// Usage of imported images.
const (
	sharedColorUsage = vkapi.ImageUsageColorAttachment | vkapi.ImageUsageTransferSrc |
		vkapi.ImageUsageTransferDst | vkapi.ImageUsageSampled
	sharedDepthUsage = vkapi.ImageUsageDepthStencilAttachment | vkapi.ImageUsageTransferSrc |
		vkapi.ImageUsageTransferDst | vkapi.ImageUsageSampled
)

// SharedTexture is one image backed by the same GPU memory in D3D12 and
// Vulkan, with a D3D12 fence imported as a Vulkan timeline semaphore.
//
// The D3D12 side allocates and exports; the Vulkan side imports. The OS
// handles are owned by the D3D12 side and closed exactly once by Close.
type SharedTexture struct {
	*D3DTexture
	Image

	semaphore vkapi.Semaphore
	closed    bool
}

// NewSharedTexture creates the D3D12 resource and fence, then imports both
// into vkDevice:
//
//  1. create an image with external-memory creation info
//  2. query its memory requirements and the handle's memory type bits
//  3. allocate memory with dedicated-allocation and import records,
//     choosing a device-local type among the handle's bits
//  4. bind the memory to the image
//  5. create a timeline semaphore and import the fence into it
//
// Any failing step releases what was created and returns a *StepError.
func NewSharedTexture(vkDevice vkapi.Device, d3dDevice d3dapi.Device, desc *Descriptor) (*SharedTexture, error) {
	vkFormat, err := desc.vulkanFormat()
	if err != nil {
		return nil, stepErr(StepValidateDescriptor, err)
	}
	d3dFormat, ok := d3dapi.FormatFromGPUTypes(desc.Format)
	if !ok {
		return nil, stepErr(StepValidateDescriptor, ErrUnsupportedFormat)
	}

	exported, err := NewD3DTexture(d3dDevice, desc.Width, desc.Height, d3dFormat)
	if err != nil {
		return nil, err
	}

	t := &SharedTexture{
		D3DTexture: exported,
		Image: Image{
			device:          vkDevice,
			width:           desc.Width,
			height:          desc.Height,
			format:          vkFormat,
			layout:          vkapi.ImageLayoutUndefined,
			postCopyBarrier: desc.PostCopyBarrier,
		},
	}
	if err := t.importVulkan(); err != nil {
		t.Close()
		return nil, err
	}

	logging.Logger().Info("texture: shared texture created",
		"label", desc.Label, "width", desc.Width, "height", desc.Height,
		"vk_format", int32(vkFormat), "dxgi_format", uint32(d3dFormat))
	return t, nil
}

func (t *SharedTexture) importVulkan() error {
	dev := t.Image.device
	memHandle, err := t.memoryHandle.Raw()
	if err != nil {
		return stepErr(StepImportMemory, err)
	}
	fenceHandle, err := t.fenceHandle.Raw()
	if err != nil {
		return stepErr(StepImportSemaphore, err)
	}

	usage := sharedColorUsage
	if t.Image.format.IsDepthFormat() {
		usage = sharedDepthUsage
	}
	t.image, err = dev.CreateImage(&vkapi.ImageCreateInfo{
		Format:              t.Image.format,
		Extent:              vkapi.Extent3D{Width: t.Image.width, Height: t.Image.height, Depth: 1},
		MipLevels:           1,
		ArrayLayers:         1,
		Usage:               usage,
		InitialLayout:       vkapi.ImageLayoutUndefined,
		ExternalHandleTypes: vkapi.ExternalMemoryHandleTypeD3D12Resource,
	})
	if err != nil {
		return stepErr(StepCreateImage, err)
	}

	req := dev.ImageMemoryRequirements(t.image)
	typeBits, err := dev.MemoryWin32HandleProperties(vkapi.ExternalMemoryHandleTypeD3D12Resource, memHandle)
	if err != nil {
		return stepErr(StepHandleProperties, err)
	}
	props := dev.MemoryProperties()
	typeIndex, err := vkapi.FindMemoryType(&props, typeBits, vkapi.MemoryPropertyDeviceLocal)
	if err != nil {
		return stepErr(StepFindMemoryType, err)
	}

	t.memory, err = dev.AllocateMemory(&vkapi.MemoryAllocateInfo{
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIndex,
		DedicatedImage:  t.image,
		Import: &vkapi.ImportMemoryWin32Handle{
			HandleType: vkapi.ExternalMemoryHandleTypeD3D12Resource,
			Handle:     memHandle,
		},
	})
	if err != nil {
		return stepErr(StepImportMemory, err)
	}
	if err := dev.BindImageMemory(t.image, t.memory, 0); err != nil {
		return stepErr(StepBindMemory, err)
	}

	t.semaphore, err = dev.CreateTimelineSemaphore(0)
	if err != nil {
		return stepErr(StepCreateSemaphore, err)
	}
	err = dev.ImportSemaphoreWin32Handle(&vkapi.ImportSemaphoreWin32Handle{
		Semaphore:  t.semaphore,
		HandleType: vkapi.ExternalSemaphoreHandleTypeD3D12Fence,
		Handle:     fenceHandle,
	})
	if err != nil {
		return stepErr(StepImportSemaphore, err)
	}
	return nil
}

// Semaphore returns the timeline semaphore sharing the D3D12 fence's
// payload.
func (t *SharedTexture) Semaphore() vkapi.Semaphore { return t.semaphore }

// CopyFromVkImage records a copy of src, currently in srcLayout, into the
// shared image and leaves the shared image in GENERAL so both APIs can
// use it.
//
// When srcLayout is TRANSFER_SRC_OPTIMAL the caller manages src and no
// barrier touching it is recorded. A zero src is logged and skipped.
func (t *SharedTexture) CopyFromVkImage(cmd vkapi.CommandBuffer, src vkapi.Image, srcLayout vkapi.ImageLayout) error {
	if err := t.begin(); err != nil {
		return err
	}
	defer t.end()
	return t.copyFrom(cmd, src, srcLayout, vkapi.ImageLayoutGeneral)
}

// Close destroys the Vulkan objects, then closes the exported handles and
// releases the D3D12 objects. It is safe to call more than once.
func (t *SharedTexture) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.semaphore != 0 {
		t.Image.device.DestroySemaphore(t.semaphore)
		t.semaphore = 0
	}
	t.release()
	return t.D3DTexture.Close()
}
