// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/vkapi"
)

// Descriptor describes a texture to create.
type Descriptor struct {
	// Label is an optional debug name.
	Label string

	Width  uint32
	Height uint32

	// Format is the portable pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used. RenderAttachment maps
	// to a color or depth attachment depending on Format.
	Usage gputypes.TextureUsage

	// DisableAlpha makes the default view read alpha as 1.
	DisableAlpha bool

	// PostCopyBarrier records a global memory barrier after copies into
	// the texture.
	PostCopyBarrier bool
}

func (d *Descriptor) vulkanFormat() (vkapi.Format, error) {
	if d.Width == 0 || d.Height == 0 {
		return vkapi.FormatUndefined, ErrInvalidSize
	}
	f, ok := vkapi.FormatFromGPUTypes(d.Format)
	if !ok {
		return vkapi.FormatUndefined, ErrUnsupportedFormat
	}
	return f, nil
}

func vulkanUsage(u gputypes.TextureUsage, depth bool) vkapi.ImageUsageFlags {
	var out vkapi.ImageUsageFlags
	if u&gputypes.TextureUsageCopySrc != 0 {
		out |= vkapi.ImageUsageTransferSrc
	}
	if u&gputypes.TextureUsageCopyDst != 0 {
		out |= vkapi.ImageUsageTransferDst
	}
	if u&gputypes.TextureUsageTextureBinding != 0 {
		out |= vkapi.ImageUsageSampled
	}
	if u&gputypes.TextureUsageRenderAttachment != 0 {
		if depth {
			out |= vkapi.ImageUsageDepthStencilAttachment
		} else {
			out |= vkapi.ImageUsageColorAttachment
		}
	}
	return out
}

func viewComponents(disableAlpha bool) vkapi.ComponentMapping {
	m := vkapi.ComponentMapping{}
	if disableAlpha {
		m.A = vkapi.ComponentSwizzleOne
	}
	return m
}

// VulkanTexture is a device-local Vulkan image with a default view.
type VulkanTexture struct {
	Image

	label string
	view  vkapi.ImageView
}

// NewVulkanTexture creates a 2D, optimally tiled image in device-local
// memory together with a view covering it. On failure every object created
// so far is released and a *StepError is returned.
func NewVulkanTexture(device vkapi.Device, desc *Descriptor) (*VulkanTexture, error) {
	format, err := desc.vulkanFormat()
	if err != nil {
		return nil, stepErr(StepValidateDescriptor, err)
	}

	t := &VulkanTexture{
		Image: Image{
			device:          device,
			width:           desc.Width,
			height:          desc.Height,
			format:          format,
			layout:          vkapi.ImageLayoutUndefined,
			postCopyBarrier: desc.PostCopyBarrier,
		},
		label: desc.Label,
	}

	t.image, err = device.CreateImage(&vkapi.ImageCreateInfo{
		Format:        format,
		Extent:        vkapi.Extent3D{Width: desc.Width, Height: desc.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Usage:         vulkanUsage(desc.Usage, format.IsDepthFormat()),
		InitialLayout: vkapi.ImageLayoutUndefined,
	})
	if err != nil {
		return nil, stepErr(StepCreateImage, err)
	}

	req := device.ImageMemoryRequirements(t.image)
	props := device.MemoryProperties()
	typeIndex, err := vkapi.FindMemoryType(&props, req.MemoryTypeBits, vkapi.MemoryPropertyDeviceLocal)
	if err != nil {
		t.Destroy()
		return nil, stepErr(StepFindMemoryType, err)
	}

	t.memory, err = device.AllocateMemory(&vkapi.MemoryAllocateInfo{
		AllocationSize:  req.Size,
		MemoryTypeIndex: typeIndex,
	})
	if err != nil {
		t.Destroy()
		return nil, stepErr(StepAllocateMemory, err)
	}
	if err := device.BindImageMemory(t.image, t.memory, 0); err != nil {
		t.Destroy()
		return nil, stepErr(StepBindMemory, err)
	}

	t.view, err = device.CreateImageView(&vkapi.ImageViewCreateInfo{
		Image:            t.image,
		Format:           format,
		Components:       viewComponents(desc.DisableAlpha),
		SubresourceRange: vkapi.WholeImage(format.AspectMask()),
	})
	if err != nil {
		t.Destroy()
		return nil, stepErr(StepCreateView, err)
	}

	logging.Logger().Debug("texture: vulkan texture created",
		"label", desc.Label, "width", desc.Width, "height", desc.Height, "format", int32(format))
	return t, nil
}

// View returns the default image view.
func (t *VulkanTexture) View() vkapi.ImageView { return t.view }

// Label returns the debug name.
func (t *VulkanTexture) Label() string { return t.label }

// Destroy releases the view, the image and its memory. The image is
// destroyed exactly once even if Destroy is called again.
func (t *VulkanTexture) Destroy() {
	if t.view != 0 {
		t.device.DestroyImageView(t.view)
		t.view = 0
	}
	t.release()
}
