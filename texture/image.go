// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"sync/atomic"

	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/vkapi"
)

var (
	copySampler  logging.Sampler
	clearSampler logging.Sampler
)

// Image is a Vulkan image whose current layout is tracked on the CPU.
//
// Every command that changes the image's layout records the barrier and
// updates the tracked layout in the same call, so the tracked value always
// equals the layout the image will have when the recorded commands
// execute. Recording is not reentrant: a second recording call made while
// one is in progress fails with ErrTransitionInFlight.
//
// Image does not own its Vulkan objects; VulkanTexture and SharedTexture
// embed it and release the image and memory exactly once.
type Image struct {
	device vkapi.Device
	image  vkapi.Image
	memory vkapi.DeviceMemory

	width  uint32
	height uint32
	format vkapi.Format
	layout vkapi.ImageLayout

	// postCopyBarrier records a global memory barrier after each copy into
	// this image.
	postCopyBarrier bool

	recording atomic.Bool
	destroyed bool
}

// Handle returns the Vulkan image.
func (img *Image) Handle() vkapi.Image { return img.image }

// Memory returns the memory bound to the image.
func (img *Image) Memory() vkapi.DeviceMemory { return img.memory }

// Width returns the image width in texels.
func (img *Image) Width() uint32 { return img.width }

// Height returns the image height in texels.
func (img *Image) Height() uint32 { return img.height }

// Format returns the Vulkan format.
func (img *Image) Format() vkapi.Format { return img.format }

// Layout returns the tracked layout.
func (img *Image) Layout() vkapi.ImageLayout { return img.layout }

func (img *Image) aspect() vkapi.ImageAspectFlags { return img.format.AspectMask() }

func (img *Image) begin() error {
	if img.destroyed {
		return ErrDestroyed
	}
	if !img.recording.CompareAndSwap(false, true) {
		return ErrTransitionInFlight
	}
	return nil
}

func (img *Image) end() { img.recording.Store(false) }

// TransitionLayout records a transition of the whole image to layout. It
// is a no-op when the image is already in that layout.
func (img *Image) TransitionLayout(cmd vkapi.CommandBuffer, layout vkapi.ImageLayout) error {
	if err := img.begin(); err != nil {
		return err
	}
	defer img.end()

	img.transition(cmd, layout)
	return nil
}

func (img *Image) transition(cmd vkapi.CommandBuffer, layout vkapi.ImageLayout) {
	if img.layout == layout {
		return
	}
	b := layoutBarrier(img.image, img.aspect(), scopeFor(img.layout), scopeFor(layout), img.layout, layout)
	img.device.CmdPipelineBarrier2(cmd, &vkapi.DependencyInfo{
		ImageMemoryBarriers: []vkapi.ImageMemoryBarrier2{b},
	})
	img.layout = layout
}

func (img *Image) region() []vkapi.ImageCopy {
	sub := vkapi.ImageSubresourceLayers{AspectMask: img.aspect(), LayerCount: 1}
	return []vkapi.ImageCopy{{
		SrcSubresource: sub,
		DstSubresource: sub,
		Extent:         vkapi.Extent3D{Width: img.width, Height: img.height, Depth: 1},
	}}
}

// CopyToImage records a copy of this image into dst, which is currently
// in dstLayout. Both images are made copy-ready first; dst is left in
// TRANSFER_DST_OPTIMAL and this image in TRANSFER_SRC_OPTIMAL.
func (img *Image) CopyToImage(cmd vkapi.CommandBuffer, dst vkapi.Image, dstLayout vkapi.ImageLayout) error {
	if dst == 0 || img.image == 0 {
		logging.Logger().Error("texture: copy skipped, nil image",
			"src", uint64(img.image), "dst", uint64(dst))
		return ErrNilImage
	}
	if err := img.begin(); err != nil {
		return err
	}
	defer img.end()

	var dep vkapi.DependencyInfo
	if dstLayout != vkapi.ImageLayoutTransferDstOptimal {
		dep.ImageMemoryBarriers = append(dep.ImageMemoryBarriers,
			layoutBarrier(dst, img.aspect(), scopeAll, scopeTransferWrite, dstLayout, vkapi.ImageLayoutTransferDstOptimal))
	}
	if img.layout != vkapi.ImageLayoutTransferSrcOptimal {
		dep.ImageMemoryBarriers = append(dep.ImageMemoryBarriers,
			layoutBarrier(img.image, img.aspect(), scopeFor(img.layout), scopeTransferRead, img.layout, vkapi.ImageLayoutTransferSrcOptimal))
		img.layout = vkapi.ImageLayoutTransferSrcOptimal
	}
	if !dep.Empty() {
		img.device.CmdPipelineBarrier2(cmd, &dep)
	}

	img.device.CmdCopyImage(cmd, img.image, vkapi.ImageLayoutTransferSrcOptimal, dst, vkapi.ImageLayoutTransferDstOptimal, img.region())
	if img.postCopyBarrier {
		img.device.CmdPipelineBarrier2(cmd, &vkapi.DependencyInfo{
			MemoryBarriers: []vkapi.MemoryBarrier2{postCopyBarrier},
		})
	}
	return nil
}

// CopyFromImage records a copy of src, currently in srcLayout, into this
// image. The image is left in TRANSFER_DST_OPTIMAL.
//
// If srcLayout is TRANSFER_SRC_OPTIMAL the caller manages the source
// layout: no barrier touching src is recorded, only the destination-side
// transition. Otherwise src is moved to TRANSFER_SRC_OPTIMAL for the copy
// and restored to srcLayout afterwards.
func (img *Image) CopyFromImage(cmd vkapi.CommandBuffer, src vkapi.Image, srcLayout vkapi.ImageLayout) error {
	if err := img.begin(); err != nil {
		return err
	}
	defer img.end()
	return img.copyFrom(cmd, src, srcLayout, vkapi.ImageLayoutTransferDstOptimal)
}

// copyFrom implements CopyFromImage, leaving the image in final.
func (img *Image) copyFrom(cmd vkapi.CommandBuffer, src vkapi.Image, srcLayout, final vkapi.ImageLayout) error {
	if src == 0 || img.image == 0 {
		logging.Logger().Error("texture: copy skipped, nil image",
			"src", uint64(src), "dst", uint64(img.image))
		return ErrNilImage
	}
	if n, ok := copySampler.Tick(); ok {
		logging.Logger().Debug("texture: copy from image",
			"count", n, "src_layout", srcLayout.String(), "dst_layout", img.layout.String(),
			"width", img.width, "height", img.height)
	}

	callerManaged := srcLayout == vkapi.ImageLayoutTransferSrcOptimal
	aspect := img.aspect()

	var pre vkapi.DependencyInfo
	if img.layout != vkapi.ImageLayoutTransferDstOptimal {
		pre.ImageMemoryBarriers = append(pre.ImageMemoryBarriers,
			layoutBarrier(img.image, aspect, scopeAll, scopeTransferWrite, img.layout, vkapi.ImageLayoutTransferDstOptimal))
	}
	if !callerManaged {
		pre.ImageMemoryBarriers = append(pre.ImageMemoryBarriers,
			layoutBarrier(src, aspect, syncScope{stage: vkapi.PipelineStageAllCommands, access: vkapi.AccessMemoryWrite},
				scopeTransferRead, srcLayout, vkapi.ImageLayoutTransferSrcOptimal))
	}
	if !pre.Empty() {
		img.device.CmdPipelineBarrier2(cmd, &pre)
	}
	img.layout = vkapi.ImageLayoutTransferDstOptimal

	img.device.CmdCopyImage(cmd, src, vkapi.ImageLayoutTransferSrcOptimal, img.image, vkapi.ImageLayoutTransferDstOptimal, img.region())

	var post vkapi.DependencyInfo
	if img.postCopyBarrier {
		post.MemoryBarriers = append(post.MemoryBarriers, postCopyBarrier)
	}
	if final != vkapi.ImageLayoutTransferDstOptimal {
		post.ImageMemoryBarriers = append(post.ImageMemoryBarriers,
			layoutBarrier(img.image, aspect, scopeTransferWrite, scopeFor(final), vkapi.ImageLayoutTransferDstOptimal, final))
		img.layout = final
	}
	if !callerManaged {
		post.ImageMemoryBarriers = append(post.ImageMemoryBarriers,
			layoutBarrier(src, aspect, scopeTransferRead, scopeFor(srcLayout), vkapi.ImageLayoutTransferSrcOptimal, srcLayout))
	}
	if !post.Empty() {
		img.device.CmdPipelineBarrier2(cmd, &post)
	}
	return nil
}

// clearLayout moves the image to a layout valid for clears. GENERAL and
// TRANSFER_DST_OPTIMAL are both accepted as they are.
func (img *Image) clearLayout(cmd vkapi.CommandBuffer) {
	if img.layout == vkapi.ImageLayoutGeneral || img.layout == vkapi.ImageLayoutTransferDstOptimal {
		return
	}
	img.transition(cmd, vkapi.ImageLayoutGeneral)
}

// Clear records a color clear of the whole image. Depth images are
// rejected with ErrFormatClass.
func (img *Image) Clear(cmd vkapi.CommandBuffer, color vkapi.ClearColorValue) error {
	if img.format.IsDepthFormat() {
		logging.Logger().Warn("texture: color clear on depth image ignored", "format", int32(img.format))
		return ErrFormatClass
	}
	if err := img.begin(); err != nil {
		return err
	}
	defer img.end()

	if n, ok := clearSampler.Tick(); ok {
		logging.Logger().Debug("texture: clear", "count", n, "layout", img.layout.String())
	}
	img.clearLayout(cmd)
	img.device.CmdClearColorImage(cmd, img.image, img.layout, color,
		[]vkapi.ImageSubresourceRange{vkapi.WholeImage(vkapi.ImageAspectColor)})
	return nil
}

// ClearDepth records a depth-stencil clear of the whole image. Color
// images are rejected with ErrFormatClass.
func (img *Image) ClearDepth(cmd vkapi.CommandBuffer, depth float32, stencil uint32) error {
	if !img.format.IsDepthFormat() {
		logging.Logger().Warn("texture: depth clear on color image ignored", "format", int32(img.format))
		return ErrFormatClass
	}
	if err := img.begin(); err != nil {
		return err
	}
	defer img.end()

	img.clearLayout(cmd)
	img.device.CmdClearDepthStencilImage(cmd, img.image, img.layout, depth, stencil,
		[]vkapi.ImageSubresourceRange{vkapi.WholeImage(img.aspect())})
	return nil
}

// release destroys the image and frees its memory. Safe to call more
// than once.
func (img *Image) release() {
	if img.destroyed {
		return
	}
	img.destroyed = true
	if img.image != 0 {
		img.device.DestroyImage(img.image)
		img.image = 0
	}
	if img.memory != 0 {
		img.device.FreeMemory(img.memory)
		img.memory = 0
	}
}
