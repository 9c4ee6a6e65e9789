// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkapi

import "github.com/gogpu/gputypes"

// Format is a VkFormat.
type Format int32

const (
	FormatUndefined              Format = 0
	FormatR8G8B8A8Unorm          Format = 37
	FormatR8G8B8A8Srgb           Format = 43
	FormatB8G8R8A8Unorm          Format = 44
	FormatB8G8R8A8Srgb           Format = 50
	FormatA2B10G10R10UnormPack32 Format = 64
	FormatR16G16B16A16Sfloat     Format = 97
	FormatD16Unorm               Format = 124
	FormatX8D24UnormPack32       Format = 125
	FormatD32Sfloat              Format = 126
	FormatS8Uint                 Format = 127
	FormatD16UnormS8Uint         Format = 128
	FormatD24UnormS8Uint         Format = 129
	FormatD32SfloatS8Uint        Format = 130
)

// IsDepthFormat reports whether f carries a depth or stencil component.
func (f Format) IsDepthFormat() bool {
	return f >= FormatD16Unorm && f <= FormatD32SfloatS8Uint
}

// HasStencil reports whether f carries a stencil component.
func (f Format) HasStencil() bool {
	switch f {
	case FormatS8Uint, FormatD16UnormS8Uint, FormatD24UnormS8Uint, FormatD32SfloatS8Uint:
		return true
	}
	return false
}

// AspectMask returns the aspects addressed when the whole image of format
// f is transitioned or copied.
func (f Format) AspectMask() ImageAspectFlags {
	if !f.IsDepthFormat() {
		return ImageAspectColor
	}
	switch f {
	case FormatS8Uint:
		return ImageAspectStencil
	case FormatD16UnormS8Uint, FormatD24UnormS8Uint, FormatD32SfloatS8Uint:
		return ImageAspectDepth | ImageAspectStencil
	}
	return ImageAspectDepth
}

var fromGPUTypes = map[gputypes.TextureFormat]Format{
	gputypes.TextureFormatRGBA8Unorm:          FormatR8G8B8A8Unorm,
	gputypes.TextureFormatRGBA8UnormSrgb:      FormatR8G8B8A8Srgb,
	gputypes.TextureFormatBGRA8Unorm:          FormatB8G8R8A8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb:      FormatB8G8R8A8Srgb,
	gputypes.TextureFormatRGB10A2Unorm:        FormatA2B10G10R10UnormPack32,
	gputypes.TextureFormatRGBA16Float:         FormatR16G16B16A16Sfloat,
	gputypes.TextureFormatDepth16Unorm:        FormatD16Unorm,
	gputypes.TextureFormatDepth32Float:        FormatD32Sfloat,
	gputypes.TextureFormatDepth24PlusStencil8: FormatD24UnormS8Uint,
}

// FormatFromGPUTypes maps a portable texture format to its Vulkan value.
func FormatFromGPUTypes(tf gputypes.TextureFormat) (Format, bool) {
	f, ok := fromGPUTypes[tf]
	return f, ok
}

// GPUTypesFormat is the inverse of FormatFromGPUTypes.
func GPUTypesFormat(f Format) (gputypes.TextureFormat, bool) {
	for tf, vf := range fromGPUTypes {
		if vf == f {
			return tf, true
		}
	}
	return gputypes.TextureFormatUndefined, false
}
