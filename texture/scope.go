// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import "github.com/gogpu/vrbridge/vkapi"

// syncScope is the pipeline stage and access that an image in a given
// layout is used with.
type syncScope struct {
	stage  vkapi.PipelineStageFlags2
	access vkapi.AccessFlags2
}

var (
	scopeAll = syncScope{
		stage:  vkapi.PipelineStageAllCommands,
		access: vkapi.AccessMemoryRead | vkapi.AccessMemoryWrite,
	}
	scopeTransferRead = syncScope{
		stage:  vkapi.PipelineStageTransfer,
		access: vkapi.AccessTransferRead,
	}
	scopeTransferWrite = syncScope{
		stage:  vkapi.PipelineStageTransfer,
		access: vkapi.AccessTransferWrite,
	}
)

func scopeFor(layout vkapi.ImageLayout) syncScope {
	switch layout {
	case vkapi.ImageLayoutUndefined, vkapi.ImageLayoutPreinitialized:
		return syncScope{stage: vkapi.PipelineStageTopOfPipe}
	case vkapi.ImageLayoutColorAttachmentOptimal:
		return syncScope{
			stage:  vkapi.PipelineStageColorAttachmentOutput,
			access: vkapi.AccessColorAttachmentRead | vkapi.AccessColorAttachmentWrite,
		}
	case vkapi.ImageLayoutDepthStencilAttachmentOptimal:
		return syncScope{
			stage:  vkapi.PipelineStageEarlyFragmentTests | vkapi.PipelineStageLateFragmentTests,
			access: vkapi.AccessDepthStencilAttachmentRead | vkapi.AccessDepthStencilAttachmentWrite,
		}
	case vkapi.ImageLayoutShaderReadOnlyOptimal, vkapi.ImageLayoutDepthStencilReadOnlyOptimal:
		return syncScope{
			stage:  vkapi.PipelineStageFragmentShader,
			access: vkapi.AccessShaderRead,
		}
	case vkapi.ImageLayoutTransferSrcOptimal:
		return scopeTransferRead
	case vkapi.ImageLayoutTransferDstOptimal:
		return scopeTransferWrite
	case vkapi.ImageLayoutPresentSrc:
		return syncScope{stage: vkapi.PipelineStageBottomOfPipe}
	}
	return scopeAll
}

// layoutBarrier builds a whole-image layout transition.
func layoutBarrier(image vkapi.Image, aspect vkapi.ImageAspectFlags, src, dst syncScope, from, to vkapi.ImageLayout) vkapi.ImageMemoryBarrier2 {
	return vkapi.ImageMemoryBarrier2{
		SrcStageMask:        src.stage,
		SrcAccessMask:       src.access,
		DstStageMask:        dst.stage,
		DstAccessMask:       dst.access,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vkapi.QueueFamilyIgnored,
		DstQueueFamilyIndex: vkapi.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    vkapi.WholeImage(aspect),
	}
}

// postCopyBarrier makes transfer writes visible to every later command.
// Some AMD drivers need it after cross-API copies.
var postCopyBarrier = vkapi.MemoryBarrier2{
	SrcStageMask:  vkapi.PipelineStageTransfer,
	SrcAccessMask: vkapi.AccessTransferWrite,
	DstStageMask:  vkapi.PipelineStageAllCommands,
	DstAccessMask: vkapi.AccessMemoryRead | vkapi.AccessMemoryWrite,
}
