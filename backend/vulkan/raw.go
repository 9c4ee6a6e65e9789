// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"unsafe"

	"github.com/gogpu/vrbridge/vkapi"
)

// structureType is a VkStructureType.
type structureType uint32

const (
	structureTypeExternalMemoryImageCreateInfo  structureType = 1000072001
	structureTypeImportMemoryWin32HandleInfo    structureType = 1000073000
	structureTypeMemoryWin32HandleProperties    structureType = 1000073002
	structureTypeImportSemaphoreWin32HandleInfo structureType = 1000078000
	structureTypeMemoryDedicatedAllocateInfo    structureType = 1000127001
	structureTypeSemaphoreTypeCreateInfo        structureType = 1000207002
	structureTypeTimelineSemaphoreSubmitInfo    structureType = 1000207003
	structureTypeMemoryBarrier2                 structureType = 1000314000
	structureTypeImageMemoryBarrier2            structureType = 1000314002
	structureTypeDependencyInfo                 structureType = 1000314003
)

const semaphoreTypeTimeline int32 = 1

// The types below mirror the C layout of the Vulkan structures of the
// same name on 64-bit targets.

type externalMemoryImageCreateInfo struct {
	sType       structureType
	pNext       unsafe.Pointer
	handleTypes uint32
}

type importMemoryWin32HandleInfo struct {
	sType      structureType
	pNext      unsafe.Pointer
	handleType uint32
	handle     uintptr
	name       *uint16
}

type memoryDedicatedAllocateInfo struct {
	sType  structureType
	pNext  unsafe.Pointer
	image  uint64
	buffer uint64
}

type memoryWin32HandleProperties struct {
	sType          structureType
	pNext          unsafe.Pointer
	memoryTypeBits uint32
}

type semaphoreTypeCreateInfo struct {
	sType         structureType
	pNext         unsafe.Pointer
	semaphoreType int32
	initialValue  uint64
}

type importSemaphoreWin32HandleInfo struct {
	sType      structureType
	pNext      unsafe.Pointer
	semaphore  uint64
	flags      uint32
	handleType uint32
	handle     uintptr
	name       *uint16
}

type timelineSemaphoreSubmitInfo struct {
	sType                     structureType
	pNext                     unsafe.Pointer
	waitSemaphoreValueCount   uint32
	pWaitSemaphoreValues      *uint64
	signalSemaphoreValueCount uint32
	pSignalSemaphoreValues    *uint64
}

type memoryBarrier2 struct {
	sType         structureType
	pNext         unsafe.Pointer
	srcStageMask  uint64
	srcAccessMask uint64
	dstStageMask  uint64
	dstAccessMask uint64
}

type imageMemoryBarrier2 struct {
	sType               structureType
	pNext               unsafe.Pointer
	srcStageMask        uint64
	srcAccessMask       uint64
	dstStageMask        uint64
	dstAccessMask       uint64
	oldLayout           int32
	newLayout           int32
	srcQueueFamilyIndex uint32
	dstQueueFamilyIndex uint32
	image               uint64
	subresourceRange    vkapi.ImageSubresourceRange
}

type dependencyInfo struct {
	sType                    structureType
	pNext                    unsafe.Pointer
	dependencyFlags          uint32
	memoryBarrierCount       uint32
	pMemoryBarriers          *memoryBarrier2
	bufferMemoryBarrierCount uint32
	pBufferMemoryBarriers    unsafe.Pointer
	imageMemoryBarrierCount  uint32
	pImageMemoryBarriers     *imageMemoryBarrier2
}

// dependency holds the C form of a vkapi.DependencyInfo. The slices back
// the pointers in info and must stay reachable for the duration of the
// call.
type dependency struct {
	info   dependencyInfo
	memory []memoryBarrier2
	images []imageMemoryBarrier2
}

func newDependency(dep *vkapi.DependencyInfo) *dependency {
	d := &dependency{
		memory: make([]memoryBarrier2, len(dep.MemoryBarriers)),
		images: make([]imageMemoryBarrier2, len(dep.ImageMemoryBarriers)),
	}
	for i, b := range dep.MemoryBarriers {
		d.memory[i] = memoryBarrier2{
			sType:         structureTypeMemoryBarrier2,
			srcStageMask:  uint64(b.SrcStageMask),
			srcAccessMask: uint64(b.SrcAccessMask),
			dstStageMask:  uint64(b.DstStageMask),
			dstAccessMask: uint64(b.DstAccessMask),
		}
	}
	for i, b := range dep.ImageMemoryBarriers {
		d.images[i] = imageMemoryBarrier2{
			sType:               structureTypeImageMemoryBarrier2,
			srcStageMask:        uint64(b.SrcStageMask),
			srcAccessMask:       uint64(b.SrcAccessMask),
			dstStageMask:        uint64(b.DstStageMask),
			dstAccessMask:       uint64(b.DstAccessMask),
			oldLayout:           int32(b.OldLayout),
			newLayout:           int32(b.NewLayout),
			srcQueueFamilyIndex: b.SrcQueueFamilyIndex,
			dstQueueFamilyIndex: b.DstQueueFamilyIndex,
			image:               uint64(b.Image),
			subresourceRange:    b.SubresourceRange,
		}
	}
	d.info = dependencyInfo{
		sType:                   structureTypeDependencyInfo,
		memoryBarrierCount:      uint32(len(d.memory)),
		imageMemoryBarrierCount: uint32(len(d.images)),
	}
	if len(d.memory) > 0 {
		d.info.pMemoryBarriers = &d.memory[0]
	}
	if len(d.images) > 0 {
		d.info.pImageMemoryBarriers = &d.images[0]
	}
	return d
}

// timelineValues holds the C form of the timeline values of one submit.
type timelineValues struct {
	info   timelineSemaphoreSubmitInfo
	wait   []uint64
	signal []uint64
}

func newTimelineValues(s *vkapi.SubmitInfo) *timelineValues {
	t := &timelineValues{
		wait:   make([]uint64, len(s.WaitSemaphores)),
		signal: make([]uint64, len(s.SignalSemaphores)),
	}
	for i, w := range s.WaitSemaphores {
		t.wait[i] = w.Value
	}
	for i, sig := range s.SignalSemaphores {
		t.signal[i] = sig.Value
	}
	t.info = timelineSemaphoreSubmitInfo{
		sType:                     structureTypeTimelineSemaphoreSubmitInfo,
		waitSemaphoreValueCount:   uint32(len(t.wait)),
		signalSemaphoreValueCount: uint32(len(t.signal)),
	}
	if len(t.wait) > 0 {
		t.info.pWaitSemaphoreValues = &t.wait[0]
	}
	if len(t.signal) > 0 {
		t.info.pSignalSemaphoreValues = &t.signal[0]
	}
	return t
}

// legacyStages converts a synchronization2 stage mask to the 32-bit mask
// of vkQueueSubmit. Every stage the bridge waits on has the same bit in
// both.
func legacyStages(s vkapi.PipelineStageFlags2) uint32 {
	if s == vkapi.PipelineStageNone {
		return uint32(vkapi.PipelineStageTopOfPipe)
	}
	return uint32(s)
}
