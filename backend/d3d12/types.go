// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package d3d12

import "github.com/gogpu/vrbridge/d3dapi"

const (
	resourceDimensionTexture2D    = 3
	textureLayoutUnknown          = 0
	resourceBarrierTypeTransition = 0
)

// heapProperties is D3D12_HEAP_PROPERTIES.
type heapProperties struct {
	Type                 uint32
	CPUPageProperty      uint32
	MemoryPoolPreference uint32
	CreationNodeMask     uint32
	VisibleNodeMask      uint32
}

// resourceDesc is D3D12_RESOURCE_DESC.
type resourceDesc struct {
	Dimension        uint32
	Alignment        uint64
	Width            uint64
	Height           uint32
	DepthOrArraySize uint16
	MipLevels        uint16
	Format           uint32
	SampleCount      uint32
	SampleQuality    uint32
	Layout           uint32
	Flags            uint32
}

// resourceBarrier is a D3D12_RESOURCE_BARRIER holding a transition.
type resourceBarrier struct {
	Type        uint32
	Flags       uint32
	Resource    uintptr
	Subresource uint32
	StateBefore uint32
	StateAfter  uint32
}

func newHeapProperties(t d3dapi.HeapType) heapProperties {
	return heapProperties{Type: uint32(t), CreationNodeMask: 1, VisibleNodeMask: 1}
}

func newResourceDesc(d *d3dapi.ResourceDesc) resourceDesc {
	return resourceDesc{
		Dimension:        resourceDimensionTexture2D,
		Alignment:        d.Alignment,
		Width:            d.Width,
		Height:           d.Height,
		DepthOrArraySize: 1,
		MipLevels:        max(d.MipLevels, 1),
		Format:           uint32(d.Format),
		SampleCount:      1,
		Layout:           textureLayoutUnknown,
		Flags:            uint32(d.Flags),
	}
}

// rawer is implemented by the objects of this package that wrap a COM
// pointer.
type rawer interface {
	raw() uintptr
}

// newBarriers converts transitions on resources of this package. Barriers
// on foreign resources are dropped and counted in skipped.
func newBarriers(in []d3dapi.TransitionBarrier) (out []resourceBarrier, skipped int) {
	out = make([]resourceBarrier, 0, len(in))
	for _, b := range in {
		r, ok := b.Resource.(rawer)
		if !ok || r.raw() == 0 {
			skipped++
			continue
		}
		out = append(out, resourceBarrier{
			Type:        resourceBarrierTypeTransition,
			Resource:    r.raw(),
			Subresource: b.Subresource,
			StateBefore: uint32(b.StateBefore),
			StateAfter:  uint32(b.StateAfter),
		})
	}
	return out, skipped
}
