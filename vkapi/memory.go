// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkapi

import (
	"errors"
	"fmt"
)

// ErrNoMemoryType is returned by FindMemoryType when no memory type matches.
var ErrNoMemoryType = errors.New("vkapi: no suitable memory type")

// MemoryType is one entry of the memory type table.
type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     uint32
}

// MemoryHeap is one entry of the memory heap table.
type MemoryHeap struct {
	Size  uint64
	Flags MemoryHeapFlags
}

// MemoryProperties mirrors VkPhysicalDeviceMemoryProperties. Entries past
// TypeCount and HeapCount are unspecified.
type MemoryProperties struct {
	TypeCount uint32
	Types     [MaxMemoryTypes]MemoryType
	HeapCount uint32
	Heaps     [MaxMemoryHeaps]MemoryHeap
}

// FindMemoryType returns the lowest memory type index i < TypeCount whose
// bit is set in typeBits and whose property flags contain every flag in
// required.
func FindMemoryType(props *MemoryProperties, typeBits uint32, required MemoryPropertyFlags) (uint32, error) {
	count := min(props.TypeCount, MaxMemoryTypes)
	for i := uint32(0); i < count; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		if props.Types[i].PropertyFlags&required == required {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: bits=%#x required=%#x", ErrNoMemoryType, typeBits, uint32(required))
}

// DeviceLocalBytes sums the sizes of all device-local heaps.
func DeviceLocalBytes(props *MemoryProperties) uint64 {
	var total uint64
	count := min(props.HeapCount, MaxMemoryHeaps)
	for i := uint32(0); i < count; i++ {
		if props.Heaps[i].Flags&MemoryHeapDeviceLocal != 0 {
			total += props.Heaps[i].Size
		}
	}
	return total
}
