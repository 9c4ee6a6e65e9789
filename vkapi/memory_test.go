// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkapi

import (
	"errors"
	"testing"
)

func testMemoryProperties() *MemoryProperties {
	props := &MemoryProperties{TypeCount: 4, HeapCount: 2}
	props.Types[0] = MemoryType{PropertyFlags: MemoryPropertyHostVisible | MemoryPropertyHostCoherent, HeapIndex: 1}
	props.Types[1] = MemoryType{PropertyFlags: MemoryPropertyDeviceLocal, HeapIndex: 0}
	props.Types[2] = MemoryType{PropertyFlags: MemoryPropertyHostVisible, HeapIndex: 1}
	props.Types[3] = MemoryType{PropertyFlags: MemoryPropertyDeviceLocal | MemoryPropertyHostVisible, HeapIndex: 0}
	props.Heaps[0] = MemoryHeap{Size: 8 << 30, Flags: MemoryHeapDeviceLocal}
	props.Heaps[1] = MemoryHeap{Size: 16 << 30}
	return props
}

func TestFindMemoryType(t *testing.T) {
	props := testMemoryProperties()

	tests := []struct {
		name     string
		bits     uint32
		required MemoryPropertyFlags
		want     uint32
	}{
		{"first device local", 0b1111, MemoryPropertyDeviceLocal, 1},
		{"skips unset bits", 0b1010 &^ 0b0010, MemoryPropertyDeviceLocal, 3},
		{"combined flags", 0b1111, MemoryPropertyDeviceLocal | MemoryPropertyHostVisible, 3},
		{"no required flags", 0b0100, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindMemoryType(props, tt.bits, tt.required)
			if err != nil {
				t.Fatalf("FindMemoryType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindMemoryType() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindMemoryTypeNoMatch(t *testing.T) {
	props := testMemoryProperties()

	_, err := FindMemoryType(props, 0b0101, MemoryPropertyDeviceLocal)
	if !errors.Is(err, ErrNoMemoryType) {
		t.Fatalf("FindMemoryType() error = %v, want ErrNoMemoryType", err)
	}
}

func TestFindMemoryTypeIgnoresEntriesPastCount(t *testing.T) {
	props := &MemoryProperties{TypeCount: 2}
	props.Types[0] = MemoryType{PropertyFlags: MemoryPropertyHostVisible}
	props.Types[1] = MemoryType{PropertyFlags: MemoryPropertyHostVisible}
	// Garbage beyond TypeCount must never be selected.
	props.Types[5] = MemoryType{PropertyFlags: MemoryPropertyDeviceLocal}

	if _, err := FindMemoryType(props, 0xFFFFFFFF, MemoryPropertyDeviceLocal); !errors.Is(err, ErrNoMemoryType) {
		t.Fatalf("FindMemoryType() error = %v, want ErrNoMemoryType", err)
	}
}

func TestFindMemoryTypeOnlyMatchingBits(t *testing.T) {
	props := &MemoryProperties{TypeCount: 4}
	props.Types[1] = MemoryType{PropertyFlags: MemoryPropertyHostVisible}
	props.Types[3] = MemoryType{PropertyFlags: MemoryPropertyDeviceLocal}

	got, err := FindMemoryType(props, 0b1010, MemoryPropertyDeviceLocal)
	if err != nil {
		t.Fatalf("FindMemoryType() error = %v", err)
	}
	if got != 3 {
		t.Errorf("FindMemoryType() = %d, want 3", got)
	}
}

func TestDeviceLocalBytes(t *testing.T) {
	props := testMemoryProperties()
	if got, want := DeviceLocalBytes(props), uint64(8<<30); got != want {
		t.Errorf("DeviceLocalBytes() = %d, want %d", got, want)
	}
	if got := DeviceLocalBytes(&MemoryProperties{}); got != 0 {
		t.Errorf("DeviceLocalBytes(empty) = %d, want 0", got)
	}
}

func TestFormatAspectMask(t *testing.T) {
	tests := []struct {
		format Format
		depth  bool
		aspect ImageAspectFlags
	}{
		{FormatB8G8R8A8Srgb, false, ImageAspectColor},
		{FormatR16G16B16A16Sfloat, false, ImageAspectColor},
		{FormatD32Sfloat, true, ImageAspectDepth},
		{FormatD24UnormS8Uint, true, ImageAspectDepth | ImageAspectStencil},
		{FormatS8Uint, true, ImageAspectStencil},
	}
	for _, tt := range tests {
		if got := tt.format.IsDepthFormat(); got != tt.depth {
			t.Errorf("Format(%d).IsDepthFormat() = %v, want %v", tt.format, got, tt.depth)
		}
		if got := tt.format.AspectMask(); got != tt.aspect {
			t.Errorf("Format(%d).AspectMask() = %#x, want %#x", tt.format, got, tt.aspect)
		}
	}
}

func TestFormatFromGPUTypesRoundTrip(t *testing.T) {
	for tf, vf := range fromGPUTypes {
		got, ok := FormatFromGPUTypes(tf)
		if !ok || got != vf {
			t.Errorf("FormatFromGPUTypes(%v) = %d, %v; want %d", tf, got, ok, vf)
		}
		back, ok := GPUTypesFormat(vf)
		if !ok || back != tf {
			t.Errorf("GPUTypesFormat(%d) = %v, %v; want %v", vf, back, ok, tf)
		}
	}
	if _, ok := GPUTypesFormat(FormatX8D24UnormPack32); ok {
		t.Error("GPUTypesFormat(X8D24) should not map")
	}
}

func TestImageLayoutString(t *testing.T) {
	if got := ImageLayoutTransferSrcOptimal.String(); got != "TRANSFER_SRC_OPTIMAL" {
		t.Errorf("String() = %q", got)
	}
	if got := ImageLayout(12345).String(); got != "UNKNOWN" {
		t.Errorf("String() = %q, want UNKNOWN", got)
	}
}
