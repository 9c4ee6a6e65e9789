// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d12

import ole "github.com/go-ole/go-ole"

type objectVtbl struct {
	ole.IUnknownVtbl

	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	SetName                 uintptr
}

type deviceChildVtbl struct {
	objectVtbl

	GetDevice uintptr
}

type deviceVtbl struct {
	objectVtbl

	GetNodeCount                     uintptr
	CreateCommandQueue               uintptr
	CreateCommandAllocator           uintptr
	CreateGraphicsPipelineState      uintptr
	CreateComputePipelineState       uintptr
	CreateCommandList                uintptr
	CheckFeatureSupport              uintptr
	CreateDescriptorHeap             uintptr
	GetDescriptorHandleIncrementSize uintptr
	CreateRootSignature              uintptr
	CreateConstantBufferView         uintptr
	CreateShaderResourceView         uintptr
	CreateUnorderedAccessView        uintptr
	CreateRenderTargetView           uintptr
	CreateDepthStencilView           uintptr
	CreateSampler                    uintptr
	CopyDescriptors                  uintptr
	CopyDescriptorsSimple            uintptr
	GetResourceAllocationInfo        uintptr
	GetCustomHeapProperties          uintptr
	CreateCommittedResource          uintptr
	CreateHeap                       uintptr
	CreatePlacedResource             uintptr
	CreateReservedResource           uintptr
	CreateSharedHandle               uintptr
	OpenSharedHandle                 uintptr
	OpenSharedHandleByName           uintptr
	MakeResident                     uintptr
	Evict                            uintptr
	CreateFence                      uintptr
	GetDeviceRemovedReason           uintptr
}

type commandQueueVtbl struct {
	deviceChildVtbl

	UpdateTileMappings    uintptr
	CopyTileMappings      uintptr
	ExecuteCommandLists   uintptr
	SetMarker             uintptr
	BeginEvent            uintptr
	EndEvent              uintptr
	Signal                uintptr
	Wait                  uintptr
	GetTimestampFrequency uintptr
	GetClockCalibration   uintptr
	GetDesc               uintptr
}

type fenceVtbl struct {
	deviceChildVtbl

	GetCompletedValue    uintptr
	SetEventOnCompletion uintptr
	Signal               uintptr
}

type graphicsCommandListVtbl struct {
	deviceChildVtbl

	GetType                uintptr
	Close                  uintptr
	Reset                  uintptr
	ClearState             uintptr
	DrawInstanced          uintptr
	DrawIndexedInstanced   uintptr
	Dispatch               uintptr
	CopyBufferRegion       uintptr
	CopyTextureRegion      uintptr
	CopyResource           uintptr
	CopyTiles              uintptr
	ResolveSubresource     uintptr
	IASetPrimitiveTopology uintptr
	RSSetViewports         uintptr
	RSSetScissorRects      uintptr
	OMSetBlendFactor       uintptr
	OMSetStencilRef        uintptr
	SetPipelineState       uintptr
	ResourceBarrier        uintptr
}
