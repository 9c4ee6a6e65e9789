// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3d12 implements d3dapi on top of ID3D12 interfaces owned by the
// compositor. COM lifetime goes through go-ole; the D3D12 methods are
// called through their vtables.
package d3d12
