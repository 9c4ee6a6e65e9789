// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package oshandle

import "golang.org/x/sys/windows"

func closeRaw(raw uintptr) error {
	return windows.CloseHandle(windows.Handle(raw))
}
