// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package vulkan

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// openLoader loads vulkan-1.dll from the system search path.
func openLoader() (uintptr, error) {
	dll, err := windows.LoadDLL("vulkan-1.dll")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoLoader, err)
	}
	return uintptr(dll.Handle), nil
}

func loaderSymbol(lib uintptr, name string) (uintptr, error) {
	return windows.GetProcAddress(windows.Handle(lib), name)
}
