// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux || darwin || freebsd

package vulkan

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"
)

func libraryNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}
	default:
		return []string{"libvulkan.so.1", "libvulkan.so"}
	}
}

// openLoader opens the Vulkan loader, trying VULKAN_SDK first.
func openLoader() (uintptr, error) {
	var dirs []string
	if sdk := os.Getenv("VULKAN_SDK"); sdk != "" {
		dirs = append(dirs, filepath.Join(sdk, "lib"))
	}
	for _, name := range libraryNames() {
		for _, dir := range dirs {
			if lib, err := purego.Dlopen(filepath.Join(dir, name), purego.RTLD_NOW|purego.RTLD_GLOBAL); err == nil {
				return lib, nil
			}
		}
		if lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL); err == nil {
			return lib, nil
		}
	}
	return 0, fmt.Errorf("%w (tried %v)", ErrNoLoader, libraryNames())
}

func loaderSymbol(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
