// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vulkan

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/goki/vulkan"
	"github.com/gogpu/vrbridge/vkapi"
)

var (
	// ErrNoLoader is returned when the Vulkan loader library is missing.
	ErrNoLoader = errors.New("vulkan: loader library not found")

	// ErrMissingEntryPoint is returned when the device lacks an extension
	// entry point the bridge needs.
	ErrMissingEntryPoint = errors.New("vulkan: device entry point not available")

	// ErrNotInitialized is returned by New before Init.
	ErrNotInitialized = errors.New("vulkan: Init not called")
)

var loader struct {
	once sync.Once
	err  error

	getInstanceProcAddr uintptr
	getDeviceProcAddr   func(device uintptr, name string) uintptr
}

func loadLoader() error {
	loader.once.Do(func() {
		lib, err := openLoader()
		if err != nil {
			loader.err = err
			return
		}
		if loader.getInstanceProcAddr, err = loaderSymbol(lib, "vkGetInstanceProcAddr"); err != nil {
			loader.err = fmt.Errorf("vulkan: vkGetInstanceProcAddr: %w", err)
			return
		}
		addr, err := loaderSymbol(lib, "vkGetDeviceProcAddr")
		if err != nil {
			loader.err = fmt.Errorf("vulkan: vkGetDeviceProcAddr: %w", err)
			return
		}
		purego.RegisterFunc(&loader.getDeviceProcAddr, addr)
	})
	return loader.err
}

// Init loads the Vulkan loader and initializes the binding's function
// table for instance.
func Init(instance uintptr) error {
	if err := loadLoader(); err != nil {
		return err
	}
	vk.SetGetInstanceProcAddr(unsafe.Pointer(loader.getInstanceProcAddr))
	if err := vk.Init(); err != nil {
		return fmt.Errorf("vulkan: init: %w", err)
	}
	if err := vk.InitInstance(vk.Instance(unsafe.Pointer(instance))); err != nil {
		return fmt.Errorf("vulkan: init instance: %w", err)
	}
	return nil
}

// procs are the device-level entry points called through purego.
type procs struct {
	cmdPipelineBarrier2            func(cmd uintptr, dep *dependencyInfo)
	cmdClearColorImage             func(cmd uintptr, image uint64, layout int32, color *vkapi.ClearColorValue, rangeCount uint32, ranges *vkapi.ImageSubresourceRange)
	getMemoryWin32HandleProperties func(device uintptr, handleType uint32, handle uintptr, props *memoryWin32HandleProperties) int32
	importSemaphoreWin32Handle     func(device uintptr, info *importSemaphoreWin32HandleInfo) int32
}

// load resolves every entry point of p for device. names lists the
// accepted names of each entry point, core first.
func (p *procs) load(device uintptr) error {
	if loader.getDeviceProcAddr == nil {
		return ErrNotInitialized
	}
	entries := []struct {
		fn    any
		names []string
	}{
		{&p.cmdPipelineBarrier2, []string{"vkCmdPipelineBarrier2", "vkCmdPipelineBarrier2KHR"}},
		{&p.cmdClearColorImage, []string{"vkCmdClearColorImage"}},
		{&p.getMemoryWin32HandleProperties, []string{"vkGetMemoryWin32HandlePropertiesKHR"}},
		{&p.importSemaphoreWin32Handle, []string{"vkImportSemaphoreWin32HandleKHR"}},
	}
	var missing []string
	for _, e := range entries {
		addr := uintptr(0)
		for _, name := range e.names {
			if addr = loader.getDeviceProcAddr(device, name); addr != 0 {
				break
			}
		}
		if addr == 0 {
			missing = append(missing, e.names[0])
			continue
		}
		purego.RegisterFunc(e.fn, addr)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingEntryPoint, missing)
	}
	return nil
}
