// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vulkan implements vkapi.Device on top of an existing VkDevice,
// typically the one the emulator created.
//
// Core entry points go through github.com/goki/vulkan. Extension and
// Vulkan 1.3 entry points the binding does not cover (synchronization2
// barriers, Win32 handle import, clears with a float color) are resolved
// with vkGetDeviceProcAddr and called through purego. Extension structures
// chained through pNext are declared here with the C layout.
//
// Init must be called once with the instance before New.
package vulkan
