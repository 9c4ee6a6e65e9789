// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build unix

package oshandle

import "golang.org/x/sys/unix"

// On Unix the exported handle is an opaque file descriptor.
func closeRaw(raw uintptr) error {
	return unix.Close(int(raw))
}
