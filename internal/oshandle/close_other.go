// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !windows && !unix

package oshandle

import "errors"

func closeRaw(uintptr) error {
	return errors.ErrUnsupported
}
