// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
)

// Texture errors.
var (
	// ErrNilImage is returned when a copy names a zero source or destination.
	// The command is skipped and nothing is recorded.
	ErrNilImage = errors.New("texture: image is nil")

	// ErrFormatClass is returned when a clear targets the wrong format
	// class (color clear on a depth image or the reverse).
	ErrFormatClass = errors.New("texture: clear does not match format class")

	// ErrTransitionInFlight is returned when a second transition of the
	// same texture is recorded while one is still being recorded.
	ErrTransitionInFlight = errors.New("texture: transition already in flight")

	// ErrDestroyed is returned when operating on a destroyed texture.
	ErrDestroyed = errors.New("texture: texture has been destroyed")

	// ErrInvalidSize is returned for zero-sized textures.
	ErrInvalidSize = errors.New("texture: invalid texture size")

	// ErrUnsupportedFormat is returned when a portable format has no
	// Vulkan or DXGI equivalent.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")
)

// Shared texture construction steps, reported in StepError.Step.
const (
	StepCreateResource     = "create d3d12 resource"
	StepExportResource     = "export d3d12 resource"
	StepCreateFence        = "create d3d12 fence"
	StepExportFence        = "export d3d12 fence"
	StepCreateImage        = "create vulkan image"
	StepHandleProperties   = "query win32 handle properties"
	StepFindMemoryType     = "find memory type"
	StepImportMemory       = "import memory"
	StepBindMemory         = "bind image memory"
	StepCreateView         = "create image view"
	StepCreateSemaphore    = "create timeline semaphore"
	StepImportSemaphore    = "import semaphore"
	StepAllocateMemory     = "allocate memory"
	StepValidateDescriptor = "validate descriptor"
)

// StepError reports which construction step of a texture failed. Callers
// treat it as fatal configuration failure.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("texture: %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step string, err error) error {
	return &StepError{Step: step, Err: err}
}
