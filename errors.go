// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrbridge

import (
	"errors"
	"fmt"

	"github.com/gogpu/vrbridge/frame"
	"github.com/gogpu/vrbridge/internal/logging"
)

var (
	// ErrInvalidSize is returned for a zero eye width or height.
	ErrInvalidSize = errors.New("vrbridge: eye size must be non-zero")

	// ErrNilDevice is returned when a required device or queue is nil.
	ErrNilDevice = errors.New("vrbridge: nil device or queue")

	// ErrClosed is returned by the frame operations of a closed session.
	ErrClosed = frame.ErrClosed
)

// FatalError is passed to the fatal handler when the session cannot
// continue.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("vrbridge: fatal: %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// FatalHandler receives errors that leave the session unusable. It
// normally does not return; if it does, the failing call returns the
// error instead.
type FatalHandler func(err error)

// DefaultFatalHandler logs err at error level and panics with it.
func DefaultFatalHandler(err error) {
	logging.Logger().Error("vrbridge: unrecoverable error", "err", err)
	panic(err)
}

func fatal(h FatalHandler, op string, err error) error {
	fe := &FatalError{Op: op, Err: err}
	h(fe)
	return fe
}
