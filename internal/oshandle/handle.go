// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package oshandle wraps operating system handles exported by one graphics
// API and imported by another. A Handle either owns the underlying handle
// and closes it exactly once, or borrows it and never closes it.
package oshandle

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Raw after the owning handle was closed.
var ErrClosed = errors.New("oshandle: handle closed")

// closer is replaced in tests.
var closer = closeRaw

// Handle is a single-owner wrapper around a raw OS handle.
type Handle struct {
	raw   uintptr
	owned bool
	close func(uintptr) error

	once   sync.Once
	mu     sync.Mutex
	closed bool
	err    error
}

// Own wraps raw and takes responsibility for closing it.
func Own(raw uintptr) *Handle {
	return &Handle{raw: raw, owned: true}
}

// OwnWith is like Own but releases the handle with closeFn instead of the
// platform close call.
func OwnWith(raw uintptr, closeFn func(uintptr) error) *Handle {
	return &Handle{raw: raw, owned: true, close: closeFn}
}

// Borrow wraps raw without taking ownership. Close on a borrowed handle
// only marks it unusable.
func Borrow(raw uintptr) *Handle {
	return &Handle{raw: raw}
}

// Borrow returns a non-owning view of h for handing to the importing side.
func (h *Handle) Borrow() *Handle {
	return Borrow(h.raw)
}

// Raw returns the underlying handle value.
func (h *Handle) Raw() (uintptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	return h.raw, nil
}

// Owned reports whether Close releases the OS handle.
func (h *Handle) Owned() bool {
	return h.owned
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close releases the OS handle if h owns it. Subsequent calls return the
// result of the first call.
func (h *Handle) Close() error {
	h.once.Do(func() {
		var err error
		if h.owned && h.raw != 0 {
			fn := h.close
			if fn == nil {
				fn = closer
			}
			err = fn(h.raw)
		}
		h.mu.Lock()
		h.closed = true
		h.err = err
		h.mu.Unlock()
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
