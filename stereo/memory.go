// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package stereo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotFixedSize is returned for values encoding/binary cannot size.
	ErrNotFixedSize = errors.New("stereo: value is not fixed size")

	// ErrOutOfRange is returned by RAM for accesses past its end.
	ErrOutOfRange = errors.New("stereo: guest address out of range")
)

// Memory reads and writes typed structures in emulated guest memory.
// v must be a pointer to a fixed-size value.
type Memory interface {
	Read(addr uint32, v any) error
	Write(addr uint32, v any) error
}

// ReaderWriterAt is guest memory addressed by byte offset.
type ReaderWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// BigEndianMemory encodes structures big-endian over a byte-addressed
// guest memory.
type BigEndianMemory struct {
	rw ReaderWriterAt
}

// NewBigEndianMemory wraps rw.
func NewBigEndianMemory(rw ReaderWriterAt) *BigEndianMemory {
	return &BigEndianMemory{rw: rw}
}

// Read decodes the bytes at addr into v.
func (m *BigEndianMemory) Read(addr uint32, v any) error {
	n := binary.Size(v)
	if n < 0 {
		return fmt.Errorf("%w: %T", ErrNotFixedSize, v)
	}
	buf := make([]byte, n)
	if _, err := m.rw.ReadAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("stereo: read %T (%d bytes) at %#08x: %w", v, n, addr, err)
	}
	if _, err := binary.Decode(buf, binary.BigEndian, v); err != nil {
		return fmt.Errorf("stereo: decode %T: %w", v, err)
	}
	return nil
}

// Write encodes v at addr.
func (m *BigEndianMemory) Write(addr uint32, v any) error {
	n := binary.Size(v)
	if n < 0 {
		return fmt.Errorf("%w: %T", ErrNotFixedSize, v)
	}
	buf := make([]byte, n)
	if _, err := binary.Encode(buf, binary.BigEndian, v); err != nil {
		return fmt.Errorf("stereo: encode %T: %w", v, err)
	}
	if _, err := m.rw.WriteAt(buf, int64(addr)); err != nil {
		return fmt.Errorf("stereo: write %T (%d bytes) at %#08x: %w", v, n, addr, err)
	}
	return nil
}

// RAM is a flat guest memory starting at address zero.
type RAM []byte

// ReadAt implements io.ReaderAt.
func (r RAM) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(r)) {
		return 0, fmt.Errorf("%w: %#x+%d", ErrOutOfRange, off, len(p))
	}
	return copy(p, r[off:]), nil
}

// WriteAt implements io.WriterAt.
func (r RAM) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(r)) {
		return 0, fmt.Errorf("%w: %#x+%d", ErrOutOfRange, off, len(p))
	}
	return copy(r[off:], p), nil
}
