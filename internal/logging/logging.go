// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package logging holds the logger shared by vrbridge and its
// sub-packages. The root package owns configuration through
// vrbridge.SetLogger; sub-packages only read.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// DefaultEvery is the default sampling interval for per-frame messages.
const DefaultEvery = 500

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NewNop returns a logger that discards all output.
func NewNop() *slog.Logger { return slog.New(nopHandler{}) }

var (
	loggerPtr atomic.Pointer[slog.Logger]
	every     atomic.Uint64
)

func init() {
	loggerPtr.Store(NewNop())
	every.Store(DefaultEvery)
}

// Logger returns the current logger.
func Logger() *slog.Logger { return loggerPtr.Load() }

// Set replaces the current logger. nil restores the silent default.
func Set(l *slog.Logger) {
	if l == nil {
		l = NewNop()
	}
	loggerPtr.Store(l)
}

// SetEvery sets the sampling interval used by Sampler. Zero disables
// sampled messages.
func SetEvery(n uint64) { every.Store(n) }

// Every returns the sampling interval.
func Every() uint64 { return every.Load() }

// Sampler counts calls to a hot path and reports which ones should log.
// The zero value is ready to use.
type Sampler struct {
	n atomic.Uint64
}

// Tick increments the counter and returns the new count and whether this
// call falls on the sampling interval.
func (s *Sampler) Tick() (uint64, bool) {
	n := s.n.Add(1)
	e := every.Load()
	return n, e != 0 && n%e == 0
}

// Count returns the number of Tick calls so far.
func (s *Sampler) Count() uint64 { return s.n.Load() }
