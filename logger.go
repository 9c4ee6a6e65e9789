// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrbridge

import (
	"log/slog"

	"github.com/gogpu/vrbridge/internal/logging"
)

// SetLogger configures the logger for vrbridge and all its sub-packages.
// By default, vrbridge produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by vrbridge:
//   - [slog.LevelDebug]: per-frame diagnostics, sampled (see SetLogEvery)
//   - [slog.LevelInfo]: lifecycle events (GPU selected, textures created)
//   - [slog.LevelWarn]: dropped frames, soft hook failures
//   - [slog.LevelError]: fatal errors, just before the fatal handler runs
//
// Example:
//
//	// Enable info-level logging to stderr:
//	vrbridge.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	vrbridge.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by vrbridge.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}

// SetLogEvery sets how often per-frame diagnostics are logged: once every
// n frames. Zero disables them. The default is 500.
func SetLogEvery(n uint64) {
	logging.SetEvery(n)
}
