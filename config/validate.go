// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/vrbridge/internal/logging"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

const (
	minRenderScale  = 0.25
	maxRenderScale  = 4
	maxPlayerHeight = 10
)

// Validate checks the settings and returns every problem found. Values
// that would break a session are clamped or reset to their defaults; the
// remaining problems are reported but left in place.
func (c *Config) Validate() []error {
	var errs []error
	def := Default()

	if c.PreferredFormat == "" {
		c.PreferredFormat = def.PreferredFormat
	} else if _, err := c.Format(); err != nil {
		errs = append(errs, fmt.Errorf("preferred_format %q is not valid (use one of %s), using %s",
			c.PreferredFormat, strings.Join(Formats(), ", "), def.PreferredFormat))
		c.PreferredFormat = def.PreferredFormat
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}

	if isBad(c.RenderScale) || c.RenderScale < minRenderScale {
		errs = append(errs, fmt.Errorf("render_scale %v is below minimum %v, clamping", c.RenderScale, minRenderScale))
		c.RenderScale = minRenderScale
	} else if c.RenderScale > maxRenderScale {
		errs = append(errs, fmt.Errorf("render_scale %v exceeds maximum %v, clamping", c.RenderScale, maxRenderScale))
		c.RenderScale = maxRenderScale
	}

	if isBad(c.PlayerHeight) || math.Abs(float64(c.PlayerHeight)) > maxPlayerHeight {
		errs = append(errs, fmt.Errorf("player_height %v is out of range, using 0", c.PlayerHeight))
		c.PlayerHeight = 0
	}

	for _, err := range errs {
		logging.Logger().Warn("config: validation", "err", err)
	}
	return errs
}

func isBad(f float32) bool {
	return math.IsNaN(float64(f)) || math.IsInf(float64(f), 0)
}
