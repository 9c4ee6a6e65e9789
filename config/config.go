// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads vrbridge settings from a YAML file and VRBRIDGE_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// VRBRIDGE_PLAYER_HEIGHT.
const EnvPrefix = "VRBRIDGE"

// Config holds the user-tunable settings of a session.
type Config struct {
	// PlayerHeight is added to the recentred camera, in game units.
	PlayerHeight float32 `mapstructure:"player_height"`

	// PreferredFormat is the swapchain format tried first. See Formats.
	PreferredFormat string `mapstructure:"preferred_format"`

	LogLevel string `mapstructure:"log_level"`
	// LogEvery is the sampling interval of per-frame diagnostics; 0
	// disables them.
	LogEvery uint64 `mapstructure:"log_every"`

	// AlwaysPostCopyBarrier applies the post-copy memory barrier on every
	// vendor, not only on AMD.
	AlwaysPostCopyBarrier bool `mapstructure:"always_post_copy_barrier"`

	// RenderScale multiplies the runtime's recommended eye size.
	RenderScale float32 `mapstructure:"render_scale"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		PreferredFormat: "bgra8unorm-srgb",
		LogLevel:        "info",
		LogEvery:        500,
		RenderScale:     1,
	}
}

// Load reads cfgFile, or vrbridge.yaml from the platform config directory
// and the working directory when cfgFile is empty. A missing default file
// is not an error. Environment variables override the file.
func Load(cfgFile string) (*Config, error) {
	cfg := Default()
	v := viper.New()

	v.SetDefault("player_height", cfg.PlayerHeight)
	v.SetDefault("preferred_format", cfg.PreferredFormat)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_every", cfg.LogEvery)
	v.SetDefault("always_post_copy_barrier", cfg.AlwaysPostCopyBarrier)
	v.SetDefault("render_scale", cfg.RenderScale)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("vrbridge")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(cfg *Config, path string) error {
	v := viper.New()
	v.Set("player_height", cfg.PlayerHeight)
	v.Set("preferred_format", cfg.PreferredFormat)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_every", cfg.LogEvery)
	v.Set("always_post_copy_barrier", cfg.AlwaysPostCopyBarrier)
	v.Set("render_scale", cfg.RenderScale)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vrbridge")
	default:
		if dir, err := os.UserConfigDir(); err == nil {
			return filepath.Join(dir, "vrbridge")
		}
		return "."
	}
}

var formats = map[string]gputypes.TextureFormat{
	"rgba8unorm":      gputypes.TextureFormatRGBA8Unorm,
	"rgba8unorm-srgb": gputypes.TextureFormatRGBA8UnormSrgb,
	"bgra8unorm":      gputypes.TextureFormatBGRA8Unorm,
	"bgra8unorm-srgb": gputypes.TextureFormatBGRA8UnormSrgb,
	"rgb10a2unorm":    gputypes.TextureFormatRGB10A2Unorm,
	"rgba16float":     gputypes.TextureFormatRGBA16Float,
}

// Formats returns the accepted preferred_format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(formats))
	for name := range formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseFormat maps a preferred_format name to its texture format.
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("config: unknown format %q", name)
	}
	return f, nil
}

// Format returns the parsed PreferredFormat.
func (c *Config) Format() (gputypes.TextureFormat, error) { return ParseFormat(c.PreferredFormat) }

// Level returns LogLevel as a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
