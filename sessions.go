// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrbridge

import (
	"errors"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/internal/logging"
	"github.com/gogpu/vrbridge/registry"
	"github.com/gogpu/vrbridge/stereo"
	"github.com/gogpu/vrbridge/vkapi"
)

// Sessions holds at most one Session per emulator Vulkan device. An
// emulator that recreates its device opens a new session and closes the
// old one. The zero value is not usable; call NewSessions.
type Sessions struct {
	r *registry.Registry[vkapi.Device, *Session]
}

// NewSessions returns an empty set. Removing a session closes it.
func NewSessions() *Sessions {
	return &Sessions{r: registry.New(registry.Hooks[vkapi.Device, *Session]{
		OnCreate: func(_ vkapi.Device, s *Session) {
			logging.Logger().Debug("vrbridge: session registered", "gpu", s.GPU().Name)
		},
		OnDestroy: func(_ vkapi.Device, s *Session) {
			if err := s.Close(); err != nil {
				logging.Logger().Warn("vrbridge: closing session", "gpu", s.GPU().Name, "err", err)
			}
		},
	})}
}

// Open returns the session of vk, creating it with NewSession when vk has
// none. The remaining arguments are used only on creation.
func (ss *Sessions) Open(vk vkapi.Device, vkQueue vkapi.Queue, d3d d3dapi.Device, d3dQueue d3dapi.CommandQueue,
	poses stereo.PoseSource, mem stereo.Memory, width, height uint32, opts ...Option) (*Session, error) {
	if s, ok := ss.r.Lookup(vk); ok {
		return s, nil
	}
	// Created outside the registry lock: the fatal handler may panic.
	s, err := NewSession(vk, vkQueue, d3d, d3dQueue, poses, mem, width, height, opts...)
	if err != nil {
		return nil, err
	}
	if err := ss.r.Register(vk, s); err != nil {
		_ = s.Close()
		if errors.Is(err, registry.ErrExists) {
			if prev, ok := ss.r.Lookup(vk); ok {
				return prev, nil
			}
		}
		return nil, err
	}
	return s, nil
}

// Lookup returns the session of vk.
func (ss *Sessions) Lookup(vk vkapi.Device) (*Session, bool) {
	return ss.r.Lookup(vk)
}

// Close removes and closes the session of vk. It returns
// registry.ErrNotFound when vk has none.
func (ss *Sessions) Close(vk vkapi.Device) error {
	_, err := ss.r.Destroy(vk)
	return err
}

// CloseAll removes and closes every session.
func (ss *Sessions) CloseAll() {
	ss.r.Clear()
}

// Len returns the number of open sessions.
func (ss *Sessions) Len() int { return ss.r.Len() }
