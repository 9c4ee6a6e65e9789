// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package registry provides a concurrency-safe table of objects keyed by
// the handles of an external API, with hooks that run when entries are
// created and destroyed.
//
// It replaces process-wide dispatch maps: the owner of a Registry decides
// its lifetime and passes it explicitly to whoever needs lookups.
package registry

import (
	"errors"
	"sync"
)

// ErrExists is returned by Register when the key is already present.
var ErrExists = errors.New("registry: key already registered")

// ErrNotFound is returned by Destroy when the key is absent.
var ErrNotFound = errors.New("registry: key not found")

// Hooks observe the lifecycle of registry entries. Either field may be nil.
// Hooks run outside the registry lock.
type Hooks[K comparable, V any] struct {
	OnCreate  func(key K, value V)
	OnDestroy func(key K, value V)
}

// Registry maps external handles to objects.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	hooks Hooks[K, V]
}

// New creates an empty registry.
func New[K comparable, V any](hooks Hooks[K, V]) *Registry[K, V] {
	return &Registry[K, V]{
		items: make(map[K]V),
		hooks: hooks,
	}
}

// Register adds value under key. It fails if key is already registered.
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	if _, ok := r.items[key]; ok {
		r.mu.Unlock()
		return ErrExists
	}
	r.items[key] = value
	r.mu.Unlock()

	if r.hooks.OnCreate != nil {
		r.hooks.OnCreate(key, value)
	}
	return nil
}

// LookupOrCreate returns the value for key, calling create to build and
// register it when absent. create runs under the registry lock, so it must
// not call back into r.
func (r *Registry[K, V]) LookupOrCreate(key K, create func() (V, error)) (V, error) {
	r.mu.RLock()
	v, ok := r.items[key]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	r.mu.Lock()
	if v, ok := r.items[key]; ok {
		r.mu.Unlock()
		return v, nil
	}
	v, err := create()
	if err != nil {
		r.mu.Unlock()
		var zero V
		return zero, err
	}
	r.items[key] = v
	r.mu.Unlock()

	if r.hooks.OnCreate != nil {
		r.hooks.OnCreate(key, v)
	}
	return v, nil
}

// Lookup returns the value registered under key.
func (r *Registry[K, V]) Lookup(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	return v, ok
}

// Destroy removes key and runs the OnDestroy hook with the removed value.
func (r *Registry[K, V]) Destroy(key K) (V, error) {
	r.mu.Lock()
	v, ok := r.items[key]
	if !ok {
		r.mu.Unlock()
		var zero V
		return zero, ErrNotFound
	}
	delete(r.items, key)
	r.mu.Unlock()

	if r.hooks.OnDestroy != nil {
		r.hooks.OnDestroy(key, v)
	}
	return v, nil
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Keys returns a snapshot of the registered keys in unspecified order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	return keys
}

// Clear destroys every entry, running OnDestroy for each.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[K]V)
	r.mu.Unlock()

	if r.hooks.OnDestroy == nil {
		return
	}
	for k, v := range items {
		r.hooks.OnDestroy(k, v)
	}
}
