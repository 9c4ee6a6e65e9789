// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package registry

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRegisterLookupDestroy(t *testing.T) {
	var created, destroyed []string
	r := New(Hooks[uintptr, string]{
		OnCreate:  func(_ uintptr, v string) { created = append(created, v) },
		OnDestroy: func(_ uintptr, v string) { destroyed = append(destroyed, v) },
	})

	if err := r.Register(1, "device-a"); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	if err := r.Register(1, "device-b"); !errors.Is(err, ErrExists) {
		t.Fatalf("duplicate Register() = %v, want ErrExists", err)
	}

	v, ok := r.Lookup(1)
	if !ok || v != "device-a" {
		t.Fatalf("Lookup(1) = %q, %v", v, ok)
	}
	if _, ok := r.Lookup(2); ok {
		t.Fatal("Lookup(2) found an entry")
	}

	got, err := r.Destroy(1)
	if err != nil || got != "device-a" {
		t.Fatalf("Destroy(1) = %q, %v", got, err)
	}
	if _, err := r.Destroy(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Destroy(1) = %v, want ErrNotFound", err)
	}

	if len(created) != 1 || len(destroyed) != 1 {
		t.Errorf("hooks: created=%v destroyed=%v", created, destroyed)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestLookupOrCreateRunsOnce(t *testing.T) {
	var calls, hooks atomic.Int32
	r := New(Hooks[string, int]{
		OnCreate: func(string, int) { hooks.Add(1) },
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := r.LookupOrCreate("k", func() (int, error) {
				calls.Add(1)
				return 42, nil
			})
			if err != nil || v != 42 {
				t.Errorf("LookupOrCreate() = %d, %v", v, err)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("create called %d times, want 1", calls.Load())
	}
	if hooks.Load() != 1 {
		t.Errorf("OnCreate called %d times, want 1", hooks.Load())
	}
}

func TestLookupOrCreateError(t *testing.T) {
	r := New(Hooks[string, int]{})
	want := errors.New("create failed")

	if _, err := r.LookupOrCreate("k", func() (int, error) { return 0, want }); !errors.Is(err, want) {
		t.Fatalf("LookupOrCreate() = %v, want %v", err, want)
	}
	if r.Len() != 0 {
		t.Fatalf("failed create left %d entries", r.Len())
	}
}

func TestClearRunsDestroyHooks(t *testing.T) {
	var destroyed []int
	r := New(Hooks[int, int]{
		OnDestroy: func(k, _ int) { destroyed = append(destroyed, k) },
	})
	for i := range 3 {
		_ = r.Register(i, i*i)
	}

	keys := r.Keys()
	sort.Ints(keys)
	if len(keys) != 3 || keys[2] != 2 {
		t.Fatalf("Keys() = %v", keys)
	}

	r.Clear()
	sort.Ints(destroyed)
	if len(destroyed) != 3 || destroyed[0] != 0 || destroyed[2] != 2 {
		t.Errorf("destroyed = %v", destroyed)
	}
	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d", r.Len())
	}
}
