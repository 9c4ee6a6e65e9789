// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package timeline

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/vrbridge/d3dapi"
	"github.com/gogpu/vrbridge/vkapi"
)

type fakeFence struct {
	completed uint64
}

func (f *fakeFence) CompletedValue() uint64 { return f.completed }
func (f *fakeFence) Release()               {}

type queueOp struct {
	signal bool
	value  uint64
}

type fakeQueue struct {
	mu  sync.Mutex
	ops []queueOp
	err error
}

func (q *fakeQueue) Signal(f d3dapi.Fence, v uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ops = append(q.ops, queueOp{signal: true, value: v})
	f.(*fakeFence).completed = v
	return nil
}

func (q *fakeQueue) Wait(_ d3dapi.Fence, v uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ops = append(q.ops, queueOp{value: v})
	return nil
}

const testSemaphore vkapi.Semaphore = 0x5E

func TestSignalMonotonic(t *testing.T) {
	q := &fakeQueue{}
	b := New(testSemaphore, &fakeFence{}, q)

	if _, err := b.SignalVulkan(1, vkapi.PipelineStageAllCommands); err != nil {
		t.Fatal(err)
	}
	if err := b.SignalD3D(2); err != nil {
		t.Fatal(err)
	}
	if err := b.SignalD3D(2); !errors.Is(err, ErrNonMonotonic) {
		t.Fatalf("repeat signal error = %v, want ErrNonMonotonic", err)
	}
	if _, err := b.SignalVulkan(1, vkapi.PipelineStageAllCommands); !errors.Is(err, ErrNonMonotonic) {
		t.Fatalf("decreasing signal error = %v, want ErrNonMonotonic", err)
	}
	if b.LastSignaled() != 2 {
		t.Errorf("LastSignaled() = %d, want 2", b.LastSignaled())
	}
	if len(q.ops) != 1 {
		t.Errorf("rejected signals reached the queue: %+v", q.ops)
	}
}

func TestSignalVulkanEntry(t *testing.T) {
	b := New(testSemaphore, &fakeFence{}, &fakeQueue{})
	s, err := b.SignalVulkan(7, vkapi.PipelineStageTransfer)
	if err != nil {
		t.Fatal(err)
	}
	if s.Semaphore != testSemaphore || s.Value != 7 || s.StageMask != vkapi.PipelineStageTransfer {
		t.Errorf("SignalVulkan() = %+v", s)
	}
	w := b.WaitVulkan(6, vkapi.PipelineStageTransfer)
	if w.Value != 6 || b.LastAwaited() != 6 {
		t.Errorf("WaitVulkan() = %+v, LastAwaited = %d", w, b.LastAwaited())
	}
}

func TestWaitD3DEnqueues(t *testing.T) {
	q := &fakeQueue{}
	b := New(testSemaphore, &fakeFence{}, q)
	if err := b.WaitD3D(3); err != nil {
		t.Fatal(err)
	}
	if len(q.ops) != 1 || q.ops[0].signal || q.ops[0].value != 3 {
		t.Errorf("ops = %+v", q.ops)
	}
}

func TestWaitD3DFenceErrorState(t *testing.T) {
	fence := &fakeFence{completed: d3dapi.FenceErrorValue}
	q := &fakeQueue{}
	b := New(testSemaphore, fence, q)

	if err := b.WaitD3D(1); !errors.Is(err, d3dapi.ErrDeviceRemoved) {
		t.Fatalf("WaitD3D() error = %v, want ErrDeviceRemoved", err)
	}
	if _, err := b.Completed(); !errors.Is(err, d3dapi.ErrDeviceRemoved) {
		t.Fatalf("Completed() error = %v, want ErrDeviceRemoved", err)
	}
}

func TestQueueErrorsWrapped(t *testing.T) {
	want := errors.New("queue lost")
	b := New(testSemaphore, &fakeFence{}, &fakeQueue{err: want})
	if err := b.SignalD3D(1); !errors.Is(err, want) {
		t.Errorf("SignalD3D() error = %v", err)
	}
	if err := b.WaitD3D(1); !errors.Is(err, want) {
		t.Errorf("WaitD3D() error = %v", err)
	}
}

func TestConcurrentSignalsStayMonotonic(t *testing.T) {
	b := New(testSemaphore, &fakeFence{}, &fakeQueue{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for v := uint64(1); v <= 64; v++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.SignalVulkan(v, vkapi.PipelineStageAllCommands); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if b.LastSignaled() != 64 {
		t.Errorf("LastSignaled() = %d, want 64", b.LastSignaled())
	}
	if accepted < 1 || accepted > 64 {
		t.Errorf("accepted = %d", accepted)
	}
}

func TestSignalsMonotonicPerAPI(t *testing.T) {
	q := &fakeQueue{}
	b := New(testSemaphore, &fakeFence{}, q)

	// A Vulkan submit waiting for 2 may be issued before the D3D12 signal
	// of 2 it depends on.
	if _, err := b.SignalVulkan(1, vkapi.PipelineStageAllCommands); err != nil {
		t.Fatal(err)
	}
	if _, err := b.SignalVulkan(3, vkapi.PipelineStageAllCommands); err != nil {
		t.Fatal(err)
	}
	if err := b.SignalD3D(2); err != nil {
		t.Fatalf("SignalD3D(2) after SignalVulkan(3) error = %v", err)
	}
	if err := b.SignalD3D(2); !errors.Is(err, ErrNonMonotonic) {
		t.Errorf("repeat SignalD3D(2) error = %v, want ErrNonMonotonic", err)
	}
	if _, err := b.SignalVulkan(3, vkapi.PipelineStageAllCommands); !errors.Is(err, ErrNonMonotonic) {
		t.Errorf("repeat SignalVulkan(3) error = %v, want ErrNonMonotonic", err)
	}
	if b.LastSignaled() != 3 {
		t.Errorf("LastSignaled() = %d, want 3", b.LastSignaled())
	}
}
