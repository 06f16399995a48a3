package search

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestDebouncer_SingleCall(t *testing.T) {
	defer goleak.VerifyNone(t)

	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}

func TestDebouncer_RapidCalls(t *testing.T) {
	var called int32
	var lastValue int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	for i := 1; i <= 10; i++ {
		value := int32(i)
		debouncer.Debounce(func() {
			atomic.StoreInt32(&lastValue, value)
			atomic.AddInt32(&called, 1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)

	if atomic.LoadInt32(&called) != 1 {
		t.Errorf("Expected 1 call for rapid succession, got %d", called)
	}
	if atomic.LoadInt32(&lastValue) != 10 {
		t.Errorf("Expected last value 10, got %d", lastValue)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})

	time.Sleep(10 * time.Millisecond)
	debouncer.Cancel()
	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 0 {
		t.Errorf("Expected 0 calls after cancel, got %d", called)
	}
}

func TestDebouncer_Immediate(t *testing.T) {
	var called int32
	debouncer := NewDebouncer(50 * time.Millisecond)

	debouncer.Debounce(func() {
		atomic.AddInt32(&called, 1)
	})
	debouncer.Immediate(func() {
		atomic.AddInt32(&called, 10)
	})

	time.Sleep(100 * time.Millisecond)

	if atomic.LoadInt32(&called) != 10 {
		t.Errorf("Expected 10 (immediate only), got %d", called)
	}
}

func BenchmarkDebouncer_RapidCalls(b *testing.B) {
	debouncer := NewDebouncer(10 * time.Millisecond)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		debouncer.Debounce(func() {})
	}

	debouncer.Cancel()
}
