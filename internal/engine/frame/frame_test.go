package frame

import (
	"testing"
	"time"
)

func TestRegisterAndTick(t *testing.T) {
	loop := NewLoop()

	var calls int
	var gotDT time.Duration
	loop.Register(func(dt time.Duration) {
		calls++
		gotDT = dt
	})

	loop.Tick(16 * time.Millisecond)
	loop.Tick(16 * time.Millisecond)

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
	if gotDT != 16*time.Millisecond {
		t.Errorf("expected dt 16ms, got %v", gotDT)
	}
}

func TestCancelStopsCallbacks(t *testing.T) {
	loop := NewLoop()

	var calls int
	cancel := loop.Register(func(dt time.Duration) { calls++ })

	loop.Tick(time.Millisecond)
	cancel()
	loop.Tick(time.Millisecond)
	loop.Tick(time.Millisecond)

	if calls != 1 {
		t.Errorf("expected 1 call before cancel, got %d", calls)
	}
	if loop.Len() != 0 {
		t.Errorf("expected 0 registered callbacks, got %d", loop.Len())
	}
}

func TestDoubleCancelIsNoop(t *testing.T) {
	loop := NewLoop()

	cancelA := loop.Register(func(dt time.Duration) {})
	loop.Register(func(dt time.Duration) {})

	cancelA()
	cancelA() // must not remove anything else

	if loop.Len() != 1 {
		t.Errorf("expected 1 registered callback after double cancel, got %d", loop.Len())
	}
}

func TestCancelDuringTick(t *testing.T) {
	loop := NewLoop()

	var secondCalled bool
	var cancelSecond CancelFunc

	loop.Register(func(dt time.Duration) {
		cancelSecond()
	})
	cancelSecond = loop.Register(func(dt time.Duration) {
		secondCalled = true
	})

	loop.Tick(time.Millisecond)

	if secondCalled {
		t.Error("callback cancelled mid-tick must not run in the same tick")
	}
}

func TestCallbacksRunInRegistrationOrder(t *testing.T) {
	loop := NewLoop()

	var order []int
	for i := 0; i < 3; i++ {
		n := i
		loop.Register(func(dt time.Duration) {
			order = append(order, n)
		})
	}

	loop.Tick(time.Millisecond)

	want := []int{0, 1, 2}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}
