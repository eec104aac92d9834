// Package frame provides per-frame callback scheduling for the main loop.
package frame

import (
	"sync"
	"time"
)

// Callback runs once per frame with the elapsed time since the previous frame.
type Callback func(dt time.Duration)

// CancelFunc deregisters a callback. Calling it more than once is a no-op.
type CancelFunc func()

// Registrar registers per-frame callbacks. The main loop drives the real
// implementation; tests drive a Loop directly with synthetic frames.
type Registrar interface {
	Register(fn Callback) CancelFunc
}

// Loop dispatches registered callbacks once per Tick, in registration order.
// A callback cancelled during a Tick is not invoked again, not even later in
// the same Tick.
type Loop struct {
	mu     sync.Mutex
	nextID int
	order  []int
	fns    map[int]Callback
}

// NewLoop creates an empty frame loop.
func NewLoop() *Loop {
	return &Loop{
		fns: make(map[int]Callback),
	}
}

// Register adds a callback and returns its cancel function.
func (l *Loop) Register(fn Callback) CancelFunc {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	l.order = append(l.order, id)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.fns[id]; !ok {
			return // already cancelled
		}
		delete(l.fns, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// Tick invokes all live callbacks with the given frame time.
func (l *Loop) Tick(dt time.Duration) {
	l.mu.Lock()
	ids := make([]int, len(l.order))
	copy(ids, l.order)
	l.mu.Unlock()

	for _, id := range ids {
		l.mu.Lock()
		fn := l.fns[id]
		l.mu.Unlock()
		if fn == nil {
			continue // cancelled mid-tick
		}
		fn(dt)
	}
}

// Len returns the number of registered callbacks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
