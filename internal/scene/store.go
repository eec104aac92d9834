package scene

import (
	"sync"

	"github.com/benbjohnson/clock"

	"github.com/Faultbox/atrium/internal/perf"
	"github.com/Faultbox/atrium/pkg/math"
)

// CancelFunc removes a subscription. Calling it more than once is a no-op.
type CancelFunc func()

// Store owns the scene state. All mutation goes through named operations;
// each one applies atomically and notifies subscribers with the resulting
// snapshot.
type Store struct {
	mu    sync.Mutex
	clk   clock.Clock
	state State

	nextSub int
	subs    map[int]func(State)
}

// New creates a store with the default state. A nil clock uses the wall
// clock.
func New(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	s := &Store{
		clk:  clk,
		subs: make(map[int]func(State)),
	}
	s.state = defaultState()
	s.state.LastInteraction = clk.Now()
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset restores every field to its default, with a fresh interaction
// timestamp taken at call time.
func (s *Store) Reset() {
	s.mutate(func(st *State) {
		*st = defaultState()
		st.LastInteraction = s.clk.Now()
	})
}

// SetLoaded marks the scene as loaded.
func (s *Store) SetLoaded(loaded bool) {
	s.mutate(func(st *State) { st.Loaded = loaded })
}

// SetZone changes the current zone.
func (s *Store) SetZone(zone string) {
	s.mutate(func(st *State) { st.CurrentZone = zone })
}

// SetLoadingProgress stores the loading progress, saturated to [0,100].
func (s *Store) SetLoadingProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	s.mutate(func(st *State) { st.LoadingProgress = p })
}

// SetUserPosition stores the camera position.
func (s *Store) SetUserPosition(pos math.Vec3) {
	s.mutate(func(st *State) { st.UserPosition = pos })
}

// SetCameraTarget stores the look-at target.
func (s *Store) SetCameraTarget(target math.Vec3) {
	s.mutate(func(st *State) { st.CameraTarget = target })
}

// SetCameraRotation stores the camera orientation.
func (s *Store) SetCameraRotation(rot Rotation) {
	s.mutate(func(st *State) { st.CameraRotation = rot })
}

// SetPerformance stores the governor's per-window snapshot. Implements
// perf.StateSink.
func (s *Store) SetPerformance(mode perf.Mode, currentFPS, averageFPS float64) {
	s.mutate(func(st *State) {
		st.PerformanceMode = mode
		st.CurrentFPS = currentFPS
		st.AverageFPS = averageFPS
	})
}

// SetPreferences replaces the user preferences.
func (s *Store) SetPreferences(p Preferences) {
	s.mutate(func(st *State) { st.Preferences = p })
}

// SetNavigating stores the navigation flag. When active, the interaction
// timestamp is refreshed as well.
func (s *Store) SetNavigating(active bool) {
	s.mutate(func(st *State) {
		st.IsNavigating = active
		if active {
			st.LastInteraction = s.clk.Now()
		}
	})
}

// SetError surfaces a user-visible error string.
func (s *Store) SetError(msg string) {
	s.mutate(func(st *State) { st.Error = msg })
}

// ClearError removes the error string.
func (s *Store) ClearError() {
	s.mutate(func(st *State) { st.Error = "" })
}

// mutate applies fn under the lock and notifies subscribers with the new
// snapshot after unlocking.
func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		notify(sub, snapshot)
	}
}

// notify isolates subscriber panics from the mutating caller.
func notify(fn func(State), st State) {
	defer func() { _ = recover() }()
	fn(st)
}

// subscribe registers a raw snapshot listener.
func (s *Store) subscribe(fn func(State)) CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Subscribe watches one field of the state, chosen by selector. fn fires only
// when equals reports the selected value changed; a nil equals falls back to
// ==. Removal is by handle, so identical-looking subscriptions stay
// independent.
func Subscribe[T comparable](s *Store, selector func(State) T, equals func(a, b T) bool, fn func(T)) CancelFunc {
	if equals == nil {
		equals = func(a, b T) bool { return a == b }
	}
	prev := selector(s.Snapshot())
	return s.subscribe(func(st State) {
		next := selector(st)
		if equals(prev, next) {
			return
		}
		prev = next
		fn(next)
	})
}
