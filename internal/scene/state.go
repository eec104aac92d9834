// Package scene holds the shared observable state of the walkthrough:
// camera pose, loading status, performance snapshot, and user preferences.
package scene

import (
	"time"

	"github.com/Faultbox/atrium/internal/perf"
	"github.com/Faultbox/atrium/pkg/math"
)

// Rotation is a camera orientation in radians.
type Rotation struct {
	Pitch float32
	Yaw   float32
}

// Preferences holds user-facing toggles.
type Preferences struct {
	ReducedMotion    bool
	AudioEnabled     bool
	SkipIntroduction bool
	PerformanceMode  perf.Mode
}

// State is a snapshot of the scene. Values are copied out; readers never see
// a partially applied mutation.
type State struct {
	Loaded          bool
	CurrentZone     string
	LoadingProgress int // clamped to [0,100]
	UserPosition    math.Vec3
	CameraTarget    math.Vec3
	CameraRotation  Rotation
	PerformanceMode perf.Mode
	CurrentFPS      float64
	AverageFPS      float64
	Preferences     Preferences
	IsNavigating    bool
	LastInteraction time.Time
	Error           string
}

// defaultState returns the documented initial state. LastInteraction is
// stamped by the store at construction and reset time.
func defaultState() State {
	return State{
		Loaded:          false,
		CurrentZone:     "entrance",
		LoadingProgress: 0,
		UserPosition:    math.Vec3{X: 0, Y: 1.7, Z: 8},
		CameraTarget:    math.Vec3{X: 0, Y: 1.7, Z: 0},
		CameraRotation:  Rotation{},
		PerformanceMode: perf.ModeAuto,
		Preferences: Preferences{
			ReducedMotion:    false,
			AudioEnabled:     true,
			SkipIntroduction: false,
			PerformanceMode:  perf.ModeAuto,
		},
		IsNavigating: false,
	}
}
