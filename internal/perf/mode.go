// Package perf measures frame timing and adaptively selects a render-quality
// tier from smoothed frame rate.
package perf

import "fmt"

// Mode is a render-quality tier. Auto resolves to whichever tier the governor
// has currently selected.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeHigh   Mode = "high"
	ModeMedium Mode = "medium"
	ModeLow    Mode = "low"
)

// ParseMode converts a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeHigh, ModeMedium, ModeLow:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown performance mode %q", s)
	}
}

// Settings holds the render settings for one tier.
type Settings struct {
	TargetFPS      int
	Antialiasing   bool
	Shadows        bool
	TextureQuality float32 // (0,1]
	RenderScale    float32 // (0,1]
}

// tierSettings maps each non-auto tier to its fixed settings.
var tierSettings = map[Mode]Settings{
	ModeHigh: {
		TargetFPS:      60,
		Antialiasing:   true,
		Shadows:        true,
		TextureQuality: 1.0,
		RenderScale:    1.0,
	},
	ModeMedium: {
		TargetFPS:      60,
		Antialiasing:   true,
		Shadows:        false,
		TextureQuality: 0.75,
		RenderScale:    0.85,
	},
	ModeLow: {
		TargetFPS:      30,
		Antialiasing:   false,
		Shadows:        false,
		TextureQuality: 0.5,
		RenderScale:    0.7,
	},
}
