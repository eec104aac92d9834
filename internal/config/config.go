// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Navigation  NavigationConfig  `yaml:"navigation"`
	Performance PerformanceConfig `yaml:"performance"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// NavigationConfig holds camera movement tuning.
type NavigationConfig struct {
	MovementSpeed    float32 `yaml:"movement_speed"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	TouchSensitivity float32 `yaml:"touch_sensitivity"`
}

// PerformanceConfig holds the quality tier and anomaly thresholds.
type PerformanceConfig struct {
	Mode          string  `yaml:"mode"` // auto, high, medium, low
	MemoryLimitMB float64 `yaml:"memory_limit_mb"`
}

// PreferencesConfig holds user-facing toggles.
type PreferencesConfig struct {
	ReducedMotion    bool `yaml:"reduced_motion"`
	AudioEnabled     bool `yaml:"audio_enabled"`
	SkipIntroduction bool `yaml:"skip_introduction"`
}

// TelemetryConfig holds analytics forwarding settings.
type TelemetryConfig struct {
	Production        bool   `yaml:"production"`
	AnalyticsEndpoint string `yaml:"analytics_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Navigation: NavigationConfig{
			MovementSpeed:    5.0,
			MouseSensitivity: 0.002,
			TouchSensitivity: 2.5,
		},
		Performance: PerformanceConfig{
			Mode:          "auto",
			MemoryLimitMB: 1024,
		},
		Preferences: PreferencesConfig{
			ReducedMotion:    false,
			AudioEnabled:     true,
			SkipIntroduction: false,
		},
		Telemetry: TelemetryConfig{
			Production:        false,
			AnalyticsEndpoint: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
