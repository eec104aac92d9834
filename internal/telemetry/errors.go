// Package telemetry captures and classifies runtime graphics errors and
// performance anomalies, keeping a bounded history and forwarding events to an
// analytics sink when one is configured.
package telemetry

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorKind classifies a graphics error.
type ErrorKind string

const (
	ErrorContextLost   ErrorKind = "context_lost"
	ErrorNotSupported  ErrorKind = "not_supported"
	ErrorShaderCompile ErrorKind = "shader_compilation_error"
	ErrorTextureLoad   ErrorKind = "texture_load_error"
	ErrorModelLoad     ErrorKind = "model_load_error"
)

// GraphicsError records a single graphics failure.
type GraphicsError struct {
	Kind      ErrorKind
	Message   string
	Stack     string
	Platform  string
	Timestamp time.Time
	Context   map[string]any
}

// IssueKind classifies a performance anomaly.
type IssueKind string

const (
	IssueLowFPS        IssueKind = "low_fps"
	IssueHighMemory    IssueKind = "high_memory"
	IssueSlowLoadTime  IssueKind = "slow_load_time"
	IssueRenderTimeout IssueKind = "render_timeout"
)

// PerformanceIssue records a measured value crossing a threshold.
type PerformanceIssue struct {
	Kind      IssueKind
	Measured  float64
	Threshold float64
	Timestamp time.Time
}

// platformString identifies the running platform, the userAgent analogue.
func platformString() string {
	return fmt.Sprintf("%s/%s go%s", runtime.GOOS, runtime.GOARCH,
		strings.TrimPrefix(runtime.Version(), "go"))
}

// faultKeywords marks runtime faults as graphics-related. Matching is
// case-insensitive substring.
var faultKeywords = []string{
	"opengl",
	"webgl",
	"glsl",
	"shader",
	"texture",
	"framebuffer",
	"render",
	"gpu",
	"context",
	"mesh",
	"model",
}

// classifyFault maps a graphics-related fault message to an error kind.
// Faults that name no specific resource are treated as capability problems.
func classifyFault(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "context"):
		return ErrorContextLost
	case strings.Contains(lower, "shader") || strings.Contains(lower, "glsl"):
		return ErrorShaderCompile
	case strings.Contains(lower, "texture"):
		return ErrorTextureLoad
	case strings.Contains(lower, "model") || strings.Contains(lower, "mesh"):
		return ErrorModelLoad
	default:
		return ErrorNotSupported
	}
}

// isGraphicsFault reports whether a fault message matches the keyword set.
func isGraphicsFault(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range faultKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
