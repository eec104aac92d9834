package telemetry

import (
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Faultbox/atrium/internal/logger"
)

const (
	maxErrors = 50
	maxIssues = 100

	recentCount = 5
)

// Config holds tracker settings.
type Config struct {
	// Production enables forwarding to the analytics sink.
	Production bool
	// Sink receives forwarded events; nil disables forwarding.
	Sink Sink
	// Clock stamps entries; nil uses the wall clock.
	Clock clock.Clock
}

// Tracker keeps a bounded most-recent-first history of graphics errors and
// performance issues.
type Tracker struct {
	mu         sync.Mutex
	clk        clock.Clock
	production bool
	sink       Sink
	platform   string
	errors     []GraphicsError
	issues     []PerformanceIssue
}

// New creates a tracker.
func New(cfg Config) *Tracker {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Tracker{
		clk:        clk,
		production: cfg.Production,
		sink:       cfg.Sink,
		platform:   platformString(),
	}
}

// TrackError records a graphics error at the front of the history, evicting
// the oldest entries beyond the cap.
func (t *Tracker) TrackError(e GraphicsError) {
	if e.Timestamp.IsZero() {
		e.Timestamp = t.clk.Now()
	}
	if e.Platform == "" {
		e.Platform = t.platform
	}

	t.mu.Lock()
	t.errors = append([]GraphicsError{e}, t.errors...)
	if len(t.errors) > maxErrors {
		t.errors = t.errors[:maxErrors]
	}
	t.mu.Unlock()

	logger.Warn("graphics error",
		zap.String("kind", string(e.Kind)),
		zap.String("message", e.Message),
		zap.Any("context", e.Context),
	)

	t.forward("graphics_error", "error", string(e.Kind), 1, e)
}

// TrackPerformanceIssue records a performance anomaly with the same bounded
// most-recent-first discipline.
func (t *Tracker) TrackPerformanceIssue(issue PerformanceIssue) {
	if issue.Timestamp.IsZero() {
		issue.Timestamp = t.clk.Now()
	}

	t.mu.Lock()
	t.issues = append([]PerformanceIssue{issue}, t.issues...)
	if len(t.issues) > maxIssues {
		t.issues = t.issues[:maxIssues]
	}
	t.mu.Unlock()

	logger.Warn("performance issue",
		zap.String("kind", string(issue.Kind)),
		zap.Float64("measured", issue.Measured),
		zap.Float64("threshold", issue.Threshold),
	)

	t.forward("performance_issue", "performance", string(issue.Kind), issue.Measured, issue)
}

// forward ships the event to the sink in production mode. Fire-and-forget;
// a panicking or failing sink is ignored.
func (t *Tracker) forward(event, category, label string, value float64, payload any) {
	if !t.production || t.sink == nil {
		return
	}
	sink := t.sink
	go func() {
		defer func() { _ = recover() }()
		sink.Report(event, category, label, value, payload)
	}()
}

// ErrorSummary aggregates the stored errors.
type ErrorSummary struct {
	Total  int
	ByKind map[ErrorKind]int
	Recent []GraphicsError
}

// GetErrorSummary returns counts by kind and the most recent entries.
func (t *Tracker) GetErrorSummary() ErrorSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := ErrorSummary{
		Total:  len(t.errors),
		ByKind: make(map[ErrorKind]int),
	}
	for _, e := range t.errors {
		s.ByKind[e.Kind]++
	}
	n := min(recentCount, len(t.errors))
	s.Recent = append(s.Recent, t.errors[:n]...)
	return s
}

// PerformanceSummary aggregates the stored issues.
type PerformanceSummary struct {
	Total  int
	ByKind map[IssueKind]int
	Recent []PerformanceIssue
}

// GetPerformanceSummary returns counts by kind and the most recent entries.
func (t *Tracker) GetPerformanceSummary() PerformanceSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := PerformanceSummary{
		Total:  len(t.issues),
		ByKind: make(map[IssueKind]int),
	}
	for _, issue := range t.issues {
		s.ByKind[issue.Kind]++
	}
	n := min(recentCount, len(t.issues))
	s.Recent = append(s.Recent, t.issues[:n]...)
	return s
}

// ClearErrors empties both histories.
func (t *Tracker) ClearErrors() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = nil
	t.issues = nil
}

// CaptureFault inspects a runtime fault. Faults matching the graphics keyword
// set are classified and tracked; all others are ignored. Reports whether the
// fault was tracked.
func (t *Tracker) CaptureFault(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !isGraphicsFault(msg) {
		return false
	}
	t.TrackError(GraphicsError{
		Kind:    classifyFault(msg),
		Message: msg,
	})
	return true
}

// HandleContextLost records loss of the graphics context.
func (t *Tracker) HandleContextLost(preventable bool) {
	t.TrackError(GraphicsError{
		Kind:    ErrorContextLost,
		Message: "graphics context lost",
		Context: map[string]any{"preventable": preventable},
	})
}

// HandleContextRestored records recovery of the graphics context. The loss is
// expected to self-heal; nothing beyond the log entry is needed.
func (t *Tracker) HandleContextRestored() {
	logger.Info("graphics context restored")
}
