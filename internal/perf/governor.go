package perf

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/atrium/internal/engine/frame"
	"github.com/Faultbox/atrium/internal/logger"
	"github.com/Faultbox/atrium/internal/telemetry"
)

// Sampling window and smoothing parameters.
const (
	defaultWindowFrames = 60
	defaultHistorySize  = 30

	// Auto tier thresholds, evaluated against the windowed average FPS.
	lowFPSThreshold    = 25.0
	mediumFPSThreshold = 40.0
	highFPSThreshold   = 55.0
)

// StateSink receives the per-window performance snapshot. The scene store
// implements it.
type StateSink interface {
	SetPerformance(mode Mode, currentFPS, averageFPS float64)
}

// IssueSink receives performance anomalies detected during sampling.
type IssueSink interface {
	TrackPerformanceIssue(issue telemetry.PerformanceIssue)
}

// Config holds governor tuning.
type Config struct {
	// WindowFrames is the number of frames per sampling window.
	WindowFrames int
	// HistorySize bounds the FPS history used for the average.
	HistorySize int
	// MemoryLimitMB triggers a high_memory issue when the sampled process
	// memory exceeds it. Zero disables the check.
	MemoryLimitMB float64
}

// Deps are the governor's collaborators. Scheduler is required; the rest are
// optional.
type Deps struct {
	Scheduler frame.Registrar
	State     StateSink
	Issues    IssueSink
	Memory    MemorySampler
	Prober    CapabilityProber
}

// Governor samples frame timing on the frame loop and selects a quality tier
// from the smoothed frame rate when in auto mode.
type Governor struct {
	mu sync.Mutex

	cfg    Config
	sched  frame.Registrar
	state  StateSink
	issues IssueSink
	mem    MemorySampler
	prober CapabilityProber

	cancel frame.CancelFunc

	mode Mode // requested mode, may be auto
	tier Mode // currently selected tier

	frameCount    int
	windowElapsed time.Duration
	currentFPS    float64
	history       []float64

	nextSub int
	subs    map[int]func(Metrics)
}

// New creates a stopped governor in auto mode with the high tier selected.
func New(cfg Config, deps Deps) *Governor {
	if cfg.WindowFrames <= 0 {
		cfg.WindowFrames = defaultWindowFrames
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = defaultHistorySize
	}
	return &Governor{
		cfg:    cfg,
		sched:  deps.Scheduler,
		state:  deps.State,
		issues: deps.Issues,
		mem:    deps.Memory,
		prober: deps.Prober,
		mode:   ModeAuto,
		tier:   ModeHigh,
		subs:   make(map[int]func(Metrics)),
	}
}

// Start registers the governor on the frame loop. Idempotent.
func (g *Governor) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return
	}
	g.cancel = g.sched.Register(g.onFrame)
	logger.Debug("performance governor started")
}

// Stop deregisters from the frame loop. No callback runs after Stop returns.
// Safe to call when not running.
func (g *Governor) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()
	if cancel != nil {
		cancel()
		logger.Debug("performance governor stopped")
	}
}

// SetMode pins the tier explicitly, or re-enables automatic selection with
// ModeAuto.
func (g *Governor) SetMode(m Mode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mode = m
	if m != ModeAuto {
		g.tier = m
	}
	logger.Info("performance mode set", zap.String("mode", string(m)))
}

// Mode returns the requested mode, which may be auto.
func (g *Governor) Mode() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mode
}

// Tier returns the currently selected tier.
func (g *Governor) Tier() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tier
}

// SettingsFor returns the settings of the given mode; auto resolves to the
// currently selected tier.
func (g *Governor) SettingsFor(m Mode) Settings {
	if m == ModeAuto {
		m = g.Tier()
	}
	return tierSettings[m]
}

// ActiveSettings returns the settings for the tier in effect.
func (g *Governor) ActiveSettings() Settings {
	return g.SettingsFor(g.Mode())
}

// CurrentFPS returns the most recent instantaneous FPS sample.
func (g *Governor) CurrentFPS() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentFPS
}

// AverageFPS returns the mean of the FPS history, or the last instantaneous
// value when the history is empty.
func (g *Governor) AverageFPS() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.averageLocked()
}

func (g *Governor) averageLocked() float64 {
	if len(g.history) == 0 {
		return g.currentFPS
	}
	var sum float64
	for _, v := range g.history {
		sum += v
	}
	return sum / float64(len(g.history))
}

// Subscribe registers a listener invoked with a Metrics snapshot once per
// sampling window. The returned cancel is idempotent and independent of other
// subscribers.
func (g *Governor) Subscribe(fn func(Metrics)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.subs, id)
	}
}

// onFrame accumulates frame time and closes the sampling window every
// WindowFrames invocations.
func (g *Governor) onFrame(dt time.Duration) {
	g.mu.Lock()
	g.frameCount++
	g.windowElapsed += dt
	if g.frameCount < g.cfg.WindowFrames {
		g.mu.Unlock()
		return
	}

	elapsedMs := float64(g.windowElapsed) / float64(time.Millisecond)
	frames := float64(g.frameCount)
	g.frameCount = 0
	g.windowElapsed = 0

	if elapsedMs <= 0 {
		g.mu.Unlock()
		return
	}

	fps := frames * 1000 / elapsedMs
	g.currentFPS = fps
	g.history = append(g.history, fps)
	if len(g.history) > g.cfg.HistorySize {
		g.history = g.history[1:]
	}
	avg := g.averageLocked()

	if g.mode == ModeAuto {
		g.evaluateLocked(avg)
	}
	tier := g.tier

	metrics := Metrics{
		FPS:         fps,
		FrameTimeMs: elapsedMs / frames,
	}
	mem := g.mem
	issues := g.issues
	limit := g.cfg.MemoryLimitMB
	subs := make([]func(Metrics), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	if mem != nil {
		if mb, ok := mem.ProcessMemoryMB(); ok {
			metrics.MemoryMB = &mb
			if limit > 0 && mb > limit && issues != nil {
				issues.TrackPerformanceIssue(telemetry.PerformanceIssue{
					Kind:      telemetry.IssueHighMemory,
					Measured:  mb,
					Threshold: limit,
				})
			}
		}
	}

	if avg < lowFPSThreshold && issues != nil {
		issues.TrackPerformanceIssue(telemetry.PerformanceIssue{
			Kind:      telemetry.IssueLowFPS,
			Measured:  avg,
			Threshold: lowFPSThreshold,
		})
	}

	if g.state != nil {
		g.state.SetPerformance(tier, fps, avg)
	}

	for _, fn := range subs {
		g.notify(fn, metrics)
	}
}

// notify invokes one subscriber, isolating panics so a faulty listener cannot
// disturb the others or the sampling loop.
func (g *Governor) notify(fn func(Metrics), m Metrics) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("metrics subscriber panicked", zap.Any("panic", r))
		}
	}()
	fn(m)
}

// evaluateLocked applies the auto threshold table. At most one escalation
// step happens per window; a severe drop still goes straight to low.
func (g *Governor) evaluateLocked(avg float64) {
	switch {
	case avg < lowFPSThreshold && g.tier != ModeLow:
		g.switchTierLocked(ModeLow, avg)
	case avg < mediumFPSThreshold && g.tier == ModeHigh:
		g.switchTierLocked(ModeMedium, avg)
	case avg > highFPSThreshold && g.tier == ModeLow:
		g.switchTierLocked(ModeMedium, avg)
	case avg > highFPSThreshold && g.tier == ModeMedium:
		g.switchTierLocked(ModeHigh, avg)
	}
}

func (g *Governor) switchTierLocked(to Mode, avg float64) {
	from := g.tier
	g.tier = to
	logger.Info("render quality tier switched",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Float64("avg_fps", avg),
	)
}
