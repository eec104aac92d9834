package window

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/atrium/internal/logger"
	"github.com/Faultbox/atrium/internal/perf"
	"github.com/Faultbox/atrium/internal/telemetry"
)

// Context tiers the probe attempts.
var (
	tier1Version = [2]int{3, 3}
	tier2Version = [2]int{4, 1}
)

// Prober answers capability queries by attempting context creation on a
// hidden window. Absence of support produces a negative report, never an
// error.
type Prober struct{}

// ProbeCapabilities attempts tier-1 (GL 3.3 core) and tier-2 (GL 4.1 core)
// context creation and enumerates extensions. Implements
// perf.CapabilityProber.
func (Prober) ProbeCapabilities() perf.CapabilityReport {
	var report perf.CapabilityReport

	probeContext(tier1Version, func() {
		report.Tier1Supported = true
		report.Features = listExtensions()
	})
	probeContext(tier2Version, func() {
		report.Tier2Supported = true
	})

	logger.Debug("capability probe",
		zap.Bool("tier1", report.Tier1Supported),
		zap.Bool("tier2", report.Tier2Supported),
		zap.Int("features", len(report.Features)),
	)
	return report
}

// ProbeSupport attempts baseline context creation and reads the driver
// strings. Implements telemetry.SupportProber.
func (Prober) ProbeSupport() telemetry.SupportReport {
	var report telemetry.SupportReport

	probeContext(tier1Version, func() {
		report.Supported = true
		report.Version = gl.GoStr(gl.GetString(gl.VERSION))
		report.Renderer = gl.GoStr(gl.GetString(gl.RENDERER))
	})

	return report
}

// probeContext creates a hidden window with the requested core context and
// runs fn with the context current. Any failure leaves fn uncalled.
func probeContext(version [2]int, fn func()) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return
	}

	setContextAttributes(version[0], version[1])

	win, err := sdl.CreateWindow(
		"capability probe",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		1, 1,
		sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN,
	)
	if err != nil {
		return
	}
	defer win.Destroy()

	ctx, err := win.GLCreateContext()
	if err != nil {
		return
	}
	defer sdl.GLDeleteContext(ctx)

	if err := gl.Init(); err != nil {
		return
	}

	fn()
}

// listExtensions enumerates the recognized extension set of the current
// context.
func listExtensions() []string {
	var count int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &count)

	exts := make([]string, 0, count)
	for i := int32(0); i < count; i++ {
		exts = append(exts, gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i))))
	}
	return exts
}
