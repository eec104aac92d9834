// Package main is the entry point for the Atrium walkthrough client.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/atrium/internal/client"
	"github.com/Faultbox/atrium/internal/config"
	"github.com/Faultbox/atrium/internal/engine/frame"
	"github.com/Faultbox/atrium/internal/engine/nav"
	"github.com/Faultbox/atrium/internal/engine/window"
	"github.com/Faultbox/atrium/internal/logger"
	"github.com/Faultbox/atrium/internal/perf"
	"github.com/Faultbox/atrium/internal/scene"
	"github.com/Faultbox/atrium/internal/telemetry"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Atrium ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	mode, err := perf.ParseMode(cfg.Performance.Mode)
	if err != nil {
		logger.Error("invalid performance mode", zap.Error(err))
		os.Exit(1)
	}

	// Shared state store, telemetry, and the frame loop the governor rides.
	store := scene.New(nil)
	store.SetPreferences(scene.Preferences{
		ReducedMotion:    cfg.Preferences.ReducedMotion,
		AudioEnabled:     cfg.Preferences.AudioEnabled,
		SkipIntroduction: cfg.Preferences.SkipIntroduction,
		PerformanceMode:  mode,
	})

	tracker := telemetry.New(telemetry.Config{
		Production: cfg.Telemetry.Production,
		Sink:       analyticsSink(cfg),
	})

	// Fault hook: graphics-related panics are classified and recorded before
	// the process dies.
	defer func() {
		if r := recover(); r != nil {
			tracker.CaptureFault(fmt.Errorf("panic: %v", r))
			logger.Error("unhandled fault", zap.Any("panic", r))
			logger.Sync()
			os.Exit(1)
		}
	}()

	// Capability detection. Absence of support is recorded, surfaced on the
	// store, and ends the session cleanly; it is never a crash.
	prober := window.Prober{}
	support := tracker.CheckSupport(prober)
	if !support.Supported {
		store.SetError("Your graphics driver does not support OpenGL 3.3. " +
			"Please update your drivers.")
		logger.Error("no usable graphics context, exiting")
		return
	}
	logger.Info("graphics context available",
		zap.String("version", support.Version),
		zap.String("renderer", support.Renderer),
	)

	loop := frame.NewLoop()

	governor := perf.New(perf.Config{
		MemoryLimitMB: cfg.Performance.MemoryLimitMB,
	}, perf.Deps{
		Scheduler: loop,
		State:     store,
		Issues:    tracker,
		Memory:    perf.NewProcessSampler(),
		Prober:    prober,
	})
	governor.SetMode(mode)
	governor.Start()
	defer governor.Stop()

	caps := governor.CheckPlatformCapability()
	logger.Info("platform capabilities",
		zap.Bool("tier1", caps.Tier1Supported),
		zap.Bool("tier2", caps.Tier2Supported),
		zap.Int("extensions", len(caps.Features)),
	)

	controller := nav.New(store, nav.Config{
		MovementSpeed:    cfg.Navigation.MovementSpeed,
		MouseSensitivity: cfg.Navigation.MouseSensitivity,
		TouchSensitivity: cfg.Navigation.TouchSensitivity,
	})

	c, err := client.New(cfg, client.Deps{
		Store:   store,
		Tracker: tracker,
		Nav:     controller,
		Loop:    loop,
	})
	if err != nil {
		tracker.CaptureFault(err)
		store.SetError(err.Error())
		logger.Error("failed to create client", zap.Error(err))
		os.Exit(1)
	}
	defer c.Close()

	if err := c.Run(); err != nil {
		tracker.CaptureFault(err)
		logger.Error("client error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("closed normally")
}

// analyticsSink picks the sink from configuration: a real collector when an
// endpoint is set, otherwise the log sink.
func analyticsSink(cfg *config.Config) telemetry.Sink {
	if cfg.Telemetry.AnalyticsEndpoint != "" {
		return telemetry.NewHTTPSink(cfg.Telemetry.AnalyticsEndpoint)
	}
	return telemetry.LogSink{}
}
