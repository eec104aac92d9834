package perf

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Metrics is a per-window snapshot delivered to subscribers.
type Metrics struct {
	FPS         float64
	FrameTimeMs float64
	// MemoryMB is the process resident set size, nil when sampling failed.
	MemoryMB *float64
	// GPUMemoryMB is always nil; there is no portable way to read it.
	GPUMemoryMB *float64
}

// MemorySampler reads process memory usage once per sampling window.
type MemorySampler interface {
	ProcessMemoryMB() (float64, bool)
}

// processSampler reads RSS of the current process via gopsutil.
type processSampler struct {
	proc *process.Process
}

// NewProcessSampler creates a sampler for the running process. Returns nil if
// the process handle cannot be opened; the governor treats a nil sampler as
// "memory unknown".
func NewProcessSampler() MemorySampler {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil
	}
	return &processSampler{proc: proc}
}

// ProcessMemoryMB returns resident memory in megabytes.
func (s *processSampler) ProcessMemoryMB() (float64, bool) {
	info, err := s.proc.MemoryInfo()
	if err != nil || info == nil {
		return 0, false
	}
	return float64(info.RSS) / (1024 * 1024), true
}
