package perf

// CapabilityReport describes what the render surface supports. Both flags
// false with an empty feature set means no graphics context could be created;
// that is a detection result, not an error.
type CapabilityReport struct {
	Tier1Supported bool
	Tier2Supported bool
	Features       []string
}

// CapabilityProber attempts tiered graphics-context creation and enumerates
// optional capabilities.
type CapabilityProber interface {
	ProbeCapabilities() CapabilityReport
}

// CheckPlatformCapability queries the configured prober. With no prober it
// reports nothing supported.
func (g *Governor) CheckPlatformCapability() CapabilityReport {
	if g.prober == nil {
		return CapabilityReport{}
	}
	return g.prober.ProbeCapabilities()
}
