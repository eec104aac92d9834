package telemetry

// SupportReport describes whether a baseline graphics context is available.
type SupportReport struct {
	Supported bool
	Version   string
	Renderer  string
}

// SupportProber attempts to create a graphics context and reports the result.
// Absence of support is data, not an error.
type SupportProber interface {
	ProbeSupport() SupportReport
}

// CheckSupport probes for a graphics context. An unsupported result is
// tracked as a not_supported error before returning; this is the one
// capability check with an observable side effect.
func (t *Tracker) CheckSupport(p SupportProber) SupportReport {
	r := p.ProbeSupport()
	if !r.Supported {
		t.TrackError(GraphicsError{
			Kind:    ErrorNotSupported,
			Message: "graphics context unavailable",
		})
	}
	return r
}
