package telemetry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/atrium/internal/logger"
)

// Sink receives analytics events. Delivery is best-effort; the tracker never
// consults a result.
type Sink interface {
	Report(event, category, label string, value float64, payload any)
}

// NoopSink discards all events.
type NoopSink struct{}

// Report discards the event.
func (NoopSink) Report(event, category, label string, value float64, payload any) {}

// LogSink writes events to the application log.
type LogSink struct{}

// Report logs the event at debug level.
func (LogSink) Report(event, category, label string, value float64, payload any) {
	logger.Debug("analytics event",
		zap.String("event", event),
		zap.String("category", category),
		zap.String("label", label),
		zap.Float64("value", value),
		zap.Any("payload", payload),
	)
}

// HTTPSink posts events as JSON to a collector endpoint.
type HTTPSink struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPSink creates a sink posting to the given endpoint.
func NewHTTPSink(endpoint string) *HTTPSink {
	return &HTTPSink{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

type eventBody struct {
	Event     string    `json:"event"`
	Category  string    `json:"category"`
	Label     string    `json:"label"`
	Value     float64   `json:"value"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report posts the event. Failures are logged at debug level and otherwise
// ignored.
func (s *HTTPSink) Report(event, category, label string, value float64, payload any) {
	body := eventBody{
		Event:     event,
		Category:  category,
		Label:     label,
		Value:     value,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return
	}

	resp, err := s.Client.Post(s.Endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		logger.Debug("analytics post failed", zap.Error(err))
		return
	}
	resp.Body.Close()
}
