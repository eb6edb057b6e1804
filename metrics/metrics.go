package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the relay
type Metrics struct {
	// Session metrics
	ActiveSessions  prometheus.Gauge
	SessionsCreated prometheus.Counter
	SessionsClosed  prometheus.Counter

	// Client to Gemini direction
	ChunksForwarded prometheus.Counter
	ChunksDropped   prometheus.Counter
	InvalidMessages prometheus.Counter

	// Gemini to client direction
	EventsReceived prometheus.Counter
	TextParts      prometheus.Counter
	AudioParts     prometheus.Counter
	AudioBytes     prometheus.Counter

	// Transcription
	TranscriptionRequests  prometheus.Counter
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
}

// New creates and registers all metrics with the default registry
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with a caller-supplied registry
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voicebridge_active_sessions",
			Help: "Number of currently active relay sessions",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_sessions_created_total",
			Help: "Total number of sessions created",
		}),
		SessionsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_sessions_closed_total",
			Help: "Total number of sessions closed",
		}),
		ChunksForwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_chunks_forwarded_total",
			Help: "Media chunks forwarded to Gemini",
		}),
		ChunksDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_chunks_dropped_total",
			Help: "Media chunks dropped for unrecognized MIME type",
		}),
		InvalidMessages: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_invalid_messages_total",
			Help: "Client messages dropped for malformed JSON",
		}),
		EventsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_events_received_total",
			Help: "Server events received from Gemini",
		}),
		TextParts: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_text_parts_total",
			Help: "Text parts relayed to clients",
		}),
		AudioParts: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_audio_parts_total",
			Help: "Audio parts relayed to clients",
		}),
		AudioBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_audio_bytes_total",
			Help: "Raw audio bytes accumulated for transcription",
		}),
		TranscriptionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_transcription_requests_total",
			Help: "Turn transcriptions attempted",
		}),
		TranscriptionSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_transcription_successes_total",
			Help: "Turn transcriptions that produced text",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicebridge_transcription_failures_total",
			Help: "Turn transcriptions that failed",
		}),
	}
}
