package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/janhq/ai-gateway/internal/domain/chat"
	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

// Gateway metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Each provider attempt, including retries.
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "provider_calls_total",
			Help:      "Total provider call attempts by outcome code",
		},
		[]string{"capability", "provider", "code"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "provider_call_duration_seconds",
			Help:      "Provider call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"capability", "provider"},
	)

	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "provider_errors_total",
			Help:      "Total failed provider interactions by sanitized code",
		},
		[]string{"capability", "provider", "code"},
	)

	ActiveStreams = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "active_streams",
			Help:      "Currently active chat streams",
		},
		[]string{"provider"},
	)

	FirstTokenDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "first_token_seconds",
			Help:      "Time to first token for chat streams",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"provider"},
	)

	StreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "streams_total",
			Help:      "Finished chat streams by outcome",
		},
		[]string{"provider", "outcome"},
	)

	StreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "stream_duration_seconds",
			Help:      "Chat stream duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "outcome"},
	)

	LeaseWaitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "provider_lease_wait_seconds",
			Help:      "Time spent waiting for a provider concurrency lease",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"provider"},
	)

	ConfiguredProviders = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jan",
			Subsystem: "ai_gateway",
			Name:      "provider_configured",
			Help:      "Provider configuration status (1=configured, 0=missing settings)",
		},
		[]string{"capability", "provider"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	RequestsTotal.WithLabelValues(method, endpoint, statusStr).Inc()
	RequestDuration.WithLabelValues(method, endpoint, statusStr).Observe(duration.Seconds())
}

// RecordLeaseWait is a provider.WaitObserver.
func RecordLeaseWait(providerType provider.Type, wait time.Duration) {
	LeaseWaitDuration.WithLabelValues(label(string(providerType))).Observe(wait.Seconds())
}

// PublishConfiguration sets the configured gauge for every provider in list.
func PublishConfiguration(list provider.StatusList) {
	for _, d := range list.Providers {
		val := 0.0
		if d.IsConfigured {
			val = 1.0
		}
		ConfiguredProviders.WithLabelValues(string(d.Capability), string(d.Type)).Set(val)
	}
}

// Recorder feeds session and provider call events into the collectors above.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) StreamStarted(providerType provider.Type) {
	ActiveStreams.WithLabelValues(label(string(providerType))).Inc()
}

func (r *Recorder) FirstToken(providerType provider.Type, latency time.Duration) {
	FirstTokenDuration.WithLabelValues(label(string(providerType))).Observe(latency.Seconds())
}

// StreamFinished is also called for sessions that never reached a provider,
// in which case providerType is empty and the active gauge is untouched.
func (r *Recorder) StreamFinished(providerType provider.Type, outcome chat.Outcome, code platformerrors.Code, duration time.Duration) {
	name := label(string(providerType))
	if providerType != "" {
		ActiveStreams.WithLabelValues(name).Dec()
	}
	StreamsTotal.WithLabelValues(name, string(outcome)).Inc()
	StreamDuration.WithLabelValues(name, string(outcome)).Observe(duration.Seconds())
	if outcome == chat.OutcomeError {
		ProviderErrorsTotal.WithLabelValues(string(provider.CapabilityChat), name, string(code)).Inc()
	}
}

func (r *Recorder) ProviderCall(capability provider.Capability, providerType provider.Type, code platformerrors.Code, duration time.Duration) {
	name := label(string(providerType))
	outcome := "ok"
	if code != "" {
		outcome = string(code)
		ProviderErrorsTotal.WithLabelValues(string(capability), name, outcome).Inc()
	}
	ProviderCallsTotal.WithLabelValues(string(capability), name, outcome).Inc()
	ProviderCallDuration.WithLabelValues(string(capability), name).Observe(duration.Seconds())
}

func label(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "none"
	}
	return v
}
