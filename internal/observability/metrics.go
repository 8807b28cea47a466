// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Stream metrics
	FramesReceived  prometheus.Counter
	MalformedFrames prometheus.Counter
	Reconnects      prometheus.Counter
	FrameLatency    prometheus.Histogram

	// Subscription metrics
	ControlFramesSent *prometheus.CounterVec
	DesiredTopics     *prometheus.GaugeVec

	// Dispatch metrics
	EventsDispatched *prometheus.CounterVec
	HandlerErrors    *prometheus.CounterVec

	// Discovery metrics
	TokensDiscovered prometheus.Counter

	// Storage metrics
	TradesStored    prometheus.Counter
	UntrackedTrades prometheus.Counter
	DuplicateTrades prometheus.Counter
	StoreErrors     prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pumpstream"
	}

	return &Metrics{
		FramesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frames_received_total",
			Help:      "Total number of inbound frames received",
		}),
		MalformedFrames: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "malformed_frames_total",
			Help:      "Total number of frames dropped as malformed",
		}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "reconnects_total",
			Help:      "Total number of successful WebSocket reconnects",
		}),
		FrameLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "frame_processing_latency_seconds",
			Help:      "Frame classify+dispatch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ControlFramesSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "control_frames_sent_total",
			Help:      "Total number of subscribe/unsubscribe frames sent by method",
		}, []string{"method"}),
		DesiredTopics: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "desired_topics",
			Help:      "Current size of the desired topic set by kind",
		}, []string{"kind"}),
		EventsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "events_total",
			Help:      "Total number of events dispatched by kind",
		}, []string{"kind"}),
		HandlerErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "handler_errors_total",
			Help:      "Total number of handler failures by event kind",
		}, []string{"kind"}),
		TokensDiscovered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "tokens_discovered_total",
			Help:      "Total number of newly discovered tokens added to tracking",
		}),
		TradesStored: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "trades_stored_total",
			Help:      "Total number of trades written to the trade store",
		}),
		UntrackedTrades: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "untracked_trades_total",
			Help:      "Total number of stored trades whose mint was not in the desired set",
		}),
		DuplicateTrades: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "duplicate_trades_total",
			Help:      "Total number of trades rejected as duplicate signatures",
		}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of trade store errors",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFrameReceived increments the inbound frame counter.
func RecordFrameReceived() {
	DefaultMetrics.FramesReceived.Inc()
}

// RecordMalformedFrame increments the malformed frame counter.
func RecordMalformedFrame() {
	DefaultMetrics.MalformedFrames.Inc()
}

// RecordReconnect increments the reconnect counter.
func RecordReconnect() {
	DefaultMetrics.Reconnects.Inc()
}

// RecordFrameLatency records classify+dispatch latency for one frame.
func RecordFrameLatency(seconds float64) {
	DefaultMetrics.FrameLatency.Observe(seconds)
}

// RecordControlFrame increments the control frame counter for a method.
func RecordControlFrame(method string) {
	DefaultMetrics.ControlFramesSent.WithLabelValues(method).Inc()
}

// SetDesiredTopics updates the desired topic gauge for a kind.
func SetDesiredTopics(kind string, n int) {
	DefaultMetrics.DesiredTopics.WithLabelValues(kind).Set(float64(n))
}

// RecordEventDispatched increments the dispatched event counter for a kind.
func RecordEventDispatched(kind string) {
	DefaultMetrics.EventsDispatched.WithLabelValues(kind).Inc()
}

// RecordHandlerError increments the handler failure counter for a kind.
func RecordHandlerError(kind string) {
	DefaultMetrics.HandlerErrors.WithLabelValues(kind).Inc()
}

// RecordTokenDiscovered increments the discovered token counter.
func RecordTokenDiscovered() {
	DefaultMetrics.TokensDiscovered.Inc()
}

// RecordTradeStored increments the stored trade counter.
func RecordTradeStored() {
	DefaultMetrics.TradesStored.Inc()
}

// RecordUntrackedTrade increments the untracked-mint trade counter.
func RecordUntrackedTrade() {
	DefaultMetrics.UntrackedTrades.Inc()
}

// RecordDuplicateTrade increments the duplicate trade counter.
func RecordDuplicateTrade() {
	DefaultMetrics.DuplicateTrades.Inc()
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	DefaultMetrics.StoreErrors.Inc()
}
