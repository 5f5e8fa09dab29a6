// Package metrics exposes Prometheus collectors for the authoring service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commitplan "github.com/murkotick/quiz-authoring-service/internal/pkg/committer"
)

const namespace = "quiz_authoring"

// Metrics groups the service collectors.
type Metrics struct {
	saveTotal     *prometheus.CounterVec
	saveLatency   *prometheus.HistogramVec
	savedMutation *prometheus.CounterVec

	rpcTotal   *prometheus.CounterVec
	rpcLatency *prometheus.HistogramVec
}

var singleton = sync.OnceValue(func() *Metrics {
	return New(prometheus.DefaultRegisterer)
})

// Default returns collectors registered with the default registry.
func Default() *Metrics {
	return singleton()
}

// New registers a fresh set of collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		saveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_total",
			Help:      "Total number of save attempts by outcome.",
		}, []string{"kind", "outcome"}),
		saveLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "save_latency_seconds",
			Help:      "Latency distribution of save attempts.",
			Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
		}, []string{"kind", "outcome"}),
		savedMutation: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_mutations_total",
			Help:      "Mutations written by successful saves, by category.",
		}, []string{"kind", "category"}),
		rpcTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grpc_requests_total",
			Help:      "Total number of gRPC requests by method and code.",
		}, []string{"method", "code"}),
		rpcLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grpc_request_duration_seconds",
			Help:      "Latency distribution of gRPC requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObserveSave records one save attempt. Mutation counts are only recorded
// for committed saves.
func (m *Metrics) ObserveSave(kind, outcome string, s commitplan.Summary, elapsed time.Duration) {
	m.saveTotal.WithLabelValues(kind, outcome).Inc()
	m.saveLatency.WithLabelValues(kind, outcome).Observe(elapsed.Seconds())
	if outcome != "saved" {
		return
	}
	m.savedMutation.WithLabelValues(kind, "insert").Add(float64(s.Inserts))
	m.savedMutation.WithLabelValues(kind, "update").Add(float64(s.Updates))
	m.savedMutation.WithLabelValues(kind, "delete").Add(float64(s.Deletes))
	m.savedMutation.WithLabelValues(kind, "outbox").Add(float64(s.Outbox))
}

// ObserveRPC records one finished gRPC call.
func (m *Metrics) ObserveRPC(method, code string, elapsed time.Duration) {
	m.rpcTotal.WithLabelValues(method, code).Inc()
	m.rpcLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
