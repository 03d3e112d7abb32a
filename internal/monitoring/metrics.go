// Package monitoring records request operation metrics with Prometheus.
package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/GriffinCanCode/volley/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "volley"

// Metrics holds the operation metrics. It implements request.Observer.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	InFlight          prometheus.Gauge
	ResponseStatus    *prometheus.CounterVec

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for summaries.
type Snapshot struct {
	Started       int64
	Completed     int64
	Failed        int64
	Cancelled     int64
	TotalDuration time.Duration
}

var _ request.Observer = (*Metrics)(nil)

// New registers the metrics on reg. Registering twice on one registry
// panics, as with promauto.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of finished request operations",
			},
			[]string{"method", "state"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Request operation duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "operations_in_flight",
				Help:      "Number of dispatched operations without a terminal state",
			},
		),
		ResponseStatus: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "response_status_total",
				Help:      "Responses received by HTTP status code",
			},
			[]string{"code"},
		),
	}
}

// OperationStarted records a dispatched operation.
func (m *Metrics) OperationStarted(method request.Method) {
	m.InFlight.Inc()

	m.mu.Lock()
	m.snapshot.Started++
	m.mu.Unlock()
}

// OperationFinished records a terminal state. A zero status means no
// response was received.
func (m *Metrics) OperationFinished(method request.Method, state request.State, elapsed time.Duration, status int) {
	m.InFlight.Dec()
	m.OperationsTotal.WithLabelValues(method.String(), state.String()).Inc()
	m.OperationDuration.WithLabelValues(method.String()).Observe(elapsed.Seconds())
	if status > 0 {
		m.ResponseStatus.WithLabelValues(strconv.Itoa(status)).Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.TotalDuration += elapsed
	switch state {
	case request.StateCompleted:
		m.snapshot.Completed++
	case request.StateFailed:
		m.snapshot.Failed++
	case request.StateCancelled:
		m.snapshot.Cancelled++
	}
}

// Snapshot returns the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// AverageDuration is the mean duration of finished operations.
func (s Snapshot) AverageDuration() time.Duration {
	finished := s.Completed + s.Failed + s.Cancelled
	if finished == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(finished)
}
