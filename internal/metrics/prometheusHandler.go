package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by route and status",
}, []string{"path", "status"})

var countTasksInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_tasks_in_queue",
	Help: "Number of parse tasks waiting for a worker",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has been signaled to start a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var documentTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "document_transitions_total",
	Help: "Document lifecycle transitions labelled by target state",
}, []string{"state"})

var staleParseResponses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "stale_parse_responses_total",
	Help: "Parse completions that landed after a newer parse attempt had started",
})

var persistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "persistence_failures_total",
	Help: "Substrate failures labelled by family and operation",
}, []string{"family", "op"})

var restoreDowngrades = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "restore_downgrades_total",
	Help: "Records repaired on load labelled by reason",
}, []string{"reason"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *HttpStatusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func IncrementTasksInQueue() {
	countTasksInQueue.Inc()
}

func DecrementTasksInQueue() {
	countTasksInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

func CaptureTransition(state string) {
	documentTransitions.WithLabelValues(state).Inc()
}

func CaptureStaleParseResponse() {
	staleParseResponses.Inc()
}

func CapturePersistenceFailure(family string, op string) {
	persistenceFailures.WithLabelValues(family, op).Inc()
}

func CaptureRestoreDowngrade(reason string) {
	restoreDowngrades.WithLabelValues(reason).Inc()
}

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of extraction and analysis calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
