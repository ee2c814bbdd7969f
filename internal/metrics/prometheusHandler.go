package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var embeddingFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_embedding_fallback_total",
	Help: "Semantic embedding failures answered by the deterministic embedder",
}, []string{"operation"})

var generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_generation_failures_total",
	Help: "Language model calls that failed and were degraded",
}, []string{"component"})

var classificationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "docqa_classification_fallback_total",
	Help: "Questions classified by rules after the model path failed",
})

var classifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_classifications_total",
	Help: "Questions classified, by category",
}, []string{"category"})

var documentsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docqa_documents_loaded",
	Help: "Documents currently held in the document store",
})

var collectionsCreated = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "docqa_collections",
	Help: "Collections currently held in the collection manager",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
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

func IncrementEmbeddingFallback(operation string) {
	embeddingFallbacks.WithLabelValues(operation).Inc()
}

func IncrementGenerationFailure(component string) {
	generationFailures.WithLabelValues(component).Inc()
}

func IncrementClassificationFallback() {
	classificationFallbacks.Inc()
}

func IncrementClassification(category string) {
	classifications.WithLabelValues(category).Inc()
}

func SetDocumentsLoaded(n int) {
	documentsLoaded.Set(float64(n))
}

func SetCollections(n int) {
	collectionsCreated.Set(float64(n))
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent processing a job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
