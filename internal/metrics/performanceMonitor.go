package metrics

import (
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var endpointRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_endpoint_requests_total",
	Help: "Engine operations started, by endpoint",
}, []string{"endpoint"})

var endpointDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "docqa_endpoint_duration_seconds",
	Help:    "Engine operation latency, by endpoint",
	Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"endpoint"})

var endpointErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_endpoint_errors_total",
	Help: "Engine errors, by endpoint and kind",
}, []string{"endpoint", "kind"})

var cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docqa_cache_hits_total",
	Help: "Response cache hits, by cache kind",
}, []string{"kind"})

type EndpointSummary struct {
	AvgResponseTime float64 `json:"avg_response_time"`
	MinResponseTime float64 `json:"min_response_time"`
	MaxResponseTime float64 `json:"max_response_time"`
	RequestCount    int     `json:"request_count"`
}

// Monitor keeps process-lifetime tallies. It never influences control flow.
type Monitor struct {
	mu        sync.Mutex
	requests  map[string]int
	samples   map[string][]float64
	errors    map[string]int
	cacheHits map[string]int
	now       func() time.Time
}

func NewMonitor() *Monitor {
	return newMonitorWithClock(time.Now)
}

func newMonitorWithClock(now func() time.Time) *Monitor {
	return &Monitor{
		requests:  make(map[string]int),
		samples:   make(map[string][]float64),
		errors:    make(map[string]int),
		cacheHits: make(map[string]int),
		now:       now,
	}
}

// StartTimer counts a request and returns the token for EndTimer.
func (m *Monitor) StartTimer(endpoint string) time.Time {
	m.mu.Lock()
	m.requests[endpoint]++
	m.mu.Unlock()
	endpointRequests.WithLabelValues(endpoint).Inc()
	return m.now()
}

func (m *Monitor) EndTimer(endpoint string, start time.Time) {
	elapsed := m.now().Sub(start).Seconds()
	m.mu.Lock()
	s := append(m.samples[endpoint], elapsed)
	if len(s) > config.MaxTimingSamples {
		s = append([]float64(nil), s[len(s)-config.MaxTimingSamples:]...)
	}
	m.samples[endpoint] = s
	m.mu.Unlock()
	endpointDuration.WithLabelValues(endpoint).Observe(elapsed)
}

func (m *Monitor) RecordError(endpoint, kind string) {
	m.mu.Lock()
	m.errors[endpoint+"_"+kind]++
	m.mu.Unlock()
	endpointErrors.WithLabelValues(endpoint, kind).Inc()
}

func (m *Monitor) RecordCacheHit(kind string) {
	m.mu.Lock()
	m.cacheHits[kind]++
	m.mu.Unlock()
	cacheHits.WithLabelValues(kind).Inc()
}

// Summary is computed over retained samples only. Endpoints with no samples are omitted.
func (m *Monitor) Summary() map[string]EndpointSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]EndpointSummary, len(m.samples))
	for endpoint, times := range m.samples {
		if len(times) == 0 {
			continue
		}
		sum, lo, hi := 0.0, times[0], times[0]
		for _, t := range times {
			sum += t
			lo = min(lo, t)
			hi = max(hi, t)
		}
		out[endpoint] = EndpointSummary{
			AvgResponseTime: sum / float64(len(times)),
			MinResponseTime: lo,
			MaxResponseTime: hi,
			RequestCount:    m.requests[endpoint],
		}
	}
	return out
}

func (m *Monitor) ErrorCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCounts(m.errors)
}

func (m *Monitor) CacheHits() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyCounts(m.cacheHits)
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
