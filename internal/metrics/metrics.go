package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"courtbook/internal/events"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtbook",
			Name:      "api_requests_total",
			Help:      "Count of backend API requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "courtbook",
			Name:      "api_request_duration_seconds",
			Help:      "Latency of backend API requests.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	sessionEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "courtbook",
			Name:      "events_total",
			Help:      "Count of session and reservation events by type.",
		},
		[]string{"type"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiDuration, sessionEvents)
	})
}

// ObserveRequest records one API call. code 0 means the request never got a response.
func ObserveRequest(endpoint string, code int, elapsed time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	apiRequests.WithLabelValues(endpoint, label).Inc()
	apiDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveEvent is an events.Handler counting events by type.
func ObserveEvent(e events.Event) error {
	sessionEvents.WithLabelValues(string(e.Type)).Inc()
	return nil
}
