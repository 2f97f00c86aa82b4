package agendastore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agenda_store_requests_total",
		Help: "Requests sent to the agenda store, by action and result",
	}, []string{"action", "result"})

	storeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agenda_store_request_duration_seconds",
		Help:    "Latency of agenda store requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
)

func observeRequest(action string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeRequests.WithLabelValues(action, result).Inc()
	storeLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
