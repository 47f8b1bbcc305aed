package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of completed logins",
		},
		[]string{"provider", "new_student"},
	)

	SchedulesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "schedules_created_total",
			Help: "Total number of schedules created",
		},
	)

	BlockResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "block_resolutions_total",
			Help: "Schedule block resolutions by cascade step",
		},
		[]string{"step"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
