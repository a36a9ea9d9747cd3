package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "buspass_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	StudentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "buspass_students_created_total",
			Help: "Total number of students registered",
		},
	)

	RoutesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "buspass_routes_created_total",
			Help: "Total number of bus routes added",
		},
	)

	PassesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "buspass_passes_issued_total",
			Help: "Total number of bus passes issued",
		},
	)

	ReceiptsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buspass_receipts_rendered_total",
			Help: "Total number of pass receipts rendered, by pass state",
		},
		[]string{"state"},
	)

	Logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buspass_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)
