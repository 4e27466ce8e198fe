package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dorm_http_requests_total",
		Help: "Total HTTP requests by method, path and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dorm_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// OccupancyOperations counts occupancy changes by operation and occupant
	// kind ("room" for room-level operations)
	OccupancyOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dorm_occupancy_operations_total",
		Help: "Occupancy engine operations by kind",
	}, []string{"operation", "occupant"})

	// OccupancyRejections counts rule violations by error kind and occupant kind
	OccupancyRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dorm_occupancy_rejections_total",
		Help: "Occupancy engine rejections by reason",
	}, []string{"reason", "occupant"})

	BillsPaidTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dorm_bills_paid_total",
		Help: "Bills transitioned to PAID",
	})

	BackupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dorm_backups_total",
		Help: "Snapshot backups by result",
	}, []string{"result"})

	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dorm_cache_results_total",
		Help: "Read cache lookups by result",
	}, []string{"result"})
)
