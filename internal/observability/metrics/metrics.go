package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskboard_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	entityOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_entity_operations_total",
		Help: "Count of entity service operations by entity, operation and result",
	}, []string{"entity", "operation", "result"})

	reorderUpdates = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "taskboard_reorder_row_updates",
		Help:    "Number of single-row position updates per reordering plan",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	}, []string{"entity"})

	notificationSweeps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_notification_sweeps_total",
		Help: "Count of due-date sweep runs by result",
	}, []string{"result"})

	notificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_notifications_created_total",
		Help: "Count of notifications generated by the due-date worker",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveEntityOp records the outcome of an entity service operation.
func ObserveEntityOp(entity, operation, result string) {
	entityOperations.WithLabelValues(entity, operation, result).Inc()
}

// ObserveReorder records the size of an applied reordering plan.
func ObserveReorder(entity string, rowUpdates int) {
	reorderUpdates.WithLabelValues(entity).Observe(float64(rowUpdates))
}

// ObserveSweep increments the sweep counter for the given result.
func ObserveSweep(result string) {
	notificationSweeps.WithLabelValues(result).Inc()
}

// ObserveNotificationCreated counts one generated notification.
func ObserveNotificationCreated() {
	notificationsCreated.Inc()
}
