package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "sectionserver"

	metricLabelHandler = "handler"
	metricLabelStatus  = "status"
	metricLabelReason  = "reason"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// ServiceRequestCounter count the number of requests for each service function
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus,
	)
	// ServiceRequestDuration observe the duration of requests for each service function
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to unmarshal requests, execute a service function and marshal its responses",
		metricLabelHandler, metricLabelStatus,
	)
	// RenderCounter count the number of rendered dynamic sections
	RenderCounter = newCounterVec(
		"render_count",
		"Number of dynamic section render passes",
	)
	// RenderErrorCounter count degraded render outcomes by reason
	RenderErrorCounter = newCounterVec(
		"render_error_count",
		"Number of render passes that degraded (missing structure, denied tag)",
		metricLabelReason,
	)
	// RemoteSaveCounter count debounced remote saves by status
	RemoteSaveCounter = newCounterVec(
		"remote_save_count",
		"Number of debounced remote page saves",
		metricLabelStatus,
	)
	// SnapshotFailedCounter count the number of failed local snapshot writes
	SnapshotFailedCounter = newCounterVec(
		"snapshot_failed_count",
		"Number of failures to store the local page snapshot",
	)
	// PreviewClientsGauge keep track of the number of connected preview views
	PreviewClientsGauge = newGaugeVec(
		"preview_clients_total",
		"Number of currently connected preview websocket clients",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
