package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the importer.
type Service struct {
	registry *prometheus.Registry

	RowsImported       *prometheus.CounterVec
	RowsFailed         *prometheus.CounterVec
	RowsDropped        *prometheus.CounterVec
	TournamentsCreated prometheus.Counter
	TeamsCreated       prometheus.Counter
	TeamsFailed        prometheus.Counter
	RowDuration        prometheus.Histogram
	RunDuration        *prometheus.GaugeVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
}
