package metrics

import "github.com/mauv0809/tournament-importer/internal/roster"

// Metrics defines the interface for collecting application metrics.
// This decouples the importer from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRowsImported(kind roster.ImportKind)
	IncRowsFailed(kind roster.ImportKind)
	IncRowsDropped(kind roster.ImportKind)
	IncTournamentsCreated()
	IncTeamsCreated()
	IncTeamsFailed()
	ObserveRowDuration(seconds float64)
	SetRunDuration(kind roster.ImportKind, seconds float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
}

// MetricsStore keeps lifetime counters in the database, across runs.
type MetricsStore interface {
	Increment(key string)
	Add(key string, delta int)
	RecordSummary(summary *roster.Summary)
	GetAll() (map[string]int, error)
}
