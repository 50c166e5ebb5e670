package metrics

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/roster"
)

// store handles metric-related database operations.
type store struct {
	db *database.DB
	mu sync.Mutex
}

// New creates a new metrics Store.
func New(db *database.DB) MetricsStore {
	return &store{
		db: db,
	}
}

// Increment upserts a metric key and increments its value by one.
func (s *store) Increment(key string) {
	s.Add(key, 1)
}

// Add upserts a metric key and increments its value by delta.
func (s *store) Add(key string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(s.db.Dialect.Rebind(`
		INSERT INTO metrics (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = metrics.value + excluded.value
	`), key, delta)
	if err != nil {
		log.Error("Failed to increment metric", "error", err, "key", key)
		return
	}
	log.Debug("Incremented metric", "key", key, "delta", delta)
}

// RecordSummary adds the counts of one run to the lifetime totals.
func (s *store) RecordSummary(summary *roster.Summary) {
	if summary.DryRun {
		return
	}
	prefix := string(summary.Kind)
	s.Increment(prefix + "_runs")
	s.Add(prefix+"_rows_imported", summary.TotalSuccess)
	s.Add(prefix+"_rows_failed", summary.TotalErrors)
	s.Add(prefix+"_rows_dropped", summary.Dropped)
	s.Add(prefix+"_team_failures", summary.TeamFailures)
	if !summary.OK() {
		s.Increment(prefix + "_runs_failed")
	}
}

// GetAll returns all metrics from the database.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT key, value FROM metrics")
	if err != nil {
		return nil, fmt.Errorf("querying metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metrics[key] = value
	}
	return metrics, rows.Err()
}
