package metrics

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var _ Metrics = (*Service)(nil)

// NewService creates and registers the Prometheus metrics.
// If no registry is provided, a fresh one is used; a batch run has nothing to
// share with the process-wide default registry.
func NewService(registry ...*prometheus.Registry) *Service {
	reg := prometheus.NewRegistry()
	if len(registry) > 0 {
		reg = registry[0]
	}

	s := &Service{
		registry: reg,
		RowsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "importer_rows_imported_total",
			Help: "Rows stored successfully, by import kind.",
		}, []string{"kind"}),
		RowsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "importer_rows_failed_total",
			Help: "Rows that could not be stored, by import kind.",
		}, []string{"kind"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "importer_rows_dropped_total",
			Help: "Rows skipped before processing, such as rows without a team name.",
		}, []string{"kind"}),
		TournamentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "importer_tournaments_created_total",
			Help: "Tournaments created because no tournament had the requested name.",
		}),
		TeamsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "importer_teams_created_total",
			Help: "Teams created during player imports.",
		}),
		TeamsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "importer_teams_failed_total",
			Help: "Teams whose rows were skipped because the team could not be resolved.",
		}),
		RowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "importer_row_duration_seconds",
			Help:    "Time spent normalizing and storing a single row.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		RunDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "importer_run_duration_seconds",
			Help: "Duration of the last import run, by import kind.",
		}, []string{"kind"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "importer_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "importer_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
	}

	reg.MustRegister(
		s.RowsImported,
		s.RowsFailed,
		s.RowsDropped,
		s.TournamentsCreated,
		s.TeamsCreated,
		s.TeamsFailed,
		s.RowDuration,
		s.RunDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
	)

	return s
}

// Registry returns the registry the metrics are registered with.
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Push sends the current values to a Prometheus Pushgateway under job.
func (s *Service) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(s.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	log.Info("Pushed metrics", "url", url, "job", job)
	return nil
}

func (s *Service) IncRowsImported(kind roster.ImportKind) {
	s.RowsImported.WithLabelValues(string(kind)).Inc()
}

func (s *Service) IncRowsFailed(kind roster.ImportKind) {
	s.RowsFailed.WithLabelValues(string(kind)).Inc()
}

func (s *Service) IncRowsDropped(kind roster.ImportKind) {
	s.RowsDropped.WithLabelValues(string(kind)).Inc()
}

func (s *Service) IncTournamentsCreated() {
	s.TournamentsCreated.Inc()
}

func (s *Service) IncTeamsCreated() {
	s.TeamsCreated.Inc()
}

func (s *Service) IncTeamsFailed() {
	s.TeamsFailed.Inc()
}

func (s *Service) ObserveRowDuration(seconds float64) {
	s.RowDuration.Observe(seconds)
}

func (s *Service) SetRunDuration(kind roster.ImportKind, seconds float64) {
	s.RunDuration.WithLabelValues(string(kind)).Set(seconds)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}
