package importer

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/fields"
	"github.com/mauv0809/tournament-importer/internal/metrics"
	"github.com/mauv0809/tournament-importer/internal/pubsub"
	"github.com/mauv0809/tournament-importer/internal/roster"
)

// New creates a new Importer. A nil resolver uses the built-in synonym table.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, resolver *fields.Resolver) *Importer {
	if resolver == nil {
		resolver = fields.Default()
	}
	return &Importer{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		resolver: resolver,
		now:      time.Now,
	}
}

// finish logs the totals and announces the run. Announcement failures are
// logged only; they never change the outcome of the import.
func (i *Importer) finish(summary *roster.Summary, start time.Time) {
	summary.Duration = time.Since(start)
	i.metrics.SetRunDuration(summary.Kind, summary.Duration.Seconds())

	log.Info("Import complete",
		"kind", summary.Kind,
		"tournament_id", summary.TournamentID,
		"imported", summary.TotalSuccess,
		"failed", summary.TotalErrors,
		"team_failures", summary.TeamFailures,
		"dropped", summary.Dropped,
		"duration", summary.Duration.Round(time.Millisecond),
	)
	for _, f := range summary.Failures {
		log.Warn("Not imported", "scope", f.Scope, "line", f.Line, "team", f.Team, "name", f.Name, "reason", f.Reason)
	}

	if !summary.DryRun {
		event := pubsub.EventImportCompleted
		if !summary.OK() {
			event = pubsub.EventImportFailed
		}
		if err := i.pubsub.SendMessage(event, summary); err != nil {
			log.Error("Failed to publish import event", "error", err, "event", event)
		}
	}
	if err := i.notifier.SendImportSummary(summary, summary.DryRun); err != nil {
		log.Error("Failed to send import summary", "error", err)
	}
}

// abort records err as the reason the run stopped and announces it like any
// other finished run. It returns err unchanged.
func (i *Importer) abort(summary *roster.Summary, start time.Time, err error) error {
	summary.Fatal = err.Error()
	log.Error("Import aborted", "kind", summary.Kind, "error", err)
	i.finish(summary, start)
	return err
}

// warnMissingColumns logs, once per file, every field no header can satisfy.
func (i *Importer) warnMissingColumns(rows []fields.Row, required, optional []fields.Field) {
	if len(rows) == 0 {
		return
	}
	headers := rows[0].Headers()
	for _, f := range i.resolver.Missing(headers, required...) {
		log.Warn("Required column not found; every row will fail", "field", f)
	}
	for _, f := range i.resolver.Missing(headers, optional...) {
		log.Warn("Optional column not found", "field", f)
	}
}

func (i *Importer) today() time.Time {
	y, m, d := i.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
