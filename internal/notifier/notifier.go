package notifier

import (
	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/roster"
)

// Notifier defines a high-level interface for announcing import results.
// This decouples the importer from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendImportSummary(summary *roster.Summary, dryRun bool) error
}

// Noop is used when no notification channel is configured.
type Noop struct{}

func (Noop) SendImportSummary(summary *roster.Summary, dryRun bool) error {
	log.Debug("No notifier configured; skipping import summary", "kind", summary.Kind)
	return nil
}
