package notifier

import (
	"sync"

	"github.com/mauv0809/tournament-importer/internal/roster"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendImportSummaryFunc func(summary *roster.Summary, dryRun bool) error

	// Call records
	SendImportSummaryCalls []SendImportSummaryCall
}

// SendImportSummaryCall holds the arguments for a call to SendImportSummary.
type SendImportSummaryCall struct {
	Summary *roster.Summary
	DryRun  bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendImportSummary(summary *roster.Summary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendImportSummaryCalls = append(m.SendImportSummaryCalls, SendImportSummaryCall{Summary: summary, DryRun: dryRun})
	if m.SendImportSummaryFunc != nil {
		return m.SendImportSummaryFunc(summary, dryRun)
	}
	return nil
}
