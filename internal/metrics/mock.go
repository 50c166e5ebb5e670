package metrics

import (
	"sync"

	"github.com/mauv0809/tournament-importer/internal/roster"
)

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	rowsImported       map[roster.ImportKind]int
	rowsFailed         map[roster.ImportKind]int
	rowsDropped        map[roster.ImportKind]int
	tournamentsCreated int
	teamsCreated       int
	teamsFailed        int
	rowDurations       []float64
	runDurations       map[roster.ImportKind]float64
	slackNotifSent     int
	slackNotifFailed   int
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		rowsImported: make(map[roster.ImportKind]int),
		rowsFailed:   make(map[roster.ImportKind]int),
		rowsDropped:  make(map[roster.ImportKind]int),
		runDurations: make(map[roster.ImportKind]float64),
	}
}

func (m *Mock) IncRowsImported(kind roster.ImportKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowsImported[kind]++
}

func (m *Mock) IncRowsFailed(kind roster.ImportKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowsFailed[kind]++
}

func (m *Mock) IncRowsDropped(kind roster.ImportKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowsDropped[kind]++
}

func (m *Mock) IncTournamentsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournamentsCreated++
}

func (m *Mock) IncTeamsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamsCreated++
}

func (m *Mock) IncTeamsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamsFailed++
}

func (m *Mock) ObserveRowDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rowDurations = append(m.rowDurations, seconds)
}

func (m *Mock) SetRunDuration(kind roster.ImportKind, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runDurations[kind] = seconds
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

// RowsImported returns how often IncRowsImported was called for kind.
func (m *Mock) RowsImported(kind roster.ImportKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rowsImported[kind]
}

// RowsFailed returns how often IncRowsFailed was called for kind.
func (m *Mock) RowsFailed(kind roster.ImportKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rowsFailed[kind]
}

// RowsDropped returns how often IncRowsDropped was called for kind.
func (m *Mock) RowsDropped(kind roster.ImportKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rowsDropped[kind]
}

func (m *Mock) TournamentsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tournamentsCreated
}

func (m *Mock) TeamsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamsCreated
}

func (m *Mock) TeamsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamsFailed
}

// RowDurations returns every observed row duration.
func (m *Mock) RowDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.rowDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
