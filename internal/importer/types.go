package importer

import (
	"errors"
	"time"

	"github.com/mauv0809/tournament-importer/internal/fields"
	"github.com/mauv0809/tournament-importer/internal/metrics"
	"github.com/mauv0809/tournament-importer/internal/pubsub"
)

var (
	// ErrNoProfiles means no user exists to own a new tournament or captain a new team.
	ErrNoProfiles = errors.New("no profiles available; create one first")
	// ErrMissingField marks a row without a required value.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidCategory marks a checklist row whose category is not recognised.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrTeamNotFound is returned when teams may not be created and the team does not exist.
	ErrTeamNotFound = errors.New("team does not exist; create it first")
	// ErrNoTournament is returned when a checklist import has no target tournament.
	ErrNoTournament = errors.New("a tournament id is required")
)

// Importer loads spreadsheet rows into the store.
type Importer struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	resolver *fields.Resolver
	now      func() time.Time
}

// PlayerOptions controls a player import.
type PlayerOptions struct {
	// TournamentName is found or created. Defaults to roster.DefaultTournamentName.
	TournamentName string
	// TournamentDate is used as start and end date of a new tournament. Today when blank or unparseable.
	TournamentDate string
	// ExistingTeamsOnly skips teams that are not already in the store.
	ExistingTeamsOnly bool
	DryRun            bool
}

// ChecklistOptions controls a checklist import.
type ChecklistOptions struct {
	TournamentID   string
	TournamentName string
	DryRun         bool
}

// RowResult is the outcome of one row.
type RowResult struct {
	Line int
	Name string
	ID   string
	Err  error
}

// OK reports whether the row was stored.
func (r RowResult) OK() bool {
	return r.Err == nil
}

// teamGroup holds the rows of one team in file order.
type teamGroup struct {
	Name string
	Rows []fields.Row
}

// run carries the lookups made during a single import.
type run struct {
	dryRun      bool
	tournaments map[string]string
	teams       map[teamKey]string
}

type teamKey struct {
	tournamentID string
	name         string
}

func newRun(dryRun bool) *run {
	return &run{
		dryRun:      dryRun,
		tournaments: make(map[string]string),
		teams:       make(map[teamKey]string),
	}
}
