package roster

import "time"

// ImportKind names what an import run loaded.
type ImportKind string

const (
	KindPlayers   ImportKind = "players"
	KindChecklist ImportKind = "checklist"
)

// TeamSummary tallies the rows of a single team.
type TeamSummary struct {
	Name    string `msgpack:"name"`
	ID      string `msgpack:"id"`
	Created bool   `msgpack:"created"`
	Success int    `msgpack:"success"`
	Errors  int    `msgpack:"errors"`
	// Failure is set when the team itself could not be resolved; none of its
	// rows were attempted.
	Failure string `msgpack:"failure,omitempty"`
}

// Summary is the outcome of one import run.
type Summary struct {
	Kind         ImportKind    `msgpack:"kind"`
	TournamentID string        `msgpack:"tournament_id"`
	Tournament   string        `msgpack:"tournament"`
	Teams        []TeamSummary `msgpack:"teams"`
	TotalSuccess int           `msgpack:"total_success"`
	TotalErrors  int           `msgpack:"total_errors"`
	TeamFailures int           `msgpack:"team_failures"`
	Dropped      int           `msgpack:"dropped"`
	Failures     []Failure     `msgpack:"failures,omitempty"`
	DryRun       bool          `msgpack:"dry_run"`
	Duration     time.Duration `msgpack:"duration"`

	// Fatal holds the error that stopped the run early, if any.
	Fatal string `msgpack:"fatal,omitempty"`
}

// OK reports whether the run completed and every row and team succeeded.
func (s *Summary) OK() bool {
	return s.Fatal == "" && s.TotalErrors == 0 && s.TeamFailures == 0
}

// Failure scopes.
const (
	ScopeRow  = "row"
	ScopeTeam = "team"
)

// Failure describes one row or team that could not be imported.
type Failure struct {
	Scope  string `msgpack:"scope"`
	Line   int    `msgpack:"line,omitempty"`
	Team   string `msgpack:"team,omitempty"`
	Name   string `msgpack:"name,omitempty"`
	Reason string `msgpack:"reason"`
}
