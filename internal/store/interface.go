package store

import (
	"context"
	"errors"

	"github.com/mauv0809/tournament-importer/internal/roster"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Store is the relational record of tournaments, teams, players and checklists.
type Store interface {
	FindTournamentByName(ctx context.Context, name string) (*roster.Tournament, error)
	FindTournamentByID(ctx context.Context, id string) (*roster.Tournament, error)
	CreateTournament(ctx context.Context, t roster.Tournament) (string, error)
	FindTeam(ctx context.Context, tournamentID, name string) (*roster.Team, error)
	CreateTeam(ctx context.Context, team roster.Team) (string, error)
	FindUserByRole(ctx context.Context, role string) (string, error)
	FindAnyProfile(ctx context.Context) (string, error)
	InsertPlayer(ctx context.Context, p roster.Player) (string, error)
	InsertChecklistItem(ctx context.Context, item roster.ChecklistItem) (string, error)
	CreateProfile(ctx context.Context, p roster.Profile) (string, error)
	AssignRole(ctx context.Context, userID, role string) error
}
