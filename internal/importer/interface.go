package importer

import (
	"context"

	"github.com/mauv0809/tournament-importer/internal/notifier"
	"github.com/mauv0809/tournament-importer/internal/roster"
)

// Store defines the database operations required by the importer.
type Store interface {
	FindTournamentByName(ctx context.Context, name string) (*roster.Tournament, error)
	CreateTournament(ctx context.Context, t roster.Tournament) (string, error)
	FindTeam(ctx context.Context, tournamentID, name string) (*roster.Team, error)
	CreateTeam(ctx context.Context, team roster.Team) (string, error)
	FindUserByRole(ctx context.Context, role string) (string, error)
	FindAnyProfile(ctx context.Context) (string, error)
	InsertPlayer(ctx context.Context, p roster.Player) (string, error)
	InsertChecklistItem(ctx context.Context, item roster.ChecklistItem) (string, error)
}

// Notifier defines the notification operations required by the importer.
type Notifier interface {
	notifier.Notifier
}
