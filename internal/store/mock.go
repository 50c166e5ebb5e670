package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/tournament-importer/internal/roster"
)

var _ Store = (*MockStore)(nil)

// MockStore is an in-memory Store for tests. Without hooks it behaves like an
// empty database that accepts every write.
// It is safe for concurrent use.
type MockStore struct {
	mu  sync.Mutex
	seq int

	// Spies for method calls
	FindTournamentByNameFunc func(ctx context.Context, name string) (*roster.Tournament, error)
	FindTournamentByIDFunc   func(ctx context.Context, id string) (*roster.Tournament, error)
	CreateTournamentFunc     func(ctx context.Context, t roster.Tournament) (string, error)
	FindTeamFunc             func(ctx context.Context, tournamentID, name string) (*roster.Team, error)
	CreateTeamFunc           func(ctx context.Context, team roster.Team) (string, error)
	FindUserByRoleFunc       func(ctx context.Context, role string) (string, error)
	FindAnyProfileFunc       func(ctx context.Context) (string, error)
	InsertPlayerFunc         func(ctx context.Context, p roster.Player) (string, error)
	InsertChecklistItemFunc  func(ctx context.Context, item roster.ChecklistItem) (string, error)
	CreateProfileFunc        func(ctx context.Context, p roster.Profile) (string, error)
	AssignRoleFunc           func(ctx context.Context, userID, role string) error

	// Call records
	CreateTournamentCalls    []roster.Tournament
	FindTeamCalls            []FindTeamCall
	CreateTeamCalls          []roster.Team
	InsertPlayerCalls        []roster.Player
	InsertChecklistItemCalls []roster.ChecklistItem
	CreateProfileCalls       []roster.Profile
	AssignRoleCalls          []AssignRoleCall
}

// FindTeamCall holds the arguments for a call to FindTeam.
type FindTeamCall struct {
	TournamentID string
	Name         string
}

// AssignRoleCall holds the arguments for a call to AssignRole.
type AssignRoleCall struct {
	UserID string
	Role   string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *MockStore) FindTournamentByName(ctx context.Context, name string) (*roster.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindTournamentByNameFunc != nil {
		return m.FindTournamentByNameFunc(ctx, name)
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindTournamentByID(ctx context.Context, id string) (*roster.Tournament, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindTournamentByIDFunc != nil {
		return m.FindTournamentByIDFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) CreateTournament(ctx context.Context, t roster.Tournament) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateTournamentCalls = append(m.CreateTournamentCalls, t)
	if m.CreateTournamentFunc != nil {
		return m.CreateTournamentFunc(ctx, t)
	}
	return m.nextID("tournament"), nil
}

func (m *MockStore) FindTeam(ctx context.Context, tournamentID, name string) (*roster.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindTeamCalls = append(m.FindTeamCalls, FindTeamCall{TournamentID: tournamentID, Name: name})
	if m.FindTeamFunc != nil {
		return m.FindTeamFunc(ctx, tournamentID, name)
	}
	return nil, ErrNotFound
}

func (m *MockStore) CreateTeam(ctx context.Context, team roster.Team) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateTeamCalls = append(m.CreateTeamCalls, team)
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(ctx, team)
	}
	return m.nextID("team"), nil
}

func (m *MockStore) FindUserByRole(ctx context.Context, role string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindUserByRoleFunc != nil {
		return m.FindUserByRoleFunc(ctx, role)
	}
	return "", ErrNotFound
}

func (m *MockStore) FindAnyProfile(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindAnyProfileFunc != nil {
		return m.FindAnyProfileFunc(ctx)
	}
	return "profile-1", nil
}

func (m *MockStore) InsertPlayer(ctx context.Context, p roster.Player) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertPlayerCalls = append(m.InsertPlayerCalls, p)
	if m.InsertPlayerFunc != nil {
		return m.InsertPlayerFunc(ctx, p)
	}
	return m.nextID("player"), nil
}

func (m *MockStore) InsertChecklistItem(ctx context.Context, item roster.ChecklistItem) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertChecklistItemCalls = append(m.InsertChecklistItemCalls, item)
	if m.InsertChecklistItemFunc != nil {
		return m.InsertChecklistItemFunc(ctx, item)
	}
	return m.nextID("item"), nil
}

func (m *MockStore) CreateProfile(ctx context.Context, p roster.Profile) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateProfileCalls = append(m.CreateProfileCalls, p)
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, p)
	}
	return m.nextID("profile"), nil
}

func (m *MockStore) AssignRole(ctx context.Context, userID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AssignRoleCalls = append(m.AssignRoleCalls, AssignRoleCall{UserID: userID, Role: role})
	if m.AssignRoleFunc != nil {
		return m.AssignRoleFunc(ctx, userID, role)
	}
	return nil
}
