package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/roster"
)

var _ Store = (*sqlStore)(nil)

// New creates a Store backed by db.
func New(db *database.DB) Store {
	return &sqlStore{db: db}
}

func (s *sqlStore) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, s.db.Dialect.Rebind(query), args...)
	return err
}

func (s *sqlStore) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.db.Dialect.Rebind(query), args...)
}

// FindTournamentByName returns the oldest tournament with exactly this name.
func (s *sqlStore) FindTournamentByName(ctx context.Context, name string) (*roster.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.queryRow(ctx, `
		SELECT id, name, start_date, end_date, location, status, created_by
		FROM tournaments
		WHERE name = ?
		ORDER BY created_at, id
		LIMIT 1`, name)
	t, err := scanTournament(row)
	if err != nil {
		return nil, fmt.Errorf("finding tournament %q: %w", name, err)
	}
	return t, nil
}

func (s *sqlStore) FindTournamentByID(ctx context.Context, id string) (*roster.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.queryRow(ctx, `
		SELECT id, name, start_date, end_date, location, status, created_by
		FROM tournaments
		WHERE id = ?`, id)
	t, err := scanTournament(row)
	if err != nil {
		return nil, fmt.Errorf("finding tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *sqlStore) CreateTournament(ctx context.Context, t roster.Tournament) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	err := s.exec(ctx, `
		INSERT INTO tournaments (id, name, start_date, end_date, location, status, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, t.Name, t.StartDate, t.EndDate, t.Location, t.Status, t.CreatedBy)
	if err != nil {
		return "", fmt.Errorf("creating tournament %q: %w", t.Name, err)
	}
	log.Debug("Inserted tournament", "id", id, "name", t.Name)
	return id, nil
}

// FindTeam looks a team up by its natural key.
func (s *sqlStore) FindTeam(ctx context.Context, tournamentID, name string) (*roster.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var team roster.Team
	var community sql.NullString
	err := s.queryRow(ctx, `
		SELECT id, tournament_id, name, captain_id, email, phone, status, community
		FROM teams
		WHERE tournament_id = ? AND name = ?`, tournamentID, name).
		Scan(&team.ID, &team.TournamentID, &team.Name, &team.CaptainID, &team.Email, &team.Phone, &team.Status, &community)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding team %q: %w", name, err)
	}
	team.Community = community.String
	return &team, nil
}

func (s *sqlStore) CreateTeam(ctx context.Context, team roster.Team) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	err := s.exec(ctx, `
		INSERT INTO teams (id, tournament_id, name, captain_id, email, phone, status, community)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, team.TournamentID, team.Name, team.CaptainID, team.Email, team.Phone, team.Status, nullString(team.Community))
	if err != nil {
		return "", fmt.Errorf("creating team %q: %w", team.Name, err)
	}
	return id, nil
}

// FindUserByRole returns the id of the earliest user holding role.
func (s *sqlStore) FindUserByRole(ctx context.Context, role string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.queryRow(ctx, `
		SELECT user_id FROM user_roles
		WHERE role = ?
		ORDER BY created_at, id
		LIMIT 1`, role).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("finding user with role %s: %w", role, err)
	}
	return id, nil
}

// FindAnyProfile returns the id of the earliest profile.
func (s *sqlStore) FindAnyProfile(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.queryRow(ctx, `SELECT id FROM profiles ORDER BY created_at, id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("finding a profile: %w", err)
	}
	return id, nil
}

func (s *sqlStore) InsertPlayer(ctx context.Context, p roster.Player) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	err := s.exec(ctx, `
		INSERT INTO team_players (
			id, team_id, name, email, gender, date_of_birth, contact_number, parent_contact,
			participation_days, parental_consent, media_consent, queries_comments,
			standard_wfdf_certificate_url, advance_wfdf_certificate_url, community,
			registration_timestamp, verified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.TeamID, p.Name, p.Email, string(p.Gender), p.DateOfBirth,
		nullString(p.ContactNumber), nullString(p.ParentContact),
		string(p.ParticipationDays), p.ParentalConsent, p.MediaConsent, nullString(p.QueriesComments),
		nullString(p.StandardCertURL), nullString(p.AdvanceCertURL), nullString(p.Community),
		p.RegistrationTimestamp, p.Verified)
	if err != nil {
		return "", fmt.Errorf("inserting player %q: %w", p.Name, err)
	}
	return id, nil
}

func (s *sqlStore) InsertChecklistItem(ctx context.Context, item roster.ChecklistItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	err := s.exec(ctx, `
		INSERT INTO tournament_checklists (id, tournament_id, category, task_name, description, priority, due_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, item.TournamentID, string(item.Category), item.TaskName, nullString(item.Description),
		string(item.Priority), item.DueDate, item.Status)
	if err != nil {
		return "", fmt.Errorf("inserting checklist item %q: %w", item.TaskName, err)
	}
	return id, nil
}

// CreateProfile adds a user profile. An empty ID gets a generated one.
func (s *sqlStore) CreateProfile(ctx context.Context, p roster.Profile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}
	if err := s.exec(ctx, `INSERT INTO profiles (id, full_name, email) VALUES (?, ?, ?)`, id, p.FullName, p.Email); err != nil {
		return "", fmt.Errorf("creating profile %q: %w", p.Email, err)
	}
	return id, nil
}

func (s *sqlStore) AssignRole(ctx context.Context, userID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.exec(ctx, `INSERT INTO user_roles (id, user_id, role) VALUES (?, ?, ?)`, uuid.NewString(), userID, role); err != nil {
		return fmt.Errorf("assigning role %s to %s: %w", role, userID, err)
	}
	return nil
}

func scanTournament(row *sql.Row) (*roster.Tournament, error) {
	var t roster.Tournament
	var start, end any
	err := row.Scan(&t.ID, &t.Name, &start, &end, &t.Location, &t.Status, &t.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if t.StartDate, err = parseStoredTime(start); err != nil {
		return nil, fmt.Errorf("reading start_date: %w", err)
	}
	if t.EndDate, err = parseStoredTime(end); err != nil {
		return nil, fmt.Errorf("reading end_date: %w", err)
	}
	return &t, nil
}

// storedTimeLayouts are the text forms drivers return for DATE columns.
// libSQL hands DATE back as text; sqlite3 and pgx return time.Time.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func parseStoredTime(v any) (time.Time, error) {
	var text string
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x, nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case []byte:
		text = string(x)
	case string:
		text = x
	default:
		return time.Time{}, fmt.Errorf("unsupported date value of type %T", v)
	}
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", text)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
