package importer

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/fields"
	"github.com/mauv0809/tournament-importer/internal/metrics"
	"github.com/mauv0809/tournament-importer/internal/notifier"
	"github.com/mauv0809/tournament-importer/internal/pubsub"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/mauv0809/tournament-importer/internal/sheet"
	"github.com/mauv0809/tournament-importer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registrationCSV = `Timestamp,Team Name (टीम का नाम):,Community (समुदाय):,Player Full Name ( खिलाड़ी पूरा का नाम):,Gender (लिंग):,Date of Birth (DOB) (जन्म तिथि):,Contact Number (संपर्क नंबर):,Parents Contact Number (संपर्क नंबर):,Participating on which day?(किस दिन भाग ले रहे हैं?),Permissions (अनुमतियाँ):,Standard WFDF Accreditation Certificate,Any Queries or Comments (कोई प्रश्न या टिप्पणी):
3/14/2025 10:22:01,Red Hawks,Pune,Asha Rao,Female (महिला),05/03/2010,8888888888,9999999999,Day 1 (दिन 1),Yes,Google Drive Links,
3/15/2025 09:00:00,Blue Jays,,Vikram Singh,Male (पुरुष),12/25/2009,7777777777,,Both Days (दोनो दिन),"Parents give permission, media ok",https://drive.example/cert,Need a ride
`

type testDeps struct {
	metrics  *metrics.Mock
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

func newTestImporter(s Store) (*Importer, testDeps) {
	deps := testDeps{
		metrics:  metrics.NewMock(),
		notifier: notifier.NewMock(),
		pubsub:   pubsub.NewMock(),
	}
	return New(s, deps.notifier, deps.metrics, deps.pubsub, nil), deps
}

func readRows(t *testing.T, csv string) []fields.Row {
	t.Helper()
	rows, err := sheet.Read(strings.NewReader(csv))
	require.NoError(t, err)
	return rows
}

func simpleRows(t *testing.T, pairs ...string) []fields.Row {
	t.Helper()
	var b strings.Builder
	b.WriteString("Team Name,Player Full Name,Community\n")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pairs[i] + "," + pairs[i+1] + ",\n")
	}
	return readRows(t, b.String())
}

func setupSQLStore(t *testing.T) (store.Store, *database.DB) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return store.New(db), db
}

func TestImportPlayers_EndToEnd(t *testing.T) {
	s, db := setupSQLStore(t)
	ctx := context.Background()
	adminID, err := s.CreateProfile(ctx, roster.Profile{FullName: "Admin", Email: "admin@example.com"})
	require.NoError(t, err)
	require.NoError(t, s.AssignRole(ctx, adminID, roster.RoleAdmin))

	imp, deps := newTestImporter(s)
	rows := readRows(t, registrationCSV)

	summary, err := imp.ImportPlayers(ctx, rows, PlayerOptions{})
	require.NoError(t, err)
	assert.True(t, summary.OK())
	assert.Equal(t, 2, summary.TotalSuccess)
	assert.Equal(t, 0, summary.TotalErrors)
	assert.Equal(t, roster.DefaultTournamentName, summary.Tournament)
	require.Len(t, summary.Teams, 2)
	assert.Equal(t, "Red Hawks", summary.Teams[0].Name)
	assert.True(t, summary.Teams[0].Created)
	assert.Equal(t, 1, deps.metrics.TournamentsCreated())
	assert.Equal(t, 2, deps.metrics.TeamsCreated())
	assert.Equal(t, 2, deps.metrics.RowsImported(roster.KindPlayers))

	var location, status, createdBy string
	var startDate time.Time
	err = db.QueryRow("SELECT location, status, created_by, start_date FROM tournaments WHERE id = ?", summary.TournamentID).
		Scan(&location, &status, &createdBy, &startDate)
	require.NoError(t, err)
	assert.Equal(t, roster.DefaultTournamentLocation, location)
	assert.Equal(t, roster.TournamentStatusRegistrationOpen, status)
	assert.Equal(t, adminID, createdBy)
	assert.Equal(t, time.Now().Format(time.DateOnly), startDate.Format(time.DateOnly))

	var email, phone, teamStatus, community string
	err = db.QueryRow("SELECT email, phone, status, community FROM teams WHERE name = 'Blue Jays'").
		Scan(&email, &phone, &teamStatus, &community)
	require.NoError(t, err)
	assert.Equal(t, "blue_jays@team.local", email)
	assert.Equal(t, roster.PlaceholderPhone, phone)
	assert.Equal(t, roster.TeamStatusApproved, teamStatus)
	assert.Equal(t, roster.DefaultCommunity, community)

	var (
		gender, days, playerEmail string
		parental, media           bool
		dob                       time.Time
		cert, parentContact       sql.NullString
		playerCommunity           sql.NullString
		registered                time.Time
	)
	err = db.QueryRow(`SELECT gender, participation_days, email, parental_consent, media_consent, date_of_birth,
		standard_wfdf_certificate_url, parent_contact, community, registration_timestamp
		FROM team_players WHERE name = 'Asha Rao'`).
		Scan(&gender, &days, &playerEmail, &parental, &media, &dob, &cert, &parentContact, &playerCommunity, &registered)
	require.NoError(t, err)
	assert.Equal(t, "female", gender)
	assert.Equal(t, "day_1", days)
	assert.Equal(t, "asha_rao@temp.local", playerEmail)
	assert.True(t, parental)
	assert.False(t, media)
	assert.Equal(t, "2010-03-05", dob.Format(time.DateOnly))
	assert.False(t, cert.Valid, "the form placeholder is not stored as a certificate")
	assert.Equal(t, "9999999999", parentContact.String)
	assert.Equal(t, "Pune", playerCommunity.String)
	assert.Equal(t, time.Date(2025, 3, 14, 10, 22, 1, 0, time.UTC), registered.UTC())

	err = db.QueryRow(`SELECT gender, participation_days, parental_consent, media_consent, date_of_birth, standard_wfdf_certificate_url
		FROM team_players WHERE name = 'Vikram Singh'`).
		Scan(&gender, &days, &parental, &media, &dob, &cert)
	require.NoError(t, err)
	assert.Equal(t, "male", gender)
	assert.Equal(t, "both_days", days)
	assert.True(t, parental)
	assert.True(t, media)
	assert.Equal(t, "2009-12-25", dob.Format(time.DateOnly))
	assert.Equal(t, "https://drive.example/cert", cert.String)

	// A second run reuses the tournament and teams but stores the players again.
	again, err := imp.ImportPlayers(ctx, rows, PlayerOptions{})
	require.NoError(t, err)
	assert.Equal(t, summary.TournamentID, again.TournamentID)
	assert.False(t, again.Teams[0].Created)

	var tournaments, teams, players int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM tournaments").Scan(&tournaments))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&teams))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM team_players").Scan(&players))
	assert.Equal(t, 1, tournaments)
	assert.Equal(t, 2, teams)
	assert.Equal(t, 4, players)
}

func TestImportPlayers_NoProfilesIsFatal(t *testing.T) {
	s := store.NewMock()
	s.FindAnyProfileFunc = func(ctx context.Context) (string, error) { return "", store.ErrNotFound }
	imp, deps := newTestImporter(s)

	summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "Asha"), PlayerOptions{})
	require.ErrorIs(t, err, ErrNoProfiles)
	assert.Empty(t, s.CreateTournamentCalls)
	assert.Empty(t, s.InsertPlayerCalls)

	require.NotNil(t, summary)
	assert.False(t, summary.OK())
	assert.Equal(t, ErrNoProfiles.Error(), summary.Fatal)
	require.Len(t, deps.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventImportFailed, deps.pubsub.SendMessageCalls[0].Topic)
	require.Len(t, deps.notifier.SendImportSummaryCalls, 1)
	assert.Same(t, summary, deps.notifier.SendImportSummaryCalls[0].Summary)
}

func TestImportPlayers_StoreErrorDuringTournamentLookupIsFatal(t *testing.T) {
	s := store.NewMock()
	s.FindTournamentByNameFunc = func(ctx context.Context, name string) (*roster.Tournament, error) {
		return nil, errors.New("connection refused")
	}
	imp, deps := newTestImporter(s)

	summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "Asha"), PlayerOptions{})
	require.ErrorContains(t, err, "connection refused")
	assert.Empty(t, s.InsertPlayerCalls)
	assert.Contains(t, summary.Fatal, "connection refused")
	require.Len(t, deps.pubsub.SendMessageCalls, 1)
	assert.Equal(t, pubsub.EventImportFailed, deps.pubsub.SendMessageCalls[0].Topic)
}

func TestImportPlayers_TournamentCreation(t *testing.T) {
	t.Run("admin owns the tournament and the given date is used", func(t *testing.T) {
		s := store.NewMock()
		s.FindUserByRoleFunc = func(ctx context.Context, role string) (string, error) {
			assert.Equal(t, roster.RoleAdmin, role)
			return "admin-1", nil
		}
		imp, _ := newTestImporter(s)

		summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "Asha"), PlayerOptions{
			TournamentName: "Spring Cup",
			TournamentDate: "25/12/2025",
		})
		require.NoError(t, err)
		require.Len(t, s.CreateTournamentCalls, 1)

		created := s.CreateTournamentCalls[0]
		assert.Equal(t, "Spring Cup", created.Name)
		assert.Equal(t, "admin-1", created.CreatedBy)
		assert.Equal(t, roster.DefaultTournamentLocation, created.Location)
		assert.Equal(t, roster.TournamentStatusRegistrationOpen, created.Status)
		assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), created.StartDate)
		assert.Equal(t, created.StartDate, created.EndDate)
		assert.Equal(t, "tournament-1", summary.TournamentID)
	})

	t.Run("falls back to any profile and today", func(t *testing.T) {
		s := store.NewMock()
		imp, _ := newTestImporter(s)
		imp.now = func() time.Time { return time.Date(2025, 6, 1, 18, 30, 0, 0, time.Local) }

		_, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "Asha"), PlayerOptions{TournamentDate: "not a date"})
		require.NoError(t, err)
		require.Len(t, s.CreateTournamentCalls, 1)
		assert.Equal(t, "profile-1", s.CreateTournamentCalls[0].CreatedBy)
		assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), s.CreateTournamentCalls[0].StartDate)
	})

	t.Run("existing tournament is reused", func(t *testing.T) {
		s := store.NewMock()
		s.FindTournamentByNameFunc = func(ctx context.Context, name string) (*roster.Tournament, error) {
			return &roster.Tournament{ID: "t-42", Name: name}, nil
		}
		imp, _ := newTestImporter(s)

		summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "Asha"), PlayerOptions{})
		require.NoError(t, err)
		assert.Empty(t, s.CreateTournamentCalls)
		assert.Equal(t, "t-42", summary.TournamentID)
		require.Len(t, s.FindTeamCalls, 1)
		assert.Equal(t, "t-42", s.FindTeamCalls[0].TournamentID)
	})
}

func TestImportPlayers_GroupsTeamsInFirstSeenOrder(t *testing.T) {
	s := store.NewMock()
	imp, _ := newTestImporter(s)

	rows := simpleRows(t, "Red Hawks", "A1", "Blue Jays", "B1", "Red Hawks", "A2", "", "Nobody")
	summary, err := imp.ImportPlayers(context.Background(), rows, PlayerOptions{})
	require.NoError(t, err)

	require.Len(t, summary.Teams, 2)
	assert.Equal(t, "Red Hawks", summary.Teams[0].Name)
	assert.Equal(t, 2, summary.Teams[0].Success)
	assert.Equal(t, "Blue Jays", summary.Teams[1].Name)
	assert.Equal(t, 1, summary.Dropped)
	assert.True(t, summary.OK(), "dropped rows do not fail the run")

	var names []string
	for _, p := range s.InsertPlayerCalls {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"A1", "A2", "B1"}, names)
}

func TestImportPlayers_TeamCommunityFromFirstRow(t *testing.T) {
	s := store.NewMock()
	imp, _ := newTestImporter(s)

	rows := readRows(t, "Team Name,Player Full Name,Community\nRed Hawks,A1,Pune\nRed Hawks,A2,Mumbai\nBlue Jays,B1,\n")
	_, err := imp.ImportPlayers(context.Background(), rows, PlayerOptions{})
	require.NoError(t, err)

	require.Len(t, s.CreateTeamCalls, 2)
	assert.Equal(t, "Pune", s.CreateTeamCalls[0].Community)
	assert.Equal(t, "red_hawks@team.local", s.CreateTeamCalls[0].Email)
	assert.Equal(t, roster.DefaultCommunity, s.CreateTeamCalls[1].Community)
	assert.Equal(t, "Mumbai", s.InsertPlayerCalls[1].Community, "players keep their own community")
}

func TestImportPlayers_TeamFailureIsIsolated(t *testing.T) {
	s := store.NewMock()
	s.CreateTeamFunc = func(ctx context.Context, team roster.Team) (string, error) {
		if team.Name == "Blue Jays" {
			return "", errors.New("constraint violation")
		}
		return "team-ok", nil
	}
	imp, deps := newTestImporter(s)

	rows := simpleRows(t, "Blue Jays", "B1", "Red Hawks", "A1", "Blue Jays", "B2")
	summary, err := imp.ImportPlayers(context.Background(), rows, PlayerOptions{})
	require.NoError(t, err)

	assert.False(t, summary.OK())
	assert.Equal(t, 1, summary.TeamFailures)
	assert.Equal(t, 1, summary.TotalSuccess)
	assert.Equal(t, 0, summary.TotalErrors)
	assert.Contains(t, summary.Teams[0].Failure, "constraint violation")
	require.Len(t, s.InsertPlayerCalls, 1)
	assert.Equal(t, "team-ok", s.InsertPlayerCalls[0].TeamID)
	assert.Equal(t, 1, deps.metrics.TeamsFailed())

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, roster.ScopeTeam, summary.Failures[0].Scope)
	assert.Equal(t, 2, summary.Failures[0].Line)
}

func TestImportPlayers_NoCaptainFailsTeamOnly(t *testing.T) {
	s := store.NewMock()
	s.FindTournamentByNameFunc = func(ctx context.Context, name string) (*roster.Tournament, error) {
		return &roster.Tournament{ID: "t-1"}, nil
	}
	s.FindTeamFunc = func(ctx context.Context, tournamentID, name string) (*roster.Team, error) {
		if name == "Red Hawks" {
			return &roster.Team{ID: "team-red"}, nil
		}
		return nil, store.ErrNotFound
	}
	s.FindAnyProfileFunc = func(ctx context.Context) (string, error) { return "", store.ErrNotFound }
	imp, _ := newTestImporter(s)

	summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "A1", "Blue Jays", "B1"), PlayerOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TeamFailures)
	assert.Equal(t, 1, summary.TotalSuccess)
	assert.Equal(t, ErrNoProfiles.Error(), summary.Teams[1].Failure)
}

func TestImportPlayers_ExistingTeamsOnly(t *testing.T) {
	s := store.NewMock()
	s.FindTeamFunc = func(ctx context.Context, tournamentID, name string) (*roster.Team, error) {
		if name == "Red Hawks" {
			return &roster.Team{ID: "team-red", Name: name}, nil
		}
		return nil, store.ErrNotFound
	}
	imp, _ := newTestImporter(s)

	summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "A1", "Blue Jays", "B1"), PlayerOptions{ExistingTeamsOnly: true})
	require.NoError(t, err)
	assert.Empty(t, s.CreateTeamCalls)
	assert.Equal(t, 1, summary.TeamFailures)
	assert.Equal(t, ErrTeamNotFound.Error(), summary.Teams[1].Failure)
	require.Len(t, s.InsertPlayerCalls, 1)
	assert.Equal(t, "team-red", s.InsertPlayerCalls[0].TeamID)
}

func TestImportPlayers_RowFailureIsIsolated(t *testing.T) {
	s := store.NewMock()
	s.InsertPlayerFunc = func(ctx context.Context, p roster.Player) (string, error) {
		if p.Name == "Bad" {
			return "", errors.New("value too long")
		}
		return "player-ok", nil
	}
	imp, deps := newTestImporter(s)

	rows := simpleRows(t, "Red Hawks", "A1", "Red Hawks", "Bad", "Red Hawks", "A3")
	summary, err := imp.ImportPlayers(context.Background(), rows, PlayerOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalSuccess)
	assert.Equal(t, 1, summary.TotalErrors)
	assert.False(t, summary.OK())
	assert.Len(t, s.InsertPlayerCalls, 3, "rows after the failure are still attempted")
	assert.Equal(t, 1, deps.metrics.RowsFailed(roster.KindPlayers))
	assert.Len(t, deps.metrics.RowDurations(), 3)

	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "Bad", summary.Failures[0].Name)
	assert.Equal(t, 3, summary.Failures[0].Line)
}

func TestImportPlayers_MissingPlayerName(t *testing.T) {
	s := store.NewMock()
	imp, _ := newTestImporter(s)

	summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "", "Red Hawks", "A2"), PlayerOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalErrors)
	assert.Equal(t, 1, summary.TotalSuccess)
	assert.Contains(t, summary.Failures[0].Reason, ErrMissingField.Error())
}

func TestImportPlayers_DryRun(t *testing.T) {
	s := store.NewMock()
	imp, deps := newTestImporter(s)

	summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "A1", "Blue Jays", "B1"), PlayerOptions{DryRun: true})
	require.NoError(t, err)

	assert.Empty(t, s.CreateTournamentCalls)
	assert.Empty(t, s.CreateTeamCalls)
	assert.Empty(t, s.InsertPlayerCalls)
	assert.Len(t, s.FindTeamCalls, 2, "lookups still run")
	assert.Equal(t, 2, summary.TotalSuccess)
	assert.True(t, summary.DryRun)
	assert.True(t, strings.HasPrefix(summary.TournamentID, "dry-run-"))

	assert.Empty(t, deps.pubsub.SendMessageCalls, "dry runs publish nothing")
	require.Len(t, deps.notifier.SendImportSummaryCalls, 1)
	assert.True(t, deps.notifier.SendImportSummaryCalls[0].DryRun)
}

func TestImportPlayers_Announcements(t *testing.T) {
	t.Run("successful run", func(t *testing.T) {
		imp, deps := newTestImporter(store.NewMock())
		summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "A1"), PlayerOptions{})
		require.NoError(t, err)

		require.Len(t, deps.pubsub.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventImportCompleted, deps.pubsub.SendMessageCalls[0].Topic)
		assert.Same(t, summary, deps.pubsub.SendMessageCalls[0].Data)
		require.Len(t, deps.notifier.SendImportSummaryCalls, 1)
		assert.Same(t, summary, deps.notifier.SendImportSummaryCalls[0].Summary)
	})

	t.Run("failed rows and broken side channels", func(t *testing.T) {
		s := store.NewMock()
		s.InsertPlayerFunc = func(ctx context.Context, p roster.Player) (string, error) { return "", errors.New("nope") }
		imp, deps := newTestImporter(s)
		deps.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error { return errors.New("pubsub down") }
		deps.notifier.SendImportSummaryFunc = func(summary *roster.Summary, dryRun bool) error { return errors.New("slack down") }

		summary, err := imp.ImportPlayers(context.Background(), simpleRows(t, "Red Hawks", "A1"), PlayerOptions{})
		require.NoError(t, err, "notification failures never fail the import")
		assert.Equal(t, 1, summary.TotalErrors)
		require.Len(t, deps.pubsub.SendMessageCalls, 1)
		assert.Equal(t, pubsub.EventImportFailed, deps.pubsub.SendMessageCalls[0].Topic)
	})
}

func TestImportPlayers_CancelledContext(t *testing.T) {
	s := store.NewMock()
	imp, _ := newTestImporter(s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := imp.ImportPlayers(ctx, simpleRows(t, "Red Hawks", "A1"), PlayerOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.InsertPlayerCalls)
}
