package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/tournament-importer/internal/fields"
	"github.com/mauv0809/tournament-importer/internal/normalize"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/mauv0809/tournament-importer/internal/store"
)

var (
	playerRequired = []fields.Field{fields.TeamName, fields.PlayerName}
	playerOptional = []fields.Field{
		fields.Community, fields.Gender, fields.DateOfBirth, fields.ParticipationDays,
		fields.Permissions, fields.ContactNumber, fields.ParentContact, fields.Timestamp,
		fields.StandardCertURL, fields.AdvanceCertURL, fields.Queries,
	}
)

// ImportPlayers stores registration rows as players, creating the tournament
// and teams they belong to when needed. Only failures that stop the whole run
// are returned as errors; row and team failures are counted in the summary.
func (i *Importer) ImportPlayers(ctx context.Context, rows []fields.Row, opts PlayerOptions) (*roster.Summary, error) {
	start := time.Now()
	if opts.TournamentName == "" {
		opts.TournamentName = roster.DefaultTournamentName
	}
	summary := &roster.Summary{
		Kind:       roster.KindPlayers,
		Tournament: opts.TournamentName,
		DryRun:     opts.DryRun,
	}

	i.warnMissingColumns(rows, playerRequired, playerOptional)
	groups := i.groupByTeam(rows, summary)
	log.Info("Found players to import", "rows", len(rows), "teams", len(groups), "dropped", summary.Dropped)

	r := newRun(opts.DryRun)
	tournamentID, err := i.resolveTournament(ctx, r, opts.TournamentName, opts.TournamentDate)
	if err != nil {
		return summary, i.abort(summary, start, err)
	}
	summary.TournamentID = tournamentID

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return summary, i.abort(summary, start, err)
		}
		summary.Teams = append(summary.Teams, i.importTeam(ctx, r, tournamentID, group, opts, summary))
	}
	if err := ctx.Err(); err != nil {
		return summary, i.abort(summary, start, err)
	}

	i.finish(summary, start)
	return summary, nil
}

// groupByTeam buckets rows by team name, keeping the first-seen order of
// teams and the file order of rows. Rows without a team name are dropped.
func (i *Importer) groupByTeam(rows []fields.Row, summary *roster.Summary) []teamGroup {
	var groups []teamGroup
	index := make(map[string]int)
	for _, row := range rows {
		name, ok := i.resolver.Lookup(row, fields.TeamName)
		if !ok {
			log.Warn("Skipping row without a team name", "line", row.Line)
			summary.Dropped++
			i.metrics.IncRowsDropped(roster.KindPlayers)
			continue
		}
		idx, seen := index[name]
		if !seen {
			idx = len(groups)
			index[name] = idx
			groups = append(groups, teamGroup{Name: name})
		}
		groups[idx].Rows = append(groups[idx].Rows, row)
	}
	return groups
}

// resolveTournament finds the tournament by exact name or creates it.
func (i *Importer) resolveTournament(ctx context.Context, r *run, name, rawDate string) (string, error) {
	if id, ok := r.tournaments[name]; ok {
		return id, nil
	}

	existing, err := i.store.FindTournamentByName(ctx, name)
	if err == nil {
		log.Info("Found existing tournament", "tournament", name, "id", existing.ID)
		r.tournaments[name] = existing.ID
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("looking up tournament %q: %w", name, err)
	}

	creator, err := i.findCreator(ctx)
	if err != nil {
		return "", err
	}

	date := i.today()
	if rawDate != "" {
		if d, ok := normalize.ParseDate(rawDate); ok {
			date = d
		}
	}
	tournament := roster.Tournament{
		Name:      name,
		StartDate: date,
		EndDate:   date,
		Location:  roster.DefaultTournamentLocation,
		Status:    roster.TournamentStatusRegistrationOpen,
		CreatedBy: creator,
	}

	var id string
	if r.dryRun {
		id = "dry-run-" + uuid.NewString()
		log.Info("[Dry Run] Would create tournament", "tournament", name, "date", date.Format(time.DateOnly), "created_by", creator)
	} else {
		id, err = i.store.CreateTournament(ctx, tournament)
		if err != nil {
			return "", fmt.Errorf("creating tournament %q: %w", name, err)
		}
		i.metrics.IncTournamentsCreated()
		log.Info("Created tournament", "tournament", name, "id", id, "date", date.Format(time.DateOnly))
	}
	r.tournaments[name] = id
	return id, nil
}

// findCreator prefers an admin and falls back to any profile.
func (i *Importer) findCreator(ctx context.Context) (string, error) {
	admin, err := i.store.FindUserByRole(ctx, roster.RoleAdmin)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("looking up admin user: %w", err)
	}

	log.Warn("No admin user found; using the first profile as tournament owner")
	profile, err := i.store.FindAnyProfile(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoProfiles
	}
	if err != nil {
		return "", fmt.Errorf("looking up profiles: %w", err)
	}
	return profile, nil
}

func (i *Importer) importTeam(ctx context.Context, r *run, tournamentID string, group teamGroup, opts PlayerOptions, summary *roster.Summary) roster.TeamSummary {
	ts := roster.TeamSummary{Name: group.Name}
	log.Info("Processing team", "team", group.Name, "players", len(group.Rows))

	community := i.resolver.Value(group.Rows[0], fields.Community)
	teamID, created, err := i.resolveTeam(ctx, r, tournamentID, group.Name, community, opts.ExistingTeamsOnly)
	if err != nil {
		log.Error("Skipping team", "team", group.Name, "error", err)
		ts.Failure = err.Error()
		summary.TeamFailures++
		summary.Failures = append(summary.Failures, roster.Failure{
			Scope:  roster.ScopeTeam,
			Line:   group.Rows[0].Line,
			Team:   group.Name,
			Reason: err.Error(),
		})
		i.metrics.IncTeamsFailed()
		return ts
	}
	ts.ID, ts.Created = teamID, created

	for _, row := range group.Rows {
		if ctx.Err() != nil {
			break
		}
		res := i.importPlayer(ctx, teamID, community, row, r.dryRun)
		if !res.OK() {
			ts.Errors++
			summary.Failures = append(summary.Failures, roster.Failure{
				Scope:  roster.ScopeRow,
				Line:   res.Line,
				Team:   group.Name,
				Name:   res.Name,
				Reason: res.Err.Error(),
			})
			i.metrics.IncRowsFailed(roster.KindPlayers)
			log.Error("Failed to import player", "team", group.Name, "line", res.Line, "player", res.Name, "error", res.Err)
			continue
		}
		ts.Success++
		i.metrics.IncRowsImported(roster.KindPlayers)
	}

	summary.TotalSuccess += ts.Success
	summary.TotalErrors += ts.Errors
	log.Info("Finished team", "team", group.Name, "imported", ts.Success, "failed", ts.Errors)
	return ts
}

// resolveTeam finds the team within the tournament or creates it. The bool
// result reports whether the team was created.
func (i *Importer) resolveTeam(ctx context.Context, r *run, tournamentID, name, community string, existingOnly bool) (string, bool, error) {
	key := teamKey{tournamentID: tournamentID, name: name}
	if id, ok := r.teams[key]; ok {
		return id, false, nil
	}

	existing, err := i.store.FindTeam(ctx, tournamentID, name)
	if err == nil {
		log.Info("Found existing team", "team", name, "id", existing.ID)
		r.teams[key] = existing.ID
		return existing.ID, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", false, fmt.Errorf("looking up team: %w", err)
	}
	if existingOnly {
		return "", false, ErrTeamNotFound
	}

	captain, err := i.store.FindAnyProfile(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, ErrNoProfiles
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up a captain: %w", err)
	}

	if community == "" {
		community = roster.DefaultCommunity
	}
	team := roster.Team{
		TournamentID: tournamentID,
		Name:         name,
		CaptainID:    captain,
		Email:        normalize.PlaceholderEmail(name, roster.TeamEmailDomain),
		Phone:        roster.PlaceholderPhone,
		Status:       roster.TeamStatusApproved,
		Community:    community,
	}

	var id string
	if r.dryRun {
		id = "dry-run-" + uuid.NewString()
		log.Info("[Dry Run] Would create team", "team", name, "community", community, "email", team.Email)
	} else {
		id, err = i.store.CreateTeam(ctx, team)
		if err != nil {
			return "", false, fmt.Errorf("creating team: %w", err)
		}
		i.metrics.IncTeamsCreated()
		log.Info("Created team", "team", name, "id", id, "community", community)
	}
	r.teams[key] = id
	return id, true, nil
}

// importPlayer normalizes and stores one row. It never panics; an unexpected
// failure while normalizing becomes the row's error.
func (i *Importer) importPlayer(ctx context.Context, teamID, teamCommunity string, row fields.Row, dryRun bool) (res RowResult) {
	start := time.Now()
	res.Line = row.Line
	defer func() {
		if p := recover(); p != nil {
			res.ID = ""
			res.Err = fmt.Errorf("unexpected failure: %v", p)
		}
		i.metrics.ObserveRowDuration(time.Since(start).Seconds())
	}()

	player, err := i.buildPlayer(teamID, teamCommunity, row)
	res.Name = player.Name
	if err != nil {
		res.Err = err
		return res
	}

	if dryRun {
		res.ID = "dry-run-" + uuid.NewString()
		log.Info("[Dry Run] Would insert player", "player", player.Name, "gender", player.Gender, "days", player.ParticipationDays)
		return res
	}

	id, err := i.store.InsertPlayer(ctx, player)
	if err != nil {
		res.Err = err
		return res
	}
	res.ID = id
	log.Info("Imported player", "player", player.Name, "gender", player.Gender, "days", player.ParticipationDays)
	return res
}

func (i *Importer) buildPlayer(teamID, teamCommunity string, row fields.Row) (roster.Player, error) {
	value := func(f fields.Field) string { return i.resolver.Value(row, f) }

	name := value(fields.PlayerName)
	if name == "" {
		return roster.Player{}, fmt.Errorf("%w: player name", ErrMissingField)
	}

	community := value(fields.Community)
	if community == "" {
		community = teamCommunity
	}
	parental, media := normalize.ParsePermissions(value(fields.Permissions))

	return roster.Player{
		TeamID:                teamID,
		Name:                  name,
		Email:                 normalize.PlaceholderEmail(name, roster.PlayerEmailDomain),
		Gender:                normalize.MapGender(value(fields.Gender)),
		DateOfBirth:           normalize.DatePtr(normalize.ParseDate(value(fields.DateOfBirth))),
		ContactNumber:         value(fields.ContactNumber),
		ParentContact:         value(fields.ParentContact),
		ParticipationDays:     normalize.MapParticipationDays(value(fields.ParticipationDays)),
		ParentalConsent:       parental,
		MediaConsent:          media,
		QueriesComments:       value(fields.Queries),
		StandardCertURL:       normalize.CertificateURL(value(fields.StandardCertURL)),
		AdvanceCertURL:        normalize.CertificateURL(value(fields.AdvanceCertURL)),
		Community:             community,
		RegistrationTimestamp: normalize.DatePtr(normalize.ParseTimestamp(value(fields.Timestamp))),
		Verified:              false,
	}, nil
}
