package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/importer"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/mauv0809/tournament-importer/internal/sheet"
	"github.com/mauv0809/tournament-importer/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	playersCmd.Flags().String("csv", "", "Path to the registration CSV export")
	playersCmd.Flags().String("tournament-name", roster.DefaultTournamentName, "Tournament to import into; created when missing")
	playersCmd.Flags().String("tournament-date", "", "Date of a newly created tournament (DD/MM/YYYY); today when empty")
	playersCmd.Flags().Bool("existing-teams-only", false, "Skip teams that do not exist yet instead of creating them")
	playersCmd.Flags().String("synonyms", "", "YAML file with extra header synonyms")
	_ = playersCmd.MarkFlagRequired("csv")

	checklistCmd.Flags().String("csv", "", "Path to the checklist CSV export")
	checklistCmd.Flags().String("tournament-id", "", "ID of the tournament the checklist belongs to")
	checklistCmd.Flags().String("tournament-name", "", "Name of the tournament the checklist belongs to")
	checklistCmd.Flags().String("synonyms", "", "YAML file with extra header synonyms")
	_ = checklistCmd.MarkFlagRequired("csv")
	checklistCmd.MarkFlagsOneRequired("tournament-id", "tournament-name")
	checklistCmd.MarkFlagsMutuallyExclusive("tournament-id", "tournament-name")

	profileAddCmd.Flags().String("name", "", "Full name of the profile")
	profileAddCmd.Flags().String("email", "", "Email address of the profile")
	profileAddCmd.Flags().Bool("admin", false, "Grant the admin role")
	_ = profileAddCmd.MarkFlagRequired("name")
	_ = profileAddCmd.MarkFlagRequired("email")
	profileCmd.AddCommand(profileAddCmd)

	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statsCmd)
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Import teams and players from a registration export",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rows, err := sheet.ReadFile(cfg.Import.CSVPath)
		if err != nil {
			return err
		}
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		imp, err := a.importer()
		if err != nil {
			return err
		}
		summary, err := imp.ImportPlayers(ctx, rows, importer.PlayerOptions{
			TournamentName:    cfg.Import.TournamentName,
			TournamentDate:    cfg.Import.TournamentDate,
			ExistingTeamsOnly: cfg.Import.ExistingTeamsOnly,
			DryRun:            cfg.Import.DryRun,
		})
		a.record(ctx, summary)
		if err != nil {
			return err
		}
		return checkSummary(summary)
	},
}

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Import planning tasks for an existing tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rows, err := sheet.ReadFile(cfg.Import.CSVPath)
		if err != nil {
			return err
		}
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := importer.ChecklistOptions{
			TournamentID:   cfg.Import.TournamentID,
			TournamentName: cfg.Import.TournamentName,
			DryRun:         cfg.Import.DryRun,
		}
		t, err := findTournament(cmd, a.store, opts)
		if err != nil {
			return err
		}
		opts.TournamentID, opts.TournamentName = t.ID, t.Name

		imp, err := a.importer()
		if err != nil {
			return err
		}
		summary, err := imp.ImportChecklist(ctx, rows, opts)
		a.record(ctx, summary)
		if err != nil {
			return err
		}
		return checkSummary(summary)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring the store schema up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Store.URL, cfg.Store.Key)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return err
		}
		version, err := database.SchemaVersion(db)
		if err != nil {
			return err
		}
		log.Info("Schema is up to date", "dialect", db.Dialect, "version", version)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage user profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a profile, optionally with the admin role",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		admin, _ := cmd.Flags().GetBool("admin")

		if cfg.Import.DryRun {
			log.Info("[Dry Run] Would create profile", "name", name, "email", email, "admin", admin)
			return nil
		}

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.store.CreateProfile(ctx, roster.Profile{FullName: name, Email: email})
		if err != nil {
			return err
		}
		if admin {
			if err := a.store.AssignRole(ctx, id, roster.RoleAdmin); err != nil {
				return err
			}
		}
		log.Info("Created profile", "id", id, "email", email, "admin", admin)
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print lifetime import counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		counters, err := a.counters.GetAll()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(counters))
		for k := range counters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := cmd.OutOrStdout()
		for _, k := range keys {
			fmt.Fprintf(out, "%-32s %d\n", k, counters[k])
		}
		return nil
	},
}

// findTournament resolves the checklist target by id, or by name when no id was given.
func findTournament(cmd *cobra.Command, s store.Store, opts importer.ChecklistOptions) (*roster.Tournament, error) {
	ctx := cmd.Context()
	var (
		t   *roster.Tournament
		err error
		ref = opts.TournamentID
	)
	if ref != "" {
		t, err = s.FindTournamentByID(ctx, ref)
	} else {
		ref = opts.TournamentName
		t, err = s.FindTournamentByName(ctx, ref)
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("tournament %q does not exist", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up tournament %q: %w", ref, err)
	}
	return t, nil
}
