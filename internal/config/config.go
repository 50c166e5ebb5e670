package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	keyFlag       = "store-key"
	serviceKeyEnv = "STORE_SERVICE_ROLE_KEY"
	anonKeyEnv    = "STORE_ANON_KEY"
)

var bindings = []binding{
	{key: "store.url", flag: "store-url", env: []string{"STORE_URL", "DATABASE_URL", "TURSO_PRIMARY_URL"}},
	{key: "store.key", flag: keyFlag},
	{key: "store.service_key", env: []string{serviceKeyEnv, "TURSO_AUTH_TOKEN"}},
	{key: "store.anon_key", env: []string{anonKeyEnv}},
	{key: "import.csv", flag: "csv", env: []string{"IMPORT_CSV"}},
	{key: "import.tournament_name", flag: "tournament-name", env: []string{"TOURNAMENT_NAME"}, def: roster.DefaultTournamentName},
	{key: "import.tournament_date", flag: "tournament-date", env: []string{"TOURNAMENT_DATE"}},
	{key: "import.tournament_id", flag: "tournament-id", env: []string{"TOURNAMENT_ID"}},
	{key: "import.synonyms", flag: "synonyms", env: []string{"SYNONYMS_FILE"}},
	{key: "import.dry_run", flag: "dry-run", env: []string{"DRY_RUN"}, def: false},
	{key: "import.existing_teams_only", flag: "existing-teams-only", env: []string{"EXISTING_TEAMS_ONLY"}, def: false},
	{key: "slack.token", env: []string{"SLACK_BOT_TOKEN"}},
	{key: "slack.channel_id", env: []string{"SLACK_CHANNEL_ID"}},
	{key: "gcp.project", env: []string{"GCP_PROJECT"}},
	{key: "metrics.pushgateway_url", flag: "pushgateway-url", env: []string{"PUSHGATEWAY_URL"}},
	{key: "metrics.job", env: []string{"METRICS_JOB"}, def: "tournament_importer"},
	{key: "log.level", flag: "log-level", env: []string{"LOG_LEVEL"}, def: "info"},
	{key: "log.format", flag: "log-format", env: []string{"LOG_FORMAT"}, def: "text"},
}

// Load reads configuration from flags, environment variables and a .env file,
// in that order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	v := viper.New()
	for _, b := range bindings {
		if len(b.env) > 0 {
			if err := v.BindEnv(append([]string{b.key}, b.env...)...); err != nil {
				return nil, fmt.Errorf("binding %s: %w", b.key, err)
			}
		}
		if b.def != nil {
			v.SetDefault(b.key, b.def)
		}
		if flags == nil || b.flag == "" {
			continue
		}
		if f := flags.Lookup(b.flag); f != nil {
			if err := v.BindPFlag(b.key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", b.flag, err)
			}
		}
	}

	cfg := &Config{
		Store: StoreConfig{
			URL: v.GetString("store.url"),
		},
		Import: ImportConfig{
			CSVPath:           v.GetString("import.csv"),
			TournamentName:    v.GetString("import.tournament_name"),
			TournamentDate:    v.GetString("import.tournament_date"),
			TournamentID:      v.GetString("import.tournament_id"),
			SynonymsFile:      v.GetString("import.synonyms"),
			DryRun:            v.GetBool("import.dry_run"),
			ExistingTeamsOnly: v.GetBool("import.existing_teams_only"),
		},
		Slack: SlackConfig{
			Token:     v.GetString("slack.token"),
			ChannelID: v.GetString("slack.channel_id"),
		},
		ProjectID: v.GetString("gcp.project"),
		Metrics: MetricsConfig{
			PushgatewayURL: v.GetString("metrics.pushgateway_url"),
			Job:            v.GetString("metrics.job"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	cfg.Store.Key, cfg.Store.Elevated = resolveKey(
		v.GetString("store.key"),
		v.GetString("store.service_key"),
		v.GetString("store.anon_key"),
	)
	return cfg, nil
}

// resolveKey picks the store key: an explicit key wins, then the service-role
// key, then the anonymous key. Only an explicit key or a service-role key that
// differs from the anonymous key counts as elevated.
func resolveKey(explicit, service, anon string) (string, bool) {
	switch {
	case explicit != "":
		return explicit, true
	case service != "":
		return service, service != anon
	default:
		return anon, false
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.URL == "" {
		errs = append(errs, errors.New("store URL is required (--store-url or STORE_URL)"))
	} else if database.DetectDialect(c.Store.URL) == database.LibSQL && c.Store.Key == "" {
		errs = append(errs, fmt.Errorf("a store key is required for %s (--store-key, %s or %s)", c.Store.URL, serviceKeyEnv, anonKeyEnv))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: use text, json or logfmt", c.Log.Format))
	}
	if c.Slack.Token != "" && c.Slack.ChannelID == "" {
		errs = append(errs, errors.New("SLACK_CHANNEL_ID is required when SLACK_BOT_TOKEN is set"))
	}
	return errors.Join(errs...)
}

// WarnIfUnprivileged logs a warning when the store key may lack write access.
func (c *Config) WarnIfUnprivileged() {
	if c.Store.Elevated || !database.DetectDialect(c.Store.URL).IsRemote() {
		return
	}
	log.Warn("Using a key without confirmed write privileges; inserts may be rejected. Pass --store-key or set " + serviceKeyEnv + ".")
}

// ConfigureLogging applies the log settings to the global logger.
func (c *Config) ConfigureLogging() {
	if level, err := log.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json":
		log.SetFormatter(log.JSONFormatter)
	case "logfmt":
		log.SetFormatter(log.LogfmtFormatter)
	default:
		log.SetFormatter(log.TextFormatter)
	}
	log.SetReportTimestamp(true)
}
