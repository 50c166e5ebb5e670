package config

// Config holds all configuration for the importer.
type Config struct {
	Store     StoreConfig
	Import    ImportConfig
	Slack     SlackConfig
	ProjectID string
	Metrics   MetricsConfig
	Log       LogConfig
}

type StoreConfig struct {
	URL string
	Key string
	// Elevated is true when the key is known to be a service-role key.
	Elevated bool
}

type ImportConfig struct {
	CSVPath           string
	TournamentName    string
	TournamentDate    string
	TournamentID      string
	SynonymsFile      string
	DryRun            bool
	ExistingTeamsOnly bool
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

type LogConfig struct {
	Level  string
	Format string
}

// binding ties a config key to its flag, environment variables and default.
type binding struct {
	key  string
	flag string
	env  []string
	def  any
}
