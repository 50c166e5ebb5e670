package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/config"
	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/fields"
	"github.com/mauv0809/tournament-importer/internal/importer"
	"github.com/mauv0809/tournament-importer/internal/metrics"
	"github.com/mauv0809/tournament-importer/internal/notifier"
	"github.com/mauv0809/tournament-importer/internal/notifier/slack"
	"github.com/mauv0809/tournament-importer/internal/pubsub"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/mauv0809/tournament-importer/internal/store"
)

// app bundles the collaborators of a single command invocation.
type app struct {
	cfg      *config.Config
	db       *database.DB
	store    store.Store
	metrics  *metrics.Service
	counters metrics.MetricsStore
	pubsub   pubsub.PubSubClient
	notifier notifier.Notifier
	teardown func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, teardown, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	ps, err := pubsub.New(ctx, cfg.ProjectID)
	if err != nil {
		teardown()
		return nil, err
	}

	metricsSvc := metrics.NewService()
	var n notifier.Notifier = notifier.Noop{}
	if cfg.Slack.Token != "" {
		n = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		store:    store.New(db),
		metrics:  metricsSvc,
		counters: metrics.New(db),
		pubsub:   ps,
		notifier: n,
		teardown: teardown,
	}, nil
}

func (a *app) importer() (*importer.Importer, error) {
	resolver, err := loadResolver(a.cfg.Import.SynonymsFile)
	if err != nil {
		return nil, err
	}
	return importer.New(a.store, a.notifier, a.metrics, a.pubsub, resolver), nil
}

// record stores the lifetime counters and pushes the run's metrics.
func (a *app) record(ctx context.Context, summary *roster.Summary) {
	if summary == nil {
		return
	}
	a.counters.RecordSummary(summary)
	if a.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	if err := a.metrics.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job); err != nil {
		log.Error("Failed to push metrics", "error", err, "url", a.cfg.Metrics.PushgatewayURL)
	}
}

func (a *app) Close() {
	if err := a.pubsub.Close(); err != nil {
		log.Error("Failed to close pubsub client", "error", err)
	}
	log.Debug("Closing database connection")
	a.teardown()
}

// openStore connects to the store and migrates its schema. Dry runs only
// connect, since a migration is a write.
func openStore(cfg *config.Config) (*database.DB, func(), error) {
	if !cfg.Import.DryRun {
		return database.InitDB(cfg.Store.URL, cfg.Store.Key)
	}
	db, err := database.Open(cfg.Store.URL, cfg.Store.Key)
	if err != nil {
		return nil, nil, err
	}
	log.Info("[Dry Run] Skipping schema migrations")
	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

// loadResolver layers an optional synonym file over the built-in table.
func loadResolver(path string) (*fields.Resolver, error) {
	if path == "" {
		return fields.Default(), nil
	}
	table, err := fields.LoadTable(path)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded header synonyms", "path", path, "fields", len(table))
	return fields.New(fields.DefaultTable().Merge(table)), nil
}
