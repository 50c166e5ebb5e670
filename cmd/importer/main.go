package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mauv0809/tournament-importer/internal/config"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/spf13/cobra"
)

// errIncomplete marks a run that finished but left rows or teams behind.
var errIncomplete = errors.New("import incomplete")

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Import tournament registrations and checklists from CSV",
	Long: `A command-line tool that loads spreadsheet exports of tournament
registrations and planning checklists into the tournament store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		cfg.ConfigureLogging()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}
		cfg.WarnIfUnprivileged()
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("store-url", "", "Store location: a file path, :memory:, libsql://, or postgres:// URL")
	flags.String("store-key", "", "Store access key; takes precedence over STORE_SERVICE_ROLE_KEY and STORE_ANON_KEY")
	flags.Bool("dry-run", false, "Validate and report without writing anything")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text, json or logfmt")
	flags.String("pushgateway-url", "", "Prometheus Pushgateway to push run metrics to")
}

func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

// checkSummary turns an unsuccessful run into an error so the process exits non-zero.
func checkSummary(summary *roster.Summary) error {
	if summary == nil || summary.OK() {
		return nil
	}
	if summary.Fatal != "" {
		return fmt.Errorf("%w: %s", errIncomplete, summary.Fatal)
	}
	return fmt.Errorf("%w: %d rows failed, %d teams skipped", errIncomplete, summary.TotalErrors, summary.TeamFailures)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx)
	stop()
	os.Exit(code)
}
