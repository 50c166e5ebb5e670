package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tournament-importer/internal/metrics"
	"github.com/mauv0809/tournament-importer/internal/notifier"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/slack-go/slack"
)

// maxSectionText is Slack's limit for the text of a section block.
const maxSectionText = 3000

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendImportSummary posts the outcome of an import run.
func (s *Notifier) SendImportSummary(summary *roster.Summary, dryRun bool) error {
	msg := s.formatImportSummary(summary)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatImportSummary creates the Slack message for a finished import using Block Kit.
func (s *Notifier) formatImportSummary(summary *roster.Summary) slack.Message {
	blocks := make([]slack.Block, 0, 4)

	title := "✅ Import finished"
	switch {
	case summary.Fatal != "":
		title = "❌ Import aborted"
	case !summary.OK():
		title = "⚠️ Import finished with errors"
	}
	if summary.DryRun {
		title += " (dry run)"
	}
	blocks = append(blocks, slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, true, false)))

	tournament := summary.Tournament
	if tournament == "" {
		tournament = summary.TournamentID
	}
	details := fmt.Sprintf("Kind: %s\nTournament: %s\nImported: %d\nFailed: %d",
		summary.Kind, tournament, summary.TotalSuccess, summary.TotalErrors)
	if summary.TeamFailures > 0 {
		details += fmt.Sprintf("\nTeams skipped: %d", summary.TeamFailures)
	}
	if summary.Dropped > 0 {
		details += fmt.Sprintf("\nRows without a team: %d", summary.Dropped)
	}
	if summary.Fatal != "" {
		details += "\nStopped: " + summary.Fatal
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, false, false), nil, nil))

	if len(summary.Teams) > 0 {
		lines := make([]string, 0, len(summary.Teams))
		for _, team := range summary.Teams {
			if team.Failure != "" {
				lines = append(lines, fmt.Sprintf("• %s: skipped (%s)", team.Name, team.Failure))
				continue
			}
			lines = append(lines, fmt.Sprintf("• %s: %d imported, %d failed", team.Name, team.Success, team.Errors))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", truncate("Teams:\n"+strings.Join(lines, "\n"), maxSectionText), false, false), nil, nil))
	}

	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", fmt.Sprintf("Took %s", summary.Duration.Round(time.Millisecond)), false, false)))

	return slack.NewBlockMessage(blocks...)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
