package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-ladder/internal/history"
	"github.com/mauv0809/shuttle-ladder/internal/metrics"
	"github.com/mauv0809/shuttle-ladder/internal/notifier"
	"github.com/mauv0809/shuttle-ladder/internal/player"
	"github.com/slack-go/slack"
)

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

// NewNotifier creates a new Notifier. Without a token every message is
// logged as a dry run.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	n := &Notifier{
		channelID: channelID,
		metrics:   metrics,
	}
	if token != "" {
		n.api = slack.New(token)
	}
	return n
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

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(fallbackText(message), false),
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

func (s *Notifier) SendMatchResult(ctx context.Context, rec history.Record, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchResult(rec), dryRun)
	return err
}

func (s *Notifier) SendPlayerRegistered(ctx context.Context, name string, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatPlayerRegistered(name), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(ctx context.Context, players []player.RankedPlayer, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatLeaderboard(players), dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []player.RankedPlayer) (any, error) {
	return s.formatLeaderboard(players), nil
}

// FormatPlayerStatsResponse formats a player profile for a slash command response.
func (s *Notifier) FormatPlayerStatsResponse(p *player.RankedPlayer, recent []history.Record) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("no player to format")
	}
	return s.formatPlayerStats(p, recent), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string) (any, error) {
	return s.formatPlayerNotFound(query), nil
}

// formatMatchResult creates the Slack message for a submitted match using Block Kit.
func (s *Notifier) formatMatchResult(rec history.Record) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏸 Match finished! 🏸", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	resultText := fmt.Sprintf("%s beat %s %d-%d", rec.WinnerName, rec.LoserName, rec.WinnerPoints, rec.LoserPoints)
	if rec.Target > rec.InitialTarget {
		resultText += fmt.Sprintf(" (deuce, played to %d)", rec.Target)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s\n%d → %d (%s)", rec.WinnerName, rec.WinnerBeforeRating, rec.WinnerAfterRating, signed(rec.WinnerDelta())), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("%s\n%d → %d (%s)", rec.LoserName, rec.LoserBeforeRating, rec.LoserAfterRating, signed(rec.LoserDelta())), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Ratings:", true, false), fields, nil))

	contextText := fmt.Sprintf("%s match", strings.ToLower(rec.MatchType))
	if rec.DurationMinutes > 0 {
		contextText += fmt.Sprintf(" • %d min", rec.DurationMinutes)
	}
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayerRegistered(name string) slack.Message {
	text := fmt.Sprintf("👋 %s joined the ladder. Welcome!", name)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

// formatLeaderboard creates a Slack message to display the ranked players.
func (s *Notifier) formatLeaderboard(players []player.RankedPlayer) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Ladder 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Register someone and go play!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for _, p := range players {
		playerText := fmt.Sprintf("%d. %s%s\n> Rating: %d (%s) | W/L: %d/%d | Played: %d",
			p.Rank,
			medal(p.Rank),
			p.Name,
			p.CurrentRating,
			signed(p.RatingChange()),
			p.MatchesWon,
			p.MatchesLost,
			p.MatchesPlayed,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatPlayerStats creates a Slack message with one player's standing and recent matches.
func (s *Notifier) formatPlayerStats(p *player.RankedPlayer, recent []history.Record) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("📊 Stats for %s", p.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	winRate := 0.0
	if p.MatchesPlayed > 0 {
		winRate = float64(p.MatchesWon) / float64(p.MatchesPlayed) * 100
	}
	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Rank\n%d", p.Rank), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Rating\n%d (%s)", p.CurrentRating, signed(p.RatingChange())), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Matches\n%d played, %d won, %d lost", p.MatchesPlayed, p.MatchesWon, p.MatchesLost), true, false),
		slack.NewTextBlockObject("plain_text", fmt.Sprintf("Win rate\n%.1f%%", winRate), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if len(recent) > 0 {
		lines := make([]string, 0, len(recent))
		for _, rec := range recent {
			if rec.WinnerID == p.ID {
				lines = append(lines, fmt.Sprintf("• W %d-%d vs %s (%s)", rec.WinnerPoints, rec.LoserPoints, rec.LoserName, signed(rec.WinnerDelta())))
			} else {
				lines = append(lines, fmt.Sprintf("• L %d-%d vs %s (%s)", rec.LoserPoints, rec.WinnerPoints, rec.WinnerName, signed(rec.LoserDelta())))
			}
		}
		blocks = append(blocks, slack.NewDividerBlock())
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Recent matches:\n"+strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func (s *Notifier) formatPlayerNotFound(query string) slack.Message {
	text := fmt.Sprintf("🤷 Could not find a player named '%s'.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil),
	)
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "🥇 "
	case 2:
		return "🥈 "
	case 3:
		return "🥉 "
	}
	return ""
}

func signed(delta int) string {
	if delta > 0 {
		return fmt.Sprintf("+%d", delta)
	}
	return fmt.Sprintf("%d", delta)
}

// fallbackText is shown in notifications where blocks are not rendered.
func fallbackText(message slack.Message) string {
	for _, b := range message.Blocks.BlockSet {
		switch block := b.(type) {
		case *slack.HeaderBlock:
			return block.Text.Text
		case *slack.SectionBlock:
			if block.Text != nil {
				return block.Text.Text
			}
		}
	}
	return ""
}
