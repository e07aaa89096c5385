package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mklimuk/review-pilot/pkg/db"
	"github.com/mklimuk/review-pilot/pkg/review"
)

// Bot wraps the Discord session and the review service.
type Bot struct {
	Session *discordgo.Session
	Service *review.Service
	Runs    *db.Repository
}

// NewBot creates a new Discord bot. runs is the run log and may be nil.
func NewBot(token string, svc *review.Service, runs *db.Repository) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bot := &Bot{
		Session: dg,
		Service: svc,
		Runs:    runs,
	}

	dg.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start opens the websocket connection
func (b *Bot) Start() error {
	return b.Session.Open()
}

// Stop closes the websocket connection
func (b *Bot) Stop() error {
	return b.Session.Close()
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	switch {
	case strings.HasPrefix(m.Content, "!review"):
		arg := strings.TrimSpace(strings.TrimPrefix(m.Content, "!review"))
		b.handleReview(s, m, arg)
	case m.Content == "!status":
		s.ChannelMessageSend(m.ChannelID, statusText(b.Runs))
	}
}

func (b *Bot) handleReview(s *discordgo.Session, m *discordgo.MessageCreate, arg string) {
	if arg == "" {
		results := b.Service.RunAllReviews(context.Background())
		if err := review.Err(results); err != nil {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Some reviews failed: %v", err))
			return
		}
		s.ChannelMessageSend(m.ChannelID, "All reviews refreshed.")
		return
	}

	t, ok := review.ParseType(arg)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Unknown review type %q", arg))
		return
	}
	if err := b.Service.RunReview(context.Background(), t); err != nil {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Review failed: %v", err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("%s refreshed.", t.Title()))
}

// statusText reports the last recorded outcome per review type, or a
// bare liveness line when the run log is not configured.
func statusText(runs *db.Repository) string {
	if runs == nil {
		return "Review Pilot is online."
	}

	var lines []string
	for _, t := range review.Types() {
		rec, err := runs.LatestRun(string(t))
		if err != nil {
			log.Printf("Failed to read run log: %v", err)
			continue
		}
		if rec == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", rec.ReviewType, rec.Status, rec.StartedAt.Format("2006-01-02 15:04")))
	}
	if len(lines) == 0 {
		return "Review Pilot is online. No runs recorded yet."
	}
	return "Review Pilot is online.\n" + strings.Join(lines, "\n")
}
