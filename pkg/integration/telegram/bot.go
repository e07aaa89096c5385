package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mklimuk/review-pilot/pkg/db"
	"github.com/mklimuk/review-pilot/pkg/review"
)

// Bot wraps the Telegram bot API and the review service.
type Bot struct {
	API     *tgbotapi.BotAPI
	Service *review.Service
	Runs    *db.Repository
	stopCh  chan struct{}
}

// NewBot creates a new Telegram bot. runs is the run log and may be nil.
func NewBot(token string, svc *review.Service, runs *db.Repository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating Telegram bot: %w", err)
	}

	return &Bot{
		API:     api,
		Service: svc,
		Runs:    runs,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins polling for updates in a goroutine
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.API.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-b.stopCh:
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil {
					b.handleMessage(update.Message)
				}
			}
		}
	}()

	return nil
}

// Stop stops polling for updates
func (b *Bot) Stop() {
	close(b.stopCh)
	b.API.StopReceivingUpdates()
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	command, arg := ParseCommand(msg.Text)
	switch command {
	case "/review":
		b.handleReview(msg, arg)
	case "/reviews":
		b.handleList(msg)
	case "/status":
		b.reply(msg, statusText(b.Runs))
	}
}

func (b *Bot) handleReview(msg *tgbotapi.Message, arg string) {
	if arg == "" {
		b.handleRunAll(msg)
		return
	}

	t, ok := review.ParseType(arg)
	if !ok {
		b.reply(msg, fmt.Sprintf("Unknown review type %q. Try /reviews for the list.", arg))
		return
	}

	if err := b.Service.RunReview(context.Background(), t); err != nil {
		b.reply(msg, fmt.Sprintf("Review failed: %v", err))
		return
	}
	b.reply(msg, fmt.Sprintf("%s refreshed.", t.Title()))
}

func (b *Bot) handleRunAll(msg *tgbotapi.Message) {
	results := b.Service.RunAllReviews(context.Background())
	if err := review.Err(results); err != nil {
		b.reply(msg, fmt.Sprintf("Some reviews failed: %v", err))
		return
	}
	b.reply(msg, "All reviews refreshed.")
}

func (b *Bot) handleList(msg *tgbotapi.Message) {
	var sb strings.Builder
	sb.WriteString("Available reviews:\n")
	for _, t := range review.Types() {
		fmt.Fprintf(&sb, "- %s (%s)\n", string(t), t.Title())
	}
	b.reply(msg, sb.String())
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.API.Send(reply); err != nil {
		log.Printf("Failed to send Telegram reply: %v", err)
	}
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

// ParseCommand extracts the command and argument from a message text.
func ParseCommand(text string) (command, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	command = parts[0]
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return command, arg
}
