package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mklimuk/review-pilot/pkg/ai"
	"github.com/mklimuk/review-pilot/pkg/api"
	"github.com/mklimuk/review-pilot/pkg/config"
	"github.com/mklimuk/review-pilot/pkg/db"
	"github.com/mklimuk/review-pilot/pkg/integration/discord"
	"github.com/mklimuk/review-pilot/pkg/integration/telegram"
	"github.com/mklimuk/review-pilot/pkg/joplin"
	"github.com/mklimuk/review-pilot/pkg/review"
	"github.com/mklimuk/review-pilot/pkg/schedule"
	"github.com/mklimuk/review-pilot/pkg/sync"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	joplinURL := flag.String("joplin", "", "Joplin Data API URL (overrides config)")
	dbPath := flag.String("db", "", "Path to SQLite DB (overrides config)")
	port := flag.String("port", "", "HTTP Port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *joplinURL != "" {
		cfg.JoplinURL = *joplinURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *port != "" {
		cfg.Port = *port
	}

	// Joplin Data API client. The token is issued by the desktop app's
	// Web Clipper settings page.
	token := os.Getenv("JOPLIN_TOKEN")
	if token == "" {
		log.Fatal("JOPLIN_TOKEN environment variable is required")
	}
	client := joplin.NewClient(cfg.JoplinURL, token)

	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		log.Fatalf("Failed to reach Joplin at %s: %v", cfg.JoplinURL, err)
	}

	// Initialize DB
	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	if err := database.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}

	repo := db.NewRepository(database)

	// Initialize Git Mirror (Optional)
	var mirror review.Mirror
	if cfg.MirrorDir != "" {
		gitManager := sync.NewGitManager(cfg.MirrorDir, cfg.MirrorPush)
		mirror = sync.NewMirror(cfg.MirrorDir, gitManager)
		log.Printf("Mirroring review notes to %s", cfg.MirrorDir)
	}

	svc := review.NewService(client, repo, mirror)

	// Change-triggered runs: the watcher polls the Joplin event feed and
	// the debouncer collapses bursts of edits into one run.
	debouncer := review.NewDebouncer(time.Duration(cfg.DebounceSeconds)*time.Second, func() {
		if err := review.Err(svc.RunAllReviews(context.Background())); err != nil {
			log.Printf("Change-triggered run finished with errors: %v", err)
		}
	})
	defer debouncer.Stop()

	watcher := joplin.NewWatcher(client, time.Duration(cfg.PollSeconds)*time.Second, debouncer.Trigger)
	if err := watcher.Start(); err != nil {
		log.Fatalf("Failed to start change watcher: %v", err)
	}
	defer watcher.Stop()

	// Scheduled runs (Optional)
	if cfg.Schedule != "" {
		runner, err := schedule.NewRunner(cfg.Schedule, func() {
			if err := review.Err(svc.RunAllReviews(context.Background())); err != nil {
				log.Printf("Scheduled run finished with errors: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Invalid schedule %q: %v", cfg.Schedule, err)
		}
		runner.Start()
		defer runner.Stop()
		log.Printf("Scheduled runs: %s", cfg.Schedule)
	}

	// Initialize AI Client (Optional)
	var aiClient ai.Generator
	switch cfg.AIProvider {
	case "":
		log.Println("No AI provider configured, digest endpoint disabled")
	case "moonshot":
		key := os.Getenv("MOONSHOT_API_KEY")
		if key == "" {
			log.Fatal("MOONSHOT_API_KEY environment variable is required when using moonshot provider")
		}
		aiClient = ai.NewMoonshotClient(key)
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			log.Fatal("GEMINI_API_KEY environment variable is required when using gemini provider")
		}
		geminiClient, err := ai.NewGeminiClient(ctx, key)
		if err != nil {
			log.Fatalf("Failed to create AI client: %v", err)
		}
		defer geminiClient.Close()
		aiClient = geminiClient
	default:
		log.Fatalf("Unknown AI provider: %s", cfg.AIProvider)
	}

	// Initialize Router
	router := api.NewRouter(svc, repo, aiClient)

	// Initialize Discord Bot (Optional)
	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken != "" {
		bot, err := discord.NewBot(discordToken, svc, repo)
		if err != nil {
			log.Printf("Failed to create Discord bot: %v", err)
		} else {
			if err := bot.Start(); err != nil {
				log.Printf("Failed to start Discord bot: %v", err)
			} else {
				log.Println("Discord Bot started")
				defer bot.Stop()
			}
		}
	}

	// Initialize Telegram Bot (Optional)
	telegramToken := os.Getenv("TELEGRAM_TOKEN")
	if telegramToken != "" {
		tgBot, err := telegram.NewBot(telegramToken, svc, repo)
		if err != nil {
			log.Printf("Failed to create Telegram bot: %v", err)
		} else {
			if err := tgBot.Start(); err != nil {
				log.Printf("Failed to start Telegram bot: %v", err)
			} else {
				log.Println("Telegram Bot started")
				defer tgBot.Stop()
			}
		}
	}

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
