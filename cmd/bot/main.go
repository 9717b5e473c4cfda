// Package main contains the entrypoint for the community bot application.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aether-community/aetherbot/internal/airtable"
	"github.com/aether-community/aetherbot/internal/bot"
	"github.com/aether-community/aetherbot/internal/bot/tasks"
	"github.com/aether-community/aetherbot/internal/config"
	"github.com/aether-community/aetherbot/internal/database"
	"github.com/aether-community/aetherbot/internal/logger"
	"github.com/aether-community/aetherbot/internal/telegram"
	"github.com/aether-community/aetherbot/internal/webhook"
)

const datastoreTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes and starts all application components, handles graceful
// shutdown, and returns an exit code.
func run(ctx context.Context) int {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	var store database.Store
	if cfg.Database.Path != "" {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store = database.NewStore(db, log)
	} else {
		log.Warn("Dedup store disabled, redelivered updates will be reprocessed")
	}

	data, err := airtable.NewClient(cfg.Airtable.APIKey, cfg.Airtable.BaseID, datastoreTimeout, log)
	if err != nil {
		log.Error("Failed to create datastore client", "error", err)
		return 1
	}

	tg, err := telegram.NewClient(ctx, cfg.Telegram.Token, cfg.Telegram.RequestTimeout, log)
	if err != nil {
		log.Error("Failed to create Telegram client", "error", err)
		return 1
	}

	router := bot.NewRouter(bot.Deps{
		Logger:   log,
		Config:   cfg,
		Telegram: tg,
		Data:     data,
		Updates:  store,
	})
	server := webhook.NewServer(cfg, router, log)

	tDeps := tasks.TaskDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Data:     data,
		Telegram: tg,
	}
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, cfg, server, sched)

	log.Info("Starting bot...")
	if err := app.Run(ctx); err != nil {
		log.Error("Bot stopped due to error", "error", err)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}
