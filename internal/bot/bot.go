package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/aether-community/aetherbot/internal/config"
)

// Runner is a long-running component that serves until its context is
// canceled. The webhook server satisfies it.
type Runner interface {
	Run(ctx context.Context) error
}

// Bot is the application orchestrator. It owns the webhook server and the
// scheduler and ties their lifecycles together.
type Bot struct {
	logger    *slog.Logger
	cfg       *config.Config
	server    Runner
	scheduler *Scheduler
}

// NewBot creates the orchestrator around its long-running components.
func NewBot(logger *slog.Logger, cfg *config.Config, server Runner, scheduler *Scheduler) *Bot {
	return &Bot{
		logger:    logger.With("component", "bot_orchestrator"),
		cfg:       cfg,
		server:    server,
		scheduler: scheduler,
	}
}

// Run starts all components and blocks until context cancellation or a
// component failure, then shuts everything down.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("Starting bot orchestrator...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.server.Run(gCtx)
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := b.scheduler.Stop(); err != nil {
			b.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		b.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	b.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}
