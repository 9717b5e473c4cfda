// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	"github.com/aether-community/aetherbot/internal/airtable"
	"github.com/aether-community/aetherbot/internal/config"
	"github.com/aether-community/aetherbot/internal/database"
	"github.com/aether-community/aetherbot/internal/telegram"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Data     airtable.Client
	Telegram telegram.Client
}
