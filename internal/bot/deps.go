package bot

import (
	"log/slog"

	"github.com/aether-community/aetherbot/internal/airtable"
	"github.com/aether-community/aetherbot/internal/config"
	"github.com/aether-community/aetherbot/internal/database"
	"github.com/aether-community/aetherbot/internal/telegram"
)

// Deps provides dependencies for the command router and its handlers.
type Deps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Telegram telegram.Client
	Data     airtable.Client

	// Updates is optional; nil disables webhook redelivery deduplication.
	Updates database.Store
}
