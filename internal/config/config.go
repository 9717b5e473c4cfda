// Package config manages application configuration from environment variables,
// config files, and default values.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g. BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	Telegram     TelegramConfig     `mapstructure:"telegram"`
	Airtable     AirtableConfig     `mapstructure:"airtable"`
	Admin        AdminConfig        `mapstructure:"admin"`
	Community    CommunityConfig    `mapstructure:"community"`
	Verification VerificationConfig `mapstructure:"verification"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Report       ReportConfig       `mapstructure:"report"`
	Messages     MessagesConfig     `mapstructure:"messages"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds the bot credential and per-call timeout for the
// Telegram API client.
type TelegramConfig struct {
	Token          string        `mapstructure:"token"           validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"required,min=1s,max=1m"`
}

// AirtableConfig holds the datastore credential, base identifier, and the
// three table names used by the bot.
type AirtableConfig struct {
	APIKey           string `mapstructure:"api_key"           validate:"required"`
	BaseID           string `mapstructure:"base_id"           validate:"required"`
	MembersTable     string `mapstructure:"members_table"     validate:"required"`
	EventsTable      string `mapstructure:"events_table"      validate:"required"`
	SubmissionsTable string `mapstructure:"submissions_table" validate:"required"`
}

// AdminConfig identifies the global super admin. The identifier is matched
// against the sender's numeric ID in private chats and, case-insensitively,
// against full message text as the admin authentication phrase.
type AdminConfig struct {
	SuperAdminID string `mapstructure:"super_admin_id" validate:"required"`
}

// CommunityConfig holds optional chat identifiers. A zero value disables the
// dependent feature (invite links, channel announcements).
type CommunityConfig struct {
	GroupChatID           int64 `mapstructure:"group_chat_id"`
	AnnouncementChannelID int64 `mapstructure:"announcement_channel_id"`
}

// VerificationConfig controls the identity code grammar.
type VerificationConfig struct {
	CodePrefix string `mapstructure:"code_prefix" validate:"required"`
}

// ServerConfig controls the webhook HTTP server.
type ServerConfig struct {
	ListenAddr  string `mapstructure:"listen_addr"  validate:"required"`
	WebhookPath string `mapstructure:"webhook_path" validate:"required,startswith=/"`
}

// DatabaseConfig controls the local processed-update store. An empty path
// disables webhook redelivery deduplication.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days" validate:"min=1"`
}

// SchedulerConfig holds per-task scheduling settings keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// ReportConfig bounds the rendered submissions report.
type ReportConfig struct {
	MaxLength int `mapstructure:"max_length" validate:"min=256"`
}

// MessagesConfig holds the user-visible reply texts.
type MessagesConfig struct {
	Welcome           string `mapstructure:"welcome"`
	HelpNudge         string `mapstructure:"help_nudge"`
	NotRecognized     string `mapstructure:"not_recognized"`
	GeneralError      string `mapstructure:"general_error"`
	ReplyRequired     string `mapstructure:"reply_required"`
	CannotTargetAdmin string `mapstructure:"cannot_target_admin"`
	InvalidDuration   string `mapstructure:"invalid_duration"`
	PrivateOnlyFmt    string `mapstructure:"private_only_fmt"`
	VerifyFormatFmt   string `mapstructure:"verify_format_fmt"`
	VerifyNotFound    string `mapstructure:"verify_not_found"`
	VerifySuccessFmt  string `mapstructure:"verify_success_fmt"`
	NoUpcomingEvents  string `mapstructure:"no_upcoming_events"`
	NoEventsFound     string `mapstructure:"no_events_found"`
	NoRegistrations   string `mapstructure:"no_registrations"`
	NoSubmissions     string `mapstructure:"no_submissions"`
	QuestionAck       string `mapstructure:"question_ack"`
	SuggestionAck     string `mapstructure:"suggestion_ack"`
	AskUsage          string `mapstructure:"ask_usage"`
	AskLiveUsage      string `mapstructure:"asklive_usage"`
	SuggestUsage      string `mapstructure:"suggest_usage"`
	AdminConfirmed    string `mapstructure:"admin_confirmed"`
	ReportTruncated   string `mapstructure:"report_truncated"`
}

// Load reads configuration from defaults, an optional config.yaml, and BOT_*
// environment variables, then validates the result.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Info("configuration file not found, using defaults and environment")
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	slog.Info("configuration loaded",
		"log_level", cfg.Log.Level,
		"webhook_path", cfg.Server.WebhookPath,
		"dedup_enabled", cfg.Database.Path != "")
	return cfg, nil
}
