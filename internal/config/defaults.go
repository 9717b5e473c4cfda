package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultRetentionDays  = 14
	defaultReportMax      = 3500
)

// DefaultMessages holds the stock reply texts. All of them can be overridden
// through configuration.
var DefaultMessages = MessagesConfig{
	Welcome:           "👋 Welcome! Send me your membership code (like AETH-1234) to link your account, or use /events to see what's coming up.",
	HelpNudge:         "Hi! Send /start to see what I can do.",
	NotRecognized:     "Command not recognized. Try /events, /ask or /suggest.",
	GeneralError:      "An error occurred. Please try again later.",
	ReplyRequired:     "Reply to a user's message to use this command.",
	CannotTargetAdmin: "Cannot target an administrator.",
	InvalidDuration:   "Invalid duration. Use format like `1h`, `2d`.",
	PrivateOnlyFmt:    "This command works in a private chat. Message me here: %s",
	VerifyFormatFmt:   "That looks like a membership code, but the format is off. Use %s followed by at least 4 letters or digits, e.g. %s1234.",
	VerifyNotFound:    "I couldn't find a registration with that code. Double-check it or contact an organizer.",
	VerifySuccessFmt:  "✅ Welcome, %s! Your account is now linked.",
	NoUpcomingEvents:  "No upcoming events right now. Check back soon!",
	NoEventsFound:     "No events found.",
	NoRegistrations:   "No registrations found.",
	NoSubmissions:     "No submissions yet.",
	QuestionAck:       "Thanks! Your question has been recorded.",
	SuggestionAck:     "Thanks! Your suggestion has been recorded.",
	AskUsage:          "Usage: /ask <your question>",
	AskLiveUsage:      "Usage: /asklive <event code> <your question>",
	SuggestUsage:      "Usage: /suggest <your suggestion>",
	AdminConfirmed:    "Admin access confirmed. Fetching submissions...",
	ReportTruncated:   "Report too long, showing partial output.",
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetDefault("telegram.request_timeout", defaultRequestTimeout)

	viper.SetDefault("airtable.members_table", "Members")
	viper.SetDefault("airtable.events_table", "Events")
	viper.SetDefault("airtable.submissions_table", "Submissions")

	viper.SetDefault("verification.code_prefix", "AETH-")

	viper.SetDefault("server.listen_addr", ":8080")
	viper.SetDefault("server.webhook_path", "/webhook")

	viper.SetDefault("database.path", "aetherbot.db")
	viper.SetDefault("database.retention_days", defaultRetentionDays)

	viper.SetDefault("report.max_length", defaultReportMax)

	viper.SetDefault("scheduler.tasks.db_maintenance.enabled", true)
	viper.SetDefault("scheduler.tasks.db_maintenance.schedule", "0 0 4 * * *")
	viper.SetDefault("scheduler.tasks.event_announcements.enabled", false)
	viper.SetDefault("scheduler.tasks.event_announcements.schedule", "0 0 9 * * *")

	viper.SetDefault("messages.welcome", DefaultMessages.Welcome)
	viper.SetDefault("messages.help_nudge", DefaultMessages.HelpNudge)
	viper.SetDefault("messages.not_recognized", DefaultMessages.NotRecognized)
	viper.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	viper.SetDefault("messages.reply_required", DefaultMessages.ReplyRequired)
	viper.SetDefault("messages.cannot_target_admin", DefaultMessages.CannotTargetAdmin)
	viper.SetDefault("messages.invalid_duration", DefaultMessages.InvalidDuration)
	viper.SetDefault("messages.private_only_fmt", DefaultMessages.PrivateOnlyFmt)
	viper.SetDefault("messages.verify_format_fmt", DefaultMessages.VerifyFormatFmt)
	viper.SetDefault("messages.verify_not_found", DefaultMessages.VerifyNotFound)
	viper.SetDefault("messages.verify_success_fmt", DefaultMessages.VerifySuccessFmt)
	viper.SetDefault("messages.no_upcoming_events", DefaultMessages.NoUpcomingEvents)
	viper.SetDefault("messages.no_events_found", DefaultMessages.NoEventsFound)
	viper.SetDefault("messages.no_registrations", DefaultMessages.NoRegistrations)
	viper.SetDefault("messages.no_submissions", DefaultMessages.NoSubmissions)
	viper.SetDefault("messages.question_ack", DefaultMessages.QuestionAck)
	viper.SetDefault("messages.suggestion_ack", DefaultMessages.SuggestionAck)
	viper.SetDefault("messages.ask_usage", DefaultMessages.AskUsage)
	viper.SetDefault("messages.asklive_usage", DefaultMessages.AskLiveUsage)
	viper.SetDefault("messages.suggest_usage", DefaultMessages.SuggestUsage)
	viper.SetDefault("messages.admin_confirmed", DefaultMessages.AdminConfirmed)
	viper.SetDefault("messages.report_truncated", DefaultMessages.ReportTruncated)
}
