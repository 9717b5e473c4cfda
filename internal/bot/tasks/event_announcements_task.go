package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/aether-community/aetherbot/internal/airtable"
	"github.com/aether-community/aetherbot/internal/telegram"
)

// newEventAnnouncementsTask creates the scheduled task that posts upcoming
// published events to the announcement channel. It is a no-op when no channel
// is configured.
func newEventAnnouncementsTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "event_announcements")

	return func(ctx context.Context) error {
		channelID := deps.Config.Community.AnnouncementChannelID
		if channelID == 0 {
			log.DebugContext(ctx, "No announcement channel configured, skipping")
			return nil
		}

		formula := airtable.And(airtable.IsTrue("Published"), airtable.OnOrAfterToday("Date"))
		events, err := deps.Data.FindAll(ctx, deps.Config.Airtable.EventsTable, formula,
			&airtable.Sort{Field: "Date"})
		if err != nil {
			log.ErrorContext(ctx, "Failed to fetch upcoming events", "error", err)
			return fmt.Errorf("event fetch failed: %w", err)
		}

		if len(events) == 0 {
			log.InfoContext(ctx, "No upcoming events to announce")
			return nil
		}

		var b strings.Builder
		b.WriteString("📅 Upcoming events:\n")
		for i := range events {
			e := &events[i]
			fmt.Fprintf(&b, "\n• %s — %s", airtable.StringField(e, "Title"), airtable.StringField(e, "Date"))
			if link := airtable.StringField(e, "RegistrationURL"); link != "" {
				fmt.Fprintf(&b, "\n  Register: %s", link)
			}
		}

		err = deps.Telegram.SendText(ctx, telegram.SendTextParams{ChatID: channelID, Text: b.String()})
		if err != nil {
			log.ErrorContext(ctx, "Failed to post announcement", "channel_id", channelID, "error", err)
			return fmt.Errorf("announcement failed: %w", err)
		}

		log.InfoContext(ctx, "Posted event announcement", "events", len(events))
		return nil
	}
}
