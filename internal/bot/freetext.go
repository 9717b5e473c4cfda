package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/aether-community/aetherbot/internal/airtable"
)

// handleFreeText classifies a non-command message: the super-admin phrase
// yields the submissions report, an identity code runs implicit verification,
// and anything else in a private chat gets a help nudge. Free text in groups
// is ignored.
func (r *Router) handleFreeText(ctx context.Context, msg *models.Message, text string) {
	if text == "" {
		return
	}

	if strings.EqualFold(text, r.deps.Config.Admin.SuperAdminID) {
		r.reply(ctx, msg, r.deps.Config.Messages.AdminConfirmed)
		r.sendSubmissionsReport(ctx, msg.Chat.ID)
		return
	}

	if r.codePattern.MatchString(text) {
		r.verifyCode(ctx, msg, text)
		return
	}

	if msg.Chat.Type == models.ChatTypePrivate {
		r.reply(ctx, msg, r.deps.Config.Messages.HelpNudge)
	}
}

// sendSubmissionsReport renders all stored submissions oldest first, truncated
// to the configured maximum length.
func (r *Router) sendSubmissionsReport(ctx context.Context, chatID int64) {
	cfg := r.deps.Config
	subs, err := r.deps.Data.FindAll(ctx, cfg.Airtable.SubmissionsTable, "",
		&airtable.Sort{Field: submissionFieldSubmittedAt})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch submissions", "error", err)
		r.send(ctx, chatID, cfg.Messages.GeneralError, nil)
		return
	}

	if len(subs) == 0 {
		r.send(ctx, chatID, cfg.Messages.NoSubmissions, nil)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Submissions (%d):\n", len(subs))
	for i := range subs {
		s := &subs[i]
		entry := fmt.Sprintf("\n• [%s] %s (%s)",
			airtable.StringField(s, submissionFieldKind),
			airtable.StringField(s, submissionFieldText),
			airtable.StringField(s, submissionFieldContext))
		if b.Len()+len(entry) > cfg.Report.MaxLength {
			b.WriteString("\n" + cfg.Messages.ReportTruncated)
			break
		}
		b.WriteString(entry)
	}

	r.send(ctx, chatID, b.String(), nil)
}
