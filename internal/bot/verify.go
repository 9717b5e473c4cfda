package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/aether-community/aetherbot/internal/airtable"
)

// Airtable field names for the members table.
const (
	memberFieldName       = "Name"
	memberFieldCode       = "Code"
	memberFieldTelegramID = "TelegramID"
)

func (r *Router) handleVerify(ctx context.Context, inv *invocation) {
	if len(inv.rawArgs) == 0 {
		prefix := r.deps.Config.Verification.CodePrefix
		r.reply(ctx, inv.msg, fmt.Sprintf(r.deps.Config.Messages.VerifyFormatFmt, prefix, prefix))
		return
	}

	r.verifyCode(ctx, inv.msg, inv.rawArgs[0])
}

// verifyCode looks up an identity code in the member registry, stamps the
// member record with the sender's Telegram ID, and welcomes them. When a
// community group is configured the welcome carries a single-use invite link.
func (r *Router) verifyCode(ctx context.Context, msg *models.Message, code string) {
	cfg := r.deps.Config

	if !r.codePattern.MatchString(code) {
		prefix := cfg.Verification.CodePrefix
		r.reply(ctx, msg, fmt.Sprintf(cfg.Messages.VerifyFormatFmt, prefix, prefix))
		return
	}

	normalized := strings.ToUpper(code)
	member, err := r.deps.Data.FindOne(ctx, cfg.Airtable.MembersTable,
		airtable.EqualsFold(memberFieldCode, normalized))
	if err != nil {
		r.log.ErrorContext(ctx, "Member lookup failed", "code", normalized, "error", err)
		r.reply(ctx, msg, cfg.Messages.GeneralError)
		return
	}
	if member == nil {
		r.log.InfoContext(ctx, "Unknown identity code", "code", normalized, "user_id", msg.From.ID)
		r.reply(ctx, msg, cfg.Messages.VerifyNotFound)
		return
	}

	// The stamp is best effort, verification already succeeded.
	_, err = r.deps.Data.Update(ctx, cfg.Airtable.MembersTable, member.ID,
		map[string]any{memberFieldTelegramID: msg.From.ID})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to stamp member record",
			"record_id", member.ID, "user_id", msg.From.ID, "error", err)
	}

	text := fmt.Sprintf(cfg.Messages.VerifySuccessFmt, airtable.StringField(member, memberFieldName))

	if cfg.Community.GroupChatID != 0 {
		invite, err := r.deps.Telegram.CreateSingleUseInvite(ctx, cfg.Community.GroupChatID)
		if err != nil {
			r.log.ErrorContext(ctx, "Failed to create invite link",
				"chat_id", cfg.Community.GroupChatID, "error", err)
		} else {
			text += fmt.Sprintf("\n\nJoin the community group: %s", invite)
		}
	}

	r.log.InfoContext(ctx, "Member verified", "code", normalized, "user_id", msg.From.ID)
	r.send(ctx, msg.Chat.ID, text, capabilityKeyboard())
}

// capabilityKeyboard offers the member-facing commands after verification.
func capabilityKeyboard() models.ReplyMarkup {
	return &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: "/events"}},
			{{Text: "/ask"}, {Text: "/suggest"}},
		},
		ResizeKeyboard: true,
	}
}
