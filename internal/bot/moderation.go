package bot

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aether-community/aetherbot/internal/parse"
	"github.com/aether-community/aetherbot/internal/telegram"
)

// Moderation handlers run only after the router's pre-check: sender is a
// chat admin and the message replies to the target user.

func (r *Router) handleBan(ctx context.Context, inv *invocation) {
	msg := inv.msg
	target := msg.ReplyToMessage.From

	if err := r.deps.Telegram.BanMember(ctx, msg.Chat.ID, target.ID); err != nil {
		r.log.ErrorContext(ctx, "Ban failed", "chat_id", msg.Chat.ID, "target_user_id", target.ID, "error", err)
		r.reply(ctx, msg, r.deps.Config.Messages.GeneralError)
		return
	}

	r.reply(ctx, msg, fmt.Sprintf("Banned %s.", displayName(target)))
}

func (r *Router) handleMute(ctx context.Context, inv *invocation) {
	msg := inv.msg
	target := msg.ReplyToMessage.From

	seconds := 0
	if len(inv.rawArgs) > 0 {
		seconds = parse.Duration(inv.rawArgs[0])
	}
	if seconds == 0 {
		// Never apply a zero-length restriction.
		r.reply(ctx, msg, r.deps.Config.Messages.InvalidDuration)
		return
	}

	until := time.Now().Add(time.Duration(seconds) * time.Second)
	if err := r.deps.Telegram.RestrictMember(ctx, msg.Chat.ID, target.ID, until); err != nil {
		r.log.ErrorContext(ctx, "Mute failed", "chat_id", msg.Chat.ID, "target_user_id", target.ID, "error", err)
		r.reply(ctx, msg, r.deps.Config.Messages.GeneralError)
		return
	}

	r.reply(ctx, msg, fmt.Sprintf("Muted %s for %s.", displayName(target), formatSpan(seconds)))
}

func (r *Router) handleUnmute(ctx context.Context, inv *invocation) {
	msg := inv.msg
	target := msg.ReplyToMessage.From

	if err := r.deps.Telegram.UnrestrictMember(ctx, msg.Chat.ID, target.ID); err != nil {
		r.log.ErrorContext(ctx, "Unmute failed", "chat_id", msg.Chat.ID, "target_user_id", target.ID, "error", err)
		r.reply(ctx, msg, r.deps.Config.Messages.GeneralError)
		return
	}

	r.reply(ctx, msg, fmt.Sprintf("Unmuted %s.", displayName(target)))
}

func (r *Router) handleDelete(ctx context.Context, inv *invocation) {
	msg := inv.msg
	chatID := msg.Chat.ID
	targetID := msg.ReplyToMessage.ID
	commandID := msg.ID

	// The two deletions are independent and may run concurrently.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.deps.Telegram.DeleteMessage(gCtx, chatID, targetID)
	})
	g.Go(func() error {
		return r.deps.Telegram.DeleteMessage(gCtx, chatID, commandID)
	})

	if err := g.Wait(); err != nil {
		r.log.ErrorContext(ctx, "Delete failed", "chat_id", chatID, "target_message_id", targetID, "error", err)
		r.send(ctx, chatID, r.deps.Config.Messages.GeneralError, nil)
		return
	}

	// The command message is gone, so the confirmation is not a reply.
	err := r.deps.Telegram.SendText(ctx, telegram.SendTextParams{ChatID: chatID, Text: "Message deleted."})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send delete confirmation", "chat_id", chatID, "error", err)
	}
}

// formatSpan renders a restriction length for confirmations: whole days for
// a day or more, otherwise hours rounded to the nearest (at least one).
func formatSpan(seconds int) string {
	if seconds >= 86400 {
		return fmt.Sprintf("%d day(s)", seconds/86400)
	}
	hours := (seconds + 1800) / 3600
	if hours < 1 {
		hours = 1
	}
	return fmt.Sprintf("%d hour(s)", hours)
}
