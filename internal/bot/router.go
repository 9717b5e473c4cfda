// Package bot implements the command interpretation, authorization, and
// dispatch engine behind the webhook endpoint.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/aether-community/aetherbot/internal/telegram"
)

// invocation carries one parsed command through dispatch.
type invocation struct {
	msg       *models.Message
	rawArgs   []string
	argString string
}

type handlerFunc func(ctx context.Context, inv *invocation)

// Router classifies incoming messages, enforces scope and privilege rules,
// and dispatches to the matching handler. It holds no per-message state.
type Router struct {
	deps        Deps
	log         *slog.Logger
	codePattern *regexp.Regexp
	handlers    map[commandKind]handlerFunc
}

// NewRouter creates the command router. The identity-code pattern is built
// from the configured prefix: prefix followed by at least four alphanumeric
// characters, matched case-insensitively.
func NewRouter(deps Deps) *Router {
	r := &Router{
		deps: deps,
		log:  deps.Logger.With("component", "router"),
		codePattern: regexp.MustCompile(
			`(?i)^` + regexp.QuoteMeta(deps.Config.Verification.CodePrefix) + `[A-Z0-9]{4,}$`),
	}

	r.handlers = map[commandKind]handlerFunc{
		cmdStart:         r.handleStart,
		cmdVerify:        r.handleVerify,
		cmdEvents:        r.handleEvents,
		cmdAsk:           r.handleAsk,
		cmdAskLive:       r.handleAskLive,
		cmdSuggest:       r.handleSuggest,
		cmdCreateEvent:   r.handleCreateEvent,
		cmdUpdateEvent:   r.handleUpdateEvent,
		cmdCloseEvent:    r.handleCloseEvent,
		cmdListEvents:    r.handleListEvents,
		cmdRegistrations: r.handleRegistrations,
		cmdBan:           r.handleBan,
		cmdMute:          r.handleMute,
		cmdUnmute:        r.handleUnmute,
		cmdDelete:        r.handleDelete,
	}
	return r
}

// HandleUpdate processes one webhook delivery to completion. Redelivered
// updates are skipped before any side effect when a dedup store is wired.
func (r *Router) HandleUpdate(ctx context.Context, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}
	msg := update.Message
	if msg.From == nil {
		r.log.DebugContext(ctx, "Ignoring message without sender", "update_id", update.ID)
		return
	}

	if r.deps.Updates != nil {
		fresh, err := r.deps.Updates.MarkProcessed(ctx, update.ID)
		if err != nil {
			// Dedup bookkeeping failure must not drop the message.
			r.log.ErrorContext(ctx, "Failed to record update, processing anyway",
				"update_id", update.ID, "error", err)
		} else if !fresh {
			r.log.InfoContext(ctx, "Skipping redelivered update", "update_id", update.ID)
			return
		}
	}

	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		r.handleFreeText(ctx, msg, text)
		return
	}

	tokens := strings.Fields(text)
	name := r.stripSelfSuffix(tokens[0])
	inv := &invocation{
		msg:       msg,
		rawArgs:   tokens[1:],
		argString: strings.TrimSpace(strings.TrimPrefix(text, tokens[0])),
	}

	spec, known := commandTable[name]
	isPrivate := msg.Chat.Type == models.ChatTypePrivate

	if !known {
		if isPrivate {
			r.reply(ctx, msg, r.deps.Config.Messages.NotRecognized)
		}
		return
	}

	if spec.moderation {
		r.dispatchModeration(ctx, spec, inv, isPrivate)
		return
	}

	if spec.scope == scopePrivateOnly && !isPrivate {
		r.redirectToPrivate(ctx, msg)
		return
	}

	if spec.adminOnly {
		privilege := r.resolvePrivilege(ctx, msg.Chat, msg.From)
		authorized := (isPrivate && privilege == PrivilegeSuperAdmin) ||
			(!isPrivate && privilege == PrivilegeChatAdmin)
		if !authorized {
			r.log.InfoContext(ctx, "Unauthorized admin command ignored",
				"command", name, "chat_id", msg.Chat.ID, "user_id", msg.From.ID)
			return
		}
	}

	r.handlers[spec.kind](ctx, inv)
}

// dispatchModeration applies the moderation pre-check: group only, admin
// only (silently, so the commands stay invisible to non-admins), a required
// reply target, and the no-targeting-admins rule for ban and mute.
func (r *Router) dispatchModeration(ctx context.Context, spec commandSpec, inv *invocation, isPrivate bool) {
	msg := inv.msg
	if isPrivate {
		return
	}

	privilege := r.resolvePrivilege(ctx, msg.Chat, msg.From)
	if privilege != PrivilegeChatAdmin {
		r.log.InfoContext(ctx, "Moderation command from non-admin ignored",
			"chat_id", msg.Chat.ID, "user_id", msg.From.ID)
		return
	}

	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		r.reply(ctx, msg, r.deps.Config.Messages.ReplyRequired)
		return
	}

	if spec.kind == cmdBan || spec.kind == cmdMute {
		targetPrivilege := r.resolvePrivilege(ctx, msg.Chat, msg.ReplyToMessage.From)
		if targetPrivilege != PrivilegeRegular {
			r.reply(ctx, msg, r.deps.Config.Messages.CannotTargetAdmin)
			return
		}
	}

	r.handlers[spec.kind](ctx, inv)
}

// redirectToPrivate answers a private-only command issued in a group with a
// deep link to the bot's private chat. The command itself never runs.
func (r *Router) redirectToPrivate(ctx context.Context, msg *models.Message) {
	username := r.deps.Telegram.Self()
	if username == "" {
		r.log.ErrorContext(ctx, "Bot username unavailable, cannot build deep link", "chat_id", msg.Chat.ID)
		r.reply(ctx, msg, r.deps.Config.Messages.GeneralError)
		return
	}

	link := fmt.Sprintf("https://t.me/%s", username)
	r.reply(ctx, msg, fmt.Sprintf(r.deps.Config.Messages.PrivateOnlyFmt, link))
}

// stripSelfSuffix removes an "@botname" suffix addressed to this bot, the
// form Telegram clients use for commands in groups.
func (r *Router) stripSelfSuffix(token string) string {
	name, suffix, found := strings.Cut(token, "@")
	if !found {
		return token
	}
	if strings.EqualFold(suffix, r.deps.Telegram.Self()) {
		return name
	}
	return token
}

func (r *Router) reply(ctx context.Context, msg *models.Message, text string) {
	err := r.deps.Telegram.SendText(ctx, telegram.SendTextParams{
		ChatID:           msg.Chat.ID,
		Text:             text,
		ReplyToMessageID: msg.ID,
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

func (r *Router) send(ctx context.Context, chatID int64, text string, keyboard models.ReplyMarkup) {
	err := r.deps.Telegram.SendText(ctx, telegram.SendTextParams{
		ChatID:   chatID,
		Text:     text,
		Keyboard: keyboard,
	})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

func displayName(u *models.User) string {
	if u == nil {
		return "unknown"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = "@" + u.Username
	}
	return name
}
