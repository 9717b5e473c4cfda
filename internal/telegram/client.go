// Package telegram wraps the Telegram Bot API behind the narrow client
// interface the command engine depends on.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MemberRole is the platform-reported membership status of a user in a chat.
type MemberRole string

// Membership roles as reported by the Bot API.
const (
	RoleCreator       MemberRole = "creator"
	RoleAdministrator MemberRole = "administrator"
	RoleMember        MemberRole = "member"
	RoleRestricted    MemberRole = "restricted"
	RoleLeft          MemberRole = "left"
	RoleBanned        MemberRole = "kicked"
	RoleUnknown       MemberRole = "unknown"
)

// IsAdmin reports whether the role grants chat administration rights.
func (r MemberRole) IsAdmin() bool {
	return r == RoleCreator || r == RoleAdministrator
}

// SendTextParams describes an outbound text message.
type SendTextParams struct {
	ChatID           int64
	Text             string
	ReplyToMessageID int
	Keyboard         models.ReplyMarkup
}

// Client is the messaging collaborator interface used by the router and
// handlers. Every call is bounded by the configured request timeout.
type Client interface {
	SendText(ctx context.Context, p SendTextParams) error
	GetMemberStatus(ctx context.Context, chatID, userID int64) (MemberRole, error)
	CreateSingleUseInvite(ctx context.Context, chatID int64) (string, error)
	RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error
	UnrestrictMember(ctx context.Context, chatID, userID int64) error
	BanMember(ctx context.Context, chatID, userID int64) error
	UnbanMember(ctx context.Context, chatID, userID int64) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	Self() string
}

type botClient struct {
	b       *tgbot.Bot
	log     *slog.Logger
	timeout time.Duration
	self    string
}

// NewClient creates a Telegram client, verifies the credential by fetching
// the bot's own identity, and caches the bot username for deep links.
func NewClient(ctx context.Context, token string, timeout time.Duration, logger *slog.Logger) (Client, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_client")

	b, err := tgbot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	me, err := b.GetMe(cctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot identity: %w", err)
	}

	log.Info("Telegram client initialized", "bot_id", me.ID, "bot_username", me.Username)
	return &botClient{b: b, log: log, timeout: timeout, self: me.Username}, nil
}

func (c *botClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *botClient) SendText(ctx context.Context, p SendTextParams) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	params := &tgbot.SendMessageParams{
		ChatID: p.ChatID,
		Text:   p.Text,
	}
	if p.ReplyToMessageID != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: p.ReplyToMessageID}
	}
	if p.Keyboard != nil {
		params.ReplyMarkup = p.Keyboard
	}

	if _, err := c.b.SendMessage(cctx, params); err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", p.ChatID, err)
	}
	return nil
}

func (c *botClient) GetMemberStatus(ctx context.Context, chatID, userID int64) (MemberRole, error) {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	member, err := c.b.GetChatMember(cctx, &tgbot.GetChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return RoleUnknown, fmt.Errorf("failed to get member status (chat %d, user %d): %w", chatID, userID, err)
	}
	if member == nil {
		return RoleUnknown, fmt.Errorf("unexpected empty member response (chat %d, user %d)", chatID, userID)
	}

	switch member.Type {
	case models.ChatMemberTypeOwner:
		return RoleCreator, nil
	case models.ChatMemberTypeAdministrator:
		return RoleAdministrator, nil
	case models.ChatMemberTypeMember:
		return RoleMember, nil
	case models.ChatMemberTypeRestricted:
		return RoleRestricted, nil
	case models.ChatMemberTypeLeft:
		return RoleLeft, nil
	case models.ChatMemberTypeBanned:
		return RoleBanned, nil
	default:
		return RoleUnknown, nil
	}
}

func (c *botClient) CreateSingleUseInvite(ctx context.Context, chatID int64) (string, error) {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	link, err := c.b.CreateChatInviteLink(cctx, &tgbot.CreateChatInviteLinkParams{
		ChatID:      chatID,
		Name:        "verification",
		ExpireDate:  int(time.Now().Add(24 * time.Hour).Unix()),
		MemberLimit: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create invite link for chat %d: %w", chatID, err)
	}
	if link == nil || link.InviteLink == "" {
		return "", fmt.Errorf("unexpected invite link response for chat %d", chatID)
	}
	return link.InviteLink, nil
}

func (c *botClient) RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	// Zero-value permissions revoke everything until the deadline.
	ok, err := c.b.RestrictChatMember(cctx, &tgbot.RestrictChatMemberParams{
		ChatID:      chatID,
		UserID:      userID,
		Permissions: &models.ChatPermissions{},
		UntilDate:   int(until.Unix()),
	})
	if err != nil {
		return fmt.Errorf("failed to restrict member (chat %d, user %d): %w", chatID, userID, err)
	}
	if !ok {
		return fmt.Errorf("telegram declined restrictChatMember (chat %d, user %d)", chatID, userID)
	}
	return nil
}

func (c *botClient) UnrestrictMember(ctx context.Context, chatID, userID int64) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	ok, err := c.b.RestrictChatMember(cctx, &tgbot.RestrictChatMemberParams{
		ChatID: chatID,
		UserID: userID,
		Permissions: &models.ChatPermissions{
			CanSendMessages:       true,
			CanSendAudios:         true,
			CanSendDocuments:      true,
			CanSendPhotos:         true,
			CanSendVideos:         true,
			CanSendVideoNotes:     true,
			CanSendVoiceNotes:     true,
			CanSendPolls:          true,
			CanSendOtherMessages:  true,
			CanAddWebPagePreviews: true,
			CanInviteUsers:        true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to unrestrict member (chat %d, user %d): %w", chatID, userID, err)
	}
	if !ok {
		return fmt.Errorf("telegram declined restrictChatMember (chat %d, user %d)", chatID, userID)
	}
	return nil
}

func (c *botClient) BanMember(ctx context.Context, chatID, userID int64) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	ok, err := c.b.BanChatMember(cctx, &tgbot.BanChatMemberParams{ChatID: chatID, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to ban member (chat %d, user %d): %w", chatID, userID, err)
	}
	if !ok {
		return fmt.Errorf("telegram declined banChatMember (chat %d, user %d)", chatID, userID)
	}
	return nil
}

func (c *botClient) UnbanMember(ctx context.Context, chatID, userID int64) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	ok, err := c.b.UnbanChatMember(cctx, &tgbot.UnbanChatMemberParams{
		ChatID:       chatID,
		UserID:       userID,
		OnlyIfBanned: true,
	})
	if err != nil {
		return fmt.Errorf("failed to unban member (chat %d, user %d): %w", chatID, userID, err)
	}
	if !ok {
		return fmt.Errorf("telegram declined unbanChatMember (chat %d, user %d)", chatID, userID)
	}
	return nil
}

func (c *botClient) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	cctx, cancel := c.callCtx(ctx)
	defer cancel()

	ok, err := c.b.DeleteMessage(cctx, &tgbot.DeleteMessageParams{ChatID: chatID, MessageID: messageID})
	if err != nil {
		return fmt.Errorf("failed to delete message %d in chat %d: %w", messageID, chatID, err)
	}
	if !ok {
		return fmt.Errorf("telegram declined deleteMessage (chat %d, message %d)", chatID, messageID)
	}
	return nil
}

func (c *botClient) Self() string {
	return c.self
}
