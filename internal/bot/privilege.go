package bot

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot/models"
)

// Privilege is the acting user's resolved permission level for the current
// message. It is resolved fresh for every message and never cached.
type Privilege int

const (
	// PrivilegeRegular grants no administrative capability.
	PrivilegeRegular Privilege = iota
	// PrivilegeChatAdmin is chat-scoped, resolved from live membership data.
	PrivilegeChatAdmin
	// PrivilegeSuperAdmin is global, resolved from the configured identifier.
	PrivilegeSuperAdmin
)

// resolvePrivilege determines the privilege of user within chat. Private
// chats compare the sender ID against the configured super-admin identifier;
// groups and channels query live membership. A failed membership query
// resolves to Regular: privilege is never granted on ambiguous status.
func (r *Router) resolvePrivilege(ctx context.Context, chat models.Chat, user *models.User) Privilege {
	if user == nil {
		return PrivilegeRegular
	}

	if chat.Type == models.ChatTypePrivate {
		if strconv.FormatInt(user.ID, 10) == r.deps.Config.Admin.SuperAdminID {
			return PrivilegeSuperAdmin
		}
		return PrivilegeRegular
	}

	role, err := r.deps.Telegram.GetMemberStatus(ctx, chat.ID, user.ID)
	if err != nil {
		r.log.WarnContext(ctx, "Membership query failed, resolving to regular",
			"chat_id", chat.ID, "user_id", user.ID, "error", err)
		return PrivilegeRegular
	}

	if role.IsAdmin() {
		return PrivilegeChatAdmin
	}
	return PrivilegeRegular
}
