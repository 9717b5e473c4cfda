package bot

import "context"

func (r *Router) handleStart(ctx context.Context, inv *invocation) {
	r.reply(ctx, inv.msg, r.deps.Config.Messages.Welcome)
}
