package bot

import (
	"context"
	"strings"
	"time"
)

// Airtable field names for the submissions table.
const (
	submissionFieldText        = "Text"
	submissionFieldKind        = "Kind"
	submissionFieldSubmittedAt = "SubmittedAt"
	submissionFieldContext     = "Context"
	submissionFieldAuthorID    = "AuthorID"
)

const (
	submissionKindQuestion   = "Question"
	submissionKindSuggestion = "Suggestion"
	submissionContextGeneral = "general"
)

func (r *Router) handleAsk(ctx context.Context, inv *invocation) {
	if inv.argString == "" {
		r.reply(ctx, inv.msg, r.deps.Config.Messages.AskUsage)
		return
	}
	r.storeSubmission(ctx, inv, submissionKindQuestion, submissionContextGeneral, inv.argString,
		r.deps.Config.Messages.QuestionAck)
}

func (r *Router) handleSuggest(ctx context.Context, inv *invocation) {
	if inv.argString == "" {
		r.reply(ctx, inv.msg, r.deps.Config.Messages.SuggestUsage)
		return
	}
	r.storeSubmission(ctx, inv, submissionKindSuggestion, submissionContextGeneral, inv.argString,
		r.deps.Config.Messages.SuggestionAck)
}

// handleAskLive files a question against a specific event, identified by the
// first argument.
func (r *Router) handleAskLive(ctx context.Context, inv *invocation) {
	if len(inv.rawArgs) < 2 {
		r.reply(ctx, inv.msg, r.deps.Config.Messages.AskLiveUsage)
		return
	}

	eventCode := strings.ToUpper(inv.rawArgs[0])
	body := strings.Join(inv.rawArgs[1:], " ")
	r.storeSubmission(ctx, inv, submissionKindQuestion, eventCode, body,
		r.deps.Config.Messages.QuestionAck)
}

func (r *Router) storeSubmission(ctx context.Context, inv *invocation, kind, context_, body, ack string) {
	fields := map[string]any{
		submissionFieldText:        body,
		submissionFieldKind:        kind,
		submissionFieldSubmittedAt: time.Now().UTC().Format(time.RFC3339),
		submissionFieldContext:     context_,
		submissionFieldAuthorID:    inv.msg.From.ID,
	}

	_, err := r.deps.Data.Create(ctx, r.deps.Config.Airtable.SubmissionsTable, fields)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to store submission",
			"kind", kind, "context", context_, "error", err)
		r.reply(ctx, inv.msg, r.deps.Config.Messages.GeneralError)
		return
	}

	r.reply(ctx, inv.msg, ack)
}
