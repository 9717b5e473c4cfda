package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/aether-community/aetherbot/internal/airtable"
	"github.com/aether-community/aetherbot/internal/parse"
)

// Airtable field names for the events table.
const (
	fieldTitle       = "Title"
	fieldDate        = "Date"
	fieldDescription = "Description"
	fieldRegURL      = "RegistrationURL"
	fieldCode        = "Code"
	fieldPublished   = "Published"
)

// ActionResult reports the outcome of a mutating admin action.
type ActionResult struct {
	Success bool
	Message string
}

func (r *Router) handleCreateEvent(ctx context.Context, inv *invocation) {
	result := r.createEvent(ctx, parse.Args(inv.argString))
	r.reply(ctx, inv.msg, result.Message)
}

func (r *Router) handleUpdateEvent(ctx context.Context, inv *invocation) {
	result := r.updateEvent(ctx, parse.Args(inv.argString))
	r.reply(ctx, inv.msg, result.Message)
}

// handleCloseEvent is updateEvent with the implicit argument status=closed.
func (r *Router) handleCloseEvent(ctx context.Context, inv *invocation) {
	if len(inv.rawArgs) == 0 {
		r.reply(ctx, inv.msg, "Usage: /closeevent <event code>")
		return
	}

	result := r.updateEvent(ctx, map[string]string{"code": inv.rawArgs[0], "status": "closed"})
	r.reply(ctx, inv.msg, result.Message)
}

func (r *Router) createEvent(ctx context.Context, args map[string]string) ActionResult {
	for _, required := range []string{"title", "date", "code"} {
		if args[required] == "" {
			return ActionResult{Message: fmt.Sprintf("Missing required field: %s=\"...\".", required)}
		}
	}

	code := strings.ToUpper(args["code"])
	fields := map[string]any{
		fieldTitle:     args["title"],
		fieldDate:      args["date"],
		fieldCode:      code,
		fieldPublished: true,
	}
	if v, ok := args["description"]; ok {
		fields[fieldDescription] = v
	}
	if v, ok := args["url"]; ok {
		fields[fieldRegURL] = v
	}

	if _, err := r.deps.Data.Create(ctx, r.deps.Config.Airtable.EventsTable, fields); err != nil {
		r.log.ErrorContext(ctx, "Failed to create event", "code", code, "error", err)
		return ActionResult{Message: r.deps.Config.Messages.GeneralError}
	}

	r.log.InfoContext(ctx, "Event created", "code", code, "title", args["title"])
	return ActionResult{Success: true, Message: fmt.Sprintf("Event %q created (code %s).", args["title"], code)}
}

func (r *Router) updateEvent(ctx context.Context, args map[string]string) ActionResult {
	code := strings.ToUpper(args["code"])
	if code == "" {
		return ActionResult{Message: "Missing required field: code=\"...\"."}
	}

	event, err := r.deps.Data.FindOne(ctx, r.deps.Config.Airtable.EventsTable,
		airtable.EqualsFold(fieldCode, code))
	if err != nil {
		r.log.ErrorContext(ctx, "Event lookup failed", "code", code, "error", err)
		return ActionResult{Message: r.deps.Config.Messages.GeneralError}
	}
	if event == nil {
		return ActionResult{Message: fmt.Sprintf("No event found with code %s.", code)}
	}

	fields := make(map[string]any)
	if v, ok := args["title"]; ok {
		fields[fieldTitle] = v
	}
	if v, ok := args["date"]; ok {
		fields[fieldDate] = v
	}
	if v, ok := args["description"]; ok {
		fields[fieldDescription] = v
	}
	if v, ok := args["url"]; ok {
		fields[fieldRegURL] = v
	}
	// "closed"/"open" translate to the published flag, never stored literally.
	if v, ok := args["status"]; ok {
		switch strings.ToLower(v) {
		case "closed":
			fields[fieldPublished] = false
		case "open":
			fields[fieldPublished] = true
		}
	}

	if len(fields) == 0 {
		return ActionResult{Message: "No recognized fields to update. Use title, date, description, url or status."}
	}

	if _, err := r.deps.Data.Update(ctx, r.deps.Config.Airtable.EventsTable, event.ID, fields); err != nil {
		r.log.ErrorContext(ctx, "Failed to update event", "code", code, "error", err)
		return ActionResult{Message: r.deps.Config.Messages.GeneralError}
	}

	r.log.InfoContext(ctx, "Event updated", "code", code)
	return ActionResult{Success: true, Message: fmt.Sprintf("Event %s updated.", code)}
}

// handleEvents lists upcoming published events for any caller.
func (r *Router) handleEvents(ctx context.Context, inv *invocation) {
	formula := airtable.And(airtable.IsTrue(fieldPublished), airtable.OnOrAfterToday(fieldDate))
	events, err := r.deps.Data.FindAll(ctx, r.deps.Config.Airtable.EventsTable, formula,
		&airtable.Sort{Field: fieldDate})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to list events", "error", err)
		r.reply(ctx, inv.msg, r.deps.Config.Messages.GeneralError)
		return
	}

	if len(events) == 0 {
		r.reply(ctx, inv.msg, r.deps.Config.Messages.NoUpcomingEvents)
		return
	}

	var b strings.Builder
	b.WriteString("Upcoming events:\n")
	for i := range events {
		e := &events[i]
		fmt.Fprintf(&b, "\n• %s — %s\n", airtable.StringField(e, fieldTitle), airtable.StringField(e, fieldDate))
		if desc := airtable.StringField(e, fieldDescription); desc != "" {
			fmt.Fprintf(&b, "  %s\n", desc)
		}
		if link := airtable.StringField(e, fieldRegURL); link != "" {
			fmt.Fprintf(&b, "  Register: %s\n", link)
		}
	}
	r.reply(ctx, inv.msg, b.String())
}

// handleListEvents lists every event, including unpublished ones, for admins.
func (r *Router) handleListEvents(ctx context.Context, inv *invocation) {
	events, err := r.deps.Data.FindAll(ctx, r.deps.Config.Airtable.EventsTable, "",
		&airtable.Sort{Field: fieldDate})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to list all events", "error", err)
		r.reply(ctx, inv.msg, r.deps.Config.Messages.GeneralError)
		return
	}

	if len(events) == 0 {
		r.reply(ctx, inv.msg, r.deps.Config.Messages.NoEventsFound)
		return
	}

	var b strings.Builder
	b.WriteString("All events:\n")
	for i := range events {
		e := &events[i]
		status := "closed"
		if airtable.BoolField(e, fieldPublished) {
			status = "open"
		}
		fmt.Fprintf(&b, "\n• [%s] %s — %s (%s)",
			airtable.StringField(e, fieldCode),
			airtable.StringField(e, fieldTitle),
			airtable.StringField(e, fieldDate),
			status)
	}
	r.reply(ctx, inv.msg, b.String())
}

// handleRegistrations lists the member registry for admins.
func (r *Router) handleRegistrations(ctx context.Context, inv *invocation) {
	members, err := r.deps.Data.FindAll(ctx, r.deps.Config.Airtable.MembersTable, "",
		&airtable.Sort{Field: memberFieldName})
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to list registrations", "error", err)
		r.reply(ctx, inv.msg, r.deps.Config.Messages.GeneralError)
		return
	}

	if len(members) == 0 {
		r.reply(ctx, inv.msg, r.deps.Config.Messages.NoRegistrations)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Registrations (%d):\n", len(members))
	for i := range members {
		m := &members[i]
		fmt.Fprintf(&b, "\n• %s — %s",
			airtable.StringField(m, memberFieldName),
			airtable.StringField(m, memberFieldCode))
	}
	r.reply(ctx, inv.msg, b.String())
}
