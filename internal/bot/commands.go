package bot

// commandKind is the closed set of commands the bot understands.
type commandKind int

const (
	cmdStart commandKind = iota
	cmdVerify
	cmdEvents
	cmdAsk
	cmdAskLive
	cmdSuggest
	cmdCreateEvent
	cmdUpdateEvent
	cmdCloseEvent
	cmdListEvents
	cmdRegistrations
	cmdBan
	cmdMute
	cmdUnmute
	cmdDelete
)

// commandScope restricts where a command may be invoked.
type commandScope int

const (
	scopeAnyChat commandScope = iota
	scopeGroupOnly
	scopePrivateOnly
)

type commandSpec struct {
	kind       commandKind
	scope      commandScope
	adminOnly  bool
	moderation bool
}

// commandTable maps the case-sensitive command token to its spec. Anything
// not in this table falls through to the default branch.
var commandTable = map[string]commandSpec{
	"/start":  {kind: cmdStart, scope: scopeAnyChat},
	"/verify": {kind: cmdVerify, scope: scopeAnyChat},

	"/events":  {kind: cmdEvents, scope: scopePrivateOnly},
	"/ask":     {kind: cmdAsk, scope: scopePrivateOnly},
	"/asklive": {kind: cmdAskLive, scope: scopePrivateOnly},
	"/suggest": {kind: cmdSuggest, scope: scopePrivateOnly},

	"/createevent":   {kind: cmdCreateEvent, scope: scopeAnyChat, adminOnly: true},
	"/updateevent":   {kind: cmdUpdateEvent, scope: scopeAnyChat, adminOnly: true},
	"/closeevent":    {kind: cmdCloseEvent, scope: scopeAnyChat, adminOnly: true},
	"/listevents":    {kind: cmdListEvents, scope: scopeAnyChat, adminOnly: true},
	"/registrations": {kind: cmdRegistrations, scope: scopeAnyChat, adminOnly: true},

	"/ban":    {kind: cmdBan, scope: scopeGroupOnly, moderation: true},
	"/mute":   {kind: cmdMute, scope: scopeGroupOnly, moderation: true},
	"/unmute": {kind: cmdUnmute, scope: scopeGroupOnly, moderation: true},
	"/delete": {kind: cmdDelete, scope: scopeGroupOnly, moderation: true},
}
