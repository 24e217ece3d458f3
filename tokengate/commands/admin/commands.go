package admin

import (
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Commands = []discord.ApplicationCommandCreate{
	OpenClaim,
	CloseClaim,
	ShowConfig,
	ListTokens,
	ListSources,
	CheckUser,
	AddToken,
	RemoveToken,
	ResetCooldown,
	ReadFile,
	ServerList,
}

// requireAdmin rejects the command unless the invoking member has the
// Administrator permission. Every handler in this package calls it before
// touching the store.
func requireAdmin(e *handler.CommandEvent, next func(e *handler.CommandEvent) error) error {
	member := e.Member()
	if member == nil || !member.Permissions.Has(discord.PermissionAdministrator) {
		return utils.EH.CreatePermissionError(e, "use admin commands")
	}
	return next(e)
}
