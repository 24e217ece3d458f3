package commands

import (
	"github.com/delonrp/tokengate/tokengate/commands/admin"
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Help,
	Status,
	Version,
}

func init() {
	Commands = append(Commands, admin.Commands...)
}
