package commands

import (
	"context"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/components"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Status = discord.SlashCommandCreate{
	Name:        "status",
	Description: "📄 Check your current token and claim cooldown",
}

func StatusHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		status, err := b.Coordinator.CheckStatus(ctx, e.User().ID.String())
		if err != nil {
			return utils.EH.CreateError(e, "Status Check Failed", "Could not reach the token database, try again later.")
		}
		if !status.Claimed {
			return utils.EH.CreateInfoEmbed(e, "You have never claimed a token. Use the claim panel when a session is open.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{components.StatusEmbed("📄 Your Token", status)},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}
