package admin

import (
	"context"
	"fmt"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/components"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var CheckUser = discord.SlashCommandCreate{
	Name:        "admin_check_user",
	Description: "🔍 Inspect a user's claim record",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to inspect",
			Required:    true,
		},
	},
}

func CheckUserHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			target := e.SlashCommandInteractionData().User("user")

			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			status, err := b.Coordinator.CheckStatus(ctx, target.ID.String())
			if err != nil {
				return utils.EH.CreateError(e, "Lookup Failed", err.Error())
			}
			if !status.Claimed {
				return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("%s has never claimed a token.", target.Username))
			}

			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{components.StatusEmbed(fmt.Sprintf("🔍 Claim Record: %s", target.Username), status)},
				Flags:  discord.MessageFlagEphemeral,
			})
		})
	}
}
