package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var RemoveToken = discord.SlashCommandCreate{
	Name:        "admin_remove_token",
	Description: "➖ Remove a token from a source file",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "token",
			Description: "The exact token text to remove",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "source",
			Description: "Token source to remove from (defaults to the first configured source)",
			Required:    false,
		},
	},
}

func RemoveTokenHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			data := e.SlashCommandInteractionData()
			token := strings.TrimSpace(data.String("token"))
			alias, _ := data.OptString("source")

			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			if err := b.Coordinator.RemoveToken(ctx, alias, token); err != nil {
				switch {
				case errors.Is(err, claim.ErrUnknownSource):
					return utils.EH.CreateErrorEmbed(e, unknownSourceMessage(b, alias))
				case errors.Is(err, claim.ErrTokenNotFound):
					return utils.EH.CreateErrorEmbed(e, "That token is not in the source file.")
				default:
					return utils.EH.CreateError(e, "Remove Failed", err.Error())
				}
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Removed token `%s`.", token))
		})
	}
}
