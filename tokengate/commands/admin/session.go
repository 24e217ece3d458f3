package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/components"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var OpenClaim = discord.SlashCommandCreate{
	Name:        "open_claim",
	Description: "🔓 Open a claim session and post the claim panel",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "source",
			Description: "Token source to serve this session (defaults to the first configured source)",
			Required:    false,
		},
	},
}

var CloseClaim = discord.SlashCommandCreate{
	Name:        "close_claim",
	Description: "🔒 Close the claim session",
}

func OpenClaimHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			alias, _ := e.SlashCommandInteractionData().OptString("source")

			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			src, err := b.Coordinator.OpenSession(ctx, alias, e.User().ID.String())
			if err != nil {
				if errors.Is(err, claim.ErrUnknownSource) {
					return utils.EH.CreateErrorEmbed(e, unknownSourceMessage(b, alias))
				}
				return utils.EH.CreateError(e, "Open Failed", err.Error())
			}

			channelID := b.Cfg.Bot.ClaimChannelID
			if channelID == 0 {
				channelID = e.Channel().ID()
			}
			_, err = e.Client().Rest().CreateMessage(channelID, discord.MessageCreate{
				Embeds:     []discord.Embed{components.PanelEmbed()},
				Components: []discord.ContainerComponent{components.PanelComponents()},
			})
			if err != nil {
				// The session is open even if the panel post failed, say so.
				return utils.EH.CreateError(e, "Panel Post Failed",
					fmt.Sprintf("Session is open on source `%s` but the panel could not be posted: %v", src.Alias, err))
			}

			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Claim session opened on source `%s`.", src.Alias))
		})
	}
}

func CloseClaimHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			if err := b.Coordinator.CloseSession(ctx); err != nil {
				return utils.EH.CreateError(e, "Close Failed", err.Error())
			}
			return utils.EH.CreateSuccessEmbed(e, "Claim session closed. The panel buttons will now refuse claims.")
		})
	}
}
