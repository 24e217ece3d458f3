package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var ReadFile = discord.SlashCommandCreate{
	Name:        "read_file",
	Description: "📖 Show the raw contents of a token source file",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "source",
			Description: "Token source to read (defaults to the first configured source)",
			Required:    false,
		},
	},
}

// Discord caps embed descriptions at 4096 characters, keep headroom for the
// code fence.
const readFileMaxLen = 3900

func ReadFileHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			alias, _ := e.SlashCommandInteractionData().OptString("source")

			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			content, err := b.Coordinator.ReadRaw(ctx, alias)
			if err != nil {
				if errors.Is(err, claim.ErrUnknownSource) {
					return utils.EH.CreateErrorEmbed(e, unknownSourceMessage(b, alias))
				}
				return utils.EH.CreateError(e, "Read Failed", err.Error())
			}

			if content == "" {
				return utils.EH.CreateInfoEmbed(e, "The source file is empty.")
			}
			truncated := false
			if len(content) > readFileMaxLen {
				content = content[:readFileMaxLen]
				truncated = true
			}

			embed := discord.NewEmbedBuilder().
				SetTitle("📖 Source File").
				SetDescription(fmt.Sprintf("```\n%s\n```", content)).
				SetColor(config.InfoColor)
			if truncated {
				embed.SetFooter("Output truncated", "")
			}

			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{embed.Build()},
				Flags:  discord.MessageFlagEphemeral,
			})
		})
	}
}
