package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

var ListTokens = discord.SlashCommandCreate{
	Name:        "list_tokens",
	Description: "📋 List every active token with owner and expiry",
}

func ListTokensHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			active, err := b.Coordinator.ListActive(ctx)
			if err != nil {
				return utils.EH.CreateError(e, "List Failed", err.Error())
			}
			if len(active) == 0 {
				return utils.EH.CreateInfoEmbed(e, "No active tokens.")
			}

			totalPages := (len(active) + config.TokensPerPage - 1) / config.TokensPerPage

			return b.Paginator.Create(e.Respond, paginator.Pages{
				ID:      e.ID().String(),
				Creator: e.User().ID,
				PageFunc: func(page int, embed *discord.EmbedBuilder) {
					startIdx := page * config.TokensPerPage
					endIdx := min(startIdx+config.TokensPerPage, len(active))

					var description strings.Builder
					for _, entry := range active[startIdx:endIdx] {
						owner := b.Notifier.Username(entry.Key)
						if entry.Shared {
							owner = "shared"
						}
						description.WriteString(fmt.Sprintf("`%s`\n↳ %s • `%s` • expires %s\n\n",
							entry.Token, owner, entry.SourceAlias, utils.DiscordRelative(entry.ExpiresAt)))
					}

					embed.SetTitle("📋 Active Tokens").
						SetDescription(description.String()).
						SetColor(config.InfoColor).
						SetFooter(fmt.Sprintf("Page %d/%d • Total Active: %d", page+1, totalPages, len(active)), "")
				},
				Pages:      totalPages,
				ExpireMode: paginator.ExpireModeAfterLastUsage,
			}, true)
		})
	}
}
