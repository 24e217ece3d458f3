package admin

import (
	"fmt"
	"strings"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var ServerList = discord.SlashCommandCreate{
	Name:        "serverlist",
	Description: "🌐 List the servers the bot is authorized to operate in",
}

func ServerListHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			if len(b.Cfg.Bot.AllowedGuilds) == 0 {
				return utils.EH.CreateInfoEmbed(e, "No guilds are on the allow-list.")
			}

			var lines []string
			for _, guildID := range b.Cfg.Bot.AllowedGuilds {
				guild, err := e.Client().Rest().GetGuild(guildID, true)
				if err != nil {
					lines = append(lines, fmt.Sprintf("`%s` — unreachable (not joined?)", guildID))
					continue
				}
				lines = append(lines, fmt.Sprintf("**%s** (`%s`) — %d members",
					guild.Name, guild.ID, guild.ApproximateMemberCount))
			}

			embed := discord.NewEmbedBuilder().
				SetTitle("🌐 Authorized Servers").
				SetDescription(strings.Join(lines, "\n")).
				SetColor(config.InfoColor).
				Build()

			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{embed},
				Flags:  discord.MessageFlagEphemeral,
			})
		})
	}
}
