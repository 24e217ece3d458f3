package commands

import (
	"github.com/delonrp/tokengate/tokengate"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "📖 Display all available commands and their descriptions",
}

func HelpHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		embed := discord.NewEmbedBuilder().
			SetTitle("📖 TokenGate - Command Help").
			SetDescription("**TokenGate** hands out time-limited access tokens based on your server roles.").
			SetColor(0x7289DA).
			AddField("Everyone", "`/help` • `/status` • `/version`\nPlus the **Claim Token** and **Check My Token** buttons on the claim panel.", false).
			AddField("Admins", "`/open_claim` • `/close_claim` • `/show_config` • `/list_tokens` • `/list_sources`\n"+
				"`/admin_check_user` • `/admin_add_token` • `/admin_remove_token` • `/admin_reset_cooldown`\n"+
				"`/read_file` • `/serverlist`", false).
			SetFooter("Tokens are delivered by DM, keep your DMs open.", "").
			Build()

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}
