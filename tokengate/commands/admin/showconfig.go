package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/tokens"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var ShowConfig = discord.SlashCommandCreate{
	Name:        "show_config",
	Description: "⚙️ Show role durations, priority order and session state",
}

var ListSources = discord.SlashCommandCreate{
	Name:        "list_sources",
	Description: "📚 List the configured token sources",
}

func ShowConfigHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			session, err := b.Coordinator.Session(ctx)
			if err != nil {
				return utils.EH.CreateError(e, "Config Lookup Failed", err.Error())
			}

			policy := b.Coordinator.Policy()

			var durations []string
			for _, role := range policy.Priority() {
				d, _ := policy.Duration(role)
				durations = append(durations, fmt.Sprintf("**%s** — %s", role, tokens.FormatDuration(d)))
			}

			sessionLine := "Closed"
			if session.Open {
				sessionLine = fmt.Sprintf("Open on `%s` since %s (by <@%s>)",
					session.SourceAlias, utils.DiscordRelative(session.OpenedAt), session.OpenedBy)
			}

			embed := discord.NewEmbedBuilder().
				SetTitle("⚙️ TokenGate Configuration").
				SetColor(config.InfoColor).
				AddField("Session", sessionLine, false).
				AddField("Role Durations (priority order)", strings.Join(durations, "\n"), false).
				AddField("Claim Cooldown", tokens.FormatDuration(tokens.ClaimCooldown), true).
				AddField("Sweep Interval", b.Cfg.Bot.SweepInterval().String(), true).
				Build()

			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{embed},
				Flags:  discord.MessageFlagEphemeral,
			})
		})
	}
}

func ListSourcesHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			var lines []string
			for _, src := range b.Coordinator.Sources() {
				lines = append(lines, fmt.Sprintf("`%s` → %s/%s", src.Alias, src.Repo, src.Path))
			}

			embed := discord.NewEmbedBuilder().
				SetTitle("📚 Token Sources").
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
