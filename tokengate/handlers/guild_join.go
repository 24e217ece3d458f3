package handlers

import (
	"log/slog"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
)

// GuildJoinHandler leaves any guild that is not on the allow-list, telling
// the owner why first. The bot is private infrastructure; anyone can invite
// it, so admission is enforced here.
func GuildJoinHandler(b *tokengate.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildJoin) {
		for _, allowed := range b.Cfg.Bot.AllowedGuilds {
			if e.GuildID == allowed {
				slog.Info("Joined allowed guild",
					slog.String("guild_id", e.GuildID.String()),
					slog.String("guild_name", e.Guild.Name))
				return
			}
		}

		slog.Warn("Invited to unauthorized guild, leaving",
			slog.String("guild_id", e.GuildID.String()),
			slog.String("guild_name", e.Guild.Name))

		if channel, err := e.Client().Rest().CreateDMChannel(e.Guild.OwnerID); err == nil {
			_, _ = e.Client().Rest().CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
				SetContent("This bot is private and only operates in specific servers.").
				Build())
		}

		if err := e.Client().Rest().LeaveGuild(e.GuildID); err != nil {
			slog.Error("Failed to leave unauthorized guild",
				slog.String("guild_id", e.GuildID.String()),
				slog.Any("error", err))
		}
	})
}
