package handlers

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// MessageHandler watches the role-request channel and grants tier roles for
// messages carrying proof attachments. Grants are idempotent: roles already
// held are skipped.
func MessageHandler(b *tokengate.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageCreate) {
		if e.Message.Author.Bot || e.Message.Member == nil {
			return
		}
		if b.Cfg.Bot.RoleRequestChannelID == 0 || e.ChannelID != b.Cfg.Bot.RoleRequestChannelID {
			return
		}
		if len(e.Message.Attachments) == 0 {
			return
		}

		tiers := TierRoles{
			Subscriber:        b.Cfg.Roles.SubscriberRole,
			Follower:          b.Cfg.Roles.FollowerRole,
			Verified:          b.Cfg.Roles.VerifiedRole,
			SubscriberKeyword: b.Cfg.Roles.SubscriberKeyword,
			FollowerKeyword:   b.Cfg.Roles.FollowerKeyword,
		}

		guildRoles, err := e.Client().Rest().GetRoles(e.GuildID)
		if err != nil {
			slog.Error("Failed to fetch guild roles for auto-role grant",
				slog.String("guild_id", e.GuildID.String()),
				slog.Any("error", err))
			return
		}

		idByName := make(map[string]snowflake.ID, len(guildRoles))
		nameByID := make(map[snowflake.ID]string, len(guildRoles))
		for _, role := range guildRoles {
			idByName[strings.ToLower(role.Name)] = role.ID
			nameByID[role.ID] = role.Name
		}
		for _, name := range []string{tiers.Subscriber, tiers.Follower, tiers.Verified} {
			if _, ok := idByName[strings.ToLower(name)]; !ok {
				slog.Error("Auto-role grant skipped, configured role not found in guild",
					slog.String("role", name),
					slog.String("guild_id", e.GuildID.String()))
				return
			}
		}

		held := make(map[string]bool)
		for _, id := range e.Message.Member.RoleIDs {
			held[nameByID[id]] = true
		}

		grants := DecideGrants(len(e.Message.Attachments), e.Message.Content, held, tiers)
		if len(grants) == 0 {
			return
		}

		userID := e.Message.Author.ID
		var granted []string
		for _, name := range grants {
			roleID := idByName[strings.ToLower(name)]
			if err := e.Client().Rest().AddMemberRole(e.GuildID, userID, roleID); err != nil {
				slog.Error("Failed to grant role",
					slog.String("role", name),
					slog.String("user_id", userID.String()),
					slog.Any("error", err))
				continue
			}
			granted = append(granted, name)
		}
		if len(granted) == 0 {
			return
		}

		slog.Info("Auto-role grant",
			slog.String("user_id", userID.String()),
			slog.String("roles", strings.Join(granted, ", ")))

		for i, name := range granted {
			granted[i] = fmt.Sprintf("**%s**", name)
		}
		_, err = e.Client().Rest().CreateMessage(e.ChannelID, discord.NewMessageCreateBuilder().
			SetContentf("✅ Hello <@%s>, you have been granted: %s!", userID, strings.Join(granted, ", ")).
			SetMessageReferenceByID(e.MessageID).
			Build())
		if err != nil {
			slog.Warn("Failed to confirm auto-role grant",
				slog.String("user_id", userID.String()),
				slog.Any("error", err))
		}
	})
}
