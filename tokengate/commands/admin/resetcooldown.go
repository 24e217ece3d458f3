package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

var ResetCooldown = discord.SlashCommandCreate{
	Name:        "admin_reset_cooldown",
	Description: "♻️ Wipe a user's claim record so they can claim again",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The user to reset",
			Required:    true,
		},
	},
}

func ResetCooldownHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			target := e.SlashCommandInteractionData().User("user")

			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			removed, err := b.Coordinator.ResetUser(ctx, target.ID.String())
			if err != nil {
				if errors.Is(err, claim.ErrNoRecord) {
					return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("%s has no claim record to reset.", target.Username))
				}
				return utils.EH.CreateError(e, "Reset Failed", err.Error())
			}

			// Best effort, the reset already happened.
			dmErr := b.Notifier.DirectMessage(ctx, target.ID.String(), discord.NewEmbedBuilder().
				SetTitle("♻️ Cooldown Reset").
				SetDescription("An admin reset your claim cooldown. You can claim a new token the next time a session is open.").
				SetColor(config.InfoColor).
				Build())
			if dmErr != nil {
				slog.Warn("Failed to DM cooldown reset notice",
					slog.String("user_id", target.ID.String()),
					slog.Any("error", dmErr))
			}

			msg := fmt.Sprintf("Reset claim record for %s.", target.Username)
			if removed != "" {
				msg += fmt.Sprintf(" Revoked token `%s`.", removed)
			}
			return utils.EH.CreateSuccessEmbed(e, msg)
		})
	}
}
