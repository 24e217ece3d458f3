package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/tokens"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
)

// PanelEmbed is the message body posted with the claim panel when an admin
// opens a session.
func PanelEmbed() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("📝 Token Claim Session Open!").
		SetDescription("The claim session is open. Use the buttons below to claim a token or check your current one.").
		SetColor(config.SuccessColor).
		Build()
}

// PanelComponents builds the persistent claim panel buttons.
func PanelComponents() discord.ContainerComponent {
	return discord.NewActionRow(
		discord.NewSuccessButton("Claim Token", "/panel/claim"),
		discord.NewSecondaryButton("Check My Token", "/panel/check"),
	)
}

// PanelHandler routes the claim panel buttons.
func PanelHandler(b *tokengate.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		action := strings.TrimPrefix(e.Data.CustomID(), "/panel/")
		switch action {
		case "claim":
			return handleClaim(b, e)
		case "check":
			return handleCheck(b, e)
		default:
			return utils.EH.CreateEphemeralError(e, "Unknown panel action. The panel may be outdated, ask an admin to reopen the session.")
		}
	}
}

func handleClaim(b *tokengate.Bot, e *handler.ComponentEvent) error {
	if err := e.DeferCreateMessage(true); err != nil {
		return fmt.Errorf("failed to defer message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ClaimTimeout)
	defer cancel()

	userID := e.User().ID.String()
	roleNames, err := memberRoleNames(b, e)
	if err != nil {
		slog.Error("Failed to resolve member roles for claim",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return followUp(e, "🔧 Failed to look up your roles. Try again later.")
	}

	receipt, err := b.Coordinator.AttemptClaim(ctx, userID, roleNames)
	if err != nil {
		return followUp(e, claimErrorMessage(err))
	}

	dmErr := b.Notifier.DirectMessage(ctx, userID, receiptEmbed(receipt))
	if dmErr != nil {
		slog.Warn("Failed to DM claim receipt",
			slog.String("user_id", userID),
			slog.Any("error", dmErr))
		return followUp(e, "⚠️ Your token was created but the DM failed. Make sure your DMs are open, then use Check My Token.")
	}
	return followUp(e, "✅ **Success!** Your token has been sent via DM.")
}

func handleCheck(b *tokengate.Bot, e *handler.ComponentEvent) error {
	if err := e.DeferCreateMessage(true); err != nil {
		return fmt.Errorf("failed to defer message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ClaimTimeout)
	defer cancel()

	status, err := b.Coordinator.CheckStatus(ctx, e.User().ID.String())
	if err != nil {
		slog.Error("Status check failed",
			slog.String("user_id", e.User().ID.String()),
			slog.Any("error", err))
		return followUp(e, "🔧 Failed to reach the token database. Try again later.")
	}
	if !status.Claimed {
		return followUp(e, "You have never claimed a token.")
	}

	_, err = e.CreateFollowupMessage(discord.MessageCreate{
		Embeds: []discord.Embed{StatusEmbed("📄 Your Token", status)},
		Flags:  discord.MessageFlagEphemeral,
	})
	return err
}

// StatusEmbed renders one ledger record for the owner or an admin.
func StatusEmbed(title string, status *claim.Status) discord.Embed {
	eb := discord.NewEmbedBuilder().
		SetTitle(title).
		SetColor(config.InfoColor)

	switch status.Eligibility.State {
	case tokens.TokenActive:
		eb.AddField("Active Token", fmt.Sprintf("`%s`", status.Record.CurrentToken), false)
		eb.AddField("Expires", fmt.Sprintf("%s (%s left)",
			utils.DiscordTimestamp(status.Eligibility.Until),
			utils.FormatRemaining(time.Until(status.Eligibility.Until))), false)
	case tokens.Expired:
		eb.SetDescription("Your token has expired.")
		eb.SetColor(config.WarningColor)
	default:
		eb.AddField("Active Token", "None", false)
	}

	if !status.NextClaim.IsZero() {
		if status.Eligibility.State == tokens.InCooldown {
			eb.AddField("Claim Cooldown", fmt.Sprintf("You can claim again %s", utils.DiscordRelative(status.NextClaim)), false)
		} else {
			eb.AddField("Claim Cooldown", "You can claim a new token now.", false)
		}
	}
	return eb.Build()
}

func receiptEmbed(r *claim.Receipt) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("🎉 Token Claimed!").
		SetDescription(fmt.Sprintf("Your token: `%s`\nRole: **%s**\nValid for **%s** (expires %s).\n\nNote: allow a few minutes for the token to propagate. Contact an admin if it does not work.",
			r.Token,
			strings.Title(r.Role),
			tokens.FormatDuration(r.Duration),
			utils.DiscordTimestamp(r.ExpiresAt))).
		SetColor(config.SuccessColor).
		Build()
}

func claimErrorMessage(err error) string {
	var cooldown *claim.CooldownError
	var active *claim.TokenActiveError
	var failed *claim.ClaimFailedError

	switch {
	case errors.Is(err, claim.ErrSessionClosed):
		return "❌ The claim session is currently closed by an admin."
	case errors.As(err, &cooldown):
		return fmt.Sprintf("❌ **Cooldown!** You can claim again %s.", utils.DiscordRelative(cooldown.Until))
	case errors.As(err, &active):
		return fmt.Sprintf("❌ Your token is still active until %s.", utils.DiscordTimestamp(active.Until))
	case errors.Is(err, claim.ErrNoEligibleRole):
		return "❌ You don't have a role that is eligible for token claims."
	case errors.Is(err, claim.ErrTokenWriteFailed):
		return "🔧 Failed to save your token. Nothing was granted, try again later."
	case errors.As(err, &failed):
		return "🔧 The claim could not be completed and **no token was granted**. Try again later."
	default:
		return "🔧 Failed to reach the token database. Try again later."
	}
}

func followUp(e *handler.ComponentEvent, message string) error {
	_, err := e.CreateFollowupMessage(discord.MessageCreate{
		Content: message,
		Flags:   discord.MessageFlagEphemeral,
	})
	return err
}

func memberRoleNames(b *tokengate.Bot, e *handler.ComponentEvent) ([]string, error) {
	guildID := e.GuildID()
	member := e.Member()
	if guildID == nil || member == nil {
		return nil, fmt.Errorf("claim buttons only work inside a guild")
	}

	guildRoles, err := e.Client().Rest().GetRoles(*guildID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(guildRoles))
	for _, role := range guildRoles {
		names[role.ID.String()] = role.Name
	}

	var out []string
	for _, id := range member.RoleIDs {
		if name, ok := names[id.String()]; ok {
			out = append(out, name)
		}
	}
	return out, nil
}
