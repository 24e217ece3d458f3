package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/delonrp/tokengate/tokengate/tokens"
	"github.com/delonrp/tokengate/tokengate/utils"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"
)

var AddToken = discord.SlashCommandCreate{
	Name:        "admin_add_token",
	Description: "➕ Add a token to a source file",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "token",
			Description: "The token text to add",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "source",
			Description: "Token source to write to (defaults to the first configured source)",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "Track as a shared token expiring after this long, e.g. 30d or 12h",
			Required:    false,
		},
	},
}

func AddTokenHandler(b *tokengate.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return requireAdmin(e, func(e *handler.CommandEvent) error {
			data := e.SlashCommandInteractionData()
			token := strings.TrimSpace(data.String("token"))
			alias, _ := data.OptString("source")

			if token == "" {
				return utils.EH.CreateErrorEmbed(e, "Token must not be empty.")
			}

			var duration time.Duration
			if code, ok := data.OptString("duration"); ok {
				var err error
				duration, err = tokens.ParseDuration(code)
				if err != nil {
					return utils.EH.CreateErrorEmbed(e, fmt.Sprintf("Invalid duration %q, use forms like `30d`, `12h`, `45m`.", code))
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
			defer cancel()

			if err := b.Coordinator.AddToken(ctx, alias, token, duration); err != nil {
				switch {
				case errors.Is(err, claim.ErrUnknownSource):
					return utils.EH.CreateErrorEmbed(e, unknownSourceMessage(b, alias))
				case errors.Is(err, claim.ErrDuplicateToken):
					return utils.EH.CreateErrorEmbed(e, "That token already exists in the source file.")
				default:
					return utils.EH.CreateError(e, "Add Failed", err.Error())
				}
			}

			if duration > 0 {
				return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Added shared token `%s`, expires in %s.", token, tokens.FormatDuration(duration)))
			}
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Added token `%s`.", token))
		})
	}
}

// unknownSourceMessage builds the error text for a bad source alias,
// suggesting the closest configured alias when one is a plausible match.
func unknownSourceMessage(b *tokengate.Bot, alias string) string {
	msg := fmt.Sprintf("Unknown source `%s`.", alias)
	if matches := fuzzy.Find(alias, b.Coordinator.Aliases()); len(matches) > 0 {
		msg += fmt.Sprintf(" Did you mean `%s`?", matches[0].Str)
	} else {
		msg += fmt.Sprintf(" Configured sources: `%s`.", strings.Join(b.Coordinator.Aliases(), "`, `"))
	}
	return msg
}
