package claim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/delonrp/tokengate/tokengate/config"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
)

// dmREST is the slice of the disgo REST client DM delivery needs. Narrowed
// so tests can stand in for it.
type dmREST interface {
	CreateDMChannel(userID snowflake.ID, opts ...rest.RequestOpt) (*discord.DMChannel, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// Notifier delivers claim-related direct messages. Delivery is always best
// effort: a closed-DM user is logged and skipped, never unwound into the
// operation that triggered the message. Username lookups for display are
// cached so the admin listing and the sweeper don't hammer the REST API.
type Notifier struct {
	mu        sync.RWMutex
	client    bot.Client
	usernames *lru.Cache
}

func NewNotifier() *Notifier {
	cache, _ := lru.New(256)
	return &Notifier{usernames: cache}
}

// SetClient wires the Discord client once the gateway is built.
func (n *Notifier) SetClient(client bot.Client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.client = client
}

func (n *Notifier) restClient() bot.Client {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.client
}

// DirectMessage sends one embed to a user's DM channel.
func (n *Notifier) DirectMessage(ctx context.Context, userID string, embed discord.Embed) error {
	client := n.restClient()
	if client == nil {
		return fmt.Errorf("notifier has no client")
	}

	id, err := snowflake.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return sendDM(ctx, client.Rest(), id, embed)
}

func sendDM(ctx context.Context, rc dmREST, userID snowflake.ID, embed discord.Embed) error {
	channel, err := rc.CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}
	_, err = rc.CreateMessage(channel.ID(), discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send DM: %w", err)
	}
	return nil
}

// NotifyExpiry tells a user their token expired. Failures are logged only.
func (n *Notifier) NotifyExpiry(ctx context.Context, userID, token string) {
	embed := discord.NewEmbedBuilder().
		SetTitle("🔴 Token Expired").
		SetDescription(fmt.Sprintf("Your token `%s` has expired. You can claim a new one once your cooldown allows.", token)).
		SetColor(config.EmbedDefaultColor).
		Build()

	if err := n.DirectMessage(ctx, userID, embed); err != nil {
		slog.Warn("Failed to deliver expiry notification",
			slog.String("user_id", userID),
			slog.Any("error", err))
	}
}

// Username resolves a user ID to a display name, falling back to the raw ID
// when the lookup fails.
func (n *Notifier) Username(userID string) string {
	if name, ok := n.usernames.Get(userID); ok {
		return name.(string)
	}

	client := n.restClient()
	if client == nil {
		return userID
	}
	id, err := snowflake.Parse(userID)
	if err != nil {
		return userID
	}
	user, err := client.Rest().GetUser(id)
	if err != nil {
		return userID
	}

	n.usernames.Add(userID, user.Username)
	return user.Username
}
