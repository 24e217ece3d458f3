package tokengate

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig      `toml:"log"`
	Bot     BotConfig      `toml:"bot"`
	GitHub  GitHubConfig   `toml:"github"`
	Sources []SourceConfig `toml:"sources"`
	Roles   RolesConfig    `toml:"roles"`
}

type BotConfig struct {
	Token                string         `toml:"token"`
	DevGuilds            []snowflake.ID `toml:"dev_guilds"`
	AllowedGuilds        []snowflake.ID `toml:"allowed_guilds"`
	ClaimChannelID       snowflake.ID   `toml:"claim_channel_id"`
	RoleRequestChannelID snowflake.ID   `toml:"role_request_channel_id"`
	SweepIntervalMinutes int            `toml:"sweep_interval_minutes"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type GitHubConfig struct {
	Token          string `toml:"token"`
	Repo           string `toml:"repo"`
	LedgerPath     string `toml:"ledger_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SourceConfig names one token file an admin can point a claim session at.
type SourceConfig struct {
	Alias string `toml:"alias"`
	Repo  string `toml:"repo"`
	Path  string `toml:"path"`
}

type RolesConfig struct {
	// Durations maps claim-eligible role names to duration codes ("30d").
	Durations map[string]string `toml:"durations"`
	// Priority orders the claim-eligible roles, highest first.
	Priority []string `toml:"priority"`

	// Auto-role grants in the role-request channel.
	SubscriberRole    string `toml:"subscriber_role"`
	FollowerRole      string `toml:"follower_role"`
	VerifiedRole      string `toml:"verified_role"`
	SubscriberKeyword string `toml:"subscriber_keyword"`
	FollowerKeyword   string `toml:"follower_keyword"`
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token must be set")
	}
	if c.GitHub.Token == "" || c.GitHub.Repo == "" {
		return fmt.Errorf("github.token and github.repo must be set")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one [[sources]] entry must be configured")
	}
	if len(c.Roles.Priority) == 0 {
		return fmt.Errorf("roles.priority must not be empty")
	}
	return nil
}

// LedgerPath returns the configured ledger document path, defaulting to the
// layout the previous bot used.
func (c *GitHubConfig) LedgerPathOrDefault() string {
	if c.LedgerPath != "" {
		return c.LedgerPath
	}
	return "claims.json"
}

// Timeout bounds every GitHub API call.
func (c *GitHubConfig) Timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return 15 * time.Second
}

// SweepInterval is the expiration sweeper tick.
func (c *BotConfig) SweepInterval() time.Duration {
	if c.SweepIntervalMinutes > 0 {
		return time.Duration(c.SweepIntervalMinutes) * time.Minute
	}
	return 5 * time.Minute
}
