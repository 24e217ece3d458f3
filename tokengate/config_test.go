package tokengate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testConfig = `
[log]
level = 0

[bot]
token = "discord-token"
allowed_guilds = [123456789012345678]
claim_channel_id = 234567890123456789

[github]
token = "github-token"
repo = "owner/data"

[[sources]]
alias = "main"
path = "tokens.txt"

[roles]
priority = ["vip", "beginner"]

[roles.durations]
vip = "30d"
beginner = "3d"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Bot.Token != "discord-token" {
		t.Errorf("Bot.Token = %q", cfg.Bot.Token)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Alias != "main" {
		t.Errorf("Sources = %+v", cfg.Sources)
	}
	if cfg.Roles.Durations["vip"] != "30d" {
		t.Errorf("Roles.Durations = %+v", cfg.Roles.Durations)
	}

	// Defaults for values the file leaves unset.
	if got := cfg.GitHub.LedgerPathOrDefault(); got != "claims.json" {
		t.Errorf("LedgerPathOrDefault() = %q", got)
	}
	if got := cfg.GitHub.Timeout(); got != 15*time.Second {
		t.Errorf("Timeout() = %v", got)
	}
	if got := cfg.Bot.SweepInterval(); got != 5*time.Minute {
		t.Errorf("SweepInterval() = %v", got)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(string) string
	}{
		{name: "missing bot token", mangle: func(s string) string {
			return replaceLine(s, `token = "discord-token"`, `token = ""`)
		}},
		{name: "missing github repo", mangle: func(s string) string {
			return replaceLine(s, `repo = "owner/data"`, `repo = ""`)
		}},
		{name: "no sources", mangle: func(s string) string {
			return replaceLine(s, "[[sources]]", "[[ignored]]")
		}},
		{name: "empty priority", mangle: func(s string) string {
			return replaceLine(s, `priority = ["vip", "beginner"]`, `priority = []`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.mangle(testConfig))); err == nil {
				t.Error("LoadConfig() error = nil, want validation failure")
			}
		})
	}
}

func replaceLine(s, old, new string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == old {
			lines[i] = new
			break
		}
	}
	return strings.Join(lines, "\n")
}
