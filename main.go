package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/delonrp/tokengate/tokengate"
	"github.com/delonrp/tokengate/tokengate/claim"
	"github.com/delonrp/tokengate/tokengate/commands"
	"github.com/delonrp/tokengate/tokengate/commands/admin"
	"github.com/delonrp/tokengate/tokengate/components"
	"github.com/delonrp/tokengate/tokengate/handlers"
	"github.com/delonrp/tokengate/tokengate/logger"
	"github.com/delonrp/tokengate/tokengate/storage"
	"github.com/delonrp/tokengate/tokengate/tokens"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := tokengate.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting TokenGate Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	b := tokengate.New(*cfg, version, commit)

	b.Store = storage.NewGitHubClient(cfg.GitHub.Token, cfg.GitHub.Timeout())

	policy, err := tokens.NewRolePolicy(cfg.Roles.Durations, cfg.Roles.Priority)
	if err != nil {
		slog.Error("Invalid role configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	sources := make([]claim.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		repo := src.Repo
		if repo == "" {
			repo = cfg.GitHub.Repo
		}
		sources = append(sources, claim.Source{Alias: src.Alias, Repo: repo, Path: src.Path})
	}

	b.Coordinator, err = claim.New(b.Store, policy, sources, cfg.GitHub.Repo, cfg.GitHub.LedgerPathOrDefault())
	if err != nil {
		slog.Error("Invalid source configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err = b.Coordinator.EnsureLedger(ctx); err != nil {
		cancel()
		slog.Error("Failed to reach the data repository",
			slog.String("repo", cfg.GitHub.Repo),
			slog.Any("error", err))
		os.Exit(-1)
	}
	cancel()
	slog.Info("Claim ledger verified", slog.String("repo", cfg.GitHub.Repo))

	b.Notifier = claim.NewNotifier()
	b.Sweeper = claim.NewSweeper(b.Coordinator, b.Notifier, cfg.Bot.SweepInterval())

	h := handler.New()

	h.Command("/help", handlers.WrapWithLogging("help", commands.HelpHandler(b)))
	h.Command("/status", handlers.WrapWithLogging("status", commands.StatusHandler(b)))
	h.Command("/version", commands.VersionHandler(b))

	h.Command("/open_claim", handlers.WrapWithLogging("open_claim", admin.OpenClaimHandler(b)))
	h.Command("/close_claim", handlers.WrapWithLogging("close_claim", admin.CloseClaimHandler(b)))
	h.Command("/show_config", handlers.WrapWithLogging("show_config", admin.ShowConfigHandler(b)))
	h.Command("/list_tokens", handlers.WrapWithLogging("list_tokens", admin.ListTokensHandler(b)))
	h.Command("/list_sources", handlers.WrapWithLogging("list_sources", admin.ListSourcesHandler(b)))
	h.Command("/admin_check_user", handlers.WrapWithLogging("admin_check_user", admin.CheckUserHandler(b)))
	h.Command("/admin_add_token", handlers.WrapWithLogging("admin_add_token", admin.AddTokenHandler(b)))
	h.Command("/admin_remove_token", handlers.WrapWithLogging("admin_remove_token", admin.RemoveTokenHandler(b)))
	h.Command("/admin_reset_cooldown", handlers.WrapWithLogging("admin_reset_cooldown", admin.ResetCooldownHandler(b)))
	h.Command("/read_file", handlers.WrapWithLogging("read_file", admin.ReadFileHandler(b)))
	h.Command("/serverlist", handlers.WrapWithLogging("serverlist", admin.ServerListHandler(b)))

	h.Component("/panel/", handlers.WrapComponentWithLogging("panel", components.PanelHandler(b)))

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageHandler(b),
		handlers.GuildJoinHandler(b),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	b.Sweeper.Start()
	defer b.Sweeper.Stop()

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
