package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/franp/notion-relay-bot/internal/adapter/inbound/slackbot"
	"github.com/franp/notion-relay-bot/internal/adapter/outbound/messenger"
	slackmessenger "github.com/franp/notion-relay-bot/internal/adapter/outbound/messenger/slack"
	"github.com/franp/notion-relay-bot/internal/adapter/outbound/notion"
	"github.com/franp/notion-relay-bot/internal/adapter/outbound/persistence/memory"
	"github.com/franp/notion-relay-bot/internal/adapter/outbound/persistence/sqlite"
	"github.com/franp/notion-relay-bot/internal/config"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
	"github.com/franp/notion-relay-bot/internal/domain/service"
	"github.com/franp/notion-relay-bot/pkg/health"
	"github.com/franp/notion-relay-bot/pkg/version"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	printVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = buildLogger(cfg.Logging)

	// --- Database ---
	store, err := sqlite.NewStore(sqlite.Config{
		Path:              cfg.Database.SQLite.Path,
		MaxOpenConns:      cfg.Database.SQLite.MaxOpenConns,
		PragmaJournalMode: cfg.Database.SQLite.PragmaJournalMode,
		PragmaBusyTimeout: cfg.Database.SQLite.PragmaBusyTimeout,
	})
	if err != nil {
		logger.Error("failed to open sqlite store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	userRepo := sqlite.NewUserRepo(store)
	sessions := memory.NewSessionStore()

	// --- Notion ---
	notionClient := notion.NewClient(notion.Config{
		BaseURL:    cfg.Notion.BaseURL,
		Version:    cfg.Notion.Version,
		Timeout:    cfg.Notion.Timeout,
		MaxRetries: cfg.Notion.MaxRetries,
	})

	// --- Messenger ---
	var out outbound.Messenger
	var slackOut *slackmessenger.Messenger
	if cfg.Slack.Enabled {
		slackOut = slackmessenger.NewMessenger(slackmessenger.Config{
			BotToken: cfg.Slack.BotToken,
			AckEmoji: cfg.Slack.AckEmoji,
		})
		out = slackOut
	} else {
		out = messenger.NewNoopMessenger(logger)
	}

	// --- Domain services ---
	broadcaster := service.NewBroadcaster(userRepo, out, cfg.Bot.BroadcastInterval, logger)
	selection := service.NewSelectionFlow(sessions, userRepo, notionClient, out, logger)
	gate := service.NewGate(service.Config{
		Restricted:  cfg.Bot.Restricted,
		OwnerUserID: cfg.Bot.OwnerUserID,
	}, sessions, userRepo, notionClient, out, selection, broadcaster, logger)

	// --- Health checker ---
	checker := health.NewChecker()
	checker.Register("database", func(ctx context.Context) error {
		return store.DB.PingContext(ctx)
	})
	checker.Register("notion", func(ctx context.Context) error {
		return notionClient.HealthCheck(ctx)
	})
	if slackOut != nil {
		checker.Register("slack", func(ctx context.Context) error {
			return slackOut.HealthCheck(ctx)
		})
	}

	// --- Metrics server ---
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", checker.LivenessHandler())
	metricsMux.HandleFunc("/readyz", checker.ReadinessHandler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	// --- Signal handling & startup ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	// Metrics/health server.
	g.Go(func() error {
		logger.Info("starting metrics server", "port", cfg.Server.MetricsPort)
		errCh := make(chan error, 1)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()
		select {
		case <-gCtx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			return err
		}
	})

	// Slack bot (optional).
	if cfg.Slack.Enabled {
		g.Go(func() error {
			logger.Info("starting slack bot")
			bot := slackbot.NewBot(slackbot.Config{
				BotToken: cfg.Slack.BotToken,
				AppToken: cfg.Slack.AppToken,
			}, gate, logger)
			return bot.Start(gCtx)
		})
	} else {
		logger.Info("slack bot disabled, messages will be logged only")
	}

	logger.Info("relay bot started", "version", version.String())

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("relay bot stopped")
}

// buildLogger constructs a slog.Logger based on config.
func buildLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
