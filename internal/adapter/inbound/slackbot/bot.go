package slackbot

import (
	"context"
	"fmt"
	"log/slog"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/franp/notion-relay-bot/internal/domain/port/inbound"
)

// Config holds Slack bot configuration.
type Config struct {
	BotToken string
	AppToken string
}

// Bot handles incoming Slack events via Socket Mode.
type Bot struct {
	client     *slackapi.Client
	socketMode *socketmode.Client
	events     inbound.EventPort
	logger     *slog.Logger
	botUserID  string
}

// NewBot creates a new Bot with Socket Mode enabled.
func NewBot(cfg Config, events inbound.EventPort, logger *slog.Logger) *Bot {
	client := slackapi.New(cfg.BotToken, slackapi.OptionAppLevelToken(cfg.AppToken))
	sm := socketmode.New(client)
	return &Bot{
		client:     client,
		socketMode: sm,
		events:     events,
		logger:     logger,
	}
}

// Start begins processing Slack events. It blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	auth, err := b.client.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack auth test: %w", err)
	}
	b.botUserID = auth.UserID
	b.logger.Info("slack bot connected", "botUserID", b.botUserID)

	go b.handleEvents(ctx)
	return b.socketMode.RunContext(ctx)
}

// handleEvents dispatches incoming Socket Mode events to the appropriate handler.
func (b *Bot) handleEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-b.socketMode.Events:
			if !ok {
				return
			}
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				b.handleEventsAPI(ctx, evt)
			case socketmode.EventTypeInteractive:
				b.handleInteraction(ctx, evt)
			case socketmode.EventTypeSlashCommand:
				b.handleSlashCommand(ctx, evt)
			default:
				if evt.Request != nil {
					b.socketMode.Ack(*evt.Request)
				}
			}
		}
	}
}
