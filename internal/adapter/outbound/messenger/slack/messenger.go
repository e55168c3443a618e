package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/franp/notion-relay-bot/internal/adapter/inbound/slackbot/template"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

const defaultAckEmoji = "eyes"

// Config holds Slack messenger configuration.
type Config struct {
	BotToken string
	AckEmoji string
}

// Messenger implements outbound.Messenger via the Slack API.
type Messenger struct {
	client *slackapi.Client
	config Config
}

// NewMessenger creates a new Slack Messenger.
func NewMessenger(cfg Config) *Messenger {
	if cfg.AckEmoji == "" {
		cfg.AckEmoji = defaultAckEmoji
	}
	return &Messenger{
		client: slackapi.New(cfg.BotToken),
		config: cfg,
	}
}

var _ outbound.Messenger = (*Messenger)(nil)

// SendText posts a plain text message to the conversation.
func (m *Messenger) SendText(ctx context.Context, conversationID, text string) error {
	_, _, err := m.client.PostMessageContext(ctx, conversationID,
		slackapi.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("slack SendText: %w", err)
	}
	return nil
}

// SendMenu posts the destination menu and returns the message timestamp so
// the menu can be deleted once a choice is made.
func (m *Messenger) SendMenu(ctx context.Context, conversationID, prompt string, rows []outbound.MenuRow) (string, error) {
	blocks := template.BuildMenuBlocks(prompt, rows)

	_, ts, err := m.client.PostMessageContext(ctx, conversationID,
		slackapi.MsgOptionBlocks(blocks...),
		slackapi.MsgOptionText(prompt, false),
	)
	if err != nil {
		return "", fmt.Errorf("slack SendMenu: %w", err)
	}
	return ts, nil
}

// DeleteMessage removes a previously posted message.
func (m *Messenger) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	if _, _, err := m.client.DeleteMessageContext(ctx, conversationID, messageID); err != nil {
		return fmt.Errorf("slack DeleteMessage: %w", err)
	}
	return nil
}

// HealthCheck verifies the bot token still authenticates.
func (m *Messenger) HealthCheck(ctx context.Context) error {
	if _, err := m.client.AuthTestContext(ctx); err != nil {
		return fmt.Errorf("slack auth test: %w", err)
	}
	return nil
}

// Acknowledge reacts to the incoming message so the sender sees the text was
// received while the destination list loads.
func (m *Messenger) Acknowledge(ctx context.Context, conversationID, messageID string) error {
	ref := slackapi.NewRefToMessage(conversationID, messageID)
	if err := m.client.AddReactionContext(ctx, m.config.AckEmoji, ref); err != nil {
		return fmt.Errorf("slack Acknowledge: %w", err)
	}
	return nil
}
