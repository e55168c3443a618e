package messenger

import (
	"context"
	"log/slog"

	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

// NoopMessenger is a no-op messenger that logs outgoing messages instead of
// sending them. Used in local development when Slack is not configured.
type NoopMessenger struct {
	logger *slog.Logger
}

// NewNoopMessenger creates a new NoopMessenger.
func NewNoopMessenger(logger *slog.Logger) *NoopMessenger {
	return &NoopMessenger{logger: logger}
}

var _ outbound.Messenger = (*NoopMessenger)(nil)

func (m *NoopMessenger) SendText(_ context.Context, conversationID, text string) error {
	m.logger.Info("noop: send text",
		"conversationID", conversationID,
		"text", text,
	)
	return nil
}

func (m *NoopMessenger) SendMenu(_ context.Context, conversationID, prompt string, rows []outbound.MenuRow) (string, error) {
	m.logger.Info("noop: send menu",
		"conversationID", conversationID,
		"prompt", prompt,
		"rows", len(rows),
	)
	return "noop-menu", nil
}

func (m *NoopMessenger) DeleteMessage(_ context.Context, conversationID, messageID string) error {
	m.logger.Info("noop: delete message",
		"conversationID", conversationID,
		"messageID", messageID,
	)
	return nil
}

func (m *NoopMessenger) Acknowledge(_ context.Context, conversationID, messageID string) error {
	m.logger.Info("noop: acknowledge",
		"conversationID", conversationID,
		"messageID", messageID,
	)
	return nil
}
