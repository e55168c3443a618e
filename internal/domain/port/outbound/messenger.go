package outbound

import "context"

// MenuRow is one selectable row of an inline choice menu.
type MenuRow struct {
	Label string
	Token string
}

// Messenger delivers outbound messages through the chat transport.
type Messenger interface {
	SendText(ctx context.Context, conversationID, text string) error

	// SendMenu posts an inline choice menu and returns the posted message id
	// so the menu can be deleted once a choice resolves.
	SendMenu(ctx context.Context, conversationID, prompt string, rows []MenuRow) (string, error)

	// DeleteMessage removes a previously posted message. Callers treat it as
	// best-effort and log failures instead of surfacing them.
	DeleteMessage(ctx context.Context, conversationID, messageID string) error

	// Acknowledge marks an inbound message as seen (chat-action analogue).
	Acknowledge(ctx context.Context, conversationID, messageID string) error
}
