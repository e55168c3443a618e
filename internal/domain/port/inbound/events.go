package inbound

import "context"

// EventPort handles inbound events from messaging transports.
type EventPort interface {
	HandleMessage(ctx context.Context, ev MessageEvent) error
	HandleChoice(ctx context.Context, ev ChoiceEvent) error
	HandleCommand(ctx context.Context, ev CommandEvent) error
	HandleAttachment(ctx context.Context, ev AttachmentEvent) error
}

// MessageEvent is a plain text message from a sender.
type MessageEvent struct {
	ConversationID string
	UserID         string
	MessageID      string
	Text           string
}

// ChoiceEvent is a click on one row of a previously rendered choice menu. The
// token is the opaque string round-tripped through the transport.
type ChoiceEvent struct {
	ConversationID string
	UserID         string
	MenuMessageID  string
	Token          string
}

// CommandEvent is an explicit bot command such as "auth" or "help".
type CommandEvent struct {
	ConversationID string
	UserID         string
	MessageID      string
	Command        string
}

type AttachmentKind string

const (
	AttachmentSticker AttachmentKind = "sticker"
	AttachmentPhoto   AttachmentKind = "photo"
)

// AttachmentEvent is a non-text message (sticker, photo).
type AttachmentEvent struct {
	ConversationID string
	UserID         string
	Kind           AttachmentKind
}
