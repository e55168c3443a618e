package outbound

import "github.com/franp/notion-relay-bot/internal/domain/model"

// SessionStore owns the per-conversation session records. Implementations must
// make Update and TakePendingText atomic with respect to each other so two
// events can never observe the same pending text.
type SessionStore interface {
	// Get returns a copy of the conversation's session, zero-valued when the
	// conversation has not been seen before.
	Get(conversationID string) model.Session

	// Update applies fn to the session under the store's lock, creating the
	// record on first use.
	Update(conversationID string, fn func(*model.Session))

	// TakePendingText reads and clears the pending text in one step.
	TakePendingText(conversationID string) (string, bool)
}
