package model

import "time"

// User is a registered sender with a stored document-platform credential. The
// conversation id is remembered so broadcasts can reach the user directly.
type User struct {
	ID             string
	ConversationID string
	Token          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
