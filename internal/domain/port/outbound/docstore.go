package outbound

import (
	"context"

	"github.com/franp/notion-relay-bot/internal/domain/model"
)

// DocumentStore is the document-platform client consumed by the flows.
type DocumentStore interface {
	// ValidateToken checks that a submitted integration token is usable.
	ValidateToken(ctx context.Context, token string) error

	// ListDatabases returns the destination candidates visible to the token.
	ListDatabases(ctx context.Context, token string) ([]model.Candidate, error)

	// AppendText adds text as a new entry of the database and returns the
	// database's display title for the confirmation notice.
	AppendText(ctx context.Context, token, databaseID, text string) (string, error)
}
