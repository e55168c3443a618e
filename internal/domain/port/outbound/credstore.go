package outbound

import (
	"context"
	"errors"

	"github.com/franp/notion-relay-bot/internal/domain/model"
)

// ErrUserNotFound is returned when no credential is on file for a sender.
var ErrUserNotFound = errors.New("user not found")

// CredentialStore persists per-user document-platform credentials.
type CredentialStore interface {
	SaveCredential(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
	ListAllUsers(ctx context.Context) ([]model.User, error)
}
