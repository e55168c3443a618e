package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/franp/notion-relay-bot/internal/domain/model"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

// UserRepo implements outbound.CredentialStore using SQLite.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo backed by the given store.
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{db: store.DB}
}

var _ outbound.CredentialStore = (*UserRepo)(nil)

// SaveCredential upserts the user's credential. A re-auth replaces the stored
// token and refreshes the conversation id.
func (r *UserRepo) SaveCredential(ctx context.Context, user model.User) error {
	const q = `INSERT INTO users (user_id, conversation_id, notion_token, created_at, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
			conversation_id = excluded.conversation_id,
			notion_token    = excluded.notion_token,
			updated_at      = excluded.updated_at`

	now := time.Now().UTC()
	created := user.CreatedAt
	if created.IsZero() {
		created = now
	}

	if _, err := r.db.ExecContext(ctx, q, user.ID, user.ConversationID, user.Token, created, now); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// GetUser fetches a registered user by platform user id.
func (r *UserRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	const q = `SELECT user_id, conversation_id, notion_token, created_at, updated_at
		FROM users WHERE user_id = ?`

	var u model.User
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&u.ID, &u.ConversationID, &u.Token, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return model.User{}, outbound.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("fetching user: %w", err)
	}
	return u, nil
}

// ListAllUsers returns every registered user, oldest first.
func (r *UserRepo) ListAllUsers(ctx context.Context) ([]model.User, error) {
	const q = `SELECT user_id, conversation_id, notion_token, created_at, updated_at
		FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.ConversationID, &u.Token, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}
