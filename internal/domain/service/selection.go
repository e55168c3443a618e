package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/franp/notion-relay-bot/internal/domain/model"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
	"github.com/franp/notion-relay-bot/pkg/boterror"
)

const (
	noticeMenuPrompt     = "Select the database to save this text"
	noticeNoAuthCode     = "No auth code provided\nUse the /auth command to provide it"
	noticeGenericFailure = "There has been an error. Try again later"
	noticeCancelled      = "Operation cancelled 👍"

	cancelRowLabel = "🚫"
)

// SelectionFlow drives the destination menu: Open stores the pending text and
// renders the candidates, Resolve consumes exactly one choice and performs at
// most one append.
type SelectionFlow struct {
	sessions  outbound.SessionStore
	creds     outbound.CredentialStore
	docs      outbound.DocumentStore
	messenger outbound.Messenger
	logger    *slog.Logger
}

func NewSelectionFlow(
	sessions outbound.SessionStore,
	creds outbound.CredentialStore,
	docs outbound.DocumentStore,
	messenger outbound.Messenger,
	logger *slog.Logger,
) *SelectionFlow {
	return &SelectionFlow{
		sessions:  sessions,
		creds:     creds,
		docs:      docs,
		messenger: messenger,
		logger:    logger,
	}
}

// Open fetches the caller's destination candidates and posts the choice menu.
// The message text is parked as the conversation's pending text until a choice
// arrives; a newer message simply overwrites it.
func (f *SelectionFlow) Open(ctx context.Context, conversationID, userID, text string) error {
	user, err := f.creds.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return f.messenger.SendText(ctx, conversationID, noticeNoAuthCode)
		}
		f.logger.Error("credential lookup failed", "user", userID, "error", err)
		return f.messenger.SendText(ctx, conversationID, noticeUnknownError)
	}

	candidates, err := f.docs.ListDatabases(ctx, user.Token)
	if err != nil {
		if boterror.IsKind(err, boterror.KindUnauthenticated) {
			return f.messenger.SendText(ctx, conversationID, noticeNoAuthCode)
		}
		f.logger.Error("listing databases failed", "user", userID, "error", err)
		return f.messenger.SendText(ctx, conversationID, noticeUnknownError)
	}

	f.sessions.Update(conversationID, func(s *model.Session) {
		s.SetPendingText(text)
	})

	if _, err := f.messenger.SendMenu(ctx, conversationID, noticeMenuPrompt, buildMenuRows(candidates)); err != nil {
		return fmt.Errorf("sending menu: %w", err)
	}
	return nil
}

// buildMenuRows renders one row per visible candidate plus the trailing
// cancellation row.
func buildMenuRows(candidates []model.Candidate) []outbound.MenuRow {
	rows := make([]outbound.MenuRow, 0, len(candidates)+1)
	for _, c := range candidates {
		if c.Hidden {
			continue
		}
		rows = append(rows, outbound.MenuRow{
			Label: c.Label(),
			Token: model.SelectDatabaseChoice(c.ID).Token(),
		})
	}
	rows = append(rows, outbound.MenuRow{
		Label: cancelRowLabel,
		Token: model.CancelChoice().Token(),
	})
	return rows
}

// Resolve consumes a single choice callback. The pending text is taken and
// cleared before the first suspending call so a second resolve for the same
// conversation can never reuse it.
func (f *SelectionFlow) Resolve(ctx context.Context, conversationID, userID, menuMessageID, token string) error {
	text, hasText := f.sessions.TakePendingText(conversationID)

	choice, err := model.ParseChoiceToken(token)
	if err != nil {
		f.logger.Error("protocol error resolving choice", "conversation", conversationID, "token", token, "error", err)
		return f.finish(ctx, conversationID, menuMessageID, noticeGenericFailure)
	}

	if choice.Kind == model.ChoiceCancel {
		return f.finish(ctx, conversationID, menuMessageID, noticeCancelled)
	}

	if !hasText {
		f.logger.Warn("choice arrived with no pending text", "conversation", conversationID)
		return f.finish(ctx, conversationID, menuMessageID, noticeGenericFailure)
	}

	user, err := f.creds.GetUser(ctx, userID)
	if err != nil {
		f.logger.Error("credential lookup failed", "user", userID, "error", err)
		return f.finish(ctx, conversationID, menuMessageID, noticeGenericFailure)
	}

	title, err := f.docs.AppendText(ctx, user.Token, choice.DatabaseID, text)
	if err != nil {
		f.logger.Error("append failed", "user", userID, "database", choice.DatabaseID, "error", err)
		return f.finish(ctx, conversationID, menuMessageID, noticeGenericFailure)
	}

	confirmation := fmt.Sprintf("%q added to %s 👍", text, title)
	return f.finish(ctx, conversationID, menuMessageID, confirmation)
}

// finish sends the outcome notice, then deletes the menu message. Deletion is
// attempted even when the notice fails, and its own failure is only logged.
func (f *SelectionFlow) finish(ctx context.Context, conversationID, menuMessageID, notice string) error {
	sendErr := f.messenger.SendText(ctx, conversationID, notice)
	if sendErr != nil {
		f.logger.Error("outcome notice failed", "conversation", conversationID, "error", sendErr)
	}
	if menuMessageID != "" {
		if err := f.messenger.DeleteMessage(ctx, conversationID, menuMessageID); err != nil {
			f.logger.Warn("deleting menu message failed", "conversation", conversationID, "message", menuMessageID, "error", err)
		}
	}
	return sendErr
}
