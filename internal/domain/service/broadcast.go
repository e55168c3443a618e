package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

const noticeAnnouncementComplete = "Announcement complete."

// Broadcaster fans an announcement out to every registered user sequentially,
// pacing sends to respect the transport rate limit. One recipient's failure
// never blocks the rest, and completion is reported to the initiating
// conversation unconditionally after the last attempt.
type Broadcaster struct {
	creds     outbound.CredentialStore
	messenger outbound.Messenger
	interval  time.Duration
	logger    *slog.Logger
}

func NewBroadcaster(
	creds outbound.CredentialStore,
	messenger outbound.Messenger,
	interval time.Duration,
	logger *slog.Logger,
) *Broadcaster {
	return &Broadcaster{
		creds:     creds,
		messenger: messenger,
		interval:  interval,
		logger:    logger,
	}
}

// Broadcast sends text to every known user and then reports completion to the
// originating conversation. There is no cancellation: once started the fan-out
// runs to the last recipient.
func (b *Broadcaster) Broadcast(ctx context.Context, originConversationID, text string) error {
	runID := uuid.NewString()

	users, err := b.creds.ListAllUsers(ctx)
	if err != nil {
		b.logger.Error("listing broadcast recipients failed", "run", runID, "error", err)
		return b.messenger.SendText(ctx, originConversationID, noticeUnknownError)
	}

	limiter := rate.NewLimiter(rate.Every(b.interval), 1)
	failed := 0
	for _, user := range users {
		if err := limiter.Wait(ctx); err != nil {
			b.logger.Error("broadcast pacing interrupted", "run", runID, "error", err)
			break
		}
		if err := b.messenger.SendText(ctx, user.ConversationID, text); err != nil {
			failed++
			b.logger.Warn("broadcast send failed", "run", runID, "user", user.ID, "error", err)
			continue
		}
		b.logger.Info("broadcast message sent", "run", runID, "user", user.ID)
	}

	b.logger.Info("broadcast finished", "run", runID, "recipients", len(users), "failed", failed)
	return b.messenger.SendText(ctx, originConversationID, noticeAnnouncementComplete)
}
