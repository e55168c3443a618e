package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/franp/notion-relay-bot/internal/domain/model"
	"github.com/franp/notion-relay-bot/internal/domain/port/inbound"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
	"github.com/franp/notion-relay-bot/pkg/boterror"
)

// User-visible notices. Short and fixed; raw failure details go to logs only.
const (
	noticeRestricted = "⚠️ Sorry, this bot is in restricted mode for now.\nStay tuned for new updates!"

	noticeAuthInvalid    = "Auth code not valid, type /auth again"
	noticeAuthRegistered = "Auth code registered 👍\n\nSend a message to add it to the database you select"
	noticeUnknownError   = "Unknown error, please try again later"

	noticeAnnouncementPrompt    = "Send the announcement message. Type \"cancel\" to abort."
	noticeAnnouncementCancelled = "Announcement cancelled"
	noticeOwnerAlert            = "Somebody is trying to make announcements. Stop the bot."

	noticeStart = "Welcome! Type /auth to connect your account.\nAfter that, any message you send gets saved to the database you pick."
	noticeAuthPrompt = "Send me your integration auth code.\nCreate an internal integration, share your databases with it, then paste the secret here."
	noticeHelp = "Send any text and pick a destination database from the menu.\n\nCommands:\n/start — intro\n/auth — register your auth code\n/help — this message\n/roadmap — planned features"
	noticeRoadmap        = "Planned: photo capture, page search, multi-workspace support."
	noticeUnknownCommand = "Unknown command. Try /help."

	noticeStickerReply       = "❤️"
	noticePhotoReply         = "Pictures are not allowed..."
	noticePhotoReplyFollowup = "...yet"
)

const announcementCancelKeyword = "cancel"

// Config carries the gate's startup-time settings, read once from the process
// environment/config file.
type Config struct {
	Restricted  bool
	OwnerUserID string
}

// Gate routes every inbound event: restricted-mode check first, waiting-state
// consumption second, normal dispatch last. Exactly one disposition fires per
// event.
type Gate struct {
	cfg         Config
	sessions    outbound.SessionStore
	creds       outbound.CredentialStore
	docs        outbound.DocumentStore
	messenger   outbound.Messenger
	selection   *SelectionFlow
	broadcaster *Broadcaster
	logger      *slog.Logger
}

func NewGate(
	cfg Config,
	sessions outbound.SessionStore,
	creds outbound.CredentialStore,
	docs outbound.DocumentStore,
	messenger outbound.Messenger,
	selection *SelectionFlow,
	broadcaster *Broadcaster,
	logger *slog.Logger,
) *Gate {
	return &Gate{
		cfg:         cfg,
		sessions:    sessions,
		creds:       creds,
		docs:        docs,
		messenger:   messenger,
		selection:   selection,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

var _ inbound.EventPort = (*Gate)(nil)

// HandleMessage implements inbound.EventPort for free-text messages.
func (g *Gate) HandleMessage(ctx context.Context, ev inbound.MessageEvent) error {
	if g.denyRestricted(ctx, ev.ConversationID, ev.UserID) {
		return nil
	}
	if consumed, err := g.consumeWaiting(ctx, ev); consumed {
		return err
	}
	g.acknowledge(ctx, ev.ConversationID, ev.MessageID)
	return g.selection.Open(ctx, ev.ConversationID, ev.UserID, ev.Text)
}

// HandleChoice implements inbound.EventPort for menu button clicks.
func (g *Gate) HandleChoice(ctx context.Context, ev inbound.ChoiceEvent) error {
	if g.denyRestricted(ctx, ev.ConversationID, ev.UserID) {
		return nil
	}
	return g.selection.Resolve(ctx, ev.ConversationID, ev.UserID, ev.MenuMessageID, ev.Token)
}

// HandleCommand implements inbound.EventPort for bot commands.
func (g *Gate) HandleCommand(ctx context.Context, ev inbound.CommandEvent) error {
	if g.denyRestricted(ctx, ev.ConversationID, ev.UserID) {
		return nil
	}
	g.acknowledge(ctx, ev.ConversationID, ev.MessageID)

	switch ev.Command {
	case "start":
		return g.messenger.SendText(ctx, ev.ConversationID, noticeStart)
	case "help":
		return g.messenger.SendText(ctx, ev.ConversationID, noticeHelp)
	case "roadmap":
		return g.messenger.SendText(ctx, ev.ConversationID, noticeRoadmap)
	case "auth":
		g.sessions.Update(ev.ConversationID, func(s *model.Session) {
			s.WaitingForAuthCode = true
			s.WaitingForAnnouncement = false
		})
		return g.messenger.SendText(ctx, ev.ConversationID, noticeAuthPrompt)
	case "announcement":
		// The owner check happens when the announcement text arrives, so the
		// out-of-band report path stays exercised for non-owner attempts.
		g.sessions.Update(ev.ConversationID, func(s *model.Session) {
			s.WaitingForAnnouncement = true
			s.WaitingForAuthCode = false
		})
		return g.messenger.SendText(ctx, ev.ConversationID, noticeAnnouncementPrompt)
	default:
		return g.messenger.SendText(ctx, ev.ConversationID, noticeUnknownCommand)
	}
}

// HandleAttachment implements inbound.EventPort for non-text messages.
func (g *Gate) HandleAttachment(ctx context.Context, ev inbound.AttachmentEvent) error {
	if g.denyRestricted(ctx, ev.ConversationID, ev.UserID) {
		return nil
	}
	switch ev.Kind {
	case inbound.AttachmentSticker:
		return g.messenger.SendText(ctx, ev.ConversationID, noticeStickerReply)
	case inbound.AttachmentPhoto:
		if err := g.messenger.SendText(ctx, ev.ConversationID, noticePhotoReply); err != nil {
			return err
		}
		return g.messenger.SendText(ctx, ev.ConversationID, noticePhotoReplyFollowup)
	}
	return nil
}

// denyRestricted reports whether the event must be rejected under restricted
// operating mode. The notice is fixed; only the owner passes.
func (g *Gate) denyRestricted(ctx context.Context, conversationID, userID string) bool {
	if !g.cfg.Restricted || userID == g.cfg.OwnerUserID {
		return false
	}
	if err := g.messenger.SendText(ctx, conversationID, noticeRestricted); err != nil {
		g.logger.Warn("restricted notice failed", "conversation", conversationID, "error", err)
	}
	return true
}

type waitKind int

const (
	waitNone waitKind = iota
	waitAuthCode
	waitAnnouncement
)

// consumeWaiting answers a pending wait state, if any. The flag is cleared in
// the same locked step it is read, before any external call, so the next
// message goes through normal dispatch even when this one fails.
func (g *Gate) consumeWaiting(ctx context.Context, ev inbound.MessageEvent) (bool, error) {
	kind := waitNone
	g.sessions.Update(ev.ConversationID, func(s *model.Session) {
		switch {
		case s.WaitingForAuthCode:
			kind = waitAuthCode
			s.WaitingForAuthCode = false
		case s.WaitingForAnnouncement:
			kind = waitAnnouncement
			s.WaitingForAnnouncement = false
		}
	})

	switch kind {
	case waitAuthCode:
		return true, g.handleAuthCode(ctx, ev)
	case waitAnnouncement:
		return true, g.handleAnnouncement(ctx, ev)
	}
	return false, nil
}

// handleAuthCode validates and stores a submitted credential.
func (g *Gate) handleAuthCode(ctx context.Context, ev inbound.MessageEvent) error {
	code := strings.TrimSpace(ev.Text)

	if err := g.docs.ValidateToken(ctx, code); err != nil {
		if boterror.IsKind(err, boterror.KindInvalidCredential) {
			return g.messenger.SendText(ctx, ev.ConversationID, noticeAuthInvalid)
		}
		g.logger.Error("auth code validation failed", "user", ev.UserID, "error", err)
		return g.messenger.SendText(ctx, ev.ConversationID, noticeUnknownError)
	}

	user := model.User{ID: ev.UserID, ConversationID: ev.ConversationID, Token: code}
	if err := g.creds.SaveCredential(ctx, user); err != nil {
		g.logger.Error("saving credential failed", "user", ev.UserID, "error", err)
		return g.messenger.SendText(ctx, ev.ConversationID, noticeUnknownError)
	}
	return g.messenger.SendText(ctx, ev.ConversationID, noticeAuthRegistered)
}

// handleAnnouncement consumes the armed announcement wait: owner check, the
// cancellation keyword, or the fan-out.
func (g *Gate) handleAnnouncement(ctx context.Context, ev inbound.MessageEvent) error {
	if ev.UserID != g.cfg.OwnerUserID {
		// Refused silently to the sender; the owner gets an out-of-band alert.
		g.logger.Warn("unauthorized announcement attempt", "user", ev.UserID, "conversation", ev.ConversationID)
		owner, err := g.creds.GetUser(ctx, g.cfg.OwnerUserID)
		if err != nil {
			g.logger.Error("owner lookup for alert failed", "error", err)
			return nil
		}
		return g.messenger.SendText(ctx, owner.ConversationID, noticeOwnerAlert)
	}

	if strings.EqualFold(strings.TrimSpace(ev.Text), announcementCancelKeyword) {
		return g.messenger.SendText(ctx, ev.ConversationID, noticeAnnouncementCancelled)
	}

	// The fan-out keeps running even if the bot begins shutting down.
	return g.broadcaster.Broadcast(context.WithoutCancel(ctx), ev.ConversationID, ev.Text)
}

// acknowledge sends the seen-indicator. Failures never block dispatch.
func (g *Gate) acknowledge(ctx context.Context, conversationID, messageID string) {
	if messageID == "" {
		return
	}
	if err := g.messenger.Acknowledge(ctx, conversationID, messageID); err != nil {
		g.logger.Debug("acknowledge failed", "conversation", conversationID, "error", err)
	}
}
