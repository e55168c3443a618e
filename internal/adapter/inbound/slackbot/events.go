package slackbot

import (
	"context"

	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/franp/notion-relay-bot/internal/domain/port/inbound"
)

// handleEventsAPI processes Slack Events API payloads (message events).
func (b *Bot) handleEventsAPI(ctx context.Context, evt socketmode.Event) {
	b.socketMode.Ack(*evt.Request)

	eventsPayload, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		return
	}

	innerEvent := eventsPayload.InnerEvent
	switch ev := innerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		b.processMessageEvent(ctx, ev)
	}
}

// processMessageEvent routes a Slack message event to the EventPort.
func (b *Bot) processMessageEvent(ctx context.Context, ev *slackevents.MessageEvent) {
	// Ignore bot messages to prevent loops.
	if ev.BotID != "" || ev.SubType == "bot_message" || ev.User == b.botUserID {
		return
	}
	// Edits and deletions arrive as message subtypes with no new content.
	if ev.SubType != "" && ev.SubType != "file_share" {
		return
	}

	if ev.SubType == "file_share" {
		attachment := inbound.AttachmentEvent{
			ConversationID: ev.Channel,
			UserID:         ev.User,
			Kind:           inbound.AttachmentPhoto,
		}
		// Handlers may block on remote calls; run each event on its own goroutine.
		go func() {
			if err := b.events.HandleAttachment(ctx, attachment); err != nil {
				b.logger.Error("handle attachment", "error", err, "channel", ev.Channel)
			}
		}()
		return
	}

	if ev.Text == "" {
		return
	}

	message := inbound.MessageEvent{
		ConversationID: ev.Channel,
		UserID:         ev.User,
		MessageID:      ev.TimeStamp,
		Text:           ev.Text,
	}
	go func() {
		if err := b.events.HandleMessage(ctx, message); err != nil {
			b.logger.Error("handle message", "error", err, "channel", ev.Channel)
		}
	}()
}
