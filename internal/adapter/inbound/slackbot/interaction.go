package slackbot

import (
	"context"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/franp/notion-relay-bot/internal/adapter/inbound/slackbot/template"
	"github.com/franp/notion-relay-bot/internal/domain/port/inbound"
)

// handleInteraction processes Slack interactive component payloads (button clicks).
func (b *Bot) handleInteraction(ctx context.Context, evt socketmode.Event) {
	b.socketMode.Ack(*evt.Request)

	callback, ok := evt.Data.(slackapi.InteractionCallback)
	if !ok {
		return
	}

	for _, action := range callback.ActionCallback.BlockActions {
		if action.ActionID != template.ActionIDMenuChoice {
			continue
		}
		choice := inbound.ChoiceEvent{
			ConversationID: callback.Channel.ID,
			UserID:         callback.User.ID,
			MenuMessageID:  callback.Message.Timestamp,
			Token:          action.Value,
		}
		go func() {
			if err := b.events.HandleChoice(ctx, choice); err != nil {
				b.logger.Error("handle choice", "error", err, "channel", choice.ConversationID)
			}
		}()
	}
}
