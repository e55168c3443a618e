package slackbot

import (
	"context"
	"strings"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/franp/notion-relay-bot/internal/domain/port/inbound"
)

// handleSlashCommand routes /relay subcommands to the EventPort.
func (b *Bot) handleSlashCommand(ctx context.Context, evt socketmode.Event) {
	b.socketMode.Ack(*evt.Request)

	cmd, ok := evt.Data.(slackapi.SlashCommand)
	if !ok {
		return
	}

	subcommand := strings.ToLower(strings.TrimSpace(cmd.Text))
	if subcommand == "" {
		subcommand = "help"
	}

	command := inbound.CommandEvent{
		ConversationID: cmd.ChannelID,
		UserID:         cmd.UserID,
		Command:        subcommand,
	}
	go func() {
		if err := b.events.HandleCommand(ctx, command); err != nil {
			b.logger.Error("handle command", "error", err, "command", subcommand)
		}
	}()
}
