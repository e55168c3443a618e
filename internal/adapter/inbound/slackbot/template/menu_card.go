package template

import (
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

// ActionIDMenuChoice identifies button clicks coming from the destination menu.
const ActionIDMenuChoice = "relay_menu_choice"

// BuildMenuBlocks constructs Block Kit blocks for the destination menu. Each
// row becomes its own action block so the buttons stack vertically.
func BuildMenuBlocks(prompt string, rows []outbound.MenuRow) []slackapi.Block {
	header := slackapi.NewSectionBlock(
		slackapi.NewTextBlockObject(slackapi.MarkdownType, prompt, false, false),
		nil, nil,
	)

	blocks := []slackapi.Block{header, slackapi.NewDividerBlock()}

	for i, row := range rows {
		btn := slackapi.NewButtonBlockElement(
			ActionIDMenuChoice,
			row.Token,
			slackapi.NewTextBlockObject(slackapi.PlainTextType, row.Label, false, false),
		)
		blocks = append(blocks, slackapi.NewActionBlock(fmt.Sprintf("menu_row_%d", i), btn))
	}

	return blocks
}
