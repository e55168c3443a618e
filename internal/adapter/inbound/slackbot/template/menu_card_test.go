package template_test

import (
	"testing"

	slackapi "github.com/slack-go/slack"

	"github.com/franp/notion-relay-bot/internal/adapter/inbound/slackbot/template"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

func TestBuildMenuBlocks_Basic(t *testing.T) {
	rows := []outbound.MenuRow{
		{Label: "🛒 Groceries", Token: "database_iddb-1"},
		{Label: "🚫", Token: "cancel_operation"},
	}

	blocks := template.BuildMenuBlocks("Select the database to save this text", rows)

	// Prompt section, divider, then one action block per row.
	if len(blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(blocks))
	}

	header, ok := blocks[0].(*slackapi.SectionBlock)
	if !ok {
		t.Fatalf("expected SectionBlock header, got %T", blocks[0])
	}
	if header.Text.Text != "Select the database to save this text" {
		t.Errorf("unexpected prompt: %s", header.Text.Text)
	}

	for i, row := range rows {
		actionBlock, ok := blocks[2+i].(*slackapi.ActionBlock)
		if !ok {
			t.Fatalf("block %d: expected ActionBlock, got %T", 2+i, blocks[2+i])
		}
		if len(actionBlock.Elements.ElementSet) != 1 {
			t.Fatalf("block %d: expected one button, got %d", 2+i, len(actionBlock.Elements.ElementSet))
		}
		btn, ok := actionBlock.Elements.ElementSet[0].(*slackapi.ButtonBlockElement)
		if !ok {
			t.Fatalf("block %d: expected ButtonBlockElement, got %T", 2+i, actionBlock.Elements.ElementSet[0])
		}
		if btn.ActionID != template.ActionIDMenuChoice {
			t.Errorf("button %d: action id %q", i, btn.ActionID)
		}
		if btn.Value != row.Token {
			t.Errorf("button %d: value %q want %q", i, btn.Value, row.Token)
		}
		if btn.Text.Text != row.Label {
			t.Errorf("button %d: label %q want %q", i, btn.Text.Text, row.Label)
		}
	}
}

func TestBuildMenuBlocks_Empty(t *testing.T) {
	blocks := template.BuildMenuBlocks("prompt", nil)
	if len(blocks) != 2 {
		t.Fatalf("expected prompt and divider only, got %d blocks", len(blocks))
	}
}
