package model

// UntitledFallback is shown for databases whose title is empty.
const UntitledFallback = "Untitled"

// Candidate is one selectable destination database surfaced by the document
// platform's listing call.
type Candidate struct {
	ID     string
	Title  string
	Icon   string // optional emoji glyph
	Hidden bool   // remote metadata marks the database as ignored
}

func (c Candidate) DisplayTitle() string {
	if c.Title == "" {
		return UntitledFallback
	}
	return c.Title
}

// Label is the menu row text: icon glyph (when present) prefixed to the title.
func (c Candidate) Label() string {
	if c.Icon != "" {
		return c.Icon + " " + c.DisplayTitle()
	}
	return c.DisplayTitle()
}
