package model

// Session is the per-conversation mutable record. It lives in memory for the
// process lifetime only; a restart drops all pending state.
type Session struct {
	WaitingForAuthCode     bool
	WaitingForAnnouncement bool
	PendingText            string
	HasPendingText         bool
}

func (s *Session) SetPendingText(text string) {
	s.PendingText = text
	s.HasPendingText = true
}

// TakePendingText returns the stored text and clears it in the same step.
func (s *Session) TakePendingText() (string, bool) {
	if !s.HasPendingText {
		return "", false
	}
	text := s.PendingText
	s.PendingText = ""
	s.HasPendingText = false
	return text, true
}
