package memory_test

import (
	"sync"
	"testing"

	"github.com/franp/notion-relay-bot/internal/adapter/outbound/persistence/memory"
	"github.com/franp/notion-relay-bot/internal/domain/model"
)

func TestSessionStore_GetUnknownConversation(t *testing.T) {
	store := memory.NewSessionStore()

	sess := store.Get("C1")
	if sess.WaitingForAuthCode || sess.WaitingForAnnouncement || sess.HasPendingText {
		t.Errorf("expected zero session, got %+v", sess)
	}
}

func TestSessionStore_UpdateCreatesRecord(t *testing.T) {
	store := memory.NewSessionStore()

	store.Update("C1", func(s *model.Session) { s.WaitingForAuthCode = true })

	if !store.Get("C1").WaitingForAuthCode {
		t.Error("expected flag to persist across Update/Get")
	}
	if store.Get("C2").WaitingForAuthCode {
		t.Error("conversations must be independent")
	}
}

func TestSessionStore_TakePendingText(t *testing.T) {
	store := memory.NewSessionStore()
	store.Update("C1", func(s *model.Session) { s.SetPendingText("Buy milk") })

	text, ok := store.TakePendingText("C1")
	if !ok || text != "Buy milk" {
		t.Fatalf("TakePendingText: got (%q, %v)", text, ok)
	}
	if _, ok := store.TakePendingText("C1"); ok {
		t.Error("second take must find nothing")
	}
}

func TestSessionStore_TakePendingTextIsAtomic(t *testing.T) {
	store := memory.NewSessionStore()
	store.Update("C1", func(s *model.Session) { s.SetPendingText("only once") })

	const workers = 64
	var wg sync.WaitGroup
	got := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if text, ok := store.TakePendingText("C1"); ok {
				got <- text
			}
		}()
	}
	wg.Wait()
	close(got)

	var wins int
	for range got {
		wins++
	}
	if wins != 1 {
		t.Errorf("pending text taken %d times, want exactly 1", wins)
	}
}
