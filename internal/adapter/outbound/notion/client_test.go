package notion_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franp/notion-relay-bot/internal/adapter/outbound/notion"
	"github.com/franp/notion-relay-bot/pkg/boterror"
)

func newTestClient(t *testing.T, handler http.Handler) *notion.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return notion.NewClient(notion.Config{
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	})
}

func TestClient_ValidateToken(t *testing.T) {
	var gotAuth, gotVersion string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		w.Write([]byte(`{"object":"user","id":"me"}`))
	}))

	if err := client.ValidateToken(context.Background(), "secret_tok"); err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if gotAuth != "Bearer secret_tok" {
		t.Errorf("Authorization header: got %q", gotAuth)
	}
	if gotVersion != "2022-06-28" {
		t.Errorf("Notion-Version header: got %q", gotVersion)
	}
}

func TestClient_ValidateTokenRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"object":"error","code":"unauthorized","message":"API token is invalid."}`))
	}))

	err := client.ValidateToken(context.Background(), "bad")
	if !boterror.IsKind(err, boterror.KindInvalidCredential) {
		t.Errorf("expected invalid credential kind, got %v", err)
	}
}

func TestClient_ListDatabases(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			Filter struct {
				Property string `json:"property"`
				Value    string `json:"value"`
			} `json:"filter"`
			PageSize int `json:"page_size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding search request: %v", err)
		}
		if req.Filter.Value != "database" || req.PageSize != 100 {
			t.Errorf("unexpected search request: %+v", req)
		}
		w.Write([]byte(`{"results":[
			{"object":"database","id":"db-1",
			 "title":[{"plain_text":"Groceries"}],
			 "icon":{"type":"emoji","emoji":"🛒"},
			 "properties":{"Name":{"type":"title"}}},
			{"object":"database","id":"db-2",
			 "title":[{"plain_text":"Internal"}],
			 "properties":{"Name":{"type":"title"},"telegramIgnore":{"type":"checkbox"}}},
			{"object":"database","id":"db-3","title":[],
			 "properties":{"Name":{"type":"title"}}}
		]}`))
	}))

	candidates, err := client.ListDatabases(context.Background(), "tok")
	if err != nil {
		t.Fatalf("ListDatabases: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].Label() != "🛒 Groceries" {
		t.Errorf("candidate 0 label: got %q", candidates[0].Label())
	}
	if !candidates[1].Hidden {
		t.Error("db-2 carries the ignore property and must be hidden")
	}
	if candidates[2].DisplayTitle() != "Untitled" {
		t.Errorf("empty title must fall back to Untitled, got %q", candidates[2].DisplayTitle())
	}
}

func TestClient_ListDatabasesStaleToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"object":"error","code":"unauthorized","message":"API token is invalid."}`))
	}))

	_, err := client.ListDatabases(context.Background(), "stale")
	if !boterror.IsKind(err, boterror.KindUnauthenticated) {
		t.Errorf("expected unauthenticated kind, got %v", err)
	}
}

func TestClient_AppendText(t *testing.T) {
	var pageBody []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/databases/db-1":
			w.Write([]byte(`{"object":"database","id":"db-1",
				"title":[{"plain_text":"Groceries"}],
				"properties":{"Task name":{"type":"title"},"Done":{"type":"checkbox"}}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/pages":
			pageBody = mustReadAll(t, r)
			w.Write([]byte(`{"object":"page","id":"page-1"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	title, err := client.AppendText(context.Background(), "tok", "db-1", "Buy milk")
	if err != nil {
		t.Fatalf("AppendText: %v", err)
	}
	if title != "Groceries" {
		t.Errorf("title: got %q", title)
	}

	var page struct {
		Parent struct {
			DatabaseID string `json:"database_id"`
		} `json:"parent"`
		Properties map[string]struct {
			Title []struct {
				Text struct {
					Content string `json:"content"`
				} `json:"text"`
			} `json:"title"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(pageBody, &page); err != nil {
		t.Fatalf("decoding page request: %v", err)
	}
	if page.Parent.DatabaseID != "db-1" {
		t.Errorf("parent database: got %q", page.Parent.DatabaseID)
	}
	prop, ok := page.Properties["Task name"]
	if !ok {
		t.Fatalf("page must target the database's title property, got %v", page.Properties)
	}
	if len(prop.Title) != 1 || prop.Title[0].Text.Content != "Buy milk" {
		t.Errorf("title content: got %+v", prop.Title)
	}
}

func TestClient_AppendTextNoTitleProperty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"object":"database","id":"db-1","title":[],
			"properties":{"Done":{"type":"checkbox"}}}`))
	}))

	_, err := client.AppendText(context.Background(), "tok", "db-1", "text")
	if err == nil {
		t.Fatal("expected error for database without a title property")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"object":"user","id":"me"}`))
	}))
	t.Cleanup(server.Close)

	client := notion.NewClient(notion.Config{
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	})

	if err := client.ValidateToken(context.Background(), "tok"); err != nil {
		t.Fatalf("ValidateToken after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func mustReadAll(t *testing.T, r *http.Request) []byte {
	t.Helper()
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		t.Fatalf("reading request body: %v", err)
	}
	return raw
}
