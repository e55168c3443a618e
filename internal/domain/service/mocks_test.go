package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/franp/notion-relay-bot/internal/domain/model"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
)

var errTransport = errors.New("transport unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- session store mock ---

type mockSessionStore struct {
	sessions map[string]*model.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]*model.Session)}
}

func (s *mockSessionStore) Get(conversationID string) model.Session {
	if sess, ok := s.sessions[conversationID]; ok {
		return *sess
	}
	return model.Session{}
}

func (s *mockSessionStore) Update(conversationID string, fn func(*model.Session)) {
	sess, ok := s.sessions[conversationID]
	if !ok {
		sess = &model.Session{}
		s.sessions[conversationID] = sess
	}
	fn(sess)
}

func (s *mockSessionStore) TakePendingText(conversationID string) (string, bool) {
	sess, ok := s.sessions[conversationID]
	if !ok {
		return "", false
	}
	return sess.TakePendingText()
}

var _ outbound.SessionStore = (*mockSessionStore)(nil)

// --- credential store mock ---

type mockCredentialStore struct {
	users   map[string]model.User
	saved   []model.User
	saveErr error
	listErr error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{users: make(map[string]model.User)}
}

func (c *mockCredentialStore) SaveCredential(_ context.Context, user model.User) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saved = append(c.saved, user)
	c.users[user.ID] = user
	return nil
}

func (c *mockCredentialStore) GetUser(_ context.Context, userID string) (model.User, error) {
	u, ok := c.users[userID]
	if !ok {
		return model.User{}, outbound.ErrUserNotFound
	}
	return u, nil
}

func (c *mockCredentialStore) ListAllUsers(_ context.Context) ([]model.User, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	users := make([]model.User, 0, len(c.saved))
	users = append(users, c.saved...)
	return users, nil
}

var _ outbound.CredentialStore = (*mockCredentialStore)(nil)

// --- document store mock ---

type appendCall struct {
	token      string
	databaseID string
	text       string
}

type mockDocumentStore struct {
	candidates  []model.Candidate
	listErr     error
	listCalls   int
	validateErr error
	appendTitle string
	appendErr   error
	appends     []appendCall
}

func (d *mockDocumentStore) ValidateToken(_ context.Context, _ string) error {
	return d.validateErr
}

func (d *mockDocumentStore) ListDatabases(_ context.Context, _ string) ([]model.Candidate, error) {
	d.listCalls++
	if d.listErr != nil {
		return nil, d.listErr
	}
	return d.candidates, nil
}

func (d *mockDocumentStore) AppendText(_ context.Context, token, databaseID, text string) (string, error) {
	d.appends = append(d.appends, appendCall{token: token, databaseID: databaseID, text: text})
	if d.appendErr != nil {
		return "", d.appendErr
	}
	return d.appendTitle, nil
}

var _ outbound.DocumentStore = (*mockDocumentStore)(nil)

// --- messenger mock ---

type sentText struct {
	conversation string
	text         string
}

type sentMenu struct {
	conversation string
	prompt       string
	rows         []outbound.MenuRow
}

type mockMessenger struct {
	texts     []sentText
	menus     []sentMenu
	deleted   []sentText // text field holds the message id
	acks      int
	failTexts map[string]bool // conversation ids whose SendText fails
	menuErr   error
	deleteErr error
}

func newMockMessenger() *mockMessenger {
	return &mockMessenger{failTexts: make(map[string]bool)}
}

func (m *mockMessenger) SendText(_ context.Context, conversationID, text string) error {
	if m.failTexts[conversationID] {
		return errTransport
	}
	m.texts = append(m.texts, sentText{conversation: conversationID, text: text})
	return nil
}

func (m *mockMessenger) SendMenu(_ context.Context, conversationID, prompt string, rows []outbound.MenuRow) (string, error) {
	if m.menuErr != nil {
		return "", m.menuErr
	}
	m.menus = append(m.menus, sentMenu{conversation: conversationID, prompt: prompt, rows: rows})
	return "menu-ts", nil
}

func (m *mockMessenger) DeleteMessage(_ context.Context, conversationID, messageID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, sentText{conversation: conversationID, text: messageID})
	return nil
}

func (m *mockMessenger) Acknowledge(_ context.Context, _, _ string) error {
	m.acks++
	return nil
}

func (m *mockMessenger) lastText() string {
	if len(m.texts) == 0 {
		return ""
	}
	return m.texts[len(m.texts)-1].text
}

var _ outbound.Messenger = (*mockMessenger)(nil)
