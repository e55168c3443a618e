package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/franp/notion-relay-bot/internal/domain/model"
	"github.com/franp/notion-relay-bot/internal/domain/port/outbound"
	"github.com/franp/notion-relay-bot/pkg/boterror"
)

const defaultAPIVersion = "2022-06-28"

// hiddenPropertyName marks a database as excluded from the destination menu
// when a property with this name exists on it.
const hiddenPropertyName = "telegramIgnore"

// Config holds configuration for the Notion client.
type Config struct {
	BaseURL    string
	Version    string
	Timeout    time.Duration
	MaxRetries int
}

// Client implements outbound.DocumentStore against the Notion REST API.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Notion Client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.Version == "" {
		cfg.Version = defaultAPIVersion
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

var _ outbound.DocumentStore = (*Client)(nil)

// --- Notion API types ---

type richText struct {
	PlainText string `json:"plain_text"`
	Text      *struct {
		Content string `json:"content"`
	} `json:"text,omitempty"`
}

type emojiIcon struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

type propertySchema struct {
	Type string `json:"type"`
}

type databaseObject struct {
	Object     string                    `json:"object"`
	ID         string                    `json:"id"`
	Title      []richText                `json:"title"`
	Icon       *emojiIcon                `json:"icon"`
	Properties map[string]propertySchema `json:"properties"`
}

type searchRequest struct {
	Filter   searchFilter `json:"filter"`
	PageSize int          `json:"page_size"`
}

type searchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

type searchResponse struct {
	Results []databaseObject `json:"results"`
}

type createPageRequest struct {
	Parent     pageParent               `json:"parent"`
	Properties map[string]titleProperty `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type titleProperty struct {
	Title []titleText `json:"title"`
}

type titleText struct {
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- DocumentStore implementation ---

// ValidateToken calls /v1/users/me to check that a submitted integration
// token works before it is stored.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	_, err := c.do(ctx, token, http.MethodGet, "/v1/users/me", nil)
	if boterror.IsKind(err, boterror.KindUnauthenticated) {
		return boterror.Wrap(boterror.KindInvalidCredential, "notion: validating token", err)
	}
	return err
}

// ListDatabases returns the destination candidates visible to the token.
func (c *Client) ListDatabases(ctx context.Context, token string) ([]model.Candidate, error) {
	body := searchRequest{
		Filter:   searchFilter{Property: "object", Value: "database"},
		PageSize: 100,
	}
	respBody, err := c.do(ctx, token, http.MethodPost, "/v1/search", body)
	if err != nil {
		return nil, err
	}

	var search searchResponse
	if err := json.Unmarshal(respBody, &search); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(search.Results))
	for _, db := range search.Results {
		candidates = append(candidates, toCandidate(db))
	}
	return candidates, nil
}

// AppendText creates a new page in the database whose title is the text, and
// returns the database title for the confirmation notice.
func (c *Client) AppendText(ctx context.Context, token, databaseID, text string) (string, error) {
	respBody, err := c.do(ctx, token, http.MethodGet, "/v1/databases/"+databaseID, nil)
	if err != nil {
		return "", err
	}

	var db databaseObject
	if err := json.Unmarshal(respBody, &db); err != nil {
		return "", fmt.Errorf("decoding database: %w", err)
	}

	// Databases name their title property freely; find it by type.
	titleProp := ""
	for name, schema := range db.Properties {
		if schema.Type == "title" {
			titleProp = name
			break
		}
	}
	if titleProp == "" {
		return "", boterror.New(boterror.KindExternal, "notion: database has no title property")
	}

	page := createPageRequest{
		Parent: pageParent{DatabaseID: databaseID},
		Properties: map[string]titleProperty{
			titleProp: {Title: []titleText{{Text: textContent{Content: text}}}},
		},
	}
	if _, err := c.do(ctx, token, http.MethodPost, "/v1/pages", page); err != nil {
		return "", err
	}

	title := plainTitle(db.Title)
	if title == "" {
		title = model.UntitledFallback
	}
	return title, nil
}

// HealthCheck verifies the API endpoint is reachable. A 401 still counts as
// reachable since no credential is supplied.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v1/users/me", nil)
	if err != nil {
		return fmt.Errorf("creating health check request: %w", err)
	}
	req.Header.Set("Notion-Version", c.config.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("notion health check: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// --- Internal helpers ---

// do sends one API request with bounded retry on transient/server errors.
func (c *Client) do(ctx context.Context, token, method, path string, body any) ([]byte, error) {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
	}

	attempts := c.config.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		respBody, retryable, err := c.roundTrip(ctx, token, method, path, encoded)
		if err == nil {
			return respBody, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, token, method, path string, body []byte) ([]byte, bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", c.config.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, boterror.Wrap(boterror.KindExternal, "notion: calling "+path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, boterror.Wrap(boterror.KindExternal, "notion: reading response", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return respBody, false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, false, boterror.Wrap(boterror.KindUnauthenticated, "notion: calling "+path, apiError(respBody))
	case resp.StatusCode >= 500:
		return nil, true, boterror.Wrap(boterror.KindExternal, "notion: calling "+path,
			fmt.Errorf("server error %d: %s", resp.StatusCode, respBody))
	default:
		return nil, false, boterror.Wrap(boterror.KindExternal, "notion: calling "+path,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody))
	}
}

// apiError extracts Notion's structured error body when present.
func apiError(body []byte) error {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Code == "" {
		return fmt.Errorf("unauthorized")
	}
	return fmt.Errorf("%s: %s", er.Code, er.Message)
}

func toCandidate(db databaseObject) model.Candidate {
	c := model.Candidate{ID: db.ID, Title: plainTitle(db.Title)}
	if db.Icon != nil && db.Icon.Type == "emoji" {
		c.Icon = db.Icon.Emoji
	}
	_, c.Hidden = db.Properties[hiddenPropertyName]
	return c
}

func plainTitle(parts []richText) string {
	var b strings.Builder
	for _, p := range parts {
		switch {
		case p.PlainText != "":
			b.WriteString(p.PlainText)
		case p.Text != nil:
			b.WriteString(p.Text.Content)
		}
	}
	return b.String()
}
