package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

const defaultBaseURL = "https://api.trello.com/1"

type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	token      string
	debugDir   string
	logger     *slog.Logger
}

func NewClient(key, token string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		key:        key,
		token:      token,
		logger:     logger,
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// WithDebugDir enables best-effort dumps of raw API responses.
func (c *Client) WithDebugDir(dir string) *Client {
	c.debugDir = dir
	return c
}

// Members fetches the member directory of a board.
func (c *Client) Members(ctx context.Context, boardID string) ([]Member, error) {
	body, err := c.get(ctx, fmt.Sprintf("/boards/%s/members", boardID), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch members for board %s: %w", boardID, err)
	}
	c.debugDump("members_"+boardID, body)

	var members []Member
	if err := json.Unmarshal(body, &members); err != nil {
		return nil, fmt.Errorf("parse members for board %s: %w", boardID, err)
	}
	return members, nil
}

// Lists fetches the lists of a board, id and name only.
func (c *Client) Lists(ctx context.Context, boardID string) ([]List, error) {
	body, err := c.get(ctx, fmt.Sprintf("/boards/%s/lists", boardID), url.Values{
		"cards":  {"none"},
		"fields": {"id,name"},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch lists for board %s: %w", boardID, err)
	}
	c.debugDump("lists_"+boardID, body)

	var lists []List
	if err := json.Unmarshal(body, &lists); err != nil {
		return nil, fmt.Errorf("parse lists for board %s: %w", boardID, err)
	}
	return lists, nil
}

// Cards fetches the cards of a list together with their list-transition
// history. The action log is filtered server-side to card moves and card
// creation; everything else never leaves Trello.
func (c *Client) Cards(ctx context.Context, listID string) ([]Card, error) {
	body, err := c.get(ctx, fmt.Sprintf("/lists/%s/cards", listID), url.Values{
		"fields":  {"name,idList,idMembers,dateLastActivity,url"},
		"actions": {"updateCard:idList,createCard"},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch cards for list %s: %w", listID, err)
	}
	c.debugDump("cards_"+listID, body)

	var cards []Card
	if err := json.Unmarshal(body, &cards); err != nil {
		return nil, fmt.Errorf("parse cards for list %s: %w", listID, err)
	}
	return cards, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.key)
	query.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("trello returned %s: %s", resp.Status, string(body))
	}

	return body, nil
}

// debugDump writes a raw API response to the debug directory. Failures are
// logged and swallowed; dumps are diagnostics, never part of the run.
func (c *Client) debugDump(name string, body []byte) {
	if c.debugDir == "" {
		return
	}

	path := filepath.Join(c.debugDir, name+".json")
	if err := os.MkdirAll(c.debugDir, 0755); err != nil {
		c.logger.Warn("create debug dir failed", "dir", c.debugDir, "err", err)
		return
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		c.logger.Warn("write debug dump failed", "path", path, "err", err)
		return
	}
	c.logger.Debug("wrote debug dump", "path", path)
}
