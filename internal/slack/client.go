package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const defaultBaseURL = "https://slack.com/api"

type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	logger     *slog.Logger
}

func NewClient(botToken string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		botToken:   botToken,
		logger:     logger,
	}
}

// WithBaseURL points the client at a different API root. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

type postMessageRequest struct {
	Channel      string `json:"channel"`
	MarkdownText string `json:"markdown_text"`
}

type postMessageResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// PostMessage sends markdown text to a channel or user. Slack reports most
// failures in-band with HTTP 200, so the response envelope is checked too.
func (c *Client) PostMessage(ctx context.Context, channel, markdown string) error {
	payload, err := json.Marshal(postMessageRequest{
		Channel:      channel,
		MarkdownText: markdown,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("slack returned %s: %s", resp.Status, string(body))
	}

	var envelope postMessageResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("slack rejected message: %s", envelope.Error)
	}

	c.logger.Debug("posted message", "channel", channel)
	return nil
}
