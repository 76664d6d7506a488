// Package slack posts messages through the Slack Web API. Both the
// modern block layout and the legacy attachment layout are supported;
// callers pick one and iterate their channel list.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"paperbot/internal/blocks"
	"paperbot/internal/logger"
	"paperbot/internal/retry"
	"paperbot/internal/summary"
)

const defaultAPIURL = "https://slack.com/api/chat.postMessage"

// Colors rotated across consecutive attachment posts.
var Colors = []string{"#d7003a", "#f6ad49", "#ffdb4f", "#00a381", "#89c3eb", "#bbc8e6", "#a59aca"}

// Attachment is the legacy message shape: a titled field list with a
// color bar.
type Attachment struct {
	Title  string          `json:"title"`
	Fields []summary.Field `json:"fields"`
	Color  string          `json:"color"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Client posts to one workspace token. APIURL and Retry are overridable
// for tests.
type Client struct {
	Token  string
	APIURL string
	HTTP   *http.Client
	Retry  retry.Config
}

func NewClient(token string) *Client {
	return &Client{
		Token:  token,
		APIURL: defaultAPIURL,
		HTTP:   &http.Client{Timeout: 30 * time.Second},
		Retry:  retry.Config{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true},
	}
}

// PostBlocks sends a block-formatted message to one channel, retrying
// transient failures with backoff.
func (c *Client) PostBlocks(ctx context.Context, channel, fallback string, msg []blocks.Block) error {
	payload := map[string]any{
		"channel":      channel,
		"text":         fallback,
		"blocks":       msg,
		"unfurl_links": false,
	}
	return c.post(ctx, payload)
}

// PostAttachment sends the legacy header text + attachment shape.
func (c *Client) PostAttachment(ctx context.Context, channel, text string, att Attachment) error {
	payload := map[string]any{
		"channel":      channel,
		"text":         text,
		"as_user":      true,
		"unfurl_links": false,
		"attachments":  []Attachment{att},
	}
	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	return retry.Do(ctx, c.Retry, func() error {
		return c.postOnce(ctx, body)
	})
}

func (c *Client) postOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// Slack signals application errors inside a 200 response.
	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("slack API error: %s", parsed.Error)
	}
	return nil
}
