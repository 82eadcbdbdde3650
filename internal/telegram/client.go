package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	baseURL = "https://api.telegram.org"

	// MessageLimit is the chunk width for outgoing messages. Telegram
	// rejects texts longer than 4096 characters; the margin leaves headroom
	// for HTML entities.
	MessageLimit = 3500
)

// Client talks to the Telegram Bot API.
type Client struct {
	BaseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewClient(token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// Bots are throttled to about one message per second per chat.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger,
	}
}

// apiResponse is the envelope Telegram wraps every method result in.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers one HTML-formatted message to the chat, with link
// previews disabled so card links do not unfurl under every report.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")
	form.Set("disable_web_page_preview", "true")

	reqURL := fmt.Sprintf("%s/bot%s/sendMessage", c.BaseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Description: string(body)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.OK {
		return &APIError{StatusCode: resp.StatusCode, Description: parsed.Description}
	}

	return nil
}

// SendLongMessage splits text at MessageLimit and sends every chunk in
// order. The first failed chunk aborts the rest.
func (c *Client) SendLongMessage(ctx context.Context, chatID, text string) error {
	chunks := SplitMessage(text, MessageLimit)
	for i, chunk := range chunks {
		if err := c.SendMessage(ctx, chatID, chunk); err != nil {
			return fmt.Errorf("sending chunk %d of %d: %w", i+1, len(chunks), err)
		}
		c.logger.Debug("chunk delivered", "chunk", i+1, "chunks", len(chunks), "chars", len([]rune(chunk)))
	}
	return nil
}
