package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	baseURL = "https://api.trello.com"

	// completionFilter selects the action type Trello records when a
	// checklist item changes state.
	completionFilter = "updateCheckItemStateOnCard"

	// actionLimit caps a single actions request. Boards that complete more
	// items than this in one week would need pagination, which this client
	// does not implement; hitting the cap is logged as likely truncation.
	actionLimit = 1000
)

// Client talks to the Trello REST API.
type Client struct {
	BaseURL    string
	key        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(key, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		BaseURL:    baseURL,
		key:        key,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Action is one record of a board's action feed.
type Action struct {
	ID   string     `json:"id"`
	Type string     `json:"type"`
	Date string     `json:"date"`
	Data ActionData `json:"data"`
}

type ActionData struct {
	CheckItem CheckItem `json:"checkItem"`
	Card      Card      `json:"card"`
}

// CheckItem is the checklist entry the action touched.
type CheckItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Card is the parent card owning the checklist.
type Card struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortLink string `json:"shortLink"`
}

// BoardActions fetches check-item state changes recorded on a board between
// since and before (UTC timestamps, half-open range). Feed elements that do
// not look like action objects are dropped rather than failing the fetch.
func (c *Client) BoardActions(ctx context.Context, boardID, since, before string) ([]Action, error) {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("token", c.token)
	params.Set("filter", completionFilter)
	params.Set("limit", strconv.Itoa(actionLimit))
	params.Set("since", since)
	params.Set("before", before)

	reqURL := fmt.Sprintf("%s/1/boards/%s/actions?%s", c.BaseURL, url.PathEscape(boardID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	actions := make([]Action, 0, len(raw))
	for _, msg := range raw {
		var a Action
		if err := json.Unmarshal(msg, &a); err != nil {
			c.logger.Warn("skipping malformed action record", "error", err)
			continue
		}
		actions = append(actions, a)
	}

	if len(raw) == actionLimit {
		c.logger.Warn("action feed hit the request cap, report may be incomplete",
			"limit", actionLimit, "board", boardID)
	}

	return actions, nil
}
