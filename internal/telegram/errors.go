package telegram

import "fmt"

// APIError is a non-success response from the Telegram Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram: API error (status %d): %s", e.StatusCode, e.Description)
}
