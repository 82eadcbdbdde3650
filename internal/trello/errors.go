package trello

import "fmt"

// APIError is a non-success response from the Trello API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello: API error (status %d): %s", e.StatusCode, e.Body)
}
