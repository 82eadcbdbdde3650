package trello

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBoardActions(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":"a1","type":"updateCheckItemStateOnCard","date":"2024-01-02T10:00:00.000Z",
			 "data":{"checkItem":{"id":"ci1","name":"Ship it","state":"complete"},
			         "card":{"id":"c1","name":"Release","shortLink":"abc123"}}},
			{"id":"a2","type":"updateCheckItemStateOnCard","date":"2024-01-03T11:00:00.000Z",
			 "data":{"checkItem":{"id":"ci2","name":"Draft notes","state":"incomplete"},
			         "card":{"id":"c1","name":"Release","shortLink":"abc123"}}}
		]`)
	}))
	defer srv.Close()

	c := NewClient("k", "tok", discardLogger())
	c.BaseURL = srv.URL

	actions, err := c.BoardActions(context.Background(), "board1", "2024-01-01T00:00:00Z", "2024-01-08T00:00:00Z")
	require.NoError(t, err)
	require.Len(t, actions, 2)

	require.Equal(t, "/1/boards/board1/actions", gotPath)
	require.Equal(t, "k", gotQuery.Get("key"))
	require.Equal(t, "tok", gotQuery.Get("token"))
	require.Equal(t, "updateCheckItemStateOnCard", gotQuery.Get("filter"))
	require.Equal(t, "1000", gotQuery.Get("limit"))
	require.Equal(t, "2024-01-01T00:00:00Z", gotQuery.Get("since"))
	require.Equal(t, "2024-01-08T00:00:00Z", gotQuery.Get("before"))

	require.Equal(t, "Ship it", actions[0].Data.CheckItem.Name)
	require.Equal(t, "complete", actions[0].Data.CheckItem.State)
	require.Equal(t, "abc123", actions[0].Data.Card.ShortLink)
	require.Equal(t, "2024-01-03T11:00:00.000Z", actions[1].Date)
}

func TestBoardActionsSkipsMalformedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			"not an action",
			{"id":"a1","date":"2024-01-02T10:00:00.000Z",
			 "data":{"checkItem":{"name":"A","state":"complete"},"card":{"id":"c1","name":"Card","shortLink":"x"}}},
			42
		]`)
	}))
	defer srv.Close()

	c := NewClient("k", "tok", discardLogger())
	c.BaseURL = srv.URL

	actions, err := c.BoardActions(context.Background(), "b", "s", "e")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	require.Equal(t, "a1", actions[0].ID)
}

func TestBoardActionsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("k", "tok", discardLogger())
	c.BaseURL = srv.URL

	_, err := c.BoardActions(context.Background(), "b", "s", "e")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Contains(t, apiErr.Body, "invalid key")
}

func TestBoardActionsBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"this is": "not an array"}`)
	}))
	defer srv.Close()

	c := NewClient("k", "tok", discardLogger())
	c.BaseURL = srv.URL

	_, err := c.BoardActions(context.Background(), "b", "s", "e")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode")
}

func TestBoardActionsWarnsAtRequestCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString("[")
		for i := 0; i < actionLimit; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, `{"id":"a%d","date":"2024-01-02T10:00:00.000Z","data":{"checkItem":{"name":"n","state":"complete"},"card":{"id":"c","name":"C","shortLink":"s"}}}`, i)
		}
		b.WriteString("]")
		fmt.Fprint(w, b.String())
	}))
	defer srv.Close()

	var logBuf strings.Builder
	c := NewClient("k", "tok", slog.New(slog.NewTextHandler(&logBuf, nil)))
	c.BaseURL = srv.URL

	actions, err := c.BoardActions(context.Background(), "b", "s", "e")
	require.NoError(t, err)
	require.Len(t, actions, actionLimit)
	require.Contains(t, logBuf.String(), "request cap")
}
