package bot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/getMe", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Checker","username":"jid_bot"}}`)
	}))
	defer srv.Close()

	me, err := NewClient(srv.URL+"/", "TOKEN", srv.Client()).GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jid_bot", me.Username)
	assert.True(t, me.IsBot)
}

func TestClient_GetUpdatesSendsPollParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req getUpdatesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req.Offset)
		assert.Equal(t, 5, req.Timeout)
		assert.Equal(t, []string{"message"}, req.AllowedUpdates)
		_, _ = io.WriteString(w, `{"ok":true,"result":[{"update_id":42,"message":{"message_id":7,"chat":{"id":99,"type":"private"},"date":0,"text":"hi"}}]}`)
	}))
	defer srv.Close()

	updates, err := NewClient(srv.URL, "TOKEN", srv.Client()).GetUpdates(context.Background(), 42, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(99), updates[0].Message.Chat.ID)
	assert.Equal(t, "hi", updates[0].Message.Text)
}

func TestClient_SendMessageUsesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5), req.ChatID)
		assert.Equal(t, "<b>x</b>", req.Text)
		assert.Equal(t, ParseModeHTML, req.ParseMode)
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"chat":{"id":5,"type":"private"},"date":0}}`)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "TOKEN", srv.Client()).SendMessage(context.Background(), 5, "<b>x</b>"))
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":3}}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "TOKEN", srv.Client()).GetMe(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, 3*time.Second, apiErr.RetryAfter)
	assert.False(t, apiErr.Permanent())

	assert.True(t, (&APIError{Code: http.StatusUnauthorized}).Permanent())
	assert.True(t, (&APIError{Method: "sendMessage", Code: http.StatusForbidden}).Permanent())
	assert.False(t, (&APIError{Method: "getUpdates", Code: http.StatusBadRequest}).Permanent())
}

func TestClient_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, "SECRET-TOKEN", nil).GetMe(context.Background())
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "SECRET-TOKEN"), err.Error())
}
