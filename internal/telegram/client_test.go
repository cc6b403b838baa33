package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/account-store/internal/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	c := telegram.NewClient(srv.URL, 5*time.Second)
	err := c.SendMessage(context.Background(), "TOKEN", "42", "hello")
	require.NoError(t, err)

	assert.Equal(t, "/botTOKEN/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
	assert.Equal(t, "HTML", gotBody["parse_mode"])
}

func TestSendMessage_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusUnauthorized, `{"ok": false, "description": "Unauthorized"}`},
		{"ok false", http.StatusOK, `{"ok": false, "description": "chat not found"}`},
		{"not json", http.StatusBadGateway, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := telegram.NewClient(srv.URL, 5*time.Second)
			err := c.SendMessage(context.Background(), "TOKEN", "42", "hello")
			assert.ErrorIs(t, err, telegram.ErrRejected)
		})
	}
}

func TestSendMessage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := telegram.NewClient(url, time.Second)
	err := c.SendMessage(context.Background(), "TOKEN", "42", "hello")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, telegram.ErrRejected)
}

func TestSendMessage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := telegram.NewClient("http://127.0.0.1:1", time.Second)
	err := c.SendMessage(ctx, "TOKEN", "42", "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
