package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dom/account-store/internal/api/handlers"
	"github.com/dom/account-store/internal/llm"
	"github.com/dom/account-store/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postChat(t *testing.T, ts *testutil.TestServer, req handlers.ChatRequest) *http.Response {
	t.Helper()

	body, _ := json.Marshal(req)
	resp, err := http.Post(ts.APIURL("/assistant/chat"), "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	return resp
}

func TestAssistantHandler_Chat(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("not configured returns a fallback reply", func(t *testing.T) {
		resp := postChat(t, ts, handlers.ChatRequest{Message: "hi", Lang: "ru"})
		defer resp.Body.Close()

		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body handlers.ErrorResponse
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, "assistant_not_configured", body.Code)
		assert.Contains(t, body.Reply, "Извините")
	})

	ts.ConfigureLeadChannel(t)

	t.Run("empty message", func(t *testing.T) {
		resp := postChat(t, ts, handlers.ChatRequest{Message: " "})
		defer resp.Body.Close()
		testutil.AssertJSONError(t, resp, http.StatusBadRequest, "empty_message")
	})

	t.Run("reply", func(t *testing.T) {
		ts.Completer.SetReply("We have three Genshin accounts.")

		resp := postChat(t, ts, handlers.ChatRequest{
			Messages: []handlers.ChatMessage{
				{Role: "user", Content: "hello"},
				{Role: "assistant", Content: "hi!"},
			},
			Message: "What do you sell?",
			Lang:    "en",
		})
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body handlers.ChatResponse
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, "We have three Genshin accounts.", body.Reply)

		requests := ts.Completer.Requests()
		require.NotEmpty(t, requests)
		last := requests[len(requests)-1]
		require.Len(t, last, 4)
		assert.Equal(t, llm.RoleSystem, last[0].Role)
		assert.Equal(t, "What do you sell?", last[3].Content)
	})

	t.Run("upstream failure", func(t *testing.T) {
		ts.Completer.Fail(errors.New("timeout"))
		defer ts.Completer.Fail(nil)

		resp := postChat(t, ts, handlers.ChatRequest{Message: "hi"})
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body handlers.ErrorResponse
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, "assistant_unavailable", body.Code)
		assert.Contains(t, body.Reply, "Sorry")
	})
}
