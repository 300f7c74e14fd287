package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sagehq/sage/pkg/chat"
	"github.com/sagehq/sage/pkg/console"
	"github.com/sagehq/sage/pkg/testutil"
	"github.com/sagehq/sage/pkg/tutor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, baseURL string) (*console.Runner, *chat.History, *bytes.Buffer) {
	t.Helper()

	history, err := chat.NewHistory(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)

	client := tutor.NewClient(tutor.Settings{BaseURL: baseURL})
	t.Cleanup(client.Close)

	var buf bytes.Buffer
	return console.NewRunner(client, history, console.NewOutputWriter(&buf, true)), history, &buf
}

func TestRunPrompt(t *testing.T) {
	t.Run("should stream the answer and persist both turns", func(t *testing.T) {
		server := testutil.ServeStream(
			testutil.Frame(`{"type":"thinking_delta","delta":"recalling"}`),
			testutil.Frame(`{"type":"answer_delta","delta":"Paris"}`),
			testutil.Frame(`{"type":"answer_complete","response":"Paris"}`),
		)
		defer server.Close()

		runner, history, buf := newTestRunner(t, server.URL)
		require.NoError(t, runner.RunPrompt(context.Background(), "capital of France?"))

		assert.Contains(t, buf.String(), "recalling")
		assert.Contains(t, buf.String(), "Paris")

		msgs := history.GetMessages()
		require.Len(t, msgs, 2)
		assert.True(t, msgs[0].IsUser())
		assert.Equal(t, "capital of France?", msgs[0].Content)
		assert.True(t, msgs[1].IsComplete())
		assert.Equal(t, "Paris", msgs[1].Content)
		assert.Equal(t, "recalling", msgs[1].ThinkingContent)
	})

	t.Run("should persist the failure message when the backend is down", func(t *testing.T) {
		runner, history, buf := newTestRunner(t, "http://127.0.0.1:1")
		require.NoError(t, runner.RunPrompt(context.Background(), "anyone there?"))

		msgs := history.GetMessages()
		require.Len(t, msgs, 2)
		assert.True(t, msgs[1].IsAssistant())
		assert.NotEmpty(t, msgs[1].Content)
		assert.Contains(t, buf.String(), msgs[1].Content)
	})

	t.Run("should send earlier turns as history on the next prompt", func(t *testing.T) {
		var bodies [][]byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			bodies = append(bodies, body)
			w.Header().Set("Content-Type", "text/event-stream")
			w.Write([]byte(testutil.Frame(`{"type":"answer_complete","response":"answered"}`)))
		}))
		defer server.Close()

		runner, _, _ := newTestRunner(t, server.URL)
		require.NoError(t, runner.RunPrompt(context.Background(), "first question"))
		require.NoError(t, runner.RunPrompt(context.Background(), "second question"))

		require.Len(t, bodies, 2)

		var req struct {
			Message string      `json:"message"`
			History []chat.Turn `json:"history"`
		}
		require.NoError(t, json.Unmarshal(bodies[0], &req))
		assert.Empty(t, req.History)

		require.NoError(t, json.Unmarshal(bodies[1], &req))
		assert.Equal(t, "second question", req.Message)
		require.Len(t, req.History, 2)
		assert.Equal(t, chat.Turn{Role: chat.RoleUser, Content: "first question"}, req.History[0])
		assert.Equal(t, chat.Turn{Role: chat.RoleAssistant, Content: "answered"}, req.History[1])
	})

	t.Run("should seed the session from the saved history", func(t *testing.T) {
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "text/event-stream")
			w.Write([]byte(testutil.Frame(`{"type":"answer_complete","response":"answered"}`)))
		}))
		defer server.Close()

		path := filepath.Join(t.TempDir(), "history.json")
		saved, err := chat.NewHistory(path)
		require.NoError(t, err)
		require.NoError(t, saved.Add(chat.NewUserMessage("old question")))
		require.NoError(t, saved.Add(chat.NewAssistantMessage("old answer")))

		history, err := chat.NewHistory(path)
		require.NoError(t, err)
		client := tutor.NewClient(tutor.Settings{BaseURL: server.URL})
		t.Cleanup(client.Close)

		var buf bytes.Buffer
		runner := console.NewRunner(client, history, console.NewOutputWriter(&buf, true))
		require.NoError(t, runner.RunPrompt(context.Background(), "new question"))

		var req struct {
			History []chat.Turn `json:"history"`
		}
		require.NoError(t, json.Unmarshal(gotBody, &req))
		require.Len(t, req.History, 2)
		assert.Equal(t, "old question", req.History[0].Content)
		assert.Equal(t, "old answer", req.History[1].Content)
	})

	t.Run("should reject an empty prompt", func(t *testing.T) {
		runner, history, _ := newTestRunner(t, "http://127.0.0.1:1")
		assert.Error(t, runner.RunPrompt(context.Background(), "   "))
		assert.Empty(t, history.GetMessages())
	})
}
