package memory_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagehq/sage/pkg/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRecorder(t *testing.T) {
	t.Run("should post the interaction with auth", func(t *testing.T) {
		var (
			gotBody []byte
			gotAuth string
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		rec := memory.NewHTTPRecorder(server.URL, func() string { return "token-1" })
		err := rec.Record(context.Background(), memory.Interaction{
			Query:     "what is recursion",
			Response:  "recursion is recursion",
			Summary:   "recursion is recursion",
			RequestID: "req-7",
		})
		require.NoError(t, err)

		assert.Equal(t, "Bearer token-1", gotAuth)

		var sent memory.Interaction
		require.NoError(t, json.Unmarshal(gotBody, &sent))
		assert.Equal(t, "what is recursion", sent.Query)
		assert.Equal(t, "req-7", sent.RequestID)
	})

	t.Run("should omit the auth header without a token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
		}))
		defer server.Close()

		rec := memory.NewHTTPRecorder(server.URL, nil)
		require.NoError(t, rec.Record(context.Background(), memory.Interaction{Query: "q"}))
		assert.Empty(t, gotAuth)
	})

	t.Run("should error on a non-2xx response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		rec := memory.NewHTTPRecorder(server.URL, nil)
		err := rec.Record(context.Background(), memory.Interaction{Query: "q"})
		assert.ErrorContains(t, err, "status 503")
	})

	t.Run("should error when the service is unreachable", func(t *testing.T) {
		rec := memory.NewHTTPRecorder("http://127.0.0.1:1/memory", nil)
		err := rec.Record(context.Background(), memory.Interaction{Query: "q"})
		assert.Error(t, err)
	})

	t.Run("should only be enabled with a URL", func(t *testing.T) {
		assert.True(t, memory.NewHTTPRecorder("http://localhost/memory", nil).Enabled())
		assert.False(t, memory.NewHTTPRecorder("", nil).Enabled())
	})
}
