package widget

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/model/profile"
)

func TestClientReplyPostsTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Messages []chat.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.Equal(t, chat.RoleUser, body.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Happy to help!"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", nil)
	text, err := client.Reply(context.Background(), []chat.Message{
		chat.NewMessage(chat.RoleAssistant, "Hi"),
		chat.NewMessage(chat.RoleUser, "hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", text)
}

func TestClientReplyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to generate response"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).Reply(context.Background(), []chat.Message{chat.NewMessage(chat.RoleUser, "hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate response")
}

func TestWidgetOverClientFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	w := New(NewClient(server.URL, nil), Options{Greeting: greeting})
	reply, err := w.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply.Content)
	assert.Len(t, w.Transcript(), 3)
}

func TestClientProfile(t *testing.T) {
	seed := profile.Seed()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/profile", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(seed))
	}))
	defer server.Close()

	got, err := NewClient(server.URL, nil).Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seed.Greeting, got.Greeting)
	assert.Equal(t, seed.Suggestions, got.Suggestions)
}

func TestClientProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewClient(server.URL, nil).Profile(context.Background())
	assert.Error(t, err)
}
