package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1730000000,
  "model": "gemma3:1b",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "We'll be diving into Go!"}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 12, "completion_tokens": 6, "total_tokens": 18}
}`

func TestOpenAIClientChat(t *testing.T) {
	var calls int
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	}))
	defer srv.Close()

	temp := 0.0
	c, err := NewOpenAIClient(OpenAIConfig{Kind: KindLocal, APIKey: "ollama", BaseURL: srv.URL + "/v1/", Model: "gemma3:1b"}, Options{Temperature: &temp, MaxTokens: 64})
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), "be brief", "Tech Radar: Go")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "We'll be diving into Go!", reply.Content)
	assert.Equal(t, KindLocal, reply.Backend)
	assert.Equal(t, 12, reply.InputTokens)
	assert.Equal(t, 6, reply.OutputTokens)
	assert.NotNil(t, reply.Raw)

	assert.Equal(t, "gemma3:1b", got["model"])
	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "be brief", msgs[0].(map[string]any)["content"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	assert.Equal(t, "Tech Radar: Go", msgs[1].(map[string]any)["content"])
	assert.EqualValues(t, 64, got["max_tokens"])
}

func TestOpenAIClientDoesNotRetry(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{Kind: KindGoogle, APIKey: "k", BaseURL: srv.URL + "/", Model: "gemini-2.0-flash-lite"}, Options{})
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google")
	assert.Equal(t, 1, calls)
}

func TestNewOpenAIClientValidation(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{Model: "m"}, Options{})
	assert.Error(t, err)
	_, err = NewOpenAIClient(OpenAIConfig{APIKey: "k"}, Options{})
	assert.Error(t, err)
}

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages("", "judge this")
	require.Len(t, msgs, 1)
	assert.Nil(t, msgs[0].OfSystem)
	require.NotNil(t, msgs[0].OfUser)

	msgs = buildMessages("sys", "user")
	require.Len(t, msgs, 2)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
}
