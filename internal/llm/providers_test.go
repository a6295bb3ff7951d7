package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"savor/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicClient_SendsImageAndJoinsText(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-5",
			"content": [{"type": "text", "text": "Milk,dairy,1,gallon,3.99,"}, {"type": "text", "text": "\nEggs,protein,12,count,4.50,"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 20}
		}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient(config.LLMConfig{APIKey: "test", BaseURL: srv.URL, MaxTokens: 512})
	text, err := c.Complete(context.Background(), Request{
		System:    "receipt parser",
		Prompt:    "extract",
		Image:     []byte{0xFF, 0xD8},
		MediaType: "image/jpeg",
	})

	require.NoError(t, err)
	assert.Equal(t, "Milk,dairy,1,gallon,3.99,\nEggs,protein,12,count,4.50,", text)
	assert.EqualValues(t, 512, body["max_tokens"])

	messages := body["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "image", content[0].(map[string]any)["type"])
	assert.Equal(t, "text", content[1].(map[string]any)["type"])
}

func TestAnthropicClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient(config.LLMConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	assert.Error(t, err)
}

func TestOpenAIClient_SendsDataURL(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "[]", "refusal": null}}]
		}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "test", BaseURL: srv.URL + "/v1/"})
	text, err := c.Complete(context.Background(), Request{
		System:    "receipt parser",
		Prompt:    "extract",
		Image:     []byte("png"),
		MediaType: "image/png",
	})

	require.NoError(t, err)
	assert.Equal(t, "[]", text)
	assert.Equal(t, "gpt-4o-mini", body["model"])

	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])

	parts := messages[1].(map[string]any)["content"].([]any)
	require.Len(t, parts, 2)
	imageURL := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	assert.Equal(t, "data:image/png;base64,cG5n", imageURL)
}
