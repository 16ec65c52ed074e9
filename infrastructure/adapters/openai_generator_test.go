package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerator_NonStreaming(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"generated text"}}]}`))
	}))
	defer server.Close()

	generator := NewOpenAIGenerator(nopLogger{}, NewContentFetcher(nopLogger{}), &config.ProviderConfig{
		Name:   config.ProviderOpenAI,
		ApiUrl: server.URL,
		ApiKey: "test-key",
		Model:  "gpt-4o-mini",
	})

	text, err := generator.Generate(context.Background(), outbound.GenerateTextRequest{
		SystemPrompt: "You are a lecturer.",
		Prompt:       "Explain entropy.",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", text)

	assert.Equal(t, false, captured["stream"])
	assert.Equal(t, "gpt-4o-mini", captured["model"])
	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 2)
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "You are a lecturer.", first["content"])
}

func TestOpenAIGenerator_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	generator := NewOpenAIGenerator(nopLogger{}, NewContentFetcher(nopLogger{}), &config.ProviderConfig{
		Name:   config.ProviderOpenAI,
		ApiUrl: server.URL,
		ApiKey: "test-key",
		Model:  "gpt-4o-mini",
	})

	_, err := generator.Generate(context.Background(), outbound.GenerateTextRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
