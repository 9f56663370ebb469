package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsLowercaseMessageKeys(t *testing.T) {
	var body map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"iyi hissediyorum"}}]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("", server.URL, "local-model")

	out, err := provider.Generate(context.Background(), "merhaba")
	require.NoError(t, err)
	assert.Equal(t, "iyi hissediyorum", out)

	var messages []map[string]string
	require.NoError(t, json.Unmarshal(body["messages"], &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0]["role"])
	assert.Equal(t, "merhaba", messages[0]["content"])
}

func TestChatPropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"model not loaded"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("", server.URL, "local-model")

	_, err := provider.Generate(context.Background(), "merhaba")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}
