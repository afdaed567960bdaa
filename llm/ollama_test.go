package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaComplete(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := map[string]any{
			"message":           map[string]string{"role": "assistant", "content": "Score: 8"},
			"done_reason":       "stop",
			"prompt_eval_count": 42,
			"eval_count":        10,
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	resp, err := client.Complete(context.Background(), NewCompletionRequest(
		"qwen2.5:7b",
		[]Message{{Role: RoleUser, Content: "judge this"}},
		WithTemperature(0.1),
		WithMaxTokens(768),
	))
	require.NoError(t, err)

	assert.Equal(t, "Score: 8", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 52, resp.Usage.TotalTokens)

	assert.Equal(t, "qwen2.5:7b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.1, got.Options["temperature"])
	assert.Equal(t, float64(768), got.Options["num_predict"])
}

func TestOllamaCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	_, err := client.Complete(context.Background(), NewCompletionRequest(
		"missing", []Message{{Role: RoleUser, Content: "hi"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestOllamaCompleteRequiresModel(t *testing.T) {
	client := NewOllamaClient("")
	_, err := client.Complete(context.Background(), &CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	assert.Error(t, err)
}

func TestOllamaListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]string{
				{"name": "qwen2.5:7b"},
				{"name": "llama3.1:8b"},
				{"name": "qwen2.5:7b"},
			},
		})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"qwen2.5:7b", "llama3.1:8b"}, models)
}

func TestOllamaListModelsUnreachable(t *testing.T) {
	client := NewOllamaClient("http://127.0.0.1:1")
	_, err := client.ListModels(context.Background())
	assert.Error(t, err)
	assert.False(t, client.Healthy(context.Background()))
}
