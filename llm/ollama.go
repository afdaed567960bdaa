package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultOllamaHost is the default Ollama endpoint.
const DefaultOllamaHost = "http://localhost:11434"

// defaultRequestTimeout bounds a single backend call. The retry loop shrinks
// the output budget across attempts, not this timeout.
const defaultRequestTimeout = 5 * time.Minute

// OllamaClient is a Provider backed by a local Ollama server.
// A single client is safe for concurrent use; it shares one http.Client.
type OllamaClient struct {
	host   string
	http   *http.Client
	logger *slog.Logger
}

// OllamaOption configures an OllamaClient.
type OllamaOption func(*OllamaClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(o *OllamaClient) {
		o.http = c
	}
}

// WithOllamaLogger sets the logger used for retry and error diagnostics.
func WithOllamaLogger(l *slog.Logger) OllamaOption {
	return func(o *OllamaClient) {
		o.logger = l
	}
}

// NewOllamaClient creates a client for the Ollama server at host.
// An empty host selects DefaultOllamaHost.
func NewOllamaClient(host string, opts ...OllamaOption) *OllamaClient {
	if host == "" {
		host = DefaultOllamaHost
	}
	c := &OllamaClient{
		host:   strings.TrimRight(host, "/"),
		http:   &http.Client{Timeout: defaultRequestTimeout},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ollamaChatRequest mirrors the Ollama /api/chat request body.
type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// ollamaChatResponse mirrors the Ollama /api/chat non-streaming response.
type ollamaChatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete sends a non-streaming chat completion to the Ollama backend.
func (c *OllamaClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("ollama: model is required")
	}

	options := map[string]any{}
	if req.Temperature != nil {
		options["temperature"] = *req.Temperature
	}
	if req.MaxTokens != nil {
		options["num_predict"] = *req.MaxTokens
	}
	if len(req.Stop) > 0 {
		options["stop"] = req.Stop
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model:    req.Model,
		Messages: req.Messages,
		Stream:   false,
		Options:  options,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: chat request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: chat returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var chat ollamaChatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}

	finish := chat.DoneReason
	if finish == "" {
		finish = "stop"
	}

	return &CompletionResponse{
		Content:      chat.Message.Content,
		FinishReason: finish,
		Usage: TokenUsage{
			InputTokens:  chat.PromptEvalCount,
			OutputTokens: chat.EvalCount,
			TotalTokens:  chat.PromptEvalCount + chat.EvalCount,
		},
	}, nil
}

// ollamaTagsResponse mirrors the Ollama /api/tags response.
type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// ListModels returns the names of models available on the backend.
// Failures return an error rather than an empty list so callers can
// distinguish "no models" from "backend unreachable".
func (c *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: list models returned status %d", resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("ollama: decode models: %w", err)
	}

	seen := make(map[string]struct{}, len(tags.Models))
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// Healthy reports whether the backend answers the tags endpoint.
func (c *OllamaClient) Healthy(ctx context.Context) bool {
	_, err := c.ListModels(ctx)
	return err == nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
