package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "reqforge/pkg/domain-errors"
)

// maxResponseSize caps the completion response body.
const maxResponseSize = 10 * 1024 * 1024

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPCompleter talks to an OpenAI-compatible chat completions endpoint.
type HTTPCompleter struct {
	url        string
	model      string
	apiKey     string
	httpClient *http.Client
}

// CompleterOption configures the HTTPCompleter.
type CompleterOption func(*HTTPCompleter)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) CompleterOption {
	return func(h *HTTPCompleter) {
		h.httpClient = c
	}
}

// NewHTTPCompleter constructs a completer against the given endpoint.
func NewHTTPCompleter(url, model, apiKey string, opts ...CompleterOption) *HTTPCompleter {
	h := &HTTPCompleter{
		url:        url,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt as a single user message and returns the first
// choice's content.
func (h *HTTPCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    h.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeTimeout, "completion request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", dErrors.Newf(dErrors.CodeInternal, "completion API returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "malformed completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", dErrors.New(dErrors.CodeInternal, "completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
