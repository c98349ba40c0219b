package generation

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqforge/pkg/domain"
	dErrors "reqforge/pkg/domain-errors"
)

func TestPriorityFromText(t *testing.T) {
	tests := []struct {
		input string
		want  domain.PriorityLevel
	}{
		{"critical", domain.PriorityCritical},
		{"CRITICAL", domain.PriorityCritical},
		{"  High ", domain.PriorityHigh},
		{"nice to have", domain.PriorityNiceToHave},
		{"nice-to-have", domain.PriorityNiceToHave},
		{"urgent", domain.PriorityMedium},
		{"", domain.PriorityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityFromText(tt.input), "input %q", tt.input)
	}
}

func TestComplexityFromText(t *testing.T) {
	tests := []struct {
		input string
		want  domain.ComplexityScale
	}{
		{"trivial", domain.ComplexityTrivial},
		{"Very Complex", domain.ComplexityVeryComplex},
		{"very_complex", domain.ComplexityVeryComplex},
		{"unknown", domain.ComplexityModerate},
		{"", domain.ComplexityModerate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComplexityFromText(tt.input), "input %q", tt.input)
	}
}

func TestParseDraft(t *testing.T) {
	t.Run("parses a plain JSON draft", func(t *testing.T) {
		draft, err := ParseDraft(`{
			"title": "Checkout flow",
			"description": "Customers pay for their cart",
			"priority": "Critical",
			"complexity": "complex",
			"business_value": 85,
			"story_points": 8,
			"bounded_context": "Ordering"
		}`)
		require.NoError(t, err)
		assert.Equal(t, "Checkout flow", draft.Title)
		assert.Equal(t, domain.PriorityCritical, draft.Priority)
		assert.Equal(t, domain.ComplexityComplex, draft.Complexity)
		assert.Equal(t, 85, draft.BusinessValue)
		assert.Equal(t, 8.0, draft.StoryPoints)
	})

	t.Run("tolerates markdown fences", func(t *testing.T) {
		draft, err := ParseDraft("```json\n{\"title\": \"Checkout\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Checkout", draft.Title)
	})

	t.Run("defaults unrecognized enums", func(t *testing.T) {
		draft, err := ParseDraft(`{"title": "Checkout", "priority": "asap", "complexity": "hard"}`)
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityMedium, draft.Priority)
		assert.Equal(t, domain.ComplexityModerate, draft.Complexity)
	})

	t.Run("rejects non-JSON text", func(t *testing.T) {
		_, err := ParseDraft("I could not produce a requirement.")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects a draft without a title", func(t *testing.T) {
		_, err := ParseDraft(`{"description": "no title here"}`)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestHTTPCompleter(t *testing.T) {
	t.Run("sends the prompt and returns the first choice", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			var req chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 1)
			assert.Contains(t, req.Messages[0].Content, "checkout")

			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": `{"title":"Checkout"}`}},
				},
			})
		}))
		defer server.Close()

		completer := NewHTTPCompleter(server.URL, "test-model", "secret")
		content, err := completer.Complete(context.Background(), "describe checkout")
		require.NoError(t, err)
		assert.Equal(t, `{"title":"Checkout"}`, content)
		assert.Equal(t, "Bearer secret", gotAuth)
	})

	t.Run("surfaces non-200 responses", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		completer := NewHTTPCompleter(server.URL, "test-model", "")
		_, err := completer.Complete(context.Background(), "prompt")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("rejects an empty choice list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"choices": []}`)
		}))
		defer server.Close()

		completer := NewHTTPCompleter(server.URL, "test-model", "")
		_, err := completer.Complete(context.Background(), "prompt")
		require.Error(t, err)
	})
}

type staticCompleter struct {
	response string
	err      error
}

func (c staticCompleter) Complete(context.Context, string) (string, error) {
	return c.response, c.err
}

func TestGenerator(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("drafts from a parseable completion", func(t *testing.T) {
		gen := NewGenerator(staticCompleter{response: `{"title":"Checkout","priority":"high"}`}, logger)

		draft, err := gen.DraftRequirement(context.Background(), "customers pay for carts")
		require.NoError(t, err)
		assert.Equal(t, "Checkout", draft.Title)
		assert.Equal(t, domain.PriorityHigh, draft.Priority)
	})

	t.Run("propagates completer failures", func(t *testing.T) {
		gen := NewGenerator(staticCompleter{err: dErrors.New(dErrors.CodeTimeout, "completion request failed")}, logger)

		_, err := gen.DraftRequirement(context.Background(), "anything")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}
