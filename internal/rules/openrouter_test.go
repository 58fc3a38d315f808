package rules

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/smartsplit/internal/models"
)

func TestNewOpenRouter(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid config", config: Config{APIKey: "test-key"}},
		{name: "missing API key", config: Config{}, wantErr: true},
		{name: "custom model and limits", config: Config{APIKey: "test-key", Model: "meta-llama/llama-3-70b", MaxTokens: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewOpenRouter(tt.config)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestOpenRouterInterpret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		content := "```json\n" + `[
			{"type": "shared", "person_name": "Alice", "item_name": "chapatis", "quantity": 5},
			{"type": "exclusive", "person_name": "Bob", "item_name": "paneer"},
			{"type": "banana", "person_name": "Carol", "item_name": "rice", "quantity": 1}
		]` + "\n```"
		_ = json.NewEncoder(w).Encode(chatCompletion(content))
	}))
	defer server.Close()

	interp, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	parsed, err := interp.Interpret(context.Background(), []string{"everyone shares 5 chapatis"}, []string{"Alice", "Bob", "Carol"})
	require.NoError(t, err)

	// The unknown "banana" type is dropped, not an error.
	require.Len(t, parsed, 2)
	assert.Equal(t, models.Rule{Type: models.RuleShared, PersonName: "Alice", ItemName: "chapatis", Quantity: 5}, parsed[0])
	assert.Equal(t, models.Rule{Type: models.RuleExclusive, PersonName: "Bob", ItemName: "paneer"}, parsed[1])
}

func TestOpenRouterInterpretErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "API error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
			},
		},
		{
			name: "content is not a JSON array",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(chatCompletion("Sure! Here are the rules you asked for."))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			interp, err := NewOpenRouter(Config{APIKey: "test-key", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = interp.Interpret(context.Background(), []string{"bob takes lassi"}, []string{"Bob"})
			require.Error(t, err)
		})
	}
}

type failingInterpreter struct{}

func (failingInterpreter) Interpret(context.Context, []string, []string) ([]models.Rule, error) {
	return nil, errors.New("boom")
}

func TestServiceFallsBackOnExternalFailure(t *testing.T) {
	svc := NewService(failingInterpreter{})

	parsed, source := svc.Parse(context.Background(), []string{"everyone shares 5 chapatis"}, []string{"Alice", "Bob", "Carol"})
	assert.Equal(t, SourceFallback, source)
	require.Len(t, parsed, 3)
	for _, rule := range parsed {
		assert.Equal(t, models.RuleShared, rule.Type)
		assert.Equal(t, "chapatis", rule.ItemName)
		assert.Equal(t, 5.0, rule.Quantity)
	}
}

func TestServiceWithoutExternalInterpreter(t *testing.T) {
	svc := NewService(nil)

	parsed, source := svc.Parse(context.Background(), []string{"only alice takes paneer"}, []string{"Alice", "Bob"})
	assert.Equal(t, SourceFallback, source)
	require.Len(t, parsed, 1)
	assert.Equal(t, models.RuleExclusive, parsed[0].Type)
}
