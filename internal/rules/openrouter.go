package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmynk/smartsplit/internal/models"
)

// Config configures the OpenRouter-backed interpreter.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultModel     = "qwen/qwen3-32b"
	defaultMaxTokens = 12000
)

// openRouterInterpreter implements Interpreter against the OpenRouter
// chat-completions API (OpenAI wire format).
type openRouterInterpreter struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
}

// NewOpenRouter creates an OpenRouter API interpreter.
func NewOpenRouter(cfg Config) (Interpreter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return &openRouterInterpreter{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

const systemPrompt = `You are a bill-splitting rule parser. You MUST respond with ONLY a valid JSON array. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Each element must be an object with keys "type" (one of "specific", "shared", "exclusive"), "person_name", "item_name", and "quantity" (number, omit for exclusive rules). An "everyone shares" rule produces one "shared" object per known person. Skip rules you cannot interpret.`

// Interpret sends the rule lines to OpenRouter and parses the returned JSON
// rule array. Any error is returned to the caller, which is expected to
// fall back to the local interpreter.
func (o *openRouterInterpreter) Interpret(ctx context.Context, lines []string, people []string) ([]models.Rule, error) {
	var prompt strings.Builder
	prompt.WriteString("Known people: ")
	prompt.WriteString(strings.Join(people, ", "))
	prompt.WriteString("\n\nRules to parse:\n")
	for _, line := range lines {
		prompt.WriteString("- ")
		prompt.WriteString(line)
		prompt.WriteString("\n")
	}

	requestBody := map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt.String()},
		},
		"temperature": o.temperature,
		"max_tokens":  o.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenRouter API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	return parseRuleArray(response.Choices[0].Message.Content)
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// parseRuleArray extracts structured rules from the model's JSON output.
// Entries with an unknown type are dropped rather than failing the whole
// batch; a response that is not a JSON array fails.
func parseRuleArray(content string) ([]models.Rule, error) {
	content = cleanMarkdownWrapper(content)

	var raw []struct {
		Type       string  `json:"type"`
		PersonName string  `json:"person_name"`
		ItemName   string  `json:"item_name"`
		Quantity   float64 `json:"quantity"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	var parsed []models.Rule
	for _, r := range raw {
		switch models.RuleType(r.Type) {
		case models.RuleSpecific, models.RuleShared, models.RuleExclusive:
		default:
			continue
		}
		parsed = append(parsed, models.Rule{
			Type:       models.RuleType(r.Type),
			PersonName: r.PersonName,
			ItemName:   strings.TrimSpace(r.ItemName),
			Quantity:   r.Quantity,
		})
	}
	return parsed, nil
}

// cleanMarkdownWrapper strips a markdown code fence some models insist on
// wrapping JSON output in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(content, "```json"); ok {
		content = after
	} else if after, ok := strings.CutPrefix(content, "```"); ok {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
