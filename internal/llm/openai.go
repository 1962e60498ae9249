package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClassifier implements the Classifier interface on OpenAI-style
// chat completion endpoints.
type OpenAIClassifier struct {
	client *openai.Client
	config Config
}

// NewOpenAIClassifier creates a new OpenAI classifier
func NewOpenAIClassifier(config Config) (*OpenAIClassifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIClassifier) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIClassifier) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// ClassifyCharge asks the model to pick the recurring charge from the
// candidate lines. The call is bounded by the configured timeout; the
// caller treats any error as "collaborator not configured".
func (p *OpenAIClassifier) ClassifyCharge(ctx context.Context, req Request) (*Result, error) {
	model := p.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 256
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a billing analyst. You answer with strict JSON and never invent amounts that are not present in the input.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	result, err := ParseAnswer(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	result.Model = model
	return result, nil
}

// answer is the JSON shape the prompt demands.
type answer struct {
	Amount     json.Number `json:"amount"`
	Confidence float64     `json:"confidence"`
}

// ParseAnswer parses a {"amount": ..., "confidence": ...} response,
// tolerating surrounding prose and code fences.
func ParseAnswer(content string) (*Result, error) {
	content = strings.TrimSpace(content)

	// Strip anything outside the first balanced-looking JSON object.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %q", truncate(content, 120))
	}

	var a answer
	if err := json.Unmarshal([]byte(content[start:end+1]), &a); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	f, err := a.Amount.Float64()
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", a.Amount.String(), err)
	}
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("implausible amount: %v", f)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return nil, fmt.Errorf("declared confidence out of [0,1]: %v", a.Confidence)
	}

	return &Result{
		Amount:     int64(math.Round(f)),
		Confidence: a.Confidence,
	}, nil
}
