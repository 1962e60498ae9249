package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIRecognizer reads bill images with a vision-capable chat model.
type OpenAIRecognizer struct {
	client *openai.Client
	config Config
}

// NewOpenAIRecognizer creates a new OpenAI recognizer
func NewOpenAIRecognizer(config Config) (*OpenAIRecognizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIRecognizer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (r *OpenAIRecognizer) Name() string {
	return "openai"
}

const recognizePrompt = "Transcribe ALL text visible in this mobile-phone bill image. " +
	"Output the text line by line exactly as printed, top to bottom. " +
	"Keep every amount, label and unit as written. Output nothing else."

// Recognize sends the image as an inline data URL and returns the
// transcribed text. The call is bounded by the configured timeout.
func (r *OpenAIRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("unsupported content type: %s", mime)
	}

	model := r.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	timeout := r.config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: recognizePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		Temperature: 0,
	}

	resp, err := r.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	// An empty transcription is a valid outcome: the engine turns it
	// into a zero-confidence diagnosis asking for a clearer image.
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
