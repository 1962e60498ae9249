// Package ocr extracts plain text from bill screenshots through a
// vision-capable model. The engine only ever sees the resulting text:
// empty recognition output flows through and becomes a low-confidence
// diagnosis, while transport failures surface as errors to the caller.
package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/ynishioka/shindan/internal/model"
)

// Recognizer turns a bill image into raw text.
type Recognizer interface {
	// Name returns the provider name.
	Name() string

	// Recognize extracts the text content of the image.
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Config holds recognition provider settings.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// ConfigFromModel converts the application OCR config.
func ConfigFromModel(mc model.OCRConfig) Config {
	return Config{
		Provider: mc.Provider,
		Model:    mc.Model,
		APIKey:   mc.APIKey,
		BaseURL:  mc.BaseURL,
		Timeout:  time.Duration(mc.Timeout) * time.Second,
	}
}

// NewRecognizer creates a recognizer for the configured provider.
// An empty provider returns (nil, nil): image input is disabled and
// callers must supply text directly.
func NewRecognizer(config Config) (Recognizer, error) {
	switch config.Provider {
	case "openai":
		return NewOpenAIRecognizer(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown ocr provider: %s", config.Provider)
	}
}
