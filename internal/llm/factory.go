package llm

import (
	"fmt"
	"strings"
)

// NewClassifier creates an inference collaborator based on configuration.
// An empty provider returns (nil, nil): delegation disabled.
func NewClassifier(config Config) (Classifier, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIClassifier(config)

	case "ollama":
		return NewOllamaClassifier(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}
