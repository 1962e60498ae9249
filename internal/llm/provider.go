package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ynishioka/shindan/internal/model"
)

// Classifier is the optional inference collaborator for ambiguous
// extraction: given the original text plus the surviving candidate
// lines, it returns a single numeric answer with a declared confidence.
// The engine runs fully deterministically when no Classifier is
// configured; absence, timeout and failure are all equivalent to
// "not configured" for that run.
type Classifier interface {
	// Name returns the provider name
	Name() string

	// ClassifyCharge resolves the monthly recurring charge from the
	// candidate lines. Implementations must honor ctx cancellation.
	ClassifyCharge(ctx context.Context, req Request) (*Result, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for charge classification.
type Request struct {
	// RawText is the full recognized bill text.
	RawText string

	// Candidates are the ambiguous lines the rules could not separate.
	Candidates []model.NormalizedLine

	// Carrier is the classified carrier tag, for prompt context.
	Carrier model.Carrier
}

// Result is the collaborator's answer.
type Result struct {
	// Amount is the monthly recurring charge in yen.
	Amount int64

	// Confidence is the declared confidence in [0,1].
	Confidence float64

	// Model is the model that produced the answer.
	Model string
}

// Config holds inference collaborator configuration.
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

// BuildPrompt constructs the classification prompt. The model is told
// to pick the recurring line-service charge and to exclude device
// installments and one-time items, answering as strict JSON so the
// response can be parsed without heuristics.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("The following text was recognized from a Japanese mobile-carrier bill")
	if req.Carrier != "" && req.Carrier != model.CarrierUnknown {
		fmt.Fprintf(&b, " issued by %s", req.Carrier)
	}
	b.WriteString(".\n\n")
	b.WriteString("Identify the MONTHLY RECURRING line-service charge in yen.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- EXCLUDE device installments (端末代金, 機種代金, 分割支払金).\n")
	b.WriteString("- EXCLUDE one-time fees, deposits and campaign adjustments (事務手数料, 頭金, キャンペーン).\n")
	b.WriteString("- The answer must be one of the candidate amounts below.\n\n")
	b.WriteString("Candidate lines:\n")
	for _, c := range req.Candidates {
		fmt.Fprintf(&b, "- %s\n", c.Text)
	}
	b.WriteString("\nFull recognized text:\n")
	b.WriteString(truncate(req.RawText, 4000))
	b.WriteString("\n\nAnswer with JSON only: {\"amount\": <integer yen>, \"confidence\": <0.0-1.0>}")
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n...(truncated)"
}
