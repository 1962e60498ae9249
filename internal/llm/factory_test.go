package llm

import (
	"strings"
	"testing"

	"github.com/ynishioka/shindan/internal/model"
)

func TestNewClassifier(t *testing.T) {
	c, err := NewClassifier(Config{Provider: "openai", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("openai: %v", err)
	}
	if c.Name() != "openai" {
		t.Errorf("expected openai, got %s", c.Name())
	}

	c, err = NewClassifier(Config{Provider: "ollama", Model: "llama3"})
	if err != nil {
		t.Fatalf("ollama: %v", err)
	}
	if c.Name() != "ollama" {
		t.Errorf("expected ollama, got %s", c.Name())
	}
}

func TestNewClassifier_Disabled(t *testing.T) {
	c, err := NewClassifier(Config{Provider: ""})
	if err != nil {
		t.Fatalf("empty provider must not error: %v", err)
	}
	if c != nil {
		t.Error("empty provider must yield a nil classifier")
	}
}

func TestNewClassifier_Unknown(t *testing.T) {
	if _, err := NewClassifier(Config{Provider: "bard"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Request{
		RawText: "月額料金 7,700円",
		Candidates: []model.NormalizedLine{
			{Text: "月額料金 7,700円"},
			{Text: "データプラン 4,500円"},
		},
		Carrier: model.CarrierDocomo,
	})

	for _, want := range []string{
		"docomo",
		"月額料金 7,700円",
		"データプラン 4,500円",
		`"amount"`,
		"端末代金",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_TruncatesLongText(t *testing.T) {
	prompt := BuildPrompt(Request{RawText: strings.Repeat("あ", 5000)})
	if !strings.Contains(prompt, "truncated") {
		t.Error("long raw text must be truncated")
	}
}
