package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ynishioka/shindan/internal/model"
	"github.com/ynishioka/shindan/internal/ocr"
	"github.com/ynishioka/shindan/internal/pipeline"
)

var (
	outJSON      string
	outCSV       string
	outXLSX      string
	timeout      time.Duration
	noCache      bool
	cacheBackend string
	horizonYears int
	tierPrice    int64
	llmEnabled   bool
	llmProvider  string
	llmModel     string
	llmThreshold float64
	ocrEnabled   bool
	ocrModel     string
)

// diagnoseCmd represents the diagnose command
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <bill-file>",
	Short: "Diagnose a single bill and recommend a plan",
	Long: `Diagnose reads one bill (plain text, or an image when --ocr is
enabled), extracts the monthly recurring charge, recommends a plan and
projects the cost difference year by year.

Example:
  shindan diagnose bill.txt
  shindan diagnose bill.txt --json report.json --csv report.csv
  shindan diagnose bill.png --ocr
  shindan diagnose bill.txt --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)

	// Output flags
	diagnoseCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	diagnoseCmd.Flags().StringVar(&outCSV, "csv", "", "output CSV path for the projection table (optional)")
	diagnoseCmd.Flags().StringVar(&outXLSX, "xlsx", "", "output XLSX path (optional)")

	// Engine flags
	diagnoseCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall diagnosis timeout")
	diagnoseCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache")
	diagnoseCmd.Flags().StringVar(&cacheBackend, "cache-backend", "memory", "cache backend (memory, disk, layered, redis)")
	diagnoseCmd.Flags().IntVar(&horizonYears, "horizon", 50, "projection horizon in years")
	diagnoseCmd.Flags().Int64Var(&tierPrice, "tier-threshold", 6000, "charge in yen at which tier L is recommended over M")

	// Collaborator flags
	diagnoseCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the inference collaborator for ambiguous bills")
	diagnoseCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "inference provider (openai, ollama)")
	diagnoseCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "inference model name")
	diagnoseCmd.Flags().Float64Var(&llmThreshold, "llm-threshold", 0.8, "minimum declared confidence to accept an answer")
	diagnoseCmd.Flags().BoolVar(&ocrEnabled, "ocr", false, "enable image recognition for screenshot bills")
	diagnoseCmd.Flags().StringVar(&ocrModel, "ocr-model", "gpt-4o-mini", "recognition model name")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Diagnosing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "Collaborator: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	rawText, err := readBillArg(ctx, path, cfg)
	if err != nil {
		return err
	}

	logger := buildLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	report, err := p.Diagnose(ctx, rawText)
	if err != nil {
		return fmt.Errorf("diagnose failed: %w", err)
	}

	renderer := pipeline.NewRenderer(verbose)
	if err := renderer.Render(report, outJSON, outCSV, outXLSX); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}

// buildConfig assembles the engine configuration from defaults, config
// file values and flags, highest priority last. Flags only override
// when the user actually set them, so file values survive under flag
// defaults.
func buildConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cfg.Engine.ProjectionHorizonYears = horizonYears
	}
	if flags.Changed("tier-threshold") {
		cfg.Engine.TierPriceThreshold = tierPrice
	}
	if flags.Changed("llm-threshold") {
		cfg.Engine.AIConfidenceThreshold = llmThreshold
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("cache-backend") {
		cfg.Cache.Backend = cacheBackend
	}
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
	}
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	if ocrEnabled {
		cfg.OCR.Provider = "openai"
		cfg.OCR.Model = ocrModel
	}
	if cfg.OCR.Provider == "openai" {
		if cfg.OCR.APIKey == "" {
			cfg.OCR.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.OCR.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// readBillArg loads the bill text, going through image recognition
// when the path is a screenshot.
func readBillArg(ctx context.Context, path string, cfg *model.Config) (string, error) {
	var recognizer ocr.Recognizer
	if ocr.IsImagePath(path) {
		r, err := ocr.NewRecognizer(ocr.ConfigFromModel(cfg.OCR))
		if err != nil {
			return "", fmt.Errorf("init recognizer: %w", err)
		}
		if r == nil {
			return "", fmt.Errorf("image input requires --ocr")
		}
		recognizer = r
		if verbose {
			fmt.Fprintf(os.Stderr, "Recognizing image text...\n")
		}
	}
	return ocr.ReadBill(ctx, path, recognizer)
}
