package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ynishioka/shindan/internal/pipeline"
	"github.com/ynishioka/shindan/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Diagnose every bill text file in a directory in parallel",
	Long: `Batch diagnoses every .txt bill under a directory:
- Bills are processed in parallel with a configurable worker count
- Collaborator calls share one rate limit across all workers
- One JSON report is written per bill

Example:
  shindan batch ./bills
  shindan batch ./bills --concurrency 8 --output-dir ./reports
  shindan batch ./bills --llm --llm-threshold 0.9`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./shindan-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	// Shared engine and collaborator flags
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the report cache")
	batchCmd.Flags().StringVar(&cacheBackend, "cache-backend", "memory", "cache backend (memory, disk, layered, redis)")
	batchCmd.Flags().IntVar(&horizonYears, "horizon", 50, "projection horizon in years")
	batchCmd.Flags().Int64Var(&tierPrice, "tier-threshold", 6000, "charge in yen at which tier L is recommended over M")
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the inference collaborator for ambiguous bills")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "inference provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "inference model name")
	batchCmd.Flags().Float64Var(&llmThreshold, "llm-threshold", 0.8, "minimum declared confidence to accept an answer")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.BatchWorkers = concurrency
	}
	concurrency = cfg.Concurrency.BatchWorkers

	fmt.Fprintf(os.Stderr, "Input dir:  %s\n", dir)
	fmt.Fprintf(os.Stderr, "Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir: %s\n", outputDir)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "Collaborator: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintln(os.Stderr)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger := buildLogger()
	defer func() { _ = logger.Sync() }()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("process dir: %w", err)
	}

	renderer := pipeline.NewRenderer(false)
	succeeded := 0
	failed := 0

	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "NG %s: %v\n", result.Path, result.Error)
			continue
		}

		succeeded++
		name := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
		jsonPath := filepath.Join(outputDir, name+".json")
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "NG %s: write report: %v\n", result.Path, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "OK %s (carrier=%s, plan=%s)\n",
			filepath.Base(result.Path), result.Report.Carrier, result.Report.Plan.SelectedPlan.ID)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Total:    %d bills\n", len(results))
	fmt.Fprintf(os.Stderr, "Success:  %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "Failures: %d\n", failed)
	fmt.Fprintf(os.Stderr, "Output:   %s\n", outputDir)

	return nil
}
