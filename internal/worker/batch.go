package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ynishioka/shindan/internal/model"
)

// Diagnoser runs one diagnosis over raw bill text.
type Diagnoser interface {
	Diagnose(ctx context.Context, rawText string) (*model.DiagnosisReport, error)
}

// DiagnoseJob diagnoses one bill text file.
type DiagnoseJob struct {
	Path      string
	Diagnoser Diagnoser
}

// Execute reads the file and runs the diagnosis.
func (j *DiagnoseJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &DiagnoseResult{
			Path:  j.Path,
			Error: fmt.Errorf("read bill: %w", err),
		}
	}

	report, err := j.Diagnoser.Diagnose(ctx, string(data))
	if err != nil {
		return &DiagnoseResult{Path: j.Path, Error: err}
	}
	return &DiagnoseResult{Path: j.Path, Report: report}
}

// DiagnoseResult is the outcome for one file.
type DiagnoseResult struct {
	Path   string
	Report *model.DiagnosisReport
	Error  error
}

// GetError returns the job error, if any.
func (r *DiagnoseResult) GetError() error {
	return r.Error
}

// BatchProcessor diagnoses multiple bill files concurrently.
type BatchProcessor struct {
	diagnoser   Diagnoser
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(diagnoser Diagnoser, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		diagnoser:   diagnoser,
		concurrency: concurrency,
	}
}

// ProcessFiles diagnoses the given files concurrently.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*DiagnoseResult {
	if len(paths) == 0 {
		return []*DiagnoseResult{}
	}

	pool := NewPoolContext(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&DiagnoseJob{
			Path:      path,
			Diagnoser: b.diagnoser,
		})
	}

	results := pool.Wait()

	out := make([]*DiagnoseResult, len(results))
	for i, result := range results {
		out[i] = result.(*DiagnoseResult)
	}
	return out
}

// ProcessDir diagnoses every bill text file found under dir.
func (b *BatchProcessor) ProcessDir(ctx context.Context, dir string) ([]*DiagnoseResult, error) {
	paths, err := ListBillFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ListBillFiles returns the .txt files directly under dir, sorted.
func ListBillFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".txt") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}

	sort.Strings(paths)
	return paths, nil
}
