package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ynishioka/shindan/internal/model"
)

// Renderer writes a diagnosis report to its output formats.
type Renderer struct {
	verbose bool
}

// NewRenderer creates a renderer.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose}
}

var csvHeader = []string{"年", "月額差額", "年間差額", "累積差額"}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(rep *model.DiagnosisReport, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// RenderCSV writes the projection table as CSV. A UTF-8 BOM is
// prepended so Excel opens the Japanese header correctly.
func (r *Renderer) RenderCSV(rep *model.DiagnosisReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rep.Rows {
		record := []string{
			strconv.Itoa(row.Year),
			strconv.FormatInt(row.MonthlyDelta, 10),
			strconv.FormatInt(row.YearlyDelta, 10),
			strconv.FormatInt(row.Cumulative, 10),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// RenderXLSX writes the projection table as a spreadsheet with the
// summary lines on a second sheet.
func (r *Renderer) RenderXLSX(rep *model.DiagnosisReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "コスト推移"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	for col, h := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, row := range rep.Rows {
		values := []int64{int64(row.Year), row.MonthlyDelta, row.YearlyDelta, row.Cumulative}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	const summarySheet = "診断サマリー"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	for i, line := range rep.Summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellValue(summarySheet, cell, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// RenderSummary prints the human-facing summary to stdout.
func (r *Renderer) RenderSummary(rep *model.DiagnosisReport) {
	for _, line := range rep.Summary {
		fmt.Println(line)
	}
	if r.verbose {
		fmt.Printf("\nreport %s (carrier=%s, confidence=%.2f)\n",
			rep.ID, rep.Carrier, rep.Bill.Confidence)
	}
}

// Render writes the report to every requested output. Empty paths are
// skipped; the stdout summary always prints.
func (r *Renderer) Render(rep *model.DiagnosisReport, jsonPath, csvPath, xlsxPath string) error {
	if jsonPath != "" {
		if err := r.RenderJSON(rep, jsonPath); err != nil {
			return err
		}
		if r.verbose {
			fmt.Printf("wrote %s\n", jsonPath)
		}
	}
	if csvPath != "" {
		if err := r.RenderCSV(rep, csvPath); err != nil {
			return err
		}
		if r.verbose {
			fmt.Printf("wrote %s\n", csvPath)
		}
	}
	if xlsxPath != "" {
		if err := r.RenderXLSX(rep, xlsxPath); err != nil {
			return err
		}
		if r.verbose {
			fmt.Printf("wrote %s\n", xlsxPath)
		}
	}
	r.RenderSummary(rep)
	return nil
}
