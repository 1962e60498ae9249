package pipeline

import (
	"context"
	"testing"

	"github.com/ynishioka/shindan/internal/model"
)

const docomoBill = `NTT docomoご利用料金のお知らせ
月額料金の内訳
ギガホ プレミア 7,700円
端末代金 3,000円
ご請求金額 10,700円`

func testPipelineConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = ""
	cfg.OCR.Provider = ""
	return cfg
}

func TestDiagnose_EndToEnd(t *testing.T) {
	p, err := New(testPipelineConfig(), nil)
	if err != nil {
		t.Fatalf("init pipeline: %v", err)
	}

	report, err := p.Diagnose(context.Background(), docomoBill)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}

	if report.Carrier != model.CarrierDocomo {
		t.Errorf("expected docomo, got %s", report.Carrier)
	}
	if report.Bill.MonthlyRecurringCharge != 7700 {
		t.Errorf("expected charge 7700, got %d", report.Bill.MonthlyRecurringCharge)
	}
	if report.Plan.SelectedPlan.ID != model.PlanL {
		t.Errorf("expected plan L, got %s", report.Plan.SelectedPlan.ID)
	}
	if report.Plan.MonthlyDelta != 7700-3980 {
		t.Errorf("expected delta 3720, got %d", report.Plan.MonthlyDelta)
	}
	if report.Direction != model.DirectionSaving {
		t.Errorf("expected saving, got %s", report.Direction)
	}
	if len(report.Rows) != 50 {
		t.Errorf("expected 50 projection rows, got %d", len(report.Rows))
	}
	if len(report.Bill.ExcludedAmounts) != 1 {
		t.Errorf("expected the device installment to be excluded: %+v", report.Bill.ExcludedAmounts)
	}
}

func TestDiagnose_CacheHit(t *testing.T) {
	p, err := New(testPipelineConfig(), nil)
	if err != nil {
		t.Fatalf("init pipeline: %v", err)
	}

	ctx := context.Background()
	first, err := p.Diagnose(ctx, docomoBill)
	if err != nil {
		t.Fatalf("first diagnose: %v", err)
	}
	second, err := p.Diagnose(ctx, docomoBill)
	if err != nil {
		t.Fatalf("second diagnose: %v", err)
	}

	// The cached report is returned verbatim, id included.
	if first.ID != second.ID {
		t.Errorf("expected cache hit to return the stored report, got %s vs %s", first.ID, second.ID)
	}
}

func TestDiagnose_CacheDisabled(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.Cache.Enabled = false
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("init pipeline: %v", err)
	}

	ctx := context.Background()
	first, _ := p.Diagnose(ctx, docomoBill)
	second, _ := p.Diagnose(ctx, docomoBill)
	if first.ID == second.ID {
		t.Error("with the cache off every run must produce a fresh report")
	}
}

func TestDiagnose_Deterministic(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.Cache.Enabled = false
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("init pipeline: %v", err)
	}

	ctx := context.Background()
	first, _ := p.Diagnose(ctx, docomoBill)
	second, _ := p.Diagnose(ctx, docomoBill)

	if first.Bill.MonthlyRecurringCharge != second.Bill.MonthlyRecurringCharge ||
		first.Plan.SelectedPlan.ID != second.Plan.SelectedPlan.ID ||
		first.Bill.Confidence != second.Bill.Confidence {
		t.Errorf("rule-based runs must be deterministic: %+v vs %+v", first.Bill, second.Bill)
	}
}

func TestDiagnose_UnreadableInput(t *testing.T) {
	p, err := New(testPipelineConfig(), nil)
	if err != nil {
		t.Fatalf("init pipeline: %v", err)
	}

	report, err := p.Diagnose(context.Background(), "")
	if err != nil {
		t.Fatalf("unreadable input must not error: %v", err)
	}
	if report.Bill.Confidence != 0 || report.Bill.MonthlyRecurringCharge != 0 {
		t.Errorf("expected zero-confidence bill, got %+v", report.Bill)
	}
	if len(report.Summary) == 0 {
		t.Error("even unreadable input produces a summary")
	}
}

func TestNew_BadCacheBackend(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.Cache.Backend = "memcached"
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown cache backend")
	}
}

func TestNew_BadLLMProviderDegrades(t *testing.T) {
	cfg := testPipelineConfig()
	cfg.LLM.Provider = "bard"
	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("a broken collaborator must not be fatal: %v", err)
	}
	if _, err := p.Diagnose(context.Background(), docomoBill); err != nil {
		t.Errorf("rule-based diagnosis must still work: %v", err)
	}
}
