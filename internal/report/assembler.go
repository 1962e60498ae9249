package report

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ynishioka/shindan/internal/model"
)

// jp renders grouped yen amounts (7,700) for the summary lines.
var jp = message.NewPrinter(language.Japanese)

// Assemble builds the structured result object for one engine run:
// human-readable summary fields, the raw series for charting and
// tabular rows for export. It produces no side effects; file writing
// and chart rendering are downstream collaborators' responsibility.
func Assemble(bill model.ExtractedBill, rec model.Recommendation, series model.CostProjectionSeries, examples model.PurchaseExamples) model.DiagnosisReport {
	r := model.DiagnosisReport{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Carrier:     bill.Carrier,
		Bill:        bill,
		Plan:        rec,
		Direction:   direction(rec.MonthlyDelta),
		Projection:  series,
		Examples:    examples,
	}

	yearly := rec.MonthlyDelta * 12
	for _, p := range series.Points {
		r.Rows = append(r.Rows, model.TableRow{
			Year:         p.Year,
			MonthlyDelta: rec.MonthlyDelta,
			YearlyDelta:  yearly,
			Cumulative:   p.Cumulative,
		})
	}

	r.Summary = summaryLines(bill, rec, series, examples, r.Direction)
	return r
}

func direction(delta int64) model.DeltaDirection {
	switch {
	case delta > 0:
		return model.DirectionSaving
	case delta < 0:
		return model.DirectionCost
	default:
		return model.DirectionNeutral
	}
}

func summaryLines(bill model.ExtractedBill, rec model.Recommendation, series model.CostProjectionSeries, examples model.PurchaseExamples, dir model.DeltaDirection) []string {
	var lines []string
	lines = append(lines, "【診断結果】")

	if bill.Carrier == model.CarrierUnknown {
		lines = append(lines, "キャリア: 判定できませんでした")
	} else {
		lines = append(lines, jp.Sprintf("キャリア: %s", string(bill.Carrier)))
	}

	if bill.Confidence == 0 {
		lines = append(lines,
			"明細から回線費用を読み取れませんでした",
			"より鮮明な画像で再試行してください")
		return lines
	}

	lines = append(lines, jp.Sprintf("現在の回線費用: ¥%d (信頼度: %.0f%%)", bill.MonthlyRecurringCharge, bill.Confidence*100))
	if bill.Confidence < 0.5 {
		lines = append(lines, "信頼度が低いため、手動での確認をお勧めします")
	}

	for _, ex := range bill.ExcludedAmounts {
		lines = append(lines, jp.Sprintf("対象外: %s ¥%d", ex.Label, ex.Amount))
	}

	lines = append(lines, jp.Sprintf("おすすめプラン: %s（月額 ¥%d）", rec.SelectedPlan.Name, rec.SelectedPlan.MonthlyPrice))

	switch dir {
	case model.DirectionSaving:
		lines = append(lines,
			jp.Sprintf("毎月の節約額: ¥%d", rec.MonthlyDelta),
			jp.Sprintf("%d年間の累積節約額: ¥%d", series.HorizonYears, series.Final()),
			jp.Sprintf("年間の節約額でできること: %s", examples.Yearly),
			jp.Sprintf("%d年間なら: %s", series.HorizonYears, examples.FiftyYear))
	case model.DirectionCost:
		// A negative delta is presented as an added cost, never as a
		// saving with a flipped sign.
		lines = append(lines,
			jp.Sprintf("毎月の負担増: ¥%d", -rec.MonthlyDelta),
			jp.Sprintf("%d年間の累積負担増: ¥%d", series.HorizonYears, -series.Final()))
	default:
		lines = append(lines, "現在の料金と同額です")
	}

	return lines
}
