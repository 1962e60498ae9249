package project

import (
	"github.com/ynishioka/shindan/internal/model"
)

// Simulator turns a signed monthly delta into a cumulative multi-year
// trajectory. The projection is deliberately flat: no compounding and
// no inflation adjustment, because the product communicates a simple
// non-compounded multi-year total.
type Simulator struct {
	horizonYears int
}

// NewSimulator creates a simulator for the configured horizon.
func NewSimulator(horizonYears int) *Simulator {
	if horizonYears < 1 {
		horizonYears = 1
	}
	return &Simulator{horizonYears: horizonYears}
}

// Simulate produces the yearly cumulative series for the delta.
// A zero delta yields an all-zero series, which is still produced and
// displayable; a negative delta yields a strictly decreasing series
// whose sign is never flipped.
func (s *Simulator) Simulate(monthlyDelta int64) model.CostProjectionSeries {
	series := model.CostProjectionSeries{
		HorizonYears: s.horizonYears,
		MonthlyDelta: monthlyDelta,
		Points:       make([]model.ProjectionPoint, 0, s.horizonYears),
	}
	yearly := monthlyDelta * 12
	for year := 1; year <= s.horizonYears; year++ {
		series.Points = append(series.Points, model.ProjectionPoint{
			Year:       year,
			Cumulative: yearly * int64(year),
		})
	}
	return series
}

// bracket maps a minimum absolute amount to an illustrative purchase.
type bracket struct {
	min     int64
	example string
}

// Equivalent-purchase tables, keyed by absolute amount. Entries are
// ordered from largest to smallest bracket; the last entry is the
// catch-all.
var (
	yearlyBrackets = []bracket{
		{100_000, "家族旅行（国内）"},
		{50_000, "高級レストラン10回"},
		{20_000, "映画鑑賞50回"},
		{0, "書籍100冊購入"},
	}
	tenYearBrackets = []bracket{
		{1_000_000, "新車の頭金"},
		{500_000, "住宅ローンの一部返済"},
		{200_000, "子供の教育費"},
		{0, "老後資金の積立"},
	}
	fiftyYearBrackets = []bracket{
		{5_000_000, "新車購入（複数台）"},
		{2_000_000, "住宅購入の一部"},
		{1_000_000, "老後生活費の一部"},
		{0, "遺産として残す"},
	}
)

// Examples returns the equivalent-purchase annotation for a monthly
// delta. The lookup is a deterministic static table on the absolute
// yearly amount; direction (saving vs cost) is the assembler's concern.
func Examples(monthlyDelta int64) model.PurchaseExamples {
	yearly := monthlyDelta * 12
	if yearly < 0 {
		yearly = -yearly
	}
	return model.PurchaseExamples{
		Yearly:    pick(yearlyBrackets, yearly),
		TenYear:   pick(tenYearBrackets, yearly*10),
		FiftyYear: pick(fiftyYearBrackets, yearly*50),
	}
}

func pick(table []bracket, amount int64) string {
	for _, b := range table {
		if amount >= b.min {
			return b.example
		}
	}
	return table[len(table)-1].example
}
