package model

// ProjectionPoint is one year of the cumulative cost-delta trajectory.
type ProjectionPoint struct {
	Year       int   `json:"year"`
	Cumulative int64 `json:"cumulative"`
}

// CostProjectionSeries is the flat (non-compounded) multi-year projection
// of a monthly delta: Points[i].Cumulative = MonthlyDelta * 12 * year.
// The series is strictly non-decreasing when the delta is >= 0 and
// strictly decreasing when it is negative.
type CostProjectionSeries struct {
	HorizonYears int               `json:"horizon_years"`
	MonthlyDelta int64             `json:"monthly_delta"`
	Points       []ProjectionPoint `json:"points"`
}

// Final returns the cumulative amount at the end of the horizon,
// or 0 for an empty series.
func (s CostProjectionSeries) Final() int64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Cumulative
}

// PurchaseExamples is the "equivalent purchasing power" annotation:
// an illustrative example of what the cumulative amount could buy at
// the one-, ten- and fifty-year marks, from a static bracket table.
type PurchaseExamples struct {
	Yearly    string `json:"yearly"`
	TenYear   string `json:"ten_year"`
	FiftyYear string `json:"fifty_year"`
}
