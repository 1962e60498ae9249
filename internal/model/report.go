package model

import "time"

// DeltaDirection labels the sign of the monthly delta for downstream
// rendering. The sign itself is never flipped: a negative delta is a
// cost and must be presented as one.
type DeltaDirection string

const (
	DirectionSaving  DeltaDirection = "saving"
	DirectionCost    DeltaDirection = "cost"
	DirectionNeutral DeltaDirection = "neutral"
)

// TableRow is one exportable row of the projection table.
type TableRow struct {
	Year         int   `json:"year"`
	MonthlyDelta int64 `json:"monthly_delta"`
	YearlyDelta  int64 `json:"yearly_delta"`
	Cumulative   int64 `json:"cumulative"`
}

// DiagnosisReport is the assembled result of one engine run: summary
// fields for the human-facing message, the raw series for charting and
// tabular rows for export. Producing it has no side effects; rendering
// is a downstream concern.
type DiagnosisReport struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	Carrier    Carrier              `json:"carrier"`
	Bill       ExtractedBill        `json:"bill"`
	Plan       Recommendation       `json:"recommendation"`
	Direction  DeltaDirection       `json:"direction"`
	Projection CostProjectionSeries `json:"projection"`
	Examples   PurchaseExamples     `json:"examples"`

	Rows    []TableRow `json:"rows"`
	Summary []string   `json:"summary"`
}
