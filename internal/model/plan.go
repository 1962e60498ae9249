package model

// PlanID identifies a catalog plan. The reserved lowest tier (S) is
// intentionally absent from the type's catalog; it must never be
// recommended and is therefore not representable as a catalog entry.
type PlanID string

const (
	PlanM          PlanID = "M"
	PlanL          PlanID = "L"
	PlanMUnlimited PlanID = "M_unlimited"
	PlanLUnlimited PlanID = "L_unlimited"
)

// CallAllowanceUnlimited marks a plan with 24-hour unlimited calling.
const CallAllowanceUnlimited = -1

// PlanCandidate is a static catalog entry. The catalog is process-wide,
// read-only and loaded at startup.
type PlanCandidate struct {
	ID                    PlanID `json:"id"`
	Name                  string `json:"name"`
	MonthlyPrice          int64  `json:"monthly_price"`
	DataAllowanceGBPerDay int    `json:"data_allowance_gb_per_day"`
	// CallAllowanceMinutes is the per-call free minutes, or
	// CallAllowanceUnlimited for a 24-hour unlimited addon.
	CallAllowanceMinutes int    `json:"call_allowance_minutes"`
	Description          string `json:"description,omitempty"`
}

// Unlimited reports whether the plan includes 24-hour unlimited calling.
func (p PlanCandidate) Unlimited() bool {
	return p.CallAllowanceMinutes == CallAllowanceUnlimited
}

// RuleID identifies a decision rule that fired during plan selection.
// The ordered list of fired rules makes every recommendation auditable.
type RuleID string

const (
	Rule24hUnlimited RuleID = "R-24H"    // existing 24h unlimited addon detected, upgrade variant
	RuleTierM        RuleID = "R-TIER-M" // charge below tier price threshold
	RuleTierL        RuleID = "R-TIER-L" // charge at or above tier price threshold
)

// Recommendation is the plan selector's result. MonthlyDelta is signed:
// negative means the recommendation costs more than the current charge,
// and the value is surfaced as-is, never clamped.
type Recommendation struct {
	SelectedPlan PlanCandidate `json:"selected_plan"`
	MonthlyDelta int64         `json:"monthly_delta"`
	Rationale    []RuleID      `json:"rationale"`
}
