package plan

import (
	"github.com/ynishioka/shindan/internal/model"
)

// Selector maps an extracted bill to one of the catalog plans. The
// decision procedure is deterministic and ordered; every fired rule is
// recorded in the recommendation's rationale.
type Selector struct {
	cfg model.EngineConfig
}

// NewSelector creates a selector. The caller validates the
// configuration at startup; by the time a selector exists the reserved
// tier is already excluded at the catalog level.
func NewSelector(cfg model.EngineConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Select picks the recommended plan for the bill.
//
// Order matters: an existing 24-hour unlimited-calling addon upgrades
// the tier choice to its unlimited variant, and the tier itself is the
// configured price threshold comparison. MonthlyDelta is signed and
// surfaced as-is; the simulator decides display policy.
func (s *Selector) Select(bill model.ExtractedBill) model.Recommendation {
	var rationale []model.RuleID

	upgrade := s.cfg.Enable24hUnlimitedDetection && bill.Has24hUnlimited
	if upgrade {
		rationale = append(rationale, model.Rule24hUnlimited)
	}

	var id model.PlanID
	if bill.MonthlyRecurringCharge < s.cfg.TierPriceThreshold {
		rationale = append(rationale, model.RuleTierM)
		id = model.PlanM
		if upgrade {
			id = model.PlanMUnlimited
		}
	} else {
		rationale = append(rationale, model.RuleTierL)
		id = model.PlanL
		if upgrade {
			id = model.PlanLUnlimited
		}
	}

	// The catalog is static; every PlanID above is a member.
	selected, _ := ByID(id)

	return model.Recommendation{
		SelectedPlan: selected,
		MonthlyDelta: bill.MonthlyRecurringCharge - selected.MonthlyPrice,
		Rationale:    rationale,
	}
}
