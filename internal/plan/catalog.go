package plan

import (
	"fmt"

	"github.com/ynishioka/shindan/internal/model"
)

// catalog is the process-wide plan catalog, loaded at startup and never
// mutated. The reserved lowest tier (S) is intentionally not a member:
// it can never be recommended because it is not representable here.
var catalog = []model.PlanCandidate{
	{
		ID:                    model.PlanM,
		Name:                  "dモバイル M",
		MonthlyPrice:          2980,
		DataAllowanceGBPerDay: 2,
		CallAllowanceMinutes:  5,
		Description:           "中量データユーザー向けのバランス型プラン",
	},
	{
		ID:                    model.PlanL,
		Name:                  "dモバイル L",
		MonthlyPrice:          3980,
		DataAllowanceGBPerDay: 4,
		CallAllowanceMinutes:  5,
		Description:           "大容量データユーザー向けのプラン",
	},
	{
		ID:                    model.PlanMUnlimited,
		Name:                  "dモバイル M + 24時間かけ放題",
		MonthlyPrice:          3980,
		DataAllowanceGBPerDay: 2,
		CallAllowanceMinutes:  model.CallAllowanceUnlimited,
		Description:           "中量データ + 通話重視ユーザー向け",
	},
	{
		ID:                    model.PlanLUnlimited,
		Name:                  "dモバイル L + 24時間かけ放題",
		MonthlyPrice:          4980,
		DataAllowanceGBPerDay: 4,
		CallAllowanceMinutes:  model.CallAllowanceUnlimited,
		Description:           "大容量データ + 通話重視ユーザー向け",
	},
}

// Catalog returns a copy of the plan catalog in declaration order.
func Catalog() []model.PlanCandidate {
	out := make([]model.PlanCandidate, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a catalog plan.
func ByID(id model.PlanID) (model.PlanCandidate, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return model.PlanCandidate{}, fmt.Errorf("plan %q not in catalog", id)
}
