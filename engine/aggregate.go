package engine

import (
	"github.com/shopspring/decimal"

	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/scenario"
)

// ExposureCharge is the charged outcome for one exposure, carrying the
// resolution trace for audit.
type ExposureCharge struct {
	TradeID            string            `json:"trade_id"`
	Notional           decimal.Decimal   `json:"notional"`
	Currency           string            `json:"currency"`
	ExposureClass      string            `json:"exposure_class"`
	ClassificationPath []string          `json:"classification_path"`
	RiskWeight         decimal.Decimal   `json:"risk_weight"`
	LGD                *decimal.Decimal  `json:"lgd,omitempty"`
	Charge             decimal.Decimal   `json:"charge"`
	Trace              Trace             `json:"trace"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// Result is the aggregated outcome for one scenario. It is self-describing:
// the policy identifier and per-artefact hashes that produced it are attached
// as immutable metadata, so exported results carry their own lineage.
type Result struct {
	ScenarioName   string                     `json:"scenario_name"`
	Total          decimal.Decimal            `json:"total_charge"`
	TotalNotional  decimal.Decimal            `json:"total_notional"`
	ExposureCount  int                        `json:"exposure_count"`
	ClassSubtotals map[string]decimal.Decimal `json:"class_subtotals"`
	Exposures      []ExposureCharge           `json:"exposures"`
	PolicyID       string                     `json:"policy_id"`
	PolicyHashes   map[string]string          `json:"policy_hashes"`
}

// Aggregate sums per-exposure charges into a scenario total and
// per-exposure-class subtotals. Decimal addition is exact, so the total is
// identical regardless of exposure iteration order.
func Aggregate(scn scenario.Scenario, charges []ExposureCharge, pack *policy.Pack) Result {
	total := decimal.Zero
	totalNotional := decimal.Zero
	subtotals := make(map[string]decimal.Decimal)
	for _, charge := range charges {
		total = total.Add(charge.Charge)
		totalNotional = totalNotional.Add(charge.Notional)
		subtotals[charge.ExposureClass] = subtotals[charge.ExposureClass].Add(charge.Charge)
	}
	hashes := make(map[string]string, len(pack.Hashes))
	for name, hash := range pack.Hashes {
		hashes[name] = hash
	}
	return Result{
		ScenarioName:   scn.Name,
		Total:          total,
		TotalNotional:  totalNotional,
		ExposureCount:  len(charges),
		ClassSubtotals: subtotals,
		Exposures:      charges,
		PolicyID:       pack.ID,
		PolicyHashes:   hashes,
	}
}
