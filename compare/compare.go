// Package compare diffs alternate scenario results against a baseline.
// Exposure sets may be disjoint: the comparison is a full outer join on
// trade id with an explicit zero charge for the missing side, so added and
// removed trades stay visible in the deltas.
package compare

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/regquant/drcsa/engine"
)

// ExposureDelta is the per-trade charge difference between an alternate and
// the baseline. InBaseline/InAlternate record which side the trade appeared
// on; the absent side contributed zero.
type ExposureDelta struct {
	TradeID     string          `json:"trade_id"`
	Baseline    decimal.Decimal `json:"baseline_charge"`
	Alternate   decimal.Decimal `json:"alternate_charge"`
	Delta       decimal.Decimal `json:"delta"`
	InBaseline  bool            `json:"in_baseline"`
	InAlternate bool            `json:"in_alternate"`
}

// Comparison is the read-only diff of one alternate against the baseline.
type Comparison struct {
	BaselineName   string          `json:"baseline_name"`
	ScenarioName   string          `json:"scenario_name"`
	BaselineTotal  decimal.Decimal `json:"baseline_total"`
	AlternateTotal decimal.Decimal `json:"alternate_total"`
	DeltaTotal     decimal.Decimal `json:"delta_total"`
	ExposureDeltas []ExposureDelta `json:"exposure_deltas"`
}

// Matrix is the ordered collection of comparisons for one compute request.
// An empty alternates list yields an empty (non-nil) matrix.
type Matrix struct {
	BaselineName string       `json:"baseline_name"`
	Comparisons  []Comparison `json:"comparisons"`
}

// Compare diffs an alternate result against the baseline. Every trade id on
// either side appears exactly once, sorted, and the aggregate delta equals
// both the sum of per-exposure deltas and alternateTotal − baselineTotal.
func Compare(baseline, alternate engine.Result) Comparison {
	baseCharges := chargesByTrade(baseline)
	altCharges := chargesByTrade(alternate)

	ids := make([]string, 0, len(baseCharges)+len(altCharges))
	for id := range baseCharges {
		ids = append(ids, id)
	}
	for id := range altCharges {
		if _, seen := baseCharges[id]; !seen {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	deltas := make([]ExposureDelta, 0, len(ids))
	for _, id := range ids {
		base, inBase := baseCharges[id]
		alt, inAlt := altCharges[id]
		deltas = append(deltas, ExposureDelta{
			TradeID:     id,
			Baseline:    base,
			Alternate:   alt,
			Delta:       alt.Sub(base),
			InBaseline:  inBase,
			InAlternate: inAlt,
		})
	}

	return Comparison{
		BaselineName:   baseline.ScenarioName,
		ScenarioName:   alternate.ScenarioName,
		BaselineTotal:  baseline.Total,
		AlternateTotal: alternate.Total,
		DeltaTotal:     alternate.Total.Sub(baseline.Total),
		ExposureDeltas: deltas,
	}
}

// CompareAll diffs each alternate against the baseline, preserving input
// order.
func CompareAll(baseline engine.Result, alternates []engine.Result) Matrix {
	matrix := Matrix{
		BaselineName: baseline.ScenarioName,
		Comparisons:  make([]Comparison, 0, len(alternates)),
	}
	for _, alt := range alternates {
		matrix.Comparisons = append(matrix.Comparisons, Compare(baseline, alt))
	}
	return matrix
}

func chargesByTrade(result engine.Result) map[string]decimal.Decimal {
	charges := make(map[string]decimal.Decimal, len(result.Exposures))
	for _, exp := range result.Exposures {
		charges[exp.TradeID] = exp.Charge
	}
	return charges
}
