package engine

import (
	"github.com/shopspring/decimal"

	"github.com/regquant/drcsa/scenario"
)

// Charge computes the jump-to-default charge for one exposure:
// notional × riskWeight × effectiveLGD, where effectiveLGD is 1 when no LGD
// entry was found. Absence of LGD is a multiplicative no-op, never zero, so
// the charge can never fall below the risk-weight-only amount for missing
// data. Pure function, no failure path: anything that can go wrong has
// already failed in Resolve.
func Charge(exp scenario.Exposure, params ResolvedRiskParameters) decimal.Decimal {
	charge := exp.Notional.Mul(params.RiskWeight)
	if params.LGD != nil {
		charge = charge.Mul(*params.LGD)
	}
	return charge
}
