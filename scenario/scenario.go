// Package scenario defines the exposure and scenario inputs to the
// calculation engine, their validation rules, and a canonical byte
// representation used for reconciliation and caching by callers.
package scenario

import (
	"time"

	"github.com/shopspring/decimal"
)

// Exposure is a single position to be charged. Notional is expressed in the
// reporting currency and must be strictly positive.
type Exposure struct {
	TradeID           string            `json:"trade_id" yaml:"trade_id"`
	Notional          decimal.Decimal   `json:"notional" yaml:"notional"`
	Currency          string            `json:"currency" yaml:"currency"`
	ProductType       string            `json:"product_type,omitempty" yaml:"product_type,omitempty"`
	ExposureClass     string            `json:"exposure_class,omitempty" yaml:"exposure_class,omitempty"`
	QualityStep       string            `json:"quality_step,omitempty" yaml:"quality_step,omitempty"`
	CounterpartyGrade string            `json:"counterparty_grade,omitempty" yaml:"counterparty_grade,omitempty"`
	LGDGrade          string            `json:"lgd_grade,omitempty" yaml:"lgd_grade,omitempty"`
	HedgingSet        string            `json:"hedging_set,omitempty" yaml:"hedging_set,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Scenario is a named, ordered collection of exposures. Scenarios are treated
// as immutable once handed to the engine; replacing one means upserting a new
// value under the same name in whatever registry holds it.
type Scenario struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Exposures   []Exposure `json:"exposures" yaml:"exposures"`
}

// TradeIDs returns the trade ids in scenario order.
func (s Scenario) TradeIDs() []string {
	ids := make([]string, len(s.Exposures))
	for i, exp := range s.Exposures {
		ids[i] = exp.TradeID
	}
	return ids
}
