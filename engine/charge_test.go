package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/regquant/drcsa/scenario"
)

func TestCharge(t *testing.T) {
	t.Parallel()

	lgd := dec("0.75")

	tests := []struct {
		name   string
		exp    scenario.Exposure
		params ResolvedRiskParameters
		want   string
	}{
		{
			name:   "unity_fallback_equals_weighted_notional",
			exp:    scenario.Exposure{TradeID: "T1", Notional: dec("1000000"), Currency: "USD"},
			params: ResolvedRiskParameters{RiskWeight: dec("0.06"), LGD: nil},
			want:   "60000",
		},
		{
			name:   "lgd_multiplies_weighted_notional",
			exp:    scenario.Exposure{TradeID: "T1", Notional: dec("1000000"), Currency: "USD"},
			params: ResolvedRiskParameters{RiskWeight: dec("0.06"), LGD: &lgd},
			want:   "45000",
		},
		{
			name:   "small_weight_exact_decimal",
			exp:    scenario.Exposure{TradeID: "T2", Notional: dec("123456.78"), Currency: "USD"},
			params: ResolvedRiskParameters{RiskWeight: dec("0.005"), LGD: nil},
			want:   "617.2839",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Charge(tt.exp, tt.params)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"charge %s != %s", got, tt.want)
		})
	}
}
