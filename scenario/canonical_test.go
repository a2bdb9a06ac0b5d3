package scenario

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalBytesStable(t *testing.T) {
	t.Parallel()

	build := func(created time.Time) Scenario {
		// Metadata built in different insertion orders on each call.
		meta := map[string]string{}
		meta["desk"] = "GOV"
		meta["book"] = "A1"
		return Scenario{
			Name:        "baseline",
			Description: "sovereign and bank mix",
			Tags:        []string{"baseline"},
			CreatedAt:   created,
			Exposures: []Exposure{
				{
					TradeID:       "T1",
					Notional:      decimal.RequireFromString("1000000"),
					Currency:      "USD",
					ExposureClass: "sovereign",
					Metadata:      meta,
				},
			},
		}
	}

	a := CanonicalBytes(build(time.Now()))
	b := CanonicalBytes(build(time.Now().Add(time.Hour)))
	assert.Equal(t, a, b, "same logical content must produce identical bytes")
	assert.Equal(t, Digest(build(time.Now())), Digest(build(time.Time{})))
}

func TestCanonicalBytesNotionalNormalized(t *testing.T) {
	t.Parallel()

	a := Scenario{Name: "s", Exposures: []Exposure{{
		TradeID:  "T1",
		Notional: decimal.RequireFromString("100.50"),
		Currency: "USD",
	}}}
	b := Scenario{Name: "s", Exposures: []Exposure{{
		TradeID:  "T1",
		Notional: decimal.RequireFromString("100.5"),
		Currency: "USD",
	}}}
	assert.Equal(t, CanonicalBytes(a), CanonicalBytes(b))
}

func TestCanonicalBytesDistinguishesContent(t *testing.T) {
	t.Parallel()

	base := Scenario{Name: "s", Exposures: []Exposure{{
		TradeID:  "T1",
		Notional: decimal.RequireFromString("100"),
		Currency: "USD",
	}}}
	changed := base
	changed.Exposures = []Exposure{{
		TradeID:  "T1",
		Notional: decimal.RequireFromString("101"),
		Currency: "USD",
	}}
	require.NotEqual(t, Digest(base), Digest(changed))
}
