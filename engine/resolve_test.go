package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/scenario"
)

func loadTestPack(t *testing.T) *policy.Pack {
	t.Helper()
	pack, err := policy.NewLoader("testdata", zerolog.Nop()).Load("BCBS_MAR")
	require.NoError(t, err)
	return pack
}

// loadPackWithLGD loads the fixture bundle with its LGD artefact replaced.
func loadPackWithLGD(t *testing.T, lgdYAML string) *policy.Pack {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "BCBS_MAR")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, file := range []string{"risk_weights.yaml", "lgd_tables.yaml", "mappings.yaml", "hedging_rules.yaml"} {
		data, err := os.ReadFile(filepath.Join("testdata", "BCBS_MAR", file))
		require.NoError(t, err)
		if file == "lgd_tables.yaml" {
			data = []byte(lgdYAML)
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), data, 0o644))
	}
	pack, err := policy.NewLoader(base, zerolog.Nop()).Load("BCBS_MAR")
	require.NoError(t, err)
	return pack
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestResolve(t *testing.T) {
	t.Parallel()

	pack := loadTestPack(t)

	tests := []struct {
		name       string
		exposure   scenario.Exposure
		wantClass  string
		wantPath   []string
		wantWeight string
		wantLGD    string // empty means none found
		wantTrace  Trace
	}{
		{
			name: "explicit_class_leaf_weight_no_lgd",
			exposure: scenario.Exposure{
				TradeID: "T1", Notional: dec("1000000"), Currency: "USD",
				ExposureClass: "sovereign",
			},
			wantClass:  "sovereign",
			wantPath:   []string{"sovereign"},
			wantWeight: "0.005",
			wantLGD:    "",
			wantTrace:  Trace{ClassSource: SourceExplicit, LGDSource: SourceUnity},
		},
		{
			name: "class_from_product_mapping_with_class_level_lgd",
			exposure: scenario.Exposure{
				TradeID: "T2", Notional: dec("1000"), Currency: "USD",
				ProductType: "corporate_bond",
			},
			wantClass:  "corporate_senior",
			wantPath:   []string{"corporate_senior"},
			wantWeight: "0.06",
			wantLGD:    "0.75",
			wantTrace: Trace{
				ClassSource: SourceProductMapping,
				StepSource:  SourceProductMapping,
				LGDSource:   SourceClassDefault,
			},
		},
		{
			name: "step_from_product_mapping_lgd_from_step_path",
			exposure: scenario.Exposure{
				TradeID: "T3", Notional: dec("1000"), Currency: "USD",
				ProductType: "large_bank_senior",
			},
			wantClass:  "financials",
			wantPath:   []string{"financials", "large_bank", "senior"},
			wantWeight: "0.03",
			wantLGD:    "0.55",
			wantTrace: Trace{
				ClassSource: SourceProductMapping,
				StepSource:  SourceProductMapping,
				LGDSource:   SourceExactEntry,
			},
		},
		{
			name: "lgd_grade_beats_step_path",
			exposure: scenario.Exposure{
				TradeID: "T4", Notional: dec("1000"), Currency: "USD",
				ExposureClass: "financials",
				QualityStep:   "large_bank/senior",
				LGDGrade:      "senior_secured",
			},
			wantClass:  "financials",
			wantPath:   []string{"financials", "large_bank", "senior"},
			wantWeight: "0.03",
			wantLGD:    "0.45",
			wantTrace: Trace{
				ClassSource: SourceExplicit,
				StepSource:  SourceExplicit,
				LGDSource:   SourceExactEntry,
			},
		},
		{
			name: "step_from_grade_mapping_no_lgd_entry",
			exposure: scenario.Exposure{
				TradeID: "T5", Notional: dec("1000"), Currency: "USD",
				ExposureClass:     "financials",
				CounterpartyGrade: "BBB",
			},
			wantClass:  "financials",
			wantPath:   []string{"financials", "large_bank", "subordinated"},
			wantWeight: "0.075",
			wantLGD:    "",
			wantTrace: Trace{
				ClassSource: SourceExplicit,
				StepSource:  SourceGradeMapping,
				LGDSource:   SourceUnity,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params, err := Resolve(tt.exposure, pack)
			require.NoError(t, err)

			assert.Equal(t, tt.wantClass, params.ExposureClass)
			assert.Equal(t, tt.wantPath, params.ClassificationPath)
			assert.True(t, params.RiskWeight.Equal(dec(tt.wantWeight)),
				"weight %s != %s", params.RiskWeight, tt.wantWeight)
			if tt.wantLGD == "" {
				assert.Nil(t, params.LGD)
			} else {
				require.NotNil(t, params.LGD)
				assert.True(t, params.LGD.Equal(dec(tt.wantLGD)),
					"lgd %s != %s", params.LGD, tt.wantLGD)
			}
			assert.Equal(t, tt.wantTrace, params.Trace)
		})
	}
}

func TestResolveFailures(t *testing.T) {
	t.Parallel()

	pack := loadTestPack(t)

	tests := []struct {
		name     string
		exposure scenario.Exposure
	}{
		{
			name: "no_class_and_no_mapping",
			exposure: scenario.Exposure{
				TradeID: "T1", Notional: dec("1"), Currency: "USD",
				ProductType: "unknown_product",
			},
		},
		{
			name: "class_without_weight",
			exposure: scenario.Exposure{
				TradeID: "T1", Notional: dec("1"), Currency: "USD",
				ExposureClass: "unmapped_class",
			},
		},
		{
			name: "step_required_but_unresolvable",
			exposure: scenario.Exposure{
				TradeID: "T1", Notional: dec("1"), Currency: "USD",
				ExposureClass: "financials",
			},
		},
		{
			name: "step_path_not_in_hierarchy",
			exposure: scenario.Exposure{
				TradeID: "T1", Notional: dec("1"), Currency: "USD",
				ExposureClass: "financials",
				QualityStep:   "large_bank/mezzanine",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Resolve(tt.exposure, pack)
			var resErr *ResolutionError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, "T1", resErr.TradeID)
		})
	}
}

func TestResolvePolicyWideDefaultLGD(t *testing.T) {
	t.Parallel()

	pack := loadPackWithLGD(t, "version: \"2024.1\"\nlgd:\n  default: 0.8\n")

	params, err := Resolve(scenario.Exposure{
		TradeID: "T1", Notional: dec("1000"), Currency: "USD",
		ExposureClass: "sovereign",
	}, pack)
	require.NoError(t, err)

	require.NotNil(t, params.LGD)
	assert.True(t, params.LGD.Equal(dec("0.8")))
	assert.Equal(t, SourcePolicyDefault, params.Trace.LGDSource)
}

func TestResolveRootGradeLGD(t *testing.T) {
	t.Parallel()

	pack := loadPackWithLGD(t, "version: \"2024.1\"\nlgd:\n  senior_secured: 0.4\n")

	// No class entry at all: the table-root entry keyed by the exposure's
	// lgd_grade still resolves.
	params, err := Resolve(scenario.Exposure{
		TradeID: "T1", Notional: dec("1000"), Currency: "USD",
		ExposureClass: "sovereign",
		LGDGrade:      "senior_secured",
	}, pack)
	require.NoError(t, err)

	require.NotNil(t, params.LGD)
	assert.True(t, params.LGD.Equal(dec("0.4")))
	assert.Equal(t, SourcePolicyDefault, params.Trace.LGDSource)
}

func TestResolveRootGradeLGDBeatsDefaultKey(t *testing.T) {
	t.Parallel()

	pack := loadPackWithLGD(t, `version: "2024.1"
lgd:
  default: 0.9
  senior_secured: 0.4
`)

	params, err := Resolve(scenario.Exposure{
		TradeID: "T1", Notional: dec("1000"), Currency: "USD",
		ExposureClass: "sovereign",
		LGDGrade:      "senior_secured",
	}, pack)
	require.NoError(t, err)

	require.NotNil(t, params.LGD)
	assert.True(t, params.LGD.Equal(dec("0.4")))
	assert.Equal(t, SourcePolicyDefault, params.Trace.LGDSource)
}

func TestResolveMostSpecificLGDWins(t *testing.T) {
	t.Parallel()

	// Exact entry, class-level value, and policy default all present:
	// the exact one must win.
	pack := loadPackWithLGD(t, `version: "2024.1"
lgd:
  default: 0.99
  financials:
    large_bank:
      senior: 0.55
`)

	params, err := Resolve(scenario.Exposure{
		TradeID: "T1", Notional: dec("1000"), Currency: "USD",
		ExposureClass: "financials",
		QualityStep:   "large_bank/senior",
	}, pack)
	require.NoError(t, err)

	require.NotNil(t, params.LGD)
	assert.True(t, params.LGD.Equal(dec("0.55")))
	assert.Equal(t, SourceExactEntry, params.Trace.LGDSource)
}
