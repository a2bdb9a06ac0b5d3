// Package export builds the stable computation-result payload that external
// systems persist for regulatory lineage. The payload shape is fixed across
// policy-data updates; only the embedded hashes change. Decimal fields
// marshal as JSON strings, so exported amounts survive round-trips exactly.
package export

import (
	"encoding/json"
	"time"

	"github.com/regquant/drcsa/compare"
	"github.com/regquant/drcsa/engine"
	"github.com/regquant/drcsa/pkg/id"
)

// PolicyMeta identifies the policy bundle that produced a payload.
type PolicyMeta struct {
	ID     string            `json:"id"`
	Hashes map[string]string `json:"hashes"`
}

// Payload is the exported artefact for one computation run.
type Payload struct {
	RunID       string                   `json:"run_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Policy      PolicyMeta               `json:"policy"`
	Baseline    engine.Result            `json:"baseline"`
	Scenarios   []engine.Result          `json:"scenarios"`
	Failures    []engine.ScenarioFailure `json:"failures,omitempty"`
	Comparisons *compare.Matrix          `json:"comparisons,omitempty"`
}

// Build assembles the export payload for a compute output, tagging it with a
// fresh run id. The comparison matrix is attached only when the caller
// requested comparisons; a nil matrix leaves the field out entirely.
func Build(out *engine.Output, matrix *compare.Matrix) Payload {
	scenarios := out.Alternates
	if scenarios == nil {
		scenarios = []engine.Result{}
	}
	return Payload{
		RunID:       id.New(),
		GeneratedAt: out.GeneratedAt,
		Policy: PolicyMeta{
			ID:     out.PolicyID,
			Hashes: out.PolicyHashes,
		},
		Baseline:    out.Baseline,
		Scenarios:   scenarios,
		Failures:    out.Failures,
		Comparisons: matrix,
	}
}

// Marshal renders a payload as indented JSON.
func Marshal(p Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
