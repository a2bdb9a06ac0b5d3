package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/scenario"
)

// PackLoader supplies loaded policy packs. *policy.Loader satisfies it.
type PackLoader interface {
	Load(policyID string) (*policy.Pack, error)
}

// Request asks for a baseline and any number of alternate scenarios to be
// computed under one policy.
type Request struct {
	PolicyID   string
	Baseline   scenario.Scenario
	Alternates []scenario.Scenario
}

// ScenarioFailure reports an alternate scenario that could not be computed.
// A failed alternate never aborts its siblings.
type ScenarioFailure struct {
	ScenarioName string `json:"scenario_name"`
	Err          error  `json:"-"`
	Message      string `json:"error"`
}

// Output is the result of one compute invocation.
type Output struct {
	PolicyID     string
	PolicyHashes map[string]string
	Baseline     Result
	Alternates   []Result
	Failures     []ScenarioFailure
	GeneratedAt  time.Time
}

// Engine orchestrates policy loading, validation, resolution, charging, and
// aggregation. It holds no mutable state; one Engine may serve any number of
// concurrent computations.
type Engine struct {
	loader PackLoader
	log    zerolog.Logger
}

// New returns an engine backed by the given pack loader.
func New(loader PackLoader, log zerolog.Logger) *Engine {
	return &Engine{
		loader: loader,
		log:    log.With().Str("component", "engine").Logger(),
	}
}

// Compute runs the full pipeline for a request. The baseline must validate
// and resolve; an error there fails the request. Alternate scenarios fail
// individually: an invalid or unresolvable alternate is reported in
// Output.Failures and its siblings still compute.
func (e *Engine) Compute(req Request) (*Output, error) {
	pack, err := e.loader.Load(req.PolicyID)
	if err != nil {
		return nil, err
	}

	baseline, err := e.computeScenario(pack, req.Baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline scenario %q: %w", req.Baseline.Name, err)
	}

	out := &Output{
		PolicyID:     pack.ID,
		PolicyHashes: baseline.PolicyHashes,
		Baseline:     baseline,
		GeneratedAt:  time.Now().UTC(),
	}
	for _, alt := range req.Alternates {
		result, err := e.computeScenario(pack, alt)
		if err != nil {
			e.log.Warn().Str("scenario", alt.Name).Err(err).
				Msg("alternate scenario failed, continuing with siblings")
			out.Failures = append(out.Failures, ScenarioFailure{
				ScenarioName: alt.Name,
				Err:          err,
				Message:      err.Error(),
			})
			continue
		}
		out.Alternates = append(out.Alternates, result)
	}
	e.log.Info().Str("policy", pack.ID).
		Int("alternates", len(out.Alternates)).
		Int("failures", len(out.Failures)).
		Msg("computation complete")
	return out, nil
}

// computeScenario validates one scenario and charges every exposure in it.
// Validation happens first: a scenario that fails never reaches resolution.
func (e *Engine) computeScenario(pack *policy.Pack, scn scenario.Scenario) (Result, error) {
	if err := scenario.Validate(scn); err != nil {
		return Result{}, err
	}
	charges := make([]ExposureCharge, 0, len(scn.Exposures))
	for _, exp := range scn.Exposures {
		params, err := Resolve(exp, pack)
		if err != nil {
			return Result{}, err
		}
		charge := Charge(exp, params)
		if params.LGD == nil {
			e.log.Debug().Str("scenario", scn.Name).Str("trade_id", exp.TradeID).
				Msg("no LGD entry found, applying unity multiplier")
		}
		charges = append(charges, ExposureCharge{
			TradeID:            exp.TradeID,
			Notional:           exp.Notional,
			Currency:           exp.Currency,
			ExposureClass:      params.ExposureClass,
			ClassificationPath: params.ClassificationPath,
			RiskWeight:         params.RiskWeight,
			LGD:                params.LGD,
			Charge:             charge,
			Trace:              params.Trace,
			Metadata:           exp.Metadata,
		})
	}
	return Aggregate(scn, charges, pack), nil
}
