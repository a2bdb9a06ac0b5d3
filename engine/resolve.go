// Package engine computes jump-to-default capital charges: it resolves risk
// parameters per exposure against a loaded policy pack, charges each
// exposure, and aggregates scenario results. All operations are pure with
// respect to their inputs; the pack is never mutated.
package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/scenario"
)

// Sources recorded in the resolution trace. They identify which fallback step
// supplied each resolved value; the arithmetic never depends on them.
const (
	SourceExplicit       = "explicit"
	SourceProductMapping = "product_mapping"
	SourceGradeMapping   = "grade_mapping"
	SourceExactEntry     = "exact"
	SourceClassDefault   = "class_default"
	SourcePolicyDefault  = "policy_default"
	SourceUnity          = "unity"
)

// PolicyDefaultKey is the table-root entry consulted after the grade-keyed
// root lookup, as the last LGD fallback before degrading to the unity
// multiplier.
const PolicyDefaultKey = "default"

// Trace records which step produced each resolved parameter, for audit and
// debugging.
type Trace struct {
	ClassSource string `json:"class_source"`
	StepSource  string `json:"step_source,omitempty"`
	LGDSource   string `json:"lgd_source"`
}

// ResolvedRiskParameters is the per-exposure output of Resolve. LGD is nil
// when no applicable entry was found; the calculator then applies a unity
// multiplier.
type ResolvedRiskParameters struct {
	ExposureClass      string
	ClassificationPath []string
	RiskWeight         decimal.Decimal
	LGD                *decimal.Decimal
	Trace              Trace
}

// ResolutionError reports an exposure that cannot be classified or has no
// resolvable risk weight. It fails the whole scenario computation; dropping
// the exposure would silently understate the charge.
type ResolutionError struct {
	TradeID string
	Reason  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("exposure %q: %s", e.TradeID, e.Reason)
}

// Resolve determines the applicable risk weight and LGD for one exposure.
//
// The exposure class comes from the exposure itself or the product mapping
// table. The risk weight is read from the hierarchy, resolving a quality step
// (from the exposure, the product mapping, or the counterparty grade mapping)
// when the class stores step-level weights. The LGD search is a progressive
// fallback: exact class entry, class-level value, policy-wide grade entry at
// the table root, root default, then none. The most specific available entry
// always wins, and absence of every entry is a recorded non-error.
func Resolve(exp scenario.Exposure, pack *policy.Pack) (ResolvedRiskParameters, error) {
	var trace Trace

	class := exp.ExposureClass
	step := exp.QualityStep
	if class != "" {
		trace.ClassSource = SourceExplicit
	}
	if step != "" {
		trace.StepSource = SourceExplicit
	}
	if exp.ProductType != "" && (class == "" || step == "") {
		mappedClass, mappedStep, ok := pack.ProductMapping(exp.ProductType)
		if ok {
			if class == "" {
				class = mappedClass
				trace.ClassSource = SourceProductMapping
			}
			if step == "" && mappedStep != "" {
				step = mappedStep
				trace.StepSource = SourceProductMapping
			}
		}
	}
	if step == "" && exp.CounterpartyGrade != "" {
		if mapped, ok := pack.GradeStep(exp.CounterpartyGrade); ok {
			step = mapped
			trace.StepSource = SourceGradeMapping
		}
	}
	if class == "" {
		return ResolvedRiskParameters{}, &ResolutionError{TradeID: exp.TradeID,
			Reason: "missing exposure_class and no product mapping available"}
	}

	path, weight, err := resolveWeight(exp.TradeID, pack, class, step)
	if err != nil {
		return ResolvedRiskParameters{}, err
	}

	lgd, lgdSource := resolveLGD(pack, exp, class, step)
	trace.LGDSource = lgdSource

	return ResolvedRiskParameters{
		ExposureClass:      class,
		ClassificationPath: path,
		RiskWeight:         weight,
		LGD:                lgd,
		Trace:              trace,
	}, nil
}

func resolveWeight(tradeID string, pack *policy.Pack, class, step string) ([]string, decimal.Decimal, error) {
	if !pack.RiskWeightRequiresStep(class) {
		if weight, ok := pack.RiskWeight([]string{class}); ok {
			return []string{class}, weight, nil
		}
		return nil, decimal.Decimal{}, &ResolutionError{TradeID: tradeID,
			Reason: fmt.Sprintf("no risk weight for exposure class %q", class)}
	}
	if step == "" {
		return nil, decimal.Decimal{}, &ResolutionError{TradeID: tradeID,
			Reason: fmt.Sprintf("exposure class %q requires a quality step and none could be resolved", class)}
	}
	path := append([]string{class}, splitSteps(step)...)
	weight, ok := pack.RiskWeight(path)
	if !ok {
		return nil, decimal.Decimal{}, &ResolutionError{TradeID: tradeID,
			Reason: fmt.Sprintf("classification path %s not present in risk-weight hierarchy", strings.Join(path, "/"))}
	}
	return path, weight, nil
}

// resolveLGD walks the fallback chain and reports which step hit. A nil
// decimal with SourceUnity means no entry anywhere; the charge formula then
// multiplies by one.
func resolveLGD(pack *policy.Pack, exp scenario.Exposure, class, step string) (*decimal.Decimal, string) {
	if node, ok := pack.LGDClassNode(class); ok {
		if leaf, isLeaf := node.(decimal.Decimal); isLeaf {
			return &leaf, SourceClassDefault
		}
		if exp.LGDGrade != "" {
			if lgd, ok := pack.LGD([]string{class, exp.LGDGrade}); ok {
				return &lgd, SourceExactEntry
			}
		}
		if step != "" {
			path := append([]string{class}, splitSteps(step)...)
			if lgd, ok := pack.LGD(path); ok {
				return &lgd, SourceExactEntry
			}
		}
	}
	if exp.LGDGrade != "" {
		if lgd, ok := pack.LGD([]string{exp.LGDGrade}); ok {
			return &lgd, SourcePolicyDefault
		}
	}
	if lgd, ok := pack.LGD([]string{PolicyDefaultKey}); ok {
		return &lgd, SourcePolicyDefault
	}
	return nil, SourceUnity
}

func splitSteps(step string) []string {
	var segments []string
	for _, segment := range strings.Split(step, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
