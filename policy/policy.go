// Package policy loads and represents regulatory policy bundles: the
// risk-weight hierarchy, LGD table, product/grade mapping table, and
// hedging-rule metadata for one standardised-approach variant, each with a
// content hash computed at load time for audit lineage.
package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrPolicyNotFound reports that no bundle exists for a policy identifier.
var ErrPolicyNotFound = errors.New("policy bundle not found")

// SchemaError reports a policy artefact that fails structural validation.
type SchemaError struct {
	Policy   string
	Artefact string
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("policy %q artefact %s: %s", e.Policy, e.Artefact, e.Reason)
}

// Artefact names, also used as hash keys. HashPolicy is the composite hash
// over all four canonical artefacts.
const (
	ArtefactRiskWeights  = "risk_weights"
	ArtefactLGDTables    = "lgd_tables"
	ArtefactMappings     = "mappings"
	ArtefactHedgingRules = "hedging_rules"
	HashPolicy           = "policy"
)

// Pack is one loaded policy bundle. A Pack is immutable after construction;
// resolution only ever reads from it, so one Pack may be shared by any number
// of concurrent computations.
type Pack struct {
	ID           string
	RiskWeights  Tree
	LGDTables    Tree
	Mappings     Tree
	HedgingRules Tree

	// Hashes maps artefact name to the sha256 of its canonical form,
	// plus the composite HashPolicy entry. Computed once at load time.
	Hashes map[string]string
}

// RiskWeight walks the risk-weight hierarchy down the given classification
// path and returns the weight stored there. The second return is false when
// no weight exists at that path.
func (p *Pack) RiskWeight(path []string) (decimal.Decimal, bool) {
	exposures, ok := p.RiskWeights["exposures"].(Tree)
	if !ok {
		return decimal.Decimal{}, false
	}
	return lookupDecimal(exposures, path)
}

// RiskWeightRequiresStep reports whether the exposure class maps to a subtree
// (quality-step level weights) rather than a directly stored leaf weight.
func (p *Pack) RiskWeightRequiresStep(class string) bool {
	exposures, ok := p.RiskWeights["exposures"].(Tree)
	if !ok {
		return false
	}
	_, isTree := exposures[class].(Tree)
	return isTree
}

// LGD walks the LGD table down the given path. The second return is false
// when no entry exists there; absence is a legitimate outcome, not an error.
func (p *Pack) LGD(path []string) (decimal.Decimal, bool) {
	table, ok := p.LGDTables["lgd"].(Tree)
	if !ok {
		return decimal.Decimal{}, false
	}
	return lookupDecimal(table, path)
}

// LGDClassNode returns the subtree (or leaf) stored for an exposure class in
// the LGD table, if any.
func (p *Pack) LGDClassNode(class string) (any, bool) {
	table, ok := p.LGDTables["lgd"].(Tree)
	if !ok {
		return nil, false
	}
	node, ok := table[class]
	return node, ok
}

// ProductMapping returns the exposure class and quality step configured for a
// product type in the mapping table.
func (p *Pack) ProductMapping(productType string) (class, step string, ok bool) {
	products, okT := p.Mappings["product_mappings"].(Tree)
	if !okT {
		return "", "", false
	}
	entry, okT := products[productType].(Tree)
	if !okT {
		return "", "", false
	}
	class, _ = entry["exposure"].(string)
	step, _ = entry["quality_step"].(string)
	return class, step, class != ""
}

// GradeStep returns the quality step a counterparty grade maps to.
func (p *Pack) GradeStep(grade string) (string, bool) {
	grades, ok := p.Mappings["counterparty_grades"].(Tree)
	if !ok {
		return "", false
	}
	step, ok := grades[grade].(string)
	return step, ok
}

// lookupDecimal walks nested Trees along path and returns the decimal leaf at
// the end, if the full path resolves to one.
func lookupDecimal(tree Tree, path []string) (decimal.Decimal, bool) {
	if len(path) == 0 {
		return decimal.Decimal{}, false
	}
	var node any = tree
	for _, segment := range path {
		subtree, ok := node.(Tree)
		if !ok {
			return decimal.Decimal{}, false
		}
		node, ok = subtree[segment]
		if !ok {
			return decimal.Decimal{}, false
		}
	}
	leaf, ok := node.(decimal.Decimal)
	return leaf, ok
}
