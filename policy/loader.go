package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// artefactFiles maps artefact names to their file names inside a bundle
// directory. Every bundle must contain all four.
var artefactFiles = map[string]string{
	ArtefactRiskWeights:  "risk_weights.yaml",
	ArtefactLGDTables:    "lgd_tables.yaml",
	ArtefactMappings:     "mappings.yaml",
	ArtefactHedgingRules: "hedging_rules.yaml",
}

// Loader reads policy bundles from a base directory, one subdirectory per
// policy identifier. Loading is side-effect-free: it only reads files and
// returns a Pack.
type Loader struct {
	base string
	log  zerolog.Logger
}

// NewLoader returns a loader rooted at base.
func NewLoader(base string, log zerolog.Logger) *Loader {
	return &Loader{
		base: base,
		log:  log.With().Str("component", "policy_loader").Logger(),
	}
}

// Policies returns the sorted list of policy identifiers that have a bundle
// directory under the loader's base path.
func (l *Loader) Policies() ([]string, error) {
	entries, err := os.ReadDir(l.base)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.Warn().Str("base", l.base).Msg("policy base path does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("read policy base %s: %w", l.base, err)
	}
	var policies []string
	for _, entry := range entries {
		if entry.IsDir() && entry.Name()[0] != '.' {
			policies = append(policies, entry.Name())
		}
	}
	sort.Strings(policies)
	return policies, nil
}

// Load reads and validates the four artefacts of one policy bundle and
// returns an immutable Pack with one content hash per artefact plus a
// composite hash. Load is idempotent: the same bundle bytes always produce
// the same Pack and the same hashes.
func (l *Loader) Load(policyID string) (*Pack, error) {
	dir := filepath.Join(l.base, policyID)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("policy %q under %s: %w", policyID, l.base, ErrPolicyNotFound)
	}

	trees := make(map[string]Tree, len(artefactFiles))
	hashes := make(map[string]string, len(artefactFiles)+1)
	for _, name := range artefactNames() {
		path := filepath.Join(dir, artefactFiles[name])
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &SchemaError{Policy: policyID, Artefact: name,
				Reason: fmt.Sprintf("missing required dataset file %s", artefactFiles[name])}
		}
		tree, err := parseTree(data)
		if err != nil {
			return nil, &SchemaError{Policy: policyID, Artefact: name, Reason: err.Error()}
		}
		if err := validateArtefact(name, tree); err != nil {
			return nil, &SchemaError{Policy: policyID, Artefact: name, Reason: err.Error()}
		}
		trees[name] = tree
		hashes[name] = hashTree(tree)
		l.log.Debug().Str("policy", policyID).Str("artefact", name).
			Str("hash", hashes[name]).Msg("loaded policy artefact")
	}

	composite := make(Tree, len(trees))
	for name, tree := range trees {
		composite[name] = tree
	}
	hashes[HashPolicy] = hashTree(composite)
	l.log.Info().Str("policy", policyID).Str("hash", hashes[HashPolicy]).
		Msg("policy bundle loaded")

	return &Pack{
		ID:           policyID,
		RiskWeights:  trees[ArtefactRiskWeights],
		LGDTables:    trees[ArtefactLGDTables],
		Mappings:     trees[ArtefactMappings],
		HedgingRules: trees[ArtefactHedgingRules],
		Hashes:       hashes,
	}, nil
}

func artefactNames() []string {
	names := make([]string, 0, len(artefactFiles))
	for name := range artefactFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateArtefact(name string, tree Tree) error {
	if err := requireVersion(tree); err != nil {
		return err
	}
	switch name {
	case ArtefactRiskWeights:
		return validateRiskWeights(tree)
	case ArtefactLGDTables:
		return validateLGDTables(tree)
	case ArtefactMappings:
		return validateMappings(tree)
	case ArtefactHedgingRules:
		return validateHedgingRules(tree)
	}
	return nil
}

func requireVersion(tree Tree) error {
	version, ok := tree["version"].(string)
	if !ok || version == "" {
		return fmt.Errorf("requires a non-empty 'version' field")
	}
	return nil
}

func validateRiskWeights(tree Tree) error {
	exposures, ok := tree["exposures"].(Tree)
	if !ok {
		return fmt.Errorf("must define an 'exposures' mapping")
	}
	return requireNumericLeaves("exposures", exposures)
}

func validateLGDTables(tree Tree) error {
	table, ok := tree["lgd"].(Tree)
	if !ok {
		return fmt.Errorf("must define an 'lgd' mapping")
	}
	return requireNumericLeaves("lgd", table)
}

func validateMappings(tree Tree) error {
	products, ok := tree["product_mappings"].(Tree)
	if !ok {
		return fmt.Errorf("must define a 'product_mappings' mapping")
	}
	for product, raw := range products {
		entry, ok := raw.(Tree)
		if !ok {
			return fmt.Errorf("product_mappings.%s must be a mapping", product)
		}
		if class, ok := entry["exposure"].(string); !ok || class == "" {
			return fmt.Errorf("product_mappings.%s requires a non-empty 'exposure' string", product)
		}
		if step, ok := entry["quality_step"].(string); !ok || step == "" {
			return fmt.Errorf("product_mappings.%s requires a non-empty 'quality_step' string", product)
		}
	}
	grades, ok := tree["counterparty_grades"].(Tree)
	if !ok || len(grades) == 0 {
		return fmt.Errorf("must define a non-empty 'counterparty_grades' mapping")
	}
	for grade, target := range grades {
		if _, ok := target.(string); !ok {
			return fmt.Errorf("counterparty_grades.%s must map to a quality step string", grade)
		}
	}
	return nil
}

func validateHedgingRules(tree Tree) error {
	hedges, ok := tree["hedges"].(Tree)
	if !ok {
		return fmt.Errorf("must define a 'hedges' mapping")
	}
	for riskClass, rawBuckets := range hedges {
		buckets, ok := rawBuckets.(Tree)
		if !ok {
			return fmt.Errorf("hedges.%s buckets must be mappings", riskClass)
		}
		for bucket, rawRules := range buckets {
			rules, ok := rawRules.(Tree)
			if !ok {
				return fmt.Errorf("hedges.%s.%s must be a mapping", riskClass, bucket)
			}
			instruments, ok := rules["eligible_instruments"].([]any)
			if !ok || len(instruments) == 0 {
				return fmt.Errorf("hedges.%s.%s requires a non-empty eligible_instruments list", riskClass, bucket)
			}
			for _, item := range instruments {
				if _, ok := item.(string); !ok {
					return fmt.Errorf("hedges.%s.%s instruments must be strings", riskClass, bucket)
				}
			}
			for key, value := range rules {
				if key == "eligible_instruments" {
					continue
				}
				if !isNumeric(value) {
					return fmt.Errorf("hedges.%s.%s.%s must be numeric", riskClass, bucket, key)
				}
			}
		}
	}
	return nil
}

func requireNumericLeaves(path string, tree Tree) error {
	for key, value := range tree {
		current := path + "." + key
		switch v := value.(type) {
		case Tree:
			if err := requireNumericLeaves(current, v); err != nil {
				return err
			}
		default:
			if !isNumeric(value) {
				return fmt.Errorf("%s must resolve to a numeric value or mapping", current)
			}
		}
	}
	return nil
}

func isNumeric(value any) bool {
	_, ok := value.(decimal.Decimal)
	return ok
}
