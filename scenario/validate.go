package scenario

import (
	"fmt"
	"strings"
)

// Violation codes reported by Validate.
const (
	CodeNoExposures         = "NO_EXPOSURES"
	CodeNonPositiveNotional = "NON_POSITIVE_NOTIONAL"
	CodeMissingCurrency     = "MISSING_CURRENCY"
	CodeDuplicateTradeID    = "DUPLICATE_TRADE_ID"
)

// Violation describes one validation failure. TradeID is empty for
// scenario-level violations.
type Violation struct {
	Code    string `json:"code"`
	TradeID string `json:"trade_id,omitempty"`
	Msg     string `json:"msg"`
}

// ValidationError carries every violation found in one pass over a scenario.
type ValidationError struct {
	Scenario   string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Msg
	}
	return fmt.Sprintf("scenario %q invalid: %s", e.Scenario, strings.Join(msgs, "; "))
}

func (e *ValidationError) add(code, tradeID, msg string) {
	e.Violations = append(e.Violations, Violation{Code: code, TradeID: tradeID, Msg: msg})
}

// Validate checks structural well-formedness of a scenario. All rules are
// checked; every violation is reported in a single pass rather than stopping
// at the first. Returns nil or a *ValidationError.
func Validate(s Scenario) error {
	verr := &ValidationError{Scenario: s.Name}

	if len(s.Exposures) == 0 {
		verr.add(CodeNoExposures, "", fmt.Sprintf("scenario %q must contain at least one exposure", s.Name))
	}

	seen := make(map[string]bool, len(s.Exposures))
	dup := make(map[string]bool)
	for _, exp := range s.Exposures {
		if exp.Notional.Sign() <= 0 {
			verr.add(CodeNonPositiveNotional, exp.TradeID,
				fmt.Sprintf("exposure %q must have positive notional, got %s", exp.TradeID, exp.Notional))
		}
		if exp.Currency == "" {
			verr.add(CodeMissingCurrency, exp.TradeID,
				fmt.Sprintf("exposure %q requires a reporting currency", exp.TradeID))
		}
		if seen[exp.TradeID] && !dup[exp.TradeID] {
			verr.add(CodeDuplicateTradeID, exp.TradeID,
				fmt.Sprintf("duplicate trade id %q", exp.TradeID))
			dup[exp.TradeID] = true
		}
		seen[exp.TradeID] = true
	}

	if len(verr.Violations) > 0 {
		return verr
	}
	return nil
}
