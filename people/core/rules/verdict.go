package rules

import (
	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/people/core"
)

// Verdict is the outcome of a rule. It should only be constructed with Satisfied or Violated.
type Verdict struct {
	violation *core.RuleViolation
}

// Satisfied creates a Verdict for a rule that holds.
func Satisfied() Verdict {
	return Verdict{}
}

// Violated creates a Verdict for a rule that does not hold.
func Violated(rule string, reason string) Verdict {
	return Verdict{violation: core.Violation(rule, reason)}
}

func (v Verdict) IsSatisfied() bool {
	return v.violation == nil
}

// Violation returns the violated rule, nil if the rule holds.
func (v Verdict) Violation() *core.RuleViolation {
	return v.violation
}

// Err returns the violation as an error, or nil if the rule holds.
func (v Verdict) Err() error {
	if v.violation == nil {
		return nil
	}

	return v.violation
}

// FirstViolation returns the error of the first violated verdict, or nil if all hold.
func FirstViolation(verdicts ...Verdict) error {
	for _, verdict := range verdicts {
		if err := verdict.Err(); err != nil {
			return err
		}
	}

	return nil
}
