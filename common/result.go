package common

import "fmt"

// CheckResult represents the outcome of a single validation or comparison check
type CheckResult struct {
	Name    string
	Passed  bool
	Skipped bool
	Message string
}

// NewPassed creates a result for a check that held
func NewPassed(name, message string) *CheckResult {
	return &CheckResult{
		Name:    name,
		Passed:  true,
		Message: message,
	}
}

// NewFailed creates a result for a check that did not hold
func NewFailed(name, message string) *CheckResult {
	return &CheckResult{
		Name:    name,
		Passed:  false,
		Message: message,
	}
}

// NewSkipped creates a result for a check that could not be evaluated
func NewSkipped(name, reason string) *CheckResult {
	return &CheckResult{
		Name:    name,
		Skipped: true,
		Message: reason,
	}
}

// Failed reports whether any result in rs is a failure. Skipped checks never fail.
func Failed(rs []*CheckResult) bool {
	for _, r := range rs {
		if r != nil && !r.Skipped && !r.Passed {
			return true
		}
	}
	return false
}

// String returns a human-readable representation
func (r *CheckResult) String() string {
	switch {
	case r.Skipped:
		return fmt.Sprintf("SKIPPED %s (%s)", r.Name, r.Message)
	case r.Passed:
		return fmt.Sprintf("PASSED  %s (%s)", r.Name, r.Message)
	default:
		return fmt.Sprintf("FAILED  %s (%s)", r.Name, r.Message)
	}
}
