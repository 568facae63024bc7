package scenario

import (
	"fmt"

	"go.uber.org/zap"
)

// AssertionMode selects what an unmet expectation does.
type AssertionMode int

const (
	// AssertionStrict stops the scenario on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps going.
	AssertionLogOnly
)

// Assertions applies the assertion mode and counts failures.
type Assertions struct {
	Mode     AssertionMode
	Logger   *zap.Logger
	failures int
}

// Failf reports an unmet expectation. It returns an error in strict mode.
func (a *Assertions) Failf(format string, args ...any) error {
	a.failures++
	err := fmt.Errorf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Warn("expectation failed", zap.Error(err))
		}
		return nil
	}
	return err
}

// Failures returns the number of unmet expectations so far.
func (a *Assertions) Failures() int { return a.failures }
