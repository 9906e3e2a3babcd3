package condition

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Validate.
var (
	ErrInvalidOperator  = errors.New("invalid operator")
	ErrInvalidCondition = errors.New("invalid condition")
)

// Validate performs strict validation of a single condition.
// It is a pure function: it never mutates c and has no side effects.
//
// Note that the evaluation engine itself fails closed on malformed
// conditions; Validate exists so the authoring surface (API, CLI) can
// reject them with a useful message instead of silently never matching.
func Validate(c Condition) error {
	if c.Identifier == "" {
		return fmt.Errorf("%w: identifier must not be empty", ErrInvalidCondition)
	}

	if !c.Operator.Known() {
		return fmt.Errorf("%w: operator %q is not supported", ErrInvalidOperator, c.Operator)
	}

	if len(c.Values) == 0 {
		return fmt.Errorf("%w: condition %q has no values", ErrInvalidCondition, c.Identifier)
	}

	for i, v := range c.Values {
		if v == "" {
			return fmt.Errorf("%w: condition %q value[%d] is empty", ErrInvalidCondition, c.Identifier, i)
		}
	}

	return nil
}

// ValidateAll validates every condition of a rule, reporting the first failure.
func ValidateAll(conditions []Condition) error {
	for i, c := range conditions {
		if err := Validate(c); err != nil {
			return fmt.Errorf("condition[%d]: %w", i, err)
		}
	}
	return nil
}
