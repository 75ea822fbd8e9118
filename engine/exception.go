package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInstantiation is reported when an unbound variable is found where a value is required.
	ErrInstantiation = errors.New("instantiation error")

	// ErrNotNumeric is reported when a non-numeric term is found where a number is required.
	ErrNotNumeric = errors.New("not a number")

	// ErrUnknownOperator is reported for an arithmetic operator that has no evaluation rule.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrOutOfRange is reported when a number doesn't fit where an integer is required.
	ErrOutOfRange = errors.New("out of range")
)

// EvaluationError is an error raised while reducing an arithmetic term.
type EvaluationError struct {
	Term Term
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation of %s failed: %v", e.Term, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func evaluationError(t Term, err error) error {
	var ee *EvaluationError
	if errors.As(err, &ee) {
		return err
	}
	return &EvaluationError{Term: t, Err: err}
}
