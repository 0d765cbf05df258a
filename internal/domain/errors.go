package domain

import (
	"errors"
	"fmt"
)

// Error kinds for rule-engine failures. Callers classify with errors.Is.
var (
	// ErrValidation marks a malformed request, rejected before any state is read.
	ErrValidation = errors.New("validation error")
	// ErrIllegalMove marks a well-formed request that violates a game rule.
	ErrIllegalMove = errors.New("illegal move")
	// ErrNotFound marks a reference to a game, player, building or partner
	// that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a lost optimistic write or an exhausted shared pool.
	ErrConflict = errors.New("conflict")
)

// RuleError couples an error kind with a user-facing reason.
type RuleError struct {
	Kind   error
	Reason string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

// Validationf builds a request-shape error.
func Validationf(format string, args ...interface{}) error {
	return &RuleError{Kind: ErrValidation, Reason: fmt.Sprintf(format, args...)}
}

// IllegalMovef builds a rule-violation error with a displayable reason.
func IllegalMovef(format string, args ...interface{}) error {
	return &RuleError{Kind: ErrIllegalMove, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a missing-reference error.
func NotFoundf(format string, args ...interface{}) error {
	return &RuleError{Kind: ErrNotFound, Reason: fmt.Sprintf(format, args...)}
}

// Conflictf builds a lost-race or exhausted-pool error.
func Conflictf(format string, args ...interface{}) error {
	return &RuleError{Kind: ErrConflict, Reason: fmt.Sprintf(format, args...)}
}

// Reason extracts the user-facing reason from a rule error, or the plain
// error text for anything else.
func Reason(err error) string {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
