package domain

import (
	"errors"
	"fmt"
)

type ValidationCode string

const (
	CodeMissingStepDefinition      ValidationCode = "MISSING_STEP_DEFINITION"
	CodeInvalidCharacteristicLevel ValidationCode = "INVALID_CHARACTERISTIC_LEVEL"
	CodeCyclicDependency           ValidationCode = "CYCLIC_DEPENDENCY_DETECTED"
	CodeEmptyActiveSteps           ValidationCode = "EMPTY_ACTIVE_STEPS"
	CodeInvalidDuration            ValidationCode = "INVALID_DURATION"
	CodeInconsistentHistory        ValidationCode = "INCONSISTENT_HISTORY"
)

var (
	// ErrMissingStepDefinition indicates a step referenced by history or the
	// dependency graph has no entry in the duration table.
	ErrMissingStepDefinition = errors.New("missing step definition")

	// ErrInvalidCharacteristicLevel indicates a characteristic level outside the factor table.
	ErrInvalidCharacteristicLevel = errors.New("invalid characteristic level")

	// ErrCyclicDependency indicates the step graph is not acyclic.
	ErrCyclicDependency = errors.New("cyclic dependency detected")

	// ErrEmptyActiveSteps indicates a computation needs at least one active step.
	ErrEmptyActiveSteps = errors.New("no active steps")

	// ErrInvalidDuration indicates a non-positive duration or a negative elapsed time.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInconsistentHistory indicates a completed step whose dependencies are not all completed.
	ErrInconsistentHistory = errors.New("inconsistent step history")
)

var sentinels = map[ValidationCode]error{
	CodeMissingStepDefinition:      ErrMissingStepDefinition,
	CodeInvalidCharacteristicLevel: ErrInvalidCharacteristicLevel,
	CodeCyclicDependency:           ErrCyclicDependency,
	CodeEmptyActiveSteps:           ErrEmptyActiveSteps,
	CodeInvalidDuration:            ErrInvalidDuration,
	CodeInconsistentHistory:        ErrInconsistentHistory,
}

// ValidationError is a fail-fast estimation error carrying the offending id.
// It unwraps to the sentinel for its code so callers can use errors.Is.
type ValidationError struct {
	Code    ValidationCode
	ID      string
	Message string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s [%s]: %s", e.Code, e.ID, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return sentinels[e.Code]
}

func NewValidationError(code ValidationCode, id, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, ID: id, Message: fmt.Sprintf(format, args...)}
}

// MissingStep builds the MissingStepDefinition error for id.
func MissingStep(id string) *ValidationError {
	return NewValidationError(CodeMissingStepDefinition, id, "step %q is not defined in the duration table", id)
}
