package services

import (
	"errors"
	"fmt"

	apperrors "github.com/lingualearn/learning-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Test specific errors
	ErrTestNotFound          = errors.New("test not found")
	ErrPlacementTestNotFound = errors.New("placement test not found")
	ErrInvalidSubmission     = errors.New("submission does not match the test structure")

	// Lesson specific errors
	ErrLessonNotFound = errors.New("lesson not found")

	// Question specific errors
	ErrQuestionNotFound       = errors.New("question not found")
	ErrQuestionInvalidType    = errors.New("invalid question type")
	ErrQuestionInvalidContent = errors.New("invalid question content for type")

	// Progress specific errors
	ErrProgressNotFound = errors.New("learner progress not found")
	ErrProgressConflict = errors.New("learner progress was modified concurrently")

	// Import specific errors
	ErrImportJobNotFound    = errors.New("import job not found")
	ErrImportFileUnreadable = errors.New("import file could not be read")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// PersistenceError wraps a storage failure with the operation that caused it
type PersistenceError struct {
	Op  string `json:"op"`
	Err error  `json:"-"`
}

func (pe *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", pe.Op, pe.Err)
}

func (pe *PersistenceError) Unwrap() error {
	return pe.Err
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrPlacementTestNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrProgressNotFound) ||
		errors.Is(err, ErrImportJobNotFound)
}

// IsInvalidSubmission checks if error represents a malformed or mismatched submission
func IsInvalidSubmission(err error) bool {
	return errors.Is(err, ErrInvalidSubmission)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsPersistence checks if error represents a storage failure
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
