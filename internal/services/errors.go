package services

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/nkwats-ai/checkpoint-service/internal/errors"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Auth errors
	ErrAuthenticationRequired = errors.New("authentication required - please sign in")

	// Routing errors
	ErrUnknownOperation = errors.New("unknown operation")

	// Course errors
	ErrCourseNotFound = errors.New("course not found")
	ErrModuleNotFound = errors.New("module not found in course")

	// Quiz and attempt errors
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrAttemptNotFound = errors.New("attempt not found")

	// Progress errors
	ErrProgressNotFound = errors.New("progress record not found")

	// Benefit errors
	ErrNotEligible            = errors.New("benefit eligibility check failed - checkpoint not passed")
	ErrBenefitAlreadyClaimed  = errors.New("benefit already claimed for this wallet")
	ErrBenefitClaimNotAllowed = errors.New("benefit claim not allowed")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// AuthorizationError carries the role set an operation requires so the
// response can enumerate what the caller is missing.
type AuthorizationError struct {
	Operation string        `json:"operation"`
	Required  []models.Role `json:"required_roles"`
}

func (e *AuthorizationError) Error() string {
	names := make([]string, len(e.Required))
	for i, role := range e.Required {
		names[i] = string(role)
	}
	return fmt.Sprintf("operation %s requires one of roles: %s", e.Operation, strings.Join(names, ", "))
}

func NewAuthorizationError(operation string, required []models.Role) *AuthorizationError {
	return &AuthorizationError{
		Operation: operation,
		Required:  required,
	}
}

// StoreError wraps a persistence failure with the failing operation's context.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{Operation: operation, Err: err}
}

// ===== ERROR CLASSIFIERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrAttemptNotFound) ||
		errors.Is(err, ErrProgressNotFound)
}

// IsAuthenticationRequired checks if error means the caller must sign in
func IsAuthenticationRequired(err error) bool {
	return errors.Is(err, ErrAuthenticationRequired)
}

// IsAuthorizationDenied checks if error represents a missing-role condition
func IsAuthorizationDenied(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsEligibilityFailed checks if error represents a failed benefit gate
func IsEligibilityFailed(err error) bool {
	return errors.Is(err, ErrNotEligible) ||
		errors.Is(err, ErrBenefitAlreadyClaimed) ||
		errors.Is(err, ErrBenefitClaimNotAllowed)
}

// IsRoutingError checks if error represents an unknown operation name
func IsRoutingError(err error) bool {
	return errors.Is(err, ErrUnknownOperation)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsStoreFailure checks if error wraps a persistence failure
func IsStoreFailure(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
