package errors

import (
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("wallet", "is required", "")

	if err.Field != "wallet" {
		t.Errorf("Expected field to be 'wallet', got '%s'", err.Field)
	}

	if err.Message != "is required" {
		t.Errorf("Expected message to be 'is required', got '%s'", err.Message)
	}

	expected := "validation error on field 'wallet': is required"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("course_id", "is required", nil))
	expected := "validation failed: course_id is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("title", "must be at least 1", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("role", "must be a valid role (LEARNER, TUTOR, SYSTEM, BENEFITS_ADMIN, PLATFORM_ADMIN)", "platform_role", "INVALID")

	if err.Rule != "platform_role" {
		t.Errorf("Expected rule to be 'platform_role', got '%s'", err.Rule)
	}

	if err.Field != "role" {
		t.Errorf("Expected field to be 'role', got '%s'", err.Field)
	}
}
