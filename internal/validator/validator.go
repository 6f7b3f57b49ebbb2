package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/nkwats-ai/checkpoint-service/internal/errors"
	"github.com/nkwats-ai/checkpoint-service/internal/models"
)

// Validator wraps struct-tag validation with the platform's custom rules
// registered.
type Validator struct {
	structValidator *validator.Validate
}

// New creates a new validator instance
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags, returning the raw validator error.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if converted := apperrors.ToValidationErrors(err); len(converted) > 0 {
			return converted
		}
		return err
	}
	return nil
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("platform_role", validatePlatformRole)
	validate.RegisterValidation("progress_status", validateProgressStatus)
	validate.RegisterValidation("answer_format", validateAnswerFormat)

	// Report json field names in validation errors.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validatePlatformRole(fl validator.FieldLevel) bool {
	validRoles := []models.Role{
		models.RoleLearner,
		models.RoleTutor,
		models.RoleSystem,
		models.RoleBenefitsAdmin,
		models.RolePlatformAdmin,
	}

	value := fl.Field().String()
	for _, validRole := range validRoles {
		if string(validRole) == value {
			return true
		}
	}
	return false
}

func validateProgressStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.ProgressStatus{
		models.ProgressNotStarted,
		models.ProgressInProgress,
		models.ProgressReady,
		models.ProgressBenefitClaimed,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

func validateAnswerFormat(fl validator.FieldLevel) bool {
	validFormats := []models.AnswerFormat{
		models.AnswerBoolean,
		models.AnswerMultipleChoice,
	}

	value := fl.Field().String()
	for _, validFormat := range validFormats {
		if string(validFormat) == value {
			return true
		}
	}
	return false
}
