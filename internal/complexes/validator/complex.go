package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"arenabook/pkg/logger"
	"arenabook/pkg/model"

	"github.com/go-playground/validator/v10"
)

const openingHoursLayout = "15:04"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ComplexValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewComplexValidator(log *logger.Logger) *ComplexValidator {
	return &ComplexValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *ComplexValidator) Validate(complex *model.SportComplex) error {
	if err := v.validate.Struct(complex); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateOpeningHours(complex.OpeningTime, complex.ClosingTime)
}

func (v *ComplexValidator) ValidateUpdate(update *model.SportComplexUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if update.OpeningTime != "" || update.ClosingTime != "" {
		if update.OpeningTime == "" || update.ClosingTime == "" {
			return ValidationErrors{
				ValidationError{
					Field:   "OpeningTime",
					Message: "opening_time and closing_time must be updated together",
				},
			}
		}
		return v.validateOpeningHours(update.OpeningTime, update.ClosingTime)
	}

	return nil
}

func (v *ComplexValidator) validateOpeningHours(opening, closing string) error {
	openAt, err := time.Parse(openingHoursLayout, opening)
	if err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "OpeningTime",
				Message: "opening_time must be in HH:MM format",
			},
		}
	}

	closeAt, err := time.Parse(openingHoursLayout, closing)
	if err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "ClosingTime",
				Message: "closing_time must be in HH:MM format",
			},
		}
	}

	if !closeAt.After(openAt) {
		return ValidationErrors{
			ValidationError{
				Field:   "ClosingTime",
				Message: "closing_time must be after opening_time",
			},
		}
	}

	return nil
}

func (v *ComplexValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +919876543210)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
