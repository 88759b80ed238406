package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	return &Validation{validator: validator.New()}
}

// ValidationError wraps the validator's FieldError
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ErrInvalidReading.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidReading, v[0].Error())
}

func (v ValidationErrors) Unwrap() error {
	return ErrInvalidReading
}

// Validate checks a Reading. Missing and non-numeric fields are nil after
// extraction, so both fail the required tag.
func (v *Validation) Validate(r Reading) ValidationErrors {
	var errs ValidationErrors

	err := v.validator.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "payload", Message: err.Error()}}
	}

	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' tag", fe.Tag()),
		})
	}
	return errs
}
