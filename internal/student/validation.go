package student

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateInput checks an input before it is written. The first missing field
// is reported as ErrMissingField; a grade outside [0,100] as ErrInvalidGrade.
// Email format is not checked, only uniqueness at write time.
func ValidateInput(in Input) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &MissingFieldError{Field: fe.Field()}
		}
	}
	// min and max are only declared on grade
	return ErrInvalidGrade
}

// MissingFieldError names the required field absent from an input.
// It matches ErrMissingField with errors.Is.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return ErrMissingField.Error() + ": " + e.Field
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
