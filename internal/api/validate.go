package api

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	arrerrors "github.com/matzehuels/arrange/pkg/errors"
)

// validate is a singleton validator instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks the struct tags of req and returns an
// INVALID_INPUT error naming the first failing field.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		return arrerrors.Wrap(arrerrors.ErrCodeInvalidInput, err, "%s", formatValidationError(err))
	}
	return nil
}

// formatValidationError converts validator errors to a user-friendly message.
func formatValidationError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}

	e := errs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: field is required", field)
	case "max":
		return fmt.Sprintf("%s: must not exceed %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", field, e.Param())
	}
	return fmt.Sprintf("%s: validation failed (%s)", field, e.Tag())
}
