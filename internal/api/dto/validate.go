package dto

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

var validate = validator.New()

// Validate checks struct tags on a request payload and converts failures into
// the shared error taxonomy.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		fields, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		details := make(map[string]any, len(fields))
		for _, f := range fields {
			details[f.Field()] = f.Tag()
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}
