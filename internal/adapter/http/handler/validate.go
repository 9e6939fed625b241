package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkValid runs struct-tag validation and flattens the result into a
// field->message map suitable for failedValidationResponse.
func checkValid(dst any) map[string]string {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "must be provided"
		case "email":
			out[field] = "must be a valid email address"
		case "min":
			out[field] = "must be at least " + fe.Param() + " characters long"
		case "max":
			out[field] = "must not be more than " + fe.Param() + " characters long"
		case "latitude":
			out[field] = "must be between -90 and 90"
		case "longitude":
			out[field] = "must be between -180 and 180"
		case "oneof":
			out[field] = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "uuid":
			out[field] = "must be a valid UUID"
		case "e164":
			out[field] = "must be a valid phone number"
		case "gt":
			out[field] = "must be greater than " + fe.Param()
		default:
			out[field] = "is invalid"
		}
	}
	return out
}
