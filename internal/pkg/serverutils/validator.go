package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and flattens failures into one
// readable message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", fieldErr.Field()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fieldErr.Field()))
		}
	}

	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
