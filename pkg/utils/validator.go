package utils

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/claimctl/pkg/errors"
)

// MaxUIDLength is the longest uid the identity platform accepts.
const MaxUIDLength = 128

// Validator holds the singleton instance of the validator.
var defaultValidator *validator.Validate

func init() {
	defaultValidator = validator.New()
	// Report fields by their config key rather than the Go field name
	defaultValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
}

// ValidateStruct validates a struct using the default validator.
// It returns a config_invalid error naming every failing key.
func ValidateStruct(s interface{}) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.ConfigInvalid("invalid configuration").WithCause(err)
	}

	details := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details = append(details, fmt.Sprintf("%s %s", configKey(fe.Namespace()), formatValidationError(fe)))
	}
	sort.Strings(details)
	return errors.ConfigInvalid("invalid configuration: " + strings.Join(details, "; "))
}

// ValidateUID checks uid against the platform's identifier rules.
func ValidateUID(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return errors.MissingArgument("uid")
	}
	if err := defaultValidator.Var(uid, fmt.Sprintf("max=%d", MaxUIDLength)); err != nil {
		return errors.InvalidArgument(fmt.Sprintf("uid must be at most %d characters", MaxUIDLength)).
			WithMetadata("uid_length", len(uid))
	}
	return nil
}

// configKey drops the root struct name: "Config.log.format" becomes "log.format".
func configKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
