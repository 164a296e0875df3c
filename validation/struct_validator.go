package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/transcribekit/errors"
)

var (
	validate *validator.Validate
	once     sync.Once

	// audioFormatPattern matches the subtype used in "audio/<format>".
	audioFormatPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]{0,15}$`)
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return toSnakeCase(fld.Name)
			}
			return name
		})

		_ = validate.RegisterValidation("audio_format", func(fl validator.FieldLevel) bool {
			return audioFormatPattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("key_segment", func(fl validator.FieldLevel) bool {
			return KeySegment(fl.Field().String())
		})
	})
	return validate
}

// KeySegment reports whether s can be used as one segment of a storage key:
// non-empty, without path separators and without "..".
func KeySegment(s string) bool {
	return s != "" && s != "." && !strings.ContainsAny(s, `/\`) && !strings.Contains(s, "..")
}

// Validate validates a struct using struct tags and returns an INVALID_INPUT
// AppError listing every failing field.
// Uses tags like `validate:"required,min=1,audio_format"`.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))

	for _, e := range validationErrors {
		message := formatValidationError(e)
		fieldErrors = append(fieldErrors, FieldError{
			Field:   e.Field(),
			Message: message,
		})
		messages = append(messages, e.Field()+": "+message)
	}

	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", fieldErrors)
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			if e.Param() == "1" {
				return "must not be empty"
			}
			return "must have at least " + e.Param() + " elements"
		}
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "audio_format":
		return "must be a lowercase audio subtype such as webm or wav"
	case "key_segment":
		return "must not contain path separators or '..'"
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
