package validation

import (
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/gorx/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(configKey)
	})
	return validate
}

// inlineSegment names squashed structs in a validator namespace; fieldPath
// drops it so their fields report under the parent's key.
const inlineSegment = "~inline"

// configKey names a struct field by its mapstructure key, the same key
// viper reads it from.
func configKey(fld reflect.StructField) string {
	name, opts, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
	switch {
	case slices.Contains(strings.Split(opts, ","), "squash"):
		return inlineSegment
	case name == "" || name == "-":
		return toSnakeCase(fld.Name)
	default:
		return name
	}
}

// Validate validates a struct using struct tags such as
// `validate:"required,oneof=json console"`. Nested structs are descended
// into; field paths are dotted config keys (e.g. "logging.level").
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.InvalidConfig("validation failed").WithCause(err)
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldPath(e.Namespace()),
			Message: formatValidationError(e),
		})
	}
	return fieldsError(fieldErrors)
}

// fieldPath turns a validator namespace such as
// "Config.tracing.~inline.endpoint" into the config key "tracing.endpoint".
func fieldPath(ns string) string {
	segments := strings.Split(ns, ".")
	if len(segments) > 1 {
		segments = segments[1:]
	}
	return strings.Join(slices.DeleteFunc(segments, func(s string) bool {
		return s == inlineSegment
	}), ".")
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "min", "gte":
		return "must be at least " + e.Param()
	case "max", "lte":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a Go field name to snake_case: "MaxRetries" becomes
// "max_retries".
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
