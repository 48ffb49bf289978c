package validation

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/kbukum/gorx/errors"
)

// FieldError is one rule a configuration field broke. Field is the dotted
// config key, e.g. "retry.max_interval".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates field errors across a configuration tree. Sections
// share the parent's error list and prefix their keys, so nested configs
// report full keys without knowing where they are mounted.
type Validator struct {
	prefix string
	errs   *[]FieldError
}

// New creates an empty root Validator.
func New() *Validator {
	return &Validator{errs: new([]FieldError)}
}

// Section returns a Validator recording into v under the key name.
func (v *Validator) Section(name string) *Validator {
	return &Validator{prefix: v.key(name), errs: v.errs}
}

func (v *Validator) key(field string) string {
	if v.prefix == "" {
		return field
	}
	return v.prefix + "." + field
}

// AddError records message against field.
func (v *Validator) AddError(field, message string) {
	*v.errs = append(*v.errs, FieldError{Field: v.key(field), Message: message})
}

// HasErrors reports whether any rule failed, in any section.
func (v *Validator) HasErrors() bool {
	return len(*v.errs) > 0
}

// Errors returns a copy of the recorded field errors.
func (v *Validator) Errors() []FieldError {
	return slices.Clone(*v.errs)
}

// Err returns an INVALID_CONFIG error listing every recorded field error,
// or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.Errors())
}

// Required fails when value is blank.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf fails when value is set and not among allowed. An empty value is
// left to Required.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value != "" && !slices.Contains(allowed, value) {
		v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return v
}

// Check fails with message when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// NotBelow fails on highField when high < low, for pairs such as a maximum
// and an initial interval.
func NotBelow[N cmp.Ordered](v *Validator, highField string, high N, lowField string, low N) *Validator {
	if high < low {
		v.AddError(highField, fmt.Sprintf("must not be below %s (%v < %v)", v.key(lowField), high, low))
	}
	return v
}

func fieldsError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = e.Field + ": " + e.Message
	}
	return errors.InvalidConfig(strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}
