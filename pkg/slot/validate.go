package slot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxNameLength bounds slot names; they end up in file names.
const MaxNameLength = 64

// InvalidNameError is returned for names that cannot be used as a storage key.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid slot name %q: %s", e.Name, e.Reason)
}

// ValidationError lists the fields of a Config that failed validation.
type ValidationError struct {
	Name   string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("invalid slot %q: %s", e.Name, strings.Join(parts, "; "))
}

// ValidateName checks that name is usable as a key on disk.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "empty"}
	case name == "." || name == "..":
		return &InvalidNameError{Name: name, Reason: "relative path segment"}
	case strings.HasPrefix(name, "."):
		return &InvalidNameError{Name: name, Reason: "hidden name"}
	case strings.ContainsAny(name, "/\\\x00"):
		return &InvalidNameError{Name: name, Reason: "contains a path separator"}
	case len(name) > MaxNameLength:
		return &InvalidNameError{Name: name, Reason: fmt.Sprintf("longer than %d characters", MaxNameLength)}
	}
	return nil
}

var (
	validateOnce sync.Once
	validate     *validator.Validate //nolint:gochecknoglobals // shared compiled struct cache
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("slotname", func(fl validator.FieldLevel) bool {
			return ValidateName(fl.Field().String()) == nil
		})
		validate = v
	})
	return validate
}

// Validate checks every field of c. Name problems are reported as
// *InvalidNameError, everything else as *ValidationError.
func (c Config) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}

	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate slot %q: %w", c.Name, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "gte":
			fields[field] = "must be at least " + fe.Param()
		case "oneof":
			fields[field] = "must be one of " + strings.ReplaceAll(fe.Param(), " ", "|")
		case "required":
			fields[field] = "is required"
		default:
			fields[field] = "is invalid"
		}
	}
	return &ValidationError{Name: c.Name, Fields: fields}
}

// toSnake turns a Go field name into the registry's key style.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
