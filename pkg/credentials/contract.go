// Package credentials provides credential contracts and their registry.
package credentials

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dukex/flowmender/pkg/models"
)

var (
	// ErrMissingField indicates a required credential field is absent or blank.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidFormat indicates a credential field does not have the expected format.
	ErrInvalidFormat = errors.New("invalid field format")
)

// FieldError wraps a credential failure with the offending field.
type FieldError struct {
	CredentialType string
	Field          string
	Detail         string
	Err            error
}

func (e *FieldError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("credential %s: %v %q: %s", e.CredentialType, e.Err, e.Field, e.Detail)
	}

	return fmt.Sprintf("credential %s: %v %q", e.CredentialType, e.Err, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// Contract declares the shape of valid configuration for a named credential type.
type Contract struct {
	RequiredFields []string
	// Prefixes lists accepted value prefixes per field; a field passes when it has any of them.
	Prefixes map[string][]string
	// Patterns lists a regular expression per field that its value must match.
	Patterns map[string]*regexp.Regexp
	// Check is an optional extra predicate run after the declarative ones.
	Check func(fields map[string]any) error
}

// Validate checks required fields, then format predicates. Only the first failure is returned.
func (c Contract) Validate(credentialType string, fields map[string]any) error {
	for _, field := range c.RequiredFields {
		if value, ok := fields[field]; !ok || models.IsBlank(value) {
			return &FieldError{CredentialType: credentialType, Field: field, Err: ErrMissingField}
		}
	}

	for _, field := range models.SortedKeys(c.Prefixes) {
		value, ok := stringField(fields, field)
		if !ok || models.IsExpression(value) {
			continue
		}

		if !hasAnyPrefix(value, c.Prefixes[field]) {
			return &FieldError{
				CredentialType: credentialType,
				Field:          field,
				Detail:         "expected prefix " + strings.Join(c.Prefixes[field], " or "),
				Err:            ErrInvalidFormat,
			}
		}
	}

	for _, field := range models.SortedKeys(c.Patterns) {
		value, ok := stringField(fields, field)
		if !ok || models.IsExpression(value) {
			continue
		}

		if !c.Patterns[field].MatchString(value) {
			return &FieldError{
				CredentialType: credentialType,
				Field:          field,
				Detail:         "does not match " + c.Patterns[field].String(),
				Err:            ErrInvalidFormat,
			}
		}
	}

	if c.Check != nil {
		return c.Check(fields)
	}

	return nil
}

func stringField(fields map[string]any, field string) (string, bool) {
	value, ok := fields[field].(string)
	if !ok || value == "" {
		return "", false
	}

	return value, true
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}

	return false
}
