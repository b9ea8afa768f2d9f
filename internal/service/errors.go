package service

import (
	"fmt"
	"slices"
	"sort"
)

// fieldOrder is the order fields are reported in, matching the request payload.
var fieldOrder = []string{"name", "description", "price", "quantity"}

// ValidationError carries per-field messages for input that violates product rules.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a ValidationError from field messages.
func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Message summarizes the error as the first message followed by a count of the remaining ones.
func (e *ValidationError) Message() string {
	total := 0
	for _, messages := range e.Fields {
		total += len(messages)
	}
	if total == 0 {
		return "The given data was invalid."
	}

	var first string
	for _, key := range e.orderedFields() {
		if len(e.Fields[key]) > 0 {
			first = e.Fields[key][0]
			break
		}
	}

	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func (e *ValidationError) orderedFields() []string {
	var extra []string
	for key := range e.Fields {
		if !slices.Contains(fieldOrder, key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(slices.Clone(fieldOrder), extra...)
}
