package memory

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Operator is a comparison applied to one custom metadata field.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNe       Operator = "ne"
	OpContains Operator = "contains"
)

var ErrInvalidFilter = goerr.New("invalid metadata filter")

// Filter is one predicate over a custom metadata field. Filters are
// combined with AND semantics. They address the caller's own metadata
// mapping, not the storage envelope.
type Filter struct {
	Field string   `json:"field"`
	Op    Operator `json:"op"`
	Value any      `json:"value"`
}

// Validate checks the filter shape before a query runs.
func (f Filter) Validate() error {
	if f.Field == "" {
		return goerr.Wrap(ErrInvalidFilter, "field is required")
	}
	switch f.Op {
	case OpEq, OpNe, OpContains:
		return nil
	default:
		return goerr.Wrap(ErrInvalidFilter, "unknown operator", goerr.V("op", f.Op))
	}
}

// Match reports whether the metadata mapping satisfies the filter.
// Missing fields match only ne.
func (f Filter) Match(metadata map[string]any) bool {
	value, ok := metadata[f.Field]
	switch f.Op {
	case OpEq:
		return ok && looseEqual(value, f.Value)
	case OpNe:
		return !ok || !looseEqual(value, f.Value)
	case OpContains:
		if !ok {
			return false
		}
		return containsValue(value, f.Value)
	}
	return false
}

// EqualFilters converts a flat field->value mapping into eq filters, the
// form the tool facade accepts.
func EqualFilters(fields map[string]any) []Filter {
	if len(fields) == 0 {
		return nil
	}
	filters := make([]Filter, 0, len(fields))
	for field, value := range fields {
		filters = append(filters, Filter{Field: field, Op: OpEq, Value: value})
	}
	return filters
}

func matchAll(filters []Filter, metadata map[string]any) bool {
	for _, f := range filters {
		if !f.Match(metadata) {
			return false
		}
	}
	return true
}

func validateFilters(filters []Filter) error {
	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// looseEqual compares values after JSON round-tripping, where all numbers
// are float64. Non-comparable shapes fall back to string rendering.
func looseEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return as == bs
		}
		return false
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			return ab == bb
		}
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// containsValue handles the two shapes metadata values take in practice:
// strings (substring match) and JSON arrays (membership).
func containsValue(haystack, needle any) bool {
	switch v := haystack.(type) {
	case string:
		if s, ok := needle.(string); ok {
			return strings.Contains(v, s)
		}
		return false
	case []any:
		for _, item := range v {
			if looseEqual(item, needle) {
				return true
			}
		}
		return false
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
