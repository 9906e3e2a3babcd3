package condition

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Kind discriminates the coerced type of a candidate list.
type Kind int

const (
	KindNumeric Kind = iota
	KindString
)

// ComparisonValue holds the coerced candidate values of one condition,
// with an explicit kind and an explicit scalar-vs-set cardinality. The
// coercion decision is made exactly once, at handler entry, so the
// ordering-operator code paths never silently receive a multi-element set.
type ComparisonValue struct {
	Kind   Kind
	Scalar bool
	Nums   []float64
	Strs   []string
}

// CoerceNumeric converts raw condition values into a numeric ComparisonValue.
// Ordering operators reduce the list to its first element; this mirrors the
// documented rule-language behaviour and is not changed here.
func CoerceNumeric(values []string, op Operator) (ComparisonValue, error) {
	if len(values) == 0 {
		return ComparisonValue{}, fmt.Errorf("numeric coercion: empty value list")
	}

	raw := values
	if op.Ordering() {
		raw = values[:1]
	}

	nums := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return ComparisonValue{}, fmt.Errorf("numeric coercion: value %q: %w", v, err)
		}
		nums = append(nums, f)
	}

	return ComparisonValue{Kind: KindNumeric, Scalar: op.Ordering(), Nums: nums}, nil
}

// CoerceString converts raw condition values into a string ComparisonValue.
// String coercion cannot fail; ordering operators reduce to the first value.
func CoerceString(values []string, op Operator) ComparisonValue {
	raw := values
	if op.Ordering() && len(values) > 1 {
		raw = values[:1]
	}

	strs := make([]string, len(raw))
	for i, v := range raw {
		strs[i] = strings.TrimSpace(v)
	}

	return ComparisonValue{Kind: KindString, Scalar: op.Ordering(), Strs: strs}
}

// MatchNumeric compares a numeric subject against the coerced candidates.
func (v ComparisonValue) MatchNumeric(subject float64, op Operator) bool {
	if v.Kind != KindNumeric {
		return false
	}
	return CompareNumeric(subject, v.Nums, op)
}

// MatchString compares a string subject against the coerced candidates.
func (v ComparisonValue) MatchString(subject string, op Operator) bool {
	if v.Kind != KindString {
		return false
	}
	return CompareString(subject, v.Strs, op)
}
