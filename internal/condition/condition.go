package condition

// Operator represents a comparison operator used in rule conditions.
type Operator string

// Supported condition operators (string values as written in rule text).
const (
	OpEq  Operator = "="
	OpNeq Operator = "!="
	OpGt  Operator = ">"
	OpLt  Operator = "<"
	OpGte Operator = ">="
	OpLte Operator = "<="
)

// Known reports whether op is one of the six recognised symbols.
// Anything else fails closed: a condition carrying an unknown operator
// never matches.
func (op Operator) Known() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte:
		return true
	}
	return false
}

// Equality reports whether op is `=` or `!=`. Equality operators use
// set-membership semantics against the full candidate list.
func (op Operator) Equality() bool {
	return op == OpEq || op == OpNeq
}

// Ordering reports whether op is one of `>`, `<`, `>=`, `<=`. Ordering
// operators compare against a single scalar; multi-value candidate lists
// are reduced to their first element.
func (op Operator) Ordering() bool {
	switch op {
	case OpGt, OpLt, OpGte, OpLte:
		return true
	}
	return false
}

// Condition represents a single testable predicate inside a rule.
// When multiple conditions belong to one rule, they are evaluated with AND
// semantics: all conditions must match for the rule to apply.
// A Condition is immutable once parsed.
type Condition struct {
	Identifier string   `json:"identifier"`
	Operator   Operator `json:"operator"`
	Values     []string `json:"values"`
}
