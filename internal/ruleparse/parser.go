// Package ruleparse turns rule-language text into structured conditions.
// One condition per line: an identifier, an operator and a comma-separated
// value list, e.g.
//
//	cart_total >= 5000|EUR
//	product_id = 10, 20
//	country != US
//
// Blank lines and lines starting with # are skipped.
package ruleparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vkoshelev/storerules/internal/condition"
)

// ErrMalformedLine is returned for lines that do not parse into an
// identifier, operator and value list.
var ErrMalformedLine = errors.New("malformed condition line")

// operators in match order: two-character symbols before their one-character
// prefixes, so ">=" never parses as ">" followed by a stray "=".
var operators = []condition.Operator{
	condition.OpNeq,
	condition.OpGte,
	condition.OpLte,
	condition.OpEq,
	condition.OpGt,
	condition.OpLt,
}

// Parser parses rule text into conditions.
type Parser struct {
	log zerolog.Logger
}

// New creates a parser. The logger receives lint warnings about rule text
// that parses but carries known author mistakes.
func New(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse converts rule text into a condition list. Structurally broken lines
// are an error; semantically questionable but well-formed lines parse with
// a lint warning, because changing their meaning would alter matching
// outcomes for existing rule data.
func (p *Parser) Parse(text string) ([]condition.Condition, error) {
	var conditions []condition.Condition

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cond, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}

		// Ordering against a set is undefined; the engine honours only the
		// first value. Warn the author instead of silently fixing the rule.
		if cond.Operator.Ordering() && len(cond.Values) > 1 {
			p.log.Warn().
				Str("identifier", cond.Identifier).
				Str("operator", string(cond.Operator)).
				Int("values", len(cond.Values)).
				Msg("ordering operator given multiple values; only the first is used")
		}

		conditions = append(conditions, cond)
	}

	return conditions, nil
}

func parseLine(line string) (condition.Condition, error) {
	opIdx := -1
	var op condition.Operator
	for _, candidate := range operators {
		idx := strings.Index(line, string(candidate))
		if idx > 0 && (opIdx == -1 || idx < opIdx) {
			opIdx = idx
			op = candidate
		}
	}
	if opIdx == -1 {
		return condition.Condition{}, fmt.Errorf("%w: no operator in %q", ErrMalformedLine, line)
	}

	identifier := strings.TrimSpace(line[:opIdx])
	rest := strings.TrimSpace(line[opIdx+len(op):])
	if identifier == "" {
		return condition.Condition{}, fmt.Errorf("%w: missing identifier in %q", ErrMalformedLine, line)
	}
	if rest == "" {
		return condition.Condition{}, fmt.Errorf("%w: missing values in %q", ErrMalformedLine, line)
	}

	parts := strings.Split(rest, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		v := strings.TrimSpace(part)
		if v == "" {
			return condition.Condition{}, fmt.Errorf("%w: empty value in %q", ErrMalformedLine, line)
		}
		values = append(values, v)
	}

	return condition.Condition{Identifier: identifier, Operator: op, Values: values}, nil
}
