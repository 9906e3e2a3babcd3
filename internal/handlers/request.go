// Package handlers contains the built-in condition handlers, one per
// condition identifier, each resolving the context data it needs and
// delegating the comparison to the typed comparators.
package handlers

import (
	"context"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
)

// routeHandler compares the matched route pattern of the current request
// against the value set. Only equality operators are meaningful for routes;
// anything else fails closed.
type routeHandler struct{}

func (routeHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if !cond.Operator.Equality() {
		return engine.Match(false)
	}
	if ec.Route == "" {
		return engine.Unavailable()
	}

	cv := condition.CoerceString(cond.Values, cond.Operator)
	return engine.Match(cv.MatchString(ec.Route, cond.Operator))
}

// pathHandler matches the raw request path against candidate patterns.
// Candidates may contain `*` wildcards; the condition holds when any
// pattern matches (OR across candidates), negated for `!=`.
type pathHandler struct{}

func (pathHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if !cond.Operator.Equality() {
		return engine.Match(false)
	}
	if ec.Path == "" {
		return engine.Unavailable()
	}

	anyMatch := false
	for _, pattern := range cond.Values {
		if matchWildcard(pattern, ec.Path) {
			anyMatch = true
			break
		}
	}

	if cond.Operator == condition.OpNeq {
		return engine.Match(!anyMatch)
	}
	return engine.Match(anyMatch)
}

// matchWildcard matches s against pattern where `*` matches any sequence of
// characters, including path separators. Iterative backtracking; no regexp
// on the hot path.
func matchWildcard(pattern, s string) bool {
	p, i := 0, 0
	star, mark := -1, 0

	for i < len(s) {
		switch {
		case p < len(pattern) && (pattern[p] == s[i]):
			p++
			i++
		case p < len(pattern) && pattern[p] == '*':
			star = p
			mark = i
			p++
		case star >= 0:
			p = star + 1
			mark++
			i = mark
		default:
			return false
		}
	}

	for p < len(pattern) && pattern[p] == '*' {
		p++
	}
	return p == len(pattern)
}
