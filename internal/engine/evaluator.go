package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/store"
)

// Evaluator decides whether a rule applies to an evaluation context.
type Evaluator struct {
	registry *Registry
	log      zerolog.Logger
}

// NewEvaluator creates an evaluator over the given registry.
func NewEvaluator(registry *Registry, log zerolog.Logger) *Evaluator {
	return &Evaluator{registry: registry, log: log}
}

// ConditionResult records how one condition fared, for diagnostics.
type ConditionResult struct {
	Identifier string             `json:"identifier"`
	Operator   condition.Operator `json:"operator"`
	Status     Status             `json:"status"`
	Detail     string             `json:"detail,omitempty"`
}

// Matches reports whether every condition of the rule matches the context.
// Conditions run in declaration order with short-circuit AND semantics:
// authors order conditions from cheapest to most expensive, so the first
// non-match stops the pass. A rule with no conditions matches
// unconditionally.
//
// No failure inside a single condition ever propagates to the caller; an
// unknown identifier, missing data or a broken lookup makes this rule not
// apply and is logged, nothing more.
func (e *Evaluator) Matches(ctx context.Context, rule *store.Rule, ec *Context) bool {
	matched, _ := e.Explain(ctx, rule, ec)
	return matched
}

// Explain is Matches plus the per-condition trace. The trace covers
// conditions up to and including the first failure; later handlers are
// never invoked.
func (e *Evaluator) Explain(ctx context.Context, rule *store.Rule, ec *Context) (bool, []ConditionResult) {
	if rule == nil {
		return false, nil
	}

	trace := make([]ConditionResult, 0, len(rule.Conditions))
	for _, cond := range rule.Conditions {
		outcome := e.evalCondition(ctx, cond, ec)

		result := ConditionResult{
			Identifier: cond.Identifier,
			Operator:   cond.Operator,
			Status:     outcome.Status,
		}
		if outcome.Err != nil {
			result.Detail = outcome.Err.Error()
		}
		trace = append(trace, result)

		if !outcome.Matched() {
			if outcome.Status != StatusNotMatched {
				e.log.Warn().
					Str("rule", rule.ID).
					Str("condition", cond.Identifier).
					Str("status", string(outcome.Status)).
					Err(outcome.Err).
					Msg("condition failed closed")
			}
			return false, trace
		}
	}

	return true, trace
}

// evalCondition dispatches one condition through the registry and converts
// every handler-level failure, including a panic, into a non-matching
// outcome. This is the boundary the propagation policy names: nothing a
// single condition does may abort sibling rules.
func (e *Evaluator) evalCondition(ctx context.Context, cond condition.Condition, ec *Context) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = Failed(fmt.Errorf("condition %q panicked: %v", cond.Identifier, r))
		}
	}()

	handler, err := e.registry.Resolve(cond.Identifier)
	if err != nil {
		return Failed(err)
	}

	return handler.Evaluate(ctx, cond, ec)
}
