// Package engine evaluates declarative rule conditions against a runtime
// context. Dispatch goes through an explicit registry keyed by condition
// identifier; every failure mode collapses to "condition does not match" at
// the public boundary (fail closed).
package engine

import (
	"context"

	"github.com/vkoshelev/storerules/internal/condition"
)

// Status classifies the outcome of evaluating one condition. Everything
// except StatusMatched collapses to false at the Matches boundary; the
// distinction exists for diagnostics, so rule authors can see whether a
// rule legitimately didn't apply or was starved of data.
type Status string

const (
	StatusMatched     Status = "MATCHED"
	StatusNotMatched  Status = "NOT_MATCHED"
	StatusUnavailable Status = "DATA_UNAVAILABLE"
	StatusError       Status = "ERROR"
)

// Outcome is the result of one handler invocation.
type Outcome struct {
	Status Status
	Err    error
}

// Matched reports whether the condition held.
func (o Outcome) Matched() bool { return o.Status == StatusMatched }

// Match folds a plain boolean into an Outcome.
func Match(ok bool) Outcome {
	if ok {
		return Outcome{Status: StatusMatched}
	}
	return Outcome{Status: StatusNotMatched}
}

// Unavailable marks a condition whose required context data is missing.
func Unavailable() Outcome {
	return Outcome{Status: StatusUnavailable}
}

// Failed marks a condition that errored while resolving external data.
func Failed(err error) Outcome {
	return Outcome{Status: StatusError, Err: err}
}

// Handler implements the evaluation logic for one condition identifier.
//
// Contract: a handler must never return an error for missing optional data;
// it reports Unavailable instead. It may assume cond.Values is non-empty;
// an empty value list is a parser-level invariant violation.
type Handler interface {
	Evaluate(ctx context.Context, cond condition.Condition, ec *Context) Outcome
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, cond condition.Condition, ec *Context) Outcome

func (f HandlerFunc) Evaluate(ctx context.Context, cond condition.Condition, ec *Context) Outcome {
	return f(ctx, cond, ec)
}
