package handlers

import (
	"context"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
)

// dateHandler compares the wall clock at evaluation time against an epoch
// threshold. The first declared value is the threshold; the full operator
// set applies, so `<` expresses "before", `>` "after" and `=` "on".
type dateHandler struct {
	clock lookup.Clock
}

func (h dateHandler) Evaluate(_ context.Context, cond condition.Condition, _ *engine.Context) engine.Outcome {
	if h.clock == nil {
		return engine.Unavailable()
	}

	cv, err := condition.CoerceNumeric(cond.Values[:1], cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}

	now := float64(h.clock.Now().Unix())
	return engine.Match(cv.MatchNumeric(now, cond.Operator))
}

// usedHandler compares the rule's pre-computed usage counter against a
// numeric threshold taken from the first declared value.
type usedHandler struct{}

func (usedHandler) Evaluate(_ context.Context, cond condition.Condition, ec *engine.Context) engine.Outcome {
	if ec.UsageCount == nil {
		return engine.Unavailable()
	}

	cv, err := condition.CoerceNumeric(cond.Values[:1], cond.Operator)
	if err != nil {
		return engine.Failed(err)
	}

	return engine.Match(cv.MatchNumeric(float64(*ec.UsageCount), cond.Operator))
}
