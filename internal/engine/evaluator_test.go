package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/store"
)

type stubHandler struct {
	calls   int
	outcome Outcome
}

func (s *stubHandler) Evaluate(context.Context, condition.Condition, *Context) Outcome {
	s.calls++
	return s.outcome
}

func newTestEvaluator(t *testing.T, handlers map[string]Handler) *Evaluator {
	t.Helper()
	reg := NewRegistry()
	for id, h := range handlers {
		if err := reg.Register(id, h); err != nil {
			t.Fatalf("Register(%s) error: %v", id, err)
		}
	}
	return NewEvaluator(reg, zerolog.Nop())
}

func cond(id string) condition.Condition {
	return condition.Condition{Identifier: id, Operator: condition.OpEq, Values: []string{"1"}}
}

func TestMatches_EmptyConditionsAlwaysMatch(t *testing.T) {
	e := newTestEvaluator(t, nil)
	rule := &store.Rule{ID: "r1"}

	if !e.Matches(context.Background(), rule, &Context{}) {
		t.Fatal("a rule with zero conditions must match unconditionally")
	}
}

func TestMatches_ShortCircuit(t *testing.T) {
	miss := &stubHandler{outcome: Match(false)}
	after := &stubHandler{outcome: Match(true)}
	e := newTestEvaluator(t, map[string]Handler{"miss": miss, "after": after})

	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("miss"), cond("after")}}
	if e.Matches(context.Background(), rule, &Context{}) {
		t.Fatal("rule with a failing condition must not match")
	}
	if miss.calls != 1 {
		t.Fatalf("failing handler called %d times, want 1", miss.calls)
	}
	if after.calls != 0 {
		t.Fatalf("handler after the failing condition called %d times, want 0", after.calls)
	}
}

func TestMatches_AllConditionsInOrder(t *testing.T) {
	first := &stubHandler{outcome: Match(true)}
	second := &stubHandler{outcome: Match(true)}
	e := newTestEvaluator(t, map[string]Handler{"first": first, "second": second})

	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("first"), cond("second")}}
	if !e.Matches(context.Background(), rule, &Context{}) {
		t.Fatal("rule with all conditions matching must match")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("handler calls = %d/%d, want 1/1", first.calls, second.calls)
	}
}

func TestMatches_UnknownIdentifierFailsClosed(t *testing.T) {
	e := newTestEvaluator(t, nil)
	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("no_such_condition")}}

	if e.Matches(context.Background(), rule, &Context{}) {
		t.Fatal("unregistered identifier must never match")
	}

	matched, trace := e.Explain(context.Background(), rule, &Context{})
	if matched {
		t.Fatal("Explain() matched, want false")
	}
	if len(trace) != 1 || trace[0].Status != StatusError {
		t.Fatalf("trace = %#v, want one StatusError entry", trace)
	}
}

func TestMatches_HandlerErrorDoesNotPropagate(t *testing.T) {
	failing := &stubHandler{outcome: Failed(DataResolutionError{Op: "address 12", Err: errors.New("connection refused")})}
	e := newTestEvaluator(t, map[string]Handler{"country": failing})

	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("country")}}
	if e.Matches(context.Background(), rule, &Context{}) {
		t.Fatal("errored condition must collapse to non-match")
	}
}

func TestMatches_HandlerPanicIsContained(t *testing.T) {
	panicky := HandlerFunc(func(context.Context, condition.Condition, *Context) Outcome {
		panic("boom")
	})
	e := newTestEvaluator(t, map[string]Handler{"bad": panicky})

	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("bad")}}
	if e.Matches(context.Background(), rule, &Context{}) {
		t.Fatal("panicking handler must collapse to non-match")
	}
}

func TestMatches_Idempotent(t *testing.T) {
	h := &stubHandler{outcome: Match(true)}
	e := newTestEvaluator(t, map[string]Handler{"c": h})
	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("c")}}
	ec := &Context{}

	first := e.Matches(context.Background(), rule, ec)
	second := e.Matches(context.Background(), rule, ec)
	if first != second {
		t.Fatalf("Matches() not idempotent: %v then %v", first, second)
	}
}

func TestExplain_TraceStopsAtFirstFailure(t *testing.T) {
	ok := &stubHandler{outcome: Match(true)}
	unavailable := &stubHandler{outcome: Unavailable()}
	never := &stubHandler{outcome: Match(true)}
	e := newTestEvaluator(t, map[string]Handler{"ok": ok, "gone": unavailable, "never": never})

	rule := &store.Rule{ID: "r1", Conditions: []condition.Condition{cond("ok"), cond("gone"), cond("never")}}
	matched, trace := e.Explain(context.Background(), rule, &Context{})
	if matched {
		t.Fatal("Explain() matched, want false")
	}
	if len(trace) != 2 {
		t.Fatalf("trace length = %d, want 2", len(trace))
	}
	if trace[0].Status != StatusMatched || trace[1].Status != StatusUnavailable {
		t.Fatalf("trace = %#v", trace)
	}
	if never.calls != 0 {
		t.Fatalf("handler past first failure called %d times, want 0", never.calls)
	}
}
