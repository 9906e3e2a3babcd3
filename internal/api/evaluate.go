package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
	"github.com/vkoshelev/storerules/internal/store"
	"github.com/vkoshelev/storerules/internal/telemetry"
)

// evaluateRequest is the request body for POST /v1/evaluate. Exactly one of
// RuleID or Conditions selects what to evaluate: a stored rule by id, or an
// ad-hoc condition list (used by authoring tools to dry-run a rule before
// saving it).
type evaluateRequest struct {
	RuleID     string                `json:"ruleId,omitempty"`
	Conditions []condition.Condition `json:"conditions,omitempty"`
	Context    evaluateContext       `json:"context"`
}

// evaluateContext is the API-layer shape of the evaluation context.
type evaluateContext struct {
	Cart              *store.Cart    `json:"cart,omitempty"`
	Order             *store.Order   `json:"order,omitempty"`
	Session           *store.Session `json:"session,omitempty"`
	Address           *store.Address `json:"address,omitempty"`
	ShippingAddressID int64          `json:"shippingAddressId,omitempty"`
	Route             string         `json:"route,omitempty"`
	Path              string         `json:"path,omitempty"`
	UsageCount        *int64         `json:"usageCount,omitempty"`
}

type evaluateResponse struct {
	Matched     bool                     `json:"matched"`
	Trace       []engine.ConditionResult `json:"trace"`
	RuleID      string                   `json:"ruleId,omitempty"`
	EvaluatedAt string                   `json:"evaluatedAt"`
}

// handleEvaluate handles POST /v1/evaluate
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.RuleID != "" && len(req.Conditions) > 0 {
		writeError(w, http.StatusBadRequest, "ruleId and conditions are mutually exclusive")
		return
	}

	var rule *store.Rule
	if req.RuleID != "" {
		stored, err := s.store.GetRuleByID(r.Context(), req.RuleID)
		if err != nil {
			if lookup.IsNotFound(err) {
				writeError(w, http.StatusNotFound, "rule not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load rule")
			return
		}
		rule = stored
	} else {
		if err := condition.ValidateAll(req.Conditions); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rule = &store.Rule{ID: "adhoc", Conditions: req.Conditions}
	}

	ec := &engine.Context{
		Cart:              req.Context.Cart,
		Order:             req.Context.Order,
		Session:           req.Context.Session,
		Address:           req.Context.Address,
		ShippingAddressID: req.Context.ShippingAddressID,
		Route:             req.Context.Route,
		Path:              req.Context.Path,
		UsageCount:        req.Context.UsageCount,
		Data:              lookup.NewCache(s.store, s.store, s.store),
	}

	matched, trace := s.evaluator.Explain(r.Context(), rule, ec)

	result := "not_matched"
	if matched {
		result = "matched"
	}
	telemetry.EvalTotal.WithLabelValues(result).Inc()
	for _, cr := range trace {
		telemetry.ConditionOutcomes.WithLabelValues(cr.Identifier, string(cr.Status)).Inc()
	}

	writeJSON(w, http.StatusOK, evaluateResponse{
		Matched:     matched,
		Trace:       trace,
		RuleID:      req.RuleID,
		EvaluatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
