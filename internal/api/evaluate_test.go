package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/store"
)

func decodeEvalResponse(t *testing.T, body []byte) evaluateResponse {
	t.Helper()
	var resp evaluateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode evaluate response: %v", err)
	}
	return resp
}

func TestEvaluate_StoredRule(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	id, err := st.UpsertRule(context.Background(), store.UpsertParams{
		Name:    "wholesale only",
		Enabled: true,
		Conditions: []condition.Condition{
			{Identifier: "user_role", Operator: condition.OpEq, Values: []string{"2"}},
		},
	})
	if err != nil {
		t.Fatalf("seed rule: %v", err)
	}

	req := evaluateRequest{
		RuleID: id,
		Context: evaluateContext{
			Session: &store.Session{UserID: 42, RoleID: 2},
		},
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/evaluate", req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/evaluate = %d, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeEvalResponse(t, rec.Body.Bytes())
	if !resp.Matched {
		t.Errorf("expected match for role 2, trace %+v", resp.Trace)
	}
	if len(resp.Trace) != 1 || resp.Trace[0].Status != engine.StatusMatched {
		t.Errorf("trace = %+v", resp.Trace)
	}

	// Same rule, wrong role.
	req.Context.Session = &store.Session{UserID: 42, RoleID: 1}
	rec = doRequest(t, router, http.MethodPost, "/v1/evaluate", req, nil)
	resp = decodeEvalResponse(t, rec.Body.Bytes())
	if resp.Matched {
		t.Error("role 1 must not match a role=2 rule")
	}
}

func TestEvaluate_AdHocConditions(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	req := evaluateRequest{
		Conditions: []condition.Condition{
			{Identifier: "cart_total", Operator: condition.OpGte, Values: []string{"5000"}},
		},
		Context: evaluateContext{
			Cart: &store.Cart{Total: 7500, Currency: "USD"},
		},
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/evaluate", req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/evaluate = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEvalResponse(t, rec.Body.Bytes())
	if !resp.Matched {
		t.Errorf("cart 7500 >= 5000 must match, trace %+v", resp.Trace)
	}
}

func TestEvaluate_UnknownIdentifierFailsClosed(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	req := evaluateRequest{
		Conditions: []condition.Condition{
			{Identifier: "no_such_condition", Operator: condition.OpEq, Values: []string{"x"}},
		},
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/evaluate", req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/evaluate = %d", rec.Code)
	}
	resp := decodeEvalResponse(t, rec.Body.Bytes())
	if resp.Matched {
		t.Error("unknown identifier must fail closed, not match")
	}
	if len(resp.Trace) != 1 || resp.Trace[0].Status != engine.StatusError {
		t.Errorf("trace = %+v, want one ERROR entry", resp.Trace)
	}
}

func TestEvaluate_RuleIDAndConditionsExclusive(t *testing.T) {
	srv, _ := newTestServer(t)
	req := evaluateRequest{
		RuleID: "some-id",
		Conditions: []condition.Condition{
			{Identifier: "user_id", Operator: condition.OpEq, Values: []string{"1"}},
		},
	}
	rec := doRequest(t, srv.Router(), http.MethodPost, "/v1/evaluate", req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEvaluate_MissingRule(t *testing.T) {
	srv, _ := newTestServer(t)
	req := evaluateRequest{RuleID: "missing"}
	rec := doRequest(t, srv.Router(), http.MethodPost, "/v1/evaluate", req, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEvaluate_ShippingZoneThroughStore(t *testing.T) {
	srv, st := newTestServer(t)
	router := srv.Router()

	st.SeedAddress(store.Address{ID: 9, CountryCode: "DE", ZoneCountryID: 4})
	st.SeedZone(store.Zone{ID: 4, Name: "EU", Enabled: true})

	req := evaluateRequest{
		Conditions: []condition.Condition{
			{Identifier: "shipping_zone_id", Operator: condition.OpEq, Values: []string{"4"}},
		},
		Context: evaluateContext{ShippingAddressID: 9},
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/evaluate", req, nil)
	resp := decodeEvalResponse(t, rec.Body.Bytes())
	if !resp.Matched {
		t.Errorf("address in zone 4 must match, trace %+v", resp.Trace)
	}
}
