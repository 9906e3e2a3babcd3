package testutil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vkoshelev/storerules/internal/api"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/handlers"
	"github.com/vkoshelev/storerules/internal/store"
)

// NewTestServer creates a test server with in-memory store and built-in
// condition handlers registered.
func NewTestServer(t *testing.T, adminKey string) (*api.Server, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore("USD")
	registry := engine.NewRegistry()
	if err := handlers.RegisterBuiltins(registry, handlers.Deps{Currency: memStore}); err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	evaluator := engine.NewEvaluator(registry, zerolog.Nop())
	server := api.NewServer(memStore, evaluator, adminKey)
	return server, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// SeedRules populates the store with test rules.
func SeedRules(ctx context.Context, st store.Store, rules []store.UpsertParams) error {
	for _, r := range rules {
		if _, err := st.UpsertRule(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
