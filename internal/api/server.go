package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vkoshelev/storerules/internal/condition"
	"github.com/vkoshelev/storerules/internal/engine"
	"github.com/vkoshelev/storerules/internal/lookup"
	"github.com/vkoshelev/storerules/internal/snapshot"
	"github.com/vkoshelev/storerules/internal/store"
	"github.com/vkoshelev/storerules/internal/telemetry"
)

type Server struct {
	store       store.Store
	evaluator   *engine.Evaluator
	adminAPIKey string
}

func NewServer(st store.Store, evaluator *engine.Evaluator, adminKey string) *Server {
	return &Server{store: st, evaluator: evaluator, adminAPIKey: adminKey}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(telemetry.Middleware)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))

		// health
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})

		// public: snapshot (ETag)
		r.Get("/v1/rules/snapshot", func(w http.ResponseWriter, req *http.Request) {
			snap := snapshot.Load()
			if inm := req.Header.Get("If-None-Match"); inm != "" && inm == snap.ETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("ETag", snap.ETag)
			_ = json.NewEncoder(w).Encode(snap)
		})

		// public: read rules
		r.Get("/v1/rules", s.handleListRules)
		r.Get("/v1/rules/{id}", s.handleGetRule)

		// public: evaluate
		r.Post("/v1/evaluate", s.handleEvaluate)

		// admin (protected): write rules
		r.Post("/v1/rules", s.authAdmin(s.handleUpsertRule))
		r.Delete("/v1/rules/{id}", s.authAdmin(s.handleDeleteRule))
	})

	// public: rules-changed stream. Long-lived, so it stays outside the
	// request timeout group.
	r.Get("/v1/rules/stream", s.handleStream)

	return r
}

// ---- handlers ----

type upsertRequest struct {
	ID         string                `json:"id,omitempty"`
	Name       string                `json:"name"`
	Enabled    bool                  `json:"enabled"`
	Conditions []condition.Condition `json:"conditions,omitempty"`
}

type upsertResponse struct {
	OK   bool   `json:"ok"`
	ID   string `json:"id"`
	ETag string `json:"etag"`
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.GetAllRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rules")
		return
	}
	if rules == nil {
		rules = []store.Rule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rule, err := s.store.GetRuleByID(r.Context(), id)
	if err != nil {
		if lookup.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "rule not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load rule")
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) handleUpsertRule(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := condition.ValidateAll(req.Conditions); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.UpsertRule(r.Context(), store.UpsertParams{
		ID:         req.ID,
		Name:       req.Name,
		Enabled:    req.Enabled,
		Conditions: req.Conditions,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db upsert failed")
		return
	}

	// rebuild in-memory snapshot from fresh rows
	if err := s.RebuildSnapshot(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "snapshot rebuild failed")
		return
	}

	writeJSON(w, http.StatusOK, upsertResponse{
		OK:   true,
		ID:   id,
		ETag: snapshot.Load().ETag,
	})
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteRule(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "db delete failed")
		return
	}
	if err := s.RebuildSnapshot(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "snapshot rebuild failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "etag": snapshot.Load().ETag})
}

// RebuildSnapshot reloads all rules and swaps the atomic snapshot.
func (s *Server) RebuildSnapshot(ctx context.Context) error {
	rules, err := s.store.GetAllRules(ctx)
	if err != nil {
		return err
	}
	snap := snapshot.BuildFromRules(rules)
	snapshot.Update(snap)
	telemetry.SnapshotRules.Set(float64(len(snap.Rules)))
	return nil
}

// ---- middleware & helpers ----

func (s *Server) authAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if got == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		// constant-time compare
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.adminAPIKey)) != 1 {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
	})
}
