package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/talentscout/talentscout/internal/candidate"
	"github.com/talentscout/talentscout/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

const (
	defaultLatestLimit = 10
	maxLatestLimit     = 100
)

// CandidateReader is the read-only part of the store.
type CandidateReader interface {
	Latest(limit int) []candidate.Record
	Stats() storage.Stats
}

// CandidateStore is the part of the store the HTTP API needs.
type CandidateStore interface {
	CandidateReader
	Save(rec candidate.Record) (storage.SaveResult, error)
}

// QuestionGenerator produces assessment questions. It never fails.
type QuestionGenerator interface {
	Generate(ctx context.Context, techStack string) string
}

type AppDeps struct {
	Store     CandidateStore
	Questions QuestionGenerator
}

// SubmitResponse is returned by POST /v1/candidates.
type SubmitResponse struct {
	Status    string `json:"status"`
	Questions string `json:"questions"`
}

type QuestionsRequest struct {
	TechStack string `json:"techStack"`
}

type QuestionsResponse struct {
	TechStack string `json:"techStack"`
	Questions string `json:"questions"`
}

// NewHandler returns the HTTP API over the candidate store and question
// generator.
func NewHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/candidates", handleSubmit(deps))
		r.Get("/candidates", handleLatest(deps))
		r.Post("/questions", handleQuestions(deps))
		r.Get("/stats", handleStats(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleSubmit(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var rec candidate.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		rec = rec.Normalize()
		if err := rec.Validate(); err != nil {
			var verr *candidate.ValidationError
			if errors.As(err, &verr) {
				validationError(w, verr)
				return
			}
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		if strings.TrimSpace(rec.Questions) == "" {
			rec.Questions = deps.Questions.Generate(r.Context(), rec.TechStack)
		}

		res, err := deps.Store.Save(rec)
		if err != nil {
			slog.Error("candidate submission not recorded", "email", rec.Email, "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "candidate could not be recorded")
			return
		}

		code := http.StatusOK
		if res.Outcome == storage.Saved {
			code = http.StatusCreated
		}
		writeJSON(w, code, SubmitResponse{Status: res.Outcome.String(), Questions: rec.Questions})
	}
}

func handleQuestions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req QuestionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, QuestionsResponse{
			TechStack: req.TechStack,
			Questions: deps.Questions.Generate(r.Context(), req.TechStack),
		})
	}
}

func handleLatest(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", defaultLatestLimit, maxLatestLimit)
		if limit == 0 {
			limit = defaultLatestLimit
		}
		writeJSON(w, http.StatusOK, deps.Store.Latest(limit))
	}
}

func handleStats(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, deps.Store.Stats())
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

func validationError(w http.ResponseWriter, verr *candidate.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": verr.Error(),
			"type":    "invalid_request_error",
			"fields":  verr.Fields,
		},
	})
}
