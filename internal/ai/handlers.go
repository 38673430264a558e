package ai

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/abhishekrajput-web/task-management-application/internal/analytics"
	"github.com/abhishekrajput-web/task-management-application/internal/auth"
	"github.com/abhishekrajput-web/task-management-application/internal/tasks"
)

// Handler exposes the seven AI capability endpoints. It owns the request
// plumbing (validation, task lookup, ownership) so the Service never sees a
// request it shouldn't handle.
type Handler struct {
	Store   tasks.Store
	Service *Service
	DB      *sql.DB // analytics only
}

func NewHandler(store tasks.Store, service *Service, db *sql.DB) *Handler {
	return &Handler{Store: store, Service: service, DB: db}
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, Envelope{Success: false, Source: SourceError, Message: msg})
}

// Recoverer is the outermost boundary for AI endpoints: a panic inside a
// handler is a programming defect, so it becomes a generic 500 envelope,
// never a soft fallback.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("AI handler panic: %v", rec)
				fail(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) track(r *http.Request, uid int64, capability, source string) {
	env := analytics.FromRequest(r)
	env.UserID = uid
	analytics.Log(r.Context(), h.DB, env, "ai_capability_used", map[string]any{
		"capability": capability,
		"source":     source,
	})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "unauthorized")
	}
	return uid, ok
}

// taskFromBody reads {taskId} and enforces existence + ownership. Writes
// the failure response itself and returns nil when the task can't be used.
func (h *Handler) taskFromBody(w http.ResponseWriter, r *http.Request, uid int64) *tasks.Task {
	var body struct {
		TaskID int64 `json:"taskId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.TaskID == 0 {
		fail(w, http.StatusBadRequest, "taskId is required")
		return nil
	}

	task, err := h.Store.Get(r.Context(), body.TaskID)
	if errors.Is(err, tasks.ErrNotFound) {
		fail(w, http.StatusNotFound, "Task not found")
		return nil
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, "Server error fetching task")
		return nil
	}
	if task.UserID != uid {
		fail(w, http.StatusForbidden, "Not authorized")
		return nil
	}
	return task
}

// Suggestion: POST /api/ai/suggestion
func (h *Handler) Suggestion(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	list, err := h.Store.List(r.Context(), uid, tasks.Filter{})
	if err != nil {
		fail(w, http.StatusInternalServerError, "Failed to get AI suggestion")
		return
	}

	env := h.Service.Suggest(r.Context(), list)
	h.track(r, uid, "suggestion", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}

// Improve: POST /api/ai/improve
func (h *Handler) Improve(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	task := h.taskFromBody(w, r, uid)
	if task == nil {
		return
	}

	env := h.Service.Improve(r.Context(), *task)
	h.track(r, uid, "improve", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}

// Breakdown: POST /api/ai/breakdown
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	task := h.taskFromBody(w, r, uid)
	if task == nil {
		return
	}

	env := h.Service.Breakdown(r.Context(), *task)
	h.track(r, uid, "breakdown", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}

// ParseBrainDump: POST /api/ai/parse-dump
func (h *Handler) ParseBrainDump(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Text) == "" {
		fail(w, http.StatusBadRequest, "Text is required")
		return
	}

	env := h.Service.ParseBrainDump(r.Context(), body.Text)
	h.track(r, uid, "parse-dump", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}

// EnergySuggestions: POST /api/ai/energy-suggestions
func (h *Handler) EnergySuggestions(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	var body struct {
		EnergyLevel string `json:"energyLevel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.EnergyLevel == "" {
		fail(w, http.StatusBadRequest, "Energy level is required")
		return
	}

	level := strings.ToLower(strings.TrimSpace(body.EnergyLevel))
	if level != "low" && level != "medium" && level != "high" {
		fail(w, http.StatusBadRequest, "Energy level must be low, medium, or high")
		return
	}

	pending, err := h.Store.List(r.Context(), uid, tasks.Filter{
		Status: tasks.StatusPending,
		SortBy: "dueDate",
	})
	if err != nil {
		fail(w, http.StatusInternalServerError, "Failed to get energy-based suggestions")
		return
	}

	env := h.Service.EnergySuggestions(r.Context(), pending, level)
	h.track(r, uid, "energy-suggestions", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}

// DoItForMe: POST /api/ai/do-it-for-me
func (h *Handler) DoItForMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	task := h.taskFromBody(w, r, uid)
	if task == nil {
		return
	}

	env := h.Service.DoItForMe(r.Context(), *task)
	h.track(r, uid, "do-it-for-me", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}

// DailyReflection: POST /api/ai/daily-reflection
func (h *Handler) DailyReflection(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}

	// all fields optional, but a present body must be valid JSON
	var in ReflectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	list, err := h.Store.List(r.Context(), uid, tasks.Filter{})
	if err != nil {
		fail(w, http.StatusInternalServerError, "Failed to get daily reflection")
		return
	}

	env := h.Service.DailyReflection(r.Context(), list, in)
	h.track(r, uid, "daily-reflection", env.Source)
	writeEnvelope(w, http.StatusOK, env)
}
