package tasks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhishekrajput-web/task-management-application/internal/analytics"
	"github.com/abhishekrajput-web/task-management-application/internal/auth"
)

type Handler struct {
	Store Store
	DB    *sql.DB // analytics only
}

func NewHandler(store Store, db *sql.DB) *Handler {
	return &Handler{Store: store, DB: db}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

// Description is a pointer so an omitted field and an explicit "" can be
// told apart on update.
type taskBody struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	DueDate     string  `json:"dueDate"`
}

func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// loadOwned fetches a task and enforces ownership. Writes the response
// itself on failure and returns nil.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, uid int64) *Task {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid task id")
		return nil
	}

	task, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Task not found")
		return nil
	}
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error fetching task")
		return nil
	}

	if task.UserID != uid {
		writeMessage(w, http.StatusForbidden, "Not authorized to access this task")
		return nil
	}
	return task
}

// List: GET /api/tasks
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	f := Filter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
	}

	list, err := h.Store.List(r.Context(), uid, f)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Failed to get tasks")
		return
	}
	if list == nil {
		list = []Task{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    list,
		"count":   len(list),
	})
}

// Get: GET /api/tasks/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task := h.loadOwned(w, r, uid)
	if task == nil {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"task":    task,
	})
}

// Create: POST /api/tasks
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if body.Title == "" || body.DueDate == "" {
		writeMessage(w, http.StatusBadRequest, "Please provide title and due date")
		return
	}

	due, err := parseDueDate(body.DueDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid due date")
		return
	}

	if body.Priority == "" {
		body.Priority = PriorityMedium
	}
	if body.Status == "" {
		body.Status = StatusPending
	}
	if !ValidPriority(body.Priority) || !ValidStatus(body.Status) {
		writeMessage(w, http.StatusBadRequest, "Invalid priority or status")
		return
	}

	description := ""
	if body.Description != nil {
		description = *body.Description
	}

	task := &Task{
		UserID:      uid,
		Title:       body.Title,
		Description: description,
		Priority:    body.Priority,
		Status:      body.Status,
		DueDate:     due,
	}
	if err := h.Store.Create(r.Context(), task); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error creating task")
		return
	}

	env := analytics.FromRequest(r)
	env.UserID = uid
	analytics.Log(r.Context(), h.DB, env, "task_created", map[string]any{
		"task_id":  task.ID,
		"priority": task.Priority,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Task created successfully",
		"task":    task,
	})
}

// Update: PUT /api/tasks/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task := h.loadOwned(w, r, uid)
	if task == nil {
		return
	}

	var body taskBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	if body.Title != "" {
		task.Title = body.Title
	}
	if body.Description != nil {
		task.Description = *body.Description
	}
	if body.Priority != "" {
		if !ValidPriority(body.Priority) {
			writeMessage(w, http.StatusBadRequest, "Invalid priority")
			return
		}
		task.Priority = body.Priority
	}
	if body.Status != "" {
		if !ValidStatus(body.Status) {
			writeMessage(w, http.StatusBadRequest, "Invalid status")
			return
		}
		task.Status = body.Status
	}
	if body.DueDate != "" {
		due, err := parseDueDate(body.DueDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		task.DueDate = due
	}

	if err := h.Store.Update(r.Context(), task); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error updating task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task updated successfully",
		"task":    task,
	})
}

// Delete: DELETE /api/tasks/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task := h.loadOwned(w, r, uid)
	if task == nil {
		return
	}

	if err := h.Store.Delete(r.Context(), task.ID); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error deleting task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task deleted successfully",
	})
}

// Toggle: PATCH /api/tasks/{id}/toggle
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	task := h.loadOwned(w, r, uid)
	if task == nil {
		return
	}

	if task.Status == StatusCompleted {
		task.Status = StatusPending
	} else {
		task.Status = StatusCompleted
	}

	if err := h.Store.Update(r.Context(), task); err != nil {
		writeMessage(w, http.StatusInternalServerError, "Server error toggling task status")
		return
	}

	env := analytics.FromRequest(r)
	env.UserID = uid
	analytics.Log(r.Context(), h.DB, env, "task_toggled", map[string]any{
		"task_id": task.ID,
		"status":  task.Status,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Task marked as " + task.Status,
		"task":    task,
	})
}
