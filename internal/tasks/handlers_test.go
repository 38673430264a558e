package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhishekrajput-web/task-management-application/internal/auth"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// memStore is an in-memory Store used by handler tests.
type memStore struct {
	byID   map[int64]*Task
	nextID int64
}

func newMemStore(list ...Task) *memStore {
	s := &memStore{byID: make(map[int64]*Task), nextID: 100}
	for i := range list {
		t := list[i]
		s.byID[t.ID] = &t
	}
	return s
}

func (s *memStore) List(_ context.Context, userID int64, f Filter) ([]Task, error) {
	var out []Task
	for _, t := range s.byID {
		if t.UserID != userID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) Get(_ context.Context, id int64) (*Task, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memStore) Create(_ context.Context, t *Task) error {
	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = testNow
	t.UpdatedAt = testNow
	s.byID[t.ID] = t
	return nil
}

func (s *memStore) Update(_ context.Context, t *Task) error {
	if _, ok := s.byID[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = testNow
	cp := *t
	s.byID[t.ID] = &cp
	return nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func newRouter(store Store) chi.Router {
	h := NewHandler(store, nil)
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/toggle", h.Toggle)
	return r
}

func doRequest(t *testing.T, r chi.Router, uid int64, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(auth.WithUserID(req.Context(), uid))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func pendingTask(id, userID int64, title string) Task {
	return Task{
		ID:       id,
		UserID:   userID,
		Title:    title,
		Priority: PriorityMedium,
		Status:   StatusPending,
		DueDate:  testNow.AddDate(0, 0, 1),
	}
}

func TestListReturnsOnlyOwnTasks(t *testing.T) {
	r := newRouter(newMemStore(
		pendingTask(1, 1, "Mine"),
		pendingTask(2, 2, "Theirs"),
	))

	rec := doRequest(t, r, 1, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["count"])
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Mine", data[0].(map[string]any)["title"])
}

func TestListEmptyIsArrayNotNull(t *testing.T) {
	rec := doRequest(t, newRouter(newMemStore()), 1, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data, ok := body["data"].([]any)
	require.True(t, ok, "data must be an array, got %T", body["data"])
	assert.Empty(t, data)
	assert.Equal(t, float64(0), body["count"])
}

func TestCreateRequiresTitleAndDueDate(t *testing.T) {
	r := newRouter(newMemStore())

	for name, body := range map[string]any{
		"noTitle":   map[string]any{"dueDate": "2025-07-01"},
		"noDueDate": map[string]any{"title": "X"},
		"empty":     map[string]any{},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, r, 1, http.MethodPost, "/", body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Please provide title and due date", decodeBody(t, rec)["message"])
		})
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	store := newMemStore()
	rec := doRequest(t, newRouter(store), 1, http.MethodPost, "/", map[string]any{
		"title":   "New task",
		"dueDate": "2025-07-01",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Task created successfully", body["message"])

	created := body["task"].(map[string]any)
	assert.Equal(t, PriorityMedium, created["priority"])
	assert.Equal(t, StatusPending, created["status"])
	assert.NotZero(t, created["id"])
}

func TestCreateRejectsBadValues(t *testing.T) {
	r := newRouter(newMemStore())

	rec := doRequest(t, r, 1, http.MethodPost, "/", map[string]any{
		"title": "X", "dueDate": "2025-07-01", "priority": "Urgent",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid priority or status", decodeBody(t, rec)["message"])

	rec = doRequest(t, r, 1, http.MethodPost, "/", map[string]any{
		"title": "X", "dueDate": "next tuesday",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid due date", decodeBody(t, rec)["message"])
}

func TestGetForeignTaskForbidden(t *testing.T) {
	r := newRouter(newMemStore(pendingTask(5, 2, "Theirs")))

	rec := doRequest(t, r, 1, http.MethodGet, "/5", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to access this task", decodeBody(t, rec)["message"])
}

func TestGetMissingTaskNotFound(t *testing.T) {
	rec := doRequest(t, newRouter(newMemStore()), 1, http.MethodGet, "/99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeBody(t, rec)["message"])
}

func TestGetInvalidID(t *testing.T) {
	rec := doRequest(t, newRouter(newMemStore()), 1, http.MethodGet, "/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid task id", decodeBody(t, rec)["message"])
}

func TestUpdateChangesProvidedFields(t *testing.T) {
	store := newMemStore(pendingTask(3, 1, "Old title"))

	rec := doRequest(t, newRouter(store), 1, http.MethodPut, "/3", map[string]any{
		"title":    "New title",
		"priority": PriorityHigh,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)["task"].(map[string]any)
	assert.Equal(t, "New title", updated["title"])
	assert.Equal(t, PriorityHigh, updated["priority"])
	assert.Equal(t, StatusPending, updated["status"])
}

func TestUpdateKeepsDescriptionWhenOmitted(t *testing.T) {
	existing := pendingTask(9, 1, "Keep my notes")
	existing.Description = "important notes"
	store := newMemStore(existing)

	rec := doRequest(t, newRouter(store), 1, http.MethodPut, "/9", map[string]any{
		"priority": PriorityHigh,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)["task"].(map[string]any)
	assert.Equal(t, "important notes", updated["description"])
	assert.Equal(t, PriorityHigh, updated["priority"])
}

func TestUpdateClearsDescriptionWhenExplicitlyEmpty(t *testing.T) {
	existing := pendingTask(10, 1, "Clear my notes")
	existing.Description = "stale notes"
	store := newMemStore(existing)

	rec := doRequest(t, newRouter(store), 1, http.MethodPut, "/10", map[string]any{
		"description": "",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)["task"].(map[string]any)
	assert.Equal(t, "", updated["description"])
}

func TestDeleteRemovesTask(t *testing.T) {
	store := newMemStore(pendingTask(4, 1, "Doomed"))
	r := newRouter(store)

	rec := doRequest(t, r, 1, http.MethodDelete, "/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully", decodeBody(t, rec)["message"])

	rec = doRequest(t, r, 1, http.MethodGet, "/4", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleFlipsStatusBothWays(t *testing.T) {
	store := newMemStore(pendingTask(6, 1, "Flip me"))
	r := newRouter(store)

	rec := doRequest(t, r, 1, http.MethodPatch, "/6/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, fmt.Sprintf("Task marked as %s", StatusCompleted), body["message"])
	assert.Equal(t, StatusCompleted, body["task"].(map[string]any)["status"])

	rec = doRequest(t, r, 1, http.MethodPatch, "/6/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, fmt.Sprintf("Task marked as %s", StatusPending), body["message"])
}
