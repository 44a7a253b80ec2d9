package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskpulse/taskpulse-api/internal/api/shared"
	"github.com/taskpulse/taskpulse-api/internal/domain"
	"github.com/taskpulse/taskpulse-api/internal/platform/logger"
	"github.com/taskpulse/taskpulse-api/internal/store"
	"github.com/taskpulse/taskpulse-api/internal/taskcache"
)

// Listing defaults and bounds.
const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// msgListTasksFailed is the fixed user-facing message for listing failures.
const msgListTasksFailed = "Error fetching tasks"

// ListTasksResponse is the payload of GET /api/tasks.
type ListTasksResponse struct {
	Tasks      []domain.Task `json:"tasks"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{id}.
// Nil fields leave the corresponding task field unchanged.
type UpdateTaskRequest struct {
	Title      *string `json:"title"      validate:"omitempty,min=1"`
	Status     *string `json:"status"     validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority   *string `json:"priority"   validate:"omitempty,oneof=low medium high urgent"`
	Complexity *int    `json:"complexity" validate:"omitempty,gte=1,lte=10"`
}

// TaskHandler handles task listing and mutation HTTP requests. Listings are
// served through the TTL cache; mutations write through to the store and then
// patch the cached page the client reports as active.
type TaskHandler struct {
	tasks  store.TaskStore
	cache  *taskcache.Cache
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks store.TaskStore, cache *taskcache.Cache, log *slog.Logger) *TaskHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		tasks:  tasks,
		cache:  cache,
		logger: log.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks requests. A fresh cache entry is served
// directly; otherwise the store is read and the entry (re)populated.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filters, page, pageSize, ok := listingParams(w, r)
	if !ok {
		return
	}

	key := taskcache.ComputeKey(filters.Map(), page, pageSize)

	if cached, hit := h.cache.Get(r.Context(), key); hit {
		log.Debug("listing served from cache", slog.String("key", key))
		shared.RespondWithJSON(w, r, http.StatusOK, ListTasksResponse{
			Tasks:      cached.Tasks,
			Page:       page,
			TotalPages: cached.TotalPages,
		})
		return
	}

	tasks, total, err := h.tasks.List(r.Context(), filters, page, pageSize)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, msgListTasksFailed, err)
		return
	}

	entry := taskcache.Page{
		Tasks:      tasks,
		TotalPages: totalPages(total, pageSize),
	}
	if err := h.cache.Put(r.Context(), key, entry); err != nil {
		log.Warn("failed to cache listing page", slog.String("error", err.Error()))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ListTasksResponse{
		Tasks:      entry.Tasks,
		Page:       page,
		TotalPages: entry.TotalPages,
	})
}

// UpdateTask handles PATCH /api/tasks/{id} requests. The store write is
// authoritative; afterwards the cached copy of the page the client is
// viewing (identified by the same query parameters as the listing) is
// patched in place, restarting that entry's freshness window. Other cached
// pages that may hold a stale copy of the task are left to age out.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	updated, err := h.tasks.Update(r.Context(), taskID, patchFromRequest(req))
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Error updating task", err)
		return
	}

	h.patchCachedPage(r, *updated)

	log.Debug("task updated", slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// patchCachedPage replaces the task inside the cached page the request's
// query parameters identify, if that entry exists and holds the task, and
// rewrites it so the entry's TTL restarts at the mutation instant. A task
// absent from the cached page is a no-op, not an error.
func (h *TaskHandler) patchCachedPage(r *http.Request, updated domain.Task) {
	filters, page, pageSize := rawListingParams(r)
	key := taskcache.ComputeKey(filters.Map(), page, pageSize)

	cached, hit := h.cache.Get(r.Context(), key)
	if !hit {
		return
	}

	patched := false
	for i := range cached.Tasks {
		if cached.Tasks[i].ID == updated.ID {
			cached.Tasks[i] = updated
			patched = true
			break
		}
	}
	if !patched {
		return
	}

	if err := h.cache.Put(r.Context(), key, cached); err != nil {
		h.logger.Warn("failed to rewrite patched page",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// patchFromRequest converts the request body into a typed store patch.
func patchFromRequest(req UpdateTaskRequest) store.TaskPatch {
	patch := store.TaskPatch{
		Title:      req.Title,
		Complexity: req.Complexity,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	return patch
}

// listingParams parses and validates filters and pagination from the query,
// writing a 400 response and returning ok=false on invalid input.
func listingParams(w http.ResponseWriter, r *http.Request) (store.ListFilters, int, int, bool) {
	filters, page, pageSize := rawListingParams(r)

	if filters.Status != "" && !domain.TaskStatus(filters.Status).IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
		return store.ListFilters{}, 0, 0, false
	}
	if filters.Priority != "" && !domain.TaskPriority(filters.Priority).IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid priority filter")
		return store.ListFilters{}, 0, 0, false
	}
	if filters.AssigneeID != "" {
		if _, err := uuid.Parse(filters.AssigneeID); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid assigneeId filter")
			return store.ListFilters{}, 0, 0, false
		}
	}

	return filters, page, pageSize, true
}

// rawListingParams extracts filters and pagination without validation,
// clamping page and pageSize to sane bounds.
func rawListingParams(r *http.Request) (store.ListFilters, int, int) {
	q := r.URL.Query()

	filters := store.ListFilters{
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		AssigneeID: q.Get("assigneeId"),
	}

	page := 1
	if parsed, err := strconv.Atoi(q.Get("page")); err == nil && parsed > 0 {
		page = parsed
	}

	pageSize := defaultPageSize
	if parsed, err := strconv.Atoi(q.Get("pageSize")); err == nil && parsed > 0 {
		pageSize = parsed
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	return filters, page, pageSize
}

// totalPages converts a total row count into a page count, never below 1.
func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
