package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kwrobel/listly/internal/auth"
	"github.com/kwrobel/listly/internal/service"
)

type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

func (h *TaskHandler) ListForList(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	tasks, err := h.tasks.ListForList(listID, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "list tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	task, err := h.tasks.Create(listID, req.Title, req.Description, req.Priority, req.Deadline, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	task, err := h.tasks.GetWithAccess(id, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "get task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	task, err := h.tasks.Update(id, req.Title, req.Description, req.Priority, req.Deadline, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "update task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	completed, err := h.tasks.ToggleComplete(id, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "toggle task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": completed})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.tasks.Delete(id, auth.UserID(r.Context())); err != nil {
		h.fail(w, "delete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

func (h *TaskHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultUpcomingWindow
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	tasks, err := h.tasks.Upcoming(auth.UserID(r.Context()), days)
	if err != nil {
		h.fail(w, "upcoming tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.Overdue(auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "overdue tasks", err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tasks.Stats(auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "task stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *TaskHandler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrStore) {
		h.logger.Error(op, "error", err)
	}
	writeError(w, err)
}
