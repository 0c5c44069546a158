package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kwrobel/listly/internal/auth"
	"github.com/kwrobel/listly/internal/service"
)

type ListHandler struct {
	lists  *service.ListService
	logger *slog.Logger
}

func NewListHandler(lists *service.ListService, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

type listRequest struct {
	Name string `json:"name"`
}

func (h *ListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListsFor(auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "list lists", err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	list, err := h.lists.Create(req.Name, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "create list", err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *ListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	list, err := h.lists.Details(id, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "get list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	list, err := h.lists.Rename(id, req.Name, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "rename list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.lists.Delete(id, auth.UserID(r.Context())); err != nil {
		h.fail(w, "delete list", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "list deleted"})
}

type shareRequest struct {
	Email string `json:"email"`
}

func (h *ListHandler) Share(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	user, err := h.lists.Share(id, req.Email, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "share list", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *ListHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	targetID, err := parseIDParam(r, "user_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	if err := h.lists.RemoveShare(id, targetID, auth.UserID(r.Context())); err != nil {
		h.fail(w, "remove share", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "share removed"})
}

func (h *ListHandler) Shares(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	users, err := h.lists.Shares(id, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, "list shares", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *ListHandler) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrStore) {
		h.logger.Error(op, "error", err)
	}
	writeError(w, err)
}
