package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/earnlearn/internal/achievement"
	"github.com/dukerupert/earnlearn/internal/auth"
	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/websocket"
)

type ChildHandler struct {
	broadcaster
	svc    *family.Service
	logger *slog.Logger
}

func NewChildHandler(svc *family.Service, hub *websocket.Hub, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{broadcaster: broadcaster{hub}, svc: svc, logger: logger}
}

type childRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Code string `json:"code" validate:"required,alphanum,max=16"`
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	child, err := h.svc.CreateChild(r.Context(), req.Name, req.Code)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create child")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityChild, websocket.ActionCreated, child.ID, nil))
	writeJSON(w, http.StatusCreated, child)
}

func (h *ChildHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := h.svc.ListChildren(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list children")
		return
	}
	if children == nil {
		children = []model.Child{}
	}
	writeJSON(w, http.StatusOK, children)
}

// childID parses the {id} path value and checks the caller may see it.
func childID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	ac, _ := auth.FromContext(r.Context())
	if !ac.CanView(id) {
		writeError(w, http.StatusForbidden, "forbidden")
		return 0, false
	}
	return id, true
}

func (h *ChildHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	child, err := h.svc.GetChild(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get child")
		return
	}
	writeJSON(w, http.StatusOK, child)
}

// Tasks handles GET /api/children/{id}/tasks with deadline status attached.
func (h *ChildHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	views, err := h.svc.ChildTasks(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// History handles GET /api/children/{id}/history?limit=N.
func (h *ChildHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.svc.History(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load history")
		return
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *ChildHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	id, ok := childID(w, r)
	if !ok {
		return
	}
	results, err := h.svc.Achievements(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to evaluate achievements")
		return
	}
	if results == nil {
		results = []achievement.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}
