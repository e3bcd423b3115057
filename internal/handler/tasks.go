package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/earnlearn/internal/auth"
	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/push"
	"github.com/dukerupert/earnlearn/internal/store"
	"github.com/dukerupert/earnlearn/internal/websocket"
)

type TaskHandler struct {
	broadcaster
	svc      *family.Service
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewTaskHandler(svc *family.Service, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{broadcaster: broadcaster{hub}, svc: svc, notifier: notifier, logger: logger}
}

type taskRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Points      int    `json:"points" validate:"required,gt=0"`
	AssignedTo  int64  `json:"assigned_to" validate:"required,gt=0"`
	Deadline    string `json:"deadline"`
	DueTime     string `json:"due_time"`
}

// parseDeadline accepts a calendar date or a full RFC 3339 timestamp.
func parseDeadline(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, true
	}
	return nil, false
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	deadline, ok := parseDeadline(req.Deadline)
	if !ok {
		writeError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
		return
	}

	t, err := h.svc.CreateTask(r.Context(), family.TaskInput{
		Name:        req.Name,
		Description: req.Description,
		Points:      req.Points,
		AssignedTo:  req.AssignedTo,
		Deadline:    deadline,
		DueTime:     req.DueTime,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create task")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTask, websocket.ActionCreated, t.ID, nil).ForChild(t.AssignedTo))
	writeJSON(w, http.StatusCreated, t)
}

// List handles GET /api/tasks?assigned_to=&status=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var f store.TaskFilter
	q := r.URL.Query()
	if s := q.Get("assigned_to"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid assigned_to")
			return
		}
		f.AssignedTo = &id
	}
	if s := q.Get("status"); s != "" {
		st, err := model.ParseTaskStatus(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		f.Status = st
	}

	views, err := h.svc.ListTasks(r.Context(), f)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.svc.GetTask(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get task")
		return
	}
	if err := h.svc.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete task")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTask, websocket.ActionDeleted, id, nil).ForChild(existing.AssignedTo))
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/tasks/{id}/submit for the signed-in child.
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	childID := auth.ChildID(r.Context())

	t, err := h.svc.Submit(r.Context(), childID, id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to submit task")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTask, websocket.ActionSubmitted, t.ID, nil).ForChild(childID))
	if h.notifier.Enabled() {
		if child, err := h.svc.GetChild(r.Context(), childID); err == nil {
			go h.notifier.TaskSubmitted(*t, *child)
		}
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	res, err := h.svc.Approve(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to approve task")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTask, websocket.ActionApproved, id, map[string]any{
		"points":         res.Task.Points,
		"current_points": res.Child.CurrentPoints,
	}).ForChild(res.Child.ID))
	writeJSON(w, http.StatusOK, res)
}

func (h *TaskHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.svc.Reject(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to reject task")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTask, websocket.ActionRejected, id, nil).ForChild(t.AssignedTo))
	writeJSON(w, http.StatusOK, t)
}
