package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/push"
	"github.com/dukerupert/earnlearn/internal/websocket"
)

type TemplateHandler struct {
	broadcaster
	svc      *family.Service
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewTemplateHandler(svc *family.Service, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{broadcaster: broadcaster{hub}, svc: svc, notifier: notifier, logger: logger}
}

type templateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Points      int    `json:"points" validate:"required,gt=0"`
	AssignedTo  int64  `json:"assigned_to" validate:"required,gt=0"`
	Frequency   string `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	DueTime     string `json:"due_time"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpl, err := h.svc.CreateTemplate(r.Context(), family.TemplateInput{
		Name:        req.Name,
		Description: req.Description,
		Points:      req.Points,
		AssignedTo:  req.AssignedTo,
		Frequency:   req.Frequency,
		DueTime:     req.DueTime,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create template")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTemplate, websocket.ActionCreated, tmpl.ID, nil).ForChild(tmpl.AssignedTo))
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListTemplates(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list templates")
		return
	}
	if templates == nil {
		templates = []model.RecurringTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// Toggle handles POST /api/templates/{id}/toggle.
func (h *TemplateHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tmpl, err := h.svc.ToggleTemplate(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to toggle template")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTemplate, websocket.ActionToggled, id, map[string]any{
		"active": tmpl.Active,
	}).ForChild(tmpl.AssignedTo))
	writeJSON(w, http.StatusOK, tmpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteTemplate(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete template")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityTemplate, websocket.ActionDeleted, id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Spawn handles POST /api/recurrence/spawn, running the spawner on demand.
func (h *TemplateHandler) Spawn(w http.ResponseWriter, r *http.Request) {
	spawned, err := h.svc.SpawnDue(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to spawn instances")
		return
	}

	for _, t := range spawned {
		h.broadcast(websocket.NewMessage(websocket.EntityInstance, websocket.ActionSpawned, t.ID, map[string]any{
			"template_id": t.TemplateID,
		}).ForChild(t.AssignedTo))
	}
	if len(spawned) > 0 {
		go h.notifier.InstancesSpawned(spawned)
	}
	if spawned == nil {
		spawned = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"spawned": spawned, "count": len(spawned)})
}
