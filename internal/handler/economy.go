package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/earnlearn/internal/auth"
	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/leaderboard"
	"github.com/dukerupert/earnlearn/internal/ledger"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/push"
	"github.com/dukerupert/earnlearn/internal/websocket"
)

// EconomyHandler serves payday, settlement, rates and the family summaries.
type EconomyHandler struct {
	broadcaster
	svc      *family.Service
	notifier *push.Notifier
	logger   *slog.Logger
}

func NewEconomyHandler(svc *family.Service, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *EconomyHandler {
	return &EconomyHandler{broadcaster: broadcaster{hub}, svc: svc, notifier: notifier, logger: logger}
}

// Payday handles POST /api/payday.
func (h *EconomyHandler) Payday(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Payday(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to run payday")
		return
	}

	for _, e := range entries {
		h.broadcast(websocket.NewMessage(websocket.EntityPayday, websocket.ActionTriggered, e.ID, map[string]any{
			"interest": e.Amount,
		}).ForChild(e.ChildID))
	}
	if len(entries) > 0 {
		go h.notifier.SettlementPending(entries)
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

type settleRequest struct {
	Choice string `json:"choice" validate:"required,oneof=cashout save"`
}

// Settle handles POST /api/settlement for the signed-in child.
func (h *EconomyHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	choice, err := ledger.ParseChoice(req.Choice)
	if err != nil {
		writeError(w, http.StatusBadRequest, "choice must be cashout or save")
		return
	}
	childID := auth.ChildID(r.Context())

	res, err := h.svc.Settle(r.Context(), childID, choice)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to settle")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySettlement, websocket.ActionSettled, res.Entry.ID, map[string]any{
		"choice": choice,
		"amount": res.Entry.Amount,
	}).ForChild(childID))
	writeJSON(w, http.StatusOK, res)
}

func (h *EconomyHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	fs, err := h.svc.Settings(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

type settingsRequest struct {
	ExchangeRate *decimal.Decimal `json:"exchange_rate" validate:"required"`
	InterestRate *decimal.Decimal `json:"interest_rate" validate:"required"`
}

func (h *EconomyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fs, err := h.svc.UpdateSettings(r.Context(), model.FamilySettings{
		ExchangeRate: *req.ExchangeRate,
		InterestRate: *req.InterestRate,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to update settings")
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySettings, websocket.ActionUpdated, 0, nil))
	writeJSON(w, http.StatusOK, fs)
}

func (h *EconomyHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Overview(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load overview")
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (h *EconomyHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []leaderboard.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
