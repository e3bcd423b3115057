package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/earnlearn/internal/auth"
	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/middleware"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/store"
)

type AuthHandler struct {
	svc          *family.Service
	sessions     *store.SessionStore
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(svc *family.Service, sessions *store.SessionStore, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, secureCookie: secureCookie, logger: logger}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   *model.Account `json:"account"`
}

// Login handles POST /login. The session token is set as a cookie and also
// returned for clients that prefer a bearer header.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	acct, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, family.ErrBadCredentials) {
		h.logger.Info("login failed", "username", req.Username, "ip", middleware.RealIP(r))
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		h.logger.Error("authenticate", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	sess, err := h.sessions.Create(acct.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login", "account_id", acct.ID, "role", acct.Role)
	writeJSON(w, http.StatusOK, loginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, Account: acct})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		if err := h.sessions.Delete(token); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	Account *model.Account `json:"account"`
	Child   *model.Child   `json:"child,omitempty"`
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	acct, err := h.svc.GetAccount(r.Context(), ac.AccountID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load account")
		return
	}
	resp := meResponse{Account: acct}
	if acct.ChildID != nil {
		child, err := h.svc.GetChild(r.Context(), *acct.ChildID)
		if err != nil {
			writeServiceError(w, h.logger, err, "failed to load child")
			return
		}
		resp.Child = child
	}
	writeJSON(w, http.StatusOK, resp)
}
