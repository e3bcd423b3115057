package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/earnlearn/internal/config"
	"github.com/dukerupert/earnlearn/internal/family"
	"github.com/dukerupert/earnlearn/internal/handler"
	"github.com/dukerupert/earnlearn/internal/middleware"
	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/push"
	"github.com/dukerupert/earnlearn/internal/scheduler"
	"github.com/dukerupert/earnlearn/internal/store"
	ws "github.com/dukerupert/earnlearn/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	svc          *family.Service
	authH        *handler.AuthHandler
	childH       *handler.ChildHandler
	taskH        *handler.TaskHandler
	templateH    *handler.TemplateHandler
	economyH     *handler.EconomyHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	accountStore *store.AccountStore
	pushStore    *store.PushStore
	rateLimiter  *middleware.RateLimiter
	scheduler    *scheduler.Scheduler
	logger       *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	svc := family.NewService(db, logger.With("component", "family"))

	sessionStore := store.NewSessionStore(db, cfg.SessionTTL)
	accountStore := store.NewAccountStore(db)
	pushSt := store.NewPushStore(db)

	// Push is optional; a nil sender turns the notifier into a no-op.
	var pushSvc *push.Service
	var pushH *handler.PushHandler
	var sender push.Sender
	if cfg.PushEnabled() {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)
		pushH = handler.NewPushHandler(pushSt, pushSvc, logger.With("component", "push_handler"))
		sender = pushSvc
	}
	notifier := push.NewNotifier(sender, pushSt, logger.With("component", "push"))

	sched := scheduler.New(svc, hub, notifier, cfg.SpawnInterval, logger)
	sched.AddJanitor(func(time.Time) error {
		_, err := sessionStore.DeleteExpired()
		return err
	})
	sched.AddJanitor(func(now time.Time) error {
		return pushSt.CleanupSent(now.AddDate(0, 0, -7))
	})

	return &Server{
		db:           db,
		hub:          hub,
		svc:          svc,
		authH:        handler.NewAuthHandler(svc, sessionStore, cfg.SecureCookie, logger.With("component", "auth")),
		childH:       handler.NewChildHandler(svc, hub, logger.With("component", "child")),
		taskH:        handler.NewTaskHandler(svc, hub, notifier, logger.With("component", "task")),
		templateH:    handler.NewTemplateHandler(svc, hub, notifier, logger.With("component", "template")),
		economyH:     handler.NewEconomyHandler(svc, hub, notifier, logger.With("component", "economy")),
		pushH:        pushH,
		sessionStore: sessionStore,
		accountStore: accountStore,
		pushStore:    pushSt,
		rateLimiter:  middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRatePeriod),
		scheduler:    sched,
		logger:       logger,
	}
}

// Family returns the service behind the API.
func (s *Server) Family() *family.Service {
	return s.svc
}

// Start launches the recurrence scheduler and the rate limiter sweeper.
func (s *Server) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
	go s.rateLimiter.Run(ctx, 5*time.Minute)
}

// Stop waits for the scheduler to finish its current pass.
func (s *Server) Stop() {
	s.scheduler.Stop()
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	login := middleware.RateLimit(s.rateLimiter, middleware.RealIP)
	outerMux.Handle("POST /login", login(http.HandlerFunc(s.authH.Login)))
	outerMux.HandleFunc("GET /health", handler.Health(s.db))

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.accountStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	parent := roleRoutes{mux: mux, require: middleware.RequireRole(model.RoleParent)}
	child := roleRoutes{mux: mux, require: middleware.RequireRole(model.RoleChild)}

	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// Children
	parent.handle("GET /api/children", s.childH.List)
	parent.handle("POST /api/children", s.childH.Create)
	mux.HandleFunc("GET /api/children/{id}", s.childH.Get)
	mux.HandleFunc("GET /api/children/{id}/tasks", s.childH.Tasks)
	mux.HandleFunc("GET /api/children/{id}/history", s.childH.History)
	mux.HandleFunc("GET /api/children/{id}/achievements", s.childH.Achievements)

	// Tasks
	parent.handle("GET /api/tasks", s.taskH.List)
	parent.handle("POST /api/tasks", s.taskH.Create)
	parent.handle("DELETE /api/tasks/{id}", s.taskH.Delete)
	parent.handle("POST /api/tasks/{id}/approve", s.taskH.Approve)
	parent.handle("POST /api/tasks/{id}/reject", s.taskH.Reject)
	child.handle("POST /api/tasks/{id}/submit", s.taskH.Submit)

	// Recurring templates
	parent.handle("GET /api/templates", s.templateH.List)
	parent.handle("POST /api/templates", s.templateH.Create)
	parent.handle("POST /api/templates/{id}/toggle", s.templateH.Toggle)
	parent.handle("DELETE /api/templates/{id}", s.templateH.Delete)
	parent.handle("POST /api/recurrence/spawn", s.templateH.Spawn)

	// Economy
	parent.handle("POST /api/payday", s.economyH.Payday)
	child.handle("POST /api/settlement", s.economyH.Settle)
	parent.handle("GET /api/settings", s.economyH.GetSettings)
	parent.handle("PUT /api/settings", s.economyH.UpdateSettings)
	parent.handle("GET /api/overview", s.economyH.Overview)
	mux.HandleFunc("GET /api/leaderboard", s.economyH.Leaderboard)

	// Push notification API routes
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}

type roleRoutes struct {
	mux     *http.ServeMux
	require func(http.Handler) http.Handler
}

func (rr roleRoutes) handle(pattern string, h http.HandlerFunc) {
	rr.mux.Handle(pattern, rr.require(h))
}
