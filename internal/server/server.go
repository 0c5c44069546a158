package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kwrobel/listly/internal/access"
	"github.com/kwrobel/listly/internal/handler"
	"github.com/kwrobel/listly/internal/middleware"
	"github.com/kwrobel/listly/internal/service"
	"github.com/kwrobel/listly/internal/store"
)

type Server struct {
	db           *sql.DB
	authH        *handler.AuthHandler
	listH        *handler.ListHandler
	taskH        *handler.TaskHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	listStore := store.NewListStore(db)
	taskStore := store.NewTaskStore(db)

	checker := access.NewChecker(db)

	identitySvc := service.NewIdentityService(userStore, sessionStore, service.BcryptHasher{}, logger.With("component", "identity"))
	listSvc := service.NewListService(listStore, userStore, checker)
	taskSvc := service.NewTaskService(taskStore, checker)

	return &Server{
		db:           db,
		authH:        handler.NewAuthHandler(identitySvc, logger.With("component", "auth")),
		listH:        handler.NewListHandler(listSvc, logger.With("component", "list")),
		taskH:        handler.NewTaskHandler(taskSvc, logger.With("component", "task")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/password-reset", s.rateLimitedHandler(s.authH.RequestReset))
	outerMux.HandleFunc("POST /api/password-reset/complete", s.rateLimitedHandler(s.authH.CompleteReset))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("PUT /api/me/password", s.authH.ChangePassword)

	// List routes
	mux.HandleFunc("GET /api/lists", s.listH.List)
	mux.HandleFunc("POST /api/lists", s.listH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.listH.Get)
	mux.HandleFunc("PUT /api/lists/{id}", s.listH.Update)
	mux.HandleFunc("DELETE /api/lists/{id}", s.listH.Delete)

	// Share routes
	mux.HandleFunc("GET /api/lists/{id}/shares", s.listH.Shares)
	mux.HandleFunc("POST /api/lists/{id}/shares", s.listH.Share)
	mux.HandleFunc("DELETE /api/lists/{id}/shares/{user_id}", s.listH.RemoveShare)

	// Task routes
	mux.HandleFunc("GET /api/lists/{id}/tasks", s.taskH.ListForList)
	mux.HandleFunc("POST /api/lists/{id}/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.taskH.Toggle)

	// Dashboard routes
	mux.HandleFunc("GET /api/dashboard/upcoming", s.taskH.Upcoming)
	mux.HandleFunc("GET /api/dashboard/overdue", s.taskH.Overdue)
	mux.HandleFunc("GET /api/dashboard/stats", s.taskH.Stats)
}
