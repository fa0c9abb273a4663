package api

import (
	"net/http"
	"sort"

	"github.com/campus-events/server/internal/api/handlers"
	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/config"
	"github.com/campus-events/server/internal/domain/accounts"
	"github.com/campus-events/server/internal/domain/engagement"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/email"
	"github.com/campus-events/server/internal/metrics"
	"github.com/campus-events/server/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewRouter wires repositories, services, and handlers onto a ServeMux.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	mailer, err := email.NewService(cfg.Email, logger)
	if err != nil {
		return nil, err
	}

	auditLogger := audit.NewLogger()
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Server.BaseURL)

	accountsService := accounts.NewService(repo.Accounts(), mailer, accounts.Options{
		StudentEmailDomain: cfg.Accounts.StudentEmailDomain,
		FacultyEmailDomain: cfg.Accounts.FacultyEmailDomain,
		CodeTTL:            cfg.Accounts.CodeTTL,
	}, logger)
	eventsService := events.NewService(repo.Events(), accountsService, auditLogger, logger)
	engagementService := engagement.NewService(repo.Engagement(), logger)

	accountsHandler := handlers.NewAccountsHandler(accountsService, jwtManager, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)
	engagementHandler := handlers.NewEngagementHandler(engagementService, eventsService, cfg.Environment)
	searchHandler := handlers.NewSearchHandler(eventsService, cfg.Environment)

	authed := middleware.RequireAuth(jwtManager, cfg.Environment)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/v1/accounts", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(accountsHandler.Register),
	}))
	mux.Handle("/api/v1/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(accountsHandler.Login),
	}))
	mux.Handle("/api/v1/accounts/{id}/verify", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(accountsHandler.Verify),
	}))
	mux.Handle("/api/v1/accounts/{id}/password", methodMux(map[string]http.Handler{
		http.MethodPut: authed(http.HandlerFunc(accountsHandler.ChangePassword)),
	}))
	mux.Handle("/api/v1/accounts/{id}", methodMux(map[string]http.Handler{
		http.MethodDelete: authed(http.HandlerFunc(accountsHandler.Delete)),
	}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: authed(http.HandlerFunc(eventsHandler.Create)),
	}))
	mux.Handle("/api/v1/events/search", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(searchHandler.Search),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(eventsHandler.Get),
		http.MethodPatch:  authed(http.HandlerFunc(eventsHandler.Update)),
		http.MethodDelete: authed(http.HandlerFunc(eventsHandler.Delete)),
	}))

	mux.Handle("/api/v1/events/{id}/rsvp", methodMux(map[string]http.Handler{
		http.MethodPost: authed(engagementHandler.Toggle(engagement.LogRSVP)),
		http.MethodGet:  engagementHandler.ListByEvent(engagement.LogRSVP),
	}))
	mux.Handle("/api/v1/events/{id}/like", methodMux(map[string]http.Handler{
		http.MethodPost: authed(engagementHandler.Toggle(engagement.LogLike)),
		http.MethodGet:  engagementHandler.ListByEvent(engagement.LogLike),
	}))
	mux.Handle("/api/v1/accounts/{id}/rsvps", methodMux(map[string]http.Handler{
		http.MethodGet: authed(engagementHandler.ListByAccount(engagement.LogRSVP)),
	}))
	mux.Handle("/api/v1/accounts/{id}/likes", methodMux(map[string]http.Handler{
		http.MethodGet: authed(engagementHandler.ListByAccount(engagement.LogLike)),
	}))

	return middleware.RequestLogging(logger)(mux), nil
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	out := ""
	for i, method := range methods {
		if i > 0 {
			out += ", "
		}
		out += method
	}
	return out
}
