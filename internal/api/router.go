package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apimw "github.com/phrazzld/tasklink-api/internal/api/middleware"
	"github.com/phrazzld/tasklink-api/internal/api/shared"
	"github.com/phrazzld/tasklink-api/internal/service"
	"github.com/phrazzld/tasklink-api/internal/service/auth"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps holds everything NewRouter wires into handlers.
type RouterDeps struct {
	Logger         *slog.Logger
	JWTService     auth.JWTService
	Users          service.UserService
	Tasks          service.TaskService
	Registry       *service.IdentityRegistry
	Realtime       http.Handler
	DB             Pinger
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP routes for both API surfaces, the realtime
// channel and the health check.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.NewTraceMiddleware(log))
	r.Use(chimw.Recoverer)

	authHandler := NewAuthHandler(deps.Users, deps.JWTService, log)
	taskHandler := NewTaskHandler(deps.Tasks, deps.Registry, log)
	externalHandler := NewExternalHandler(deps.Tasks, log)
	authMiddleware := apimw.NewAuthMiddleware(deps.JWTService)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Logger)
		if deps.RequestTimeout > 0 {
			r.Use(chimw.Timeout(deps.RequestTimeout))
		}

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/telegram/tasks", externalHandler.ListTasks)
		r.Post("/telegram/complete-task", externalHandler.CompleteTask)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/my-tasks", taskHandler.MyTasks)
			r.Post("/create-task", taskHandler.CreateTask)
			r.Patch("/complete-task/{id}", taskHandler.CompleteTask)
			r.Post("/link-telegram", taskHandler.LinkTelegram)
		})
	})

	if deps.Realtime != nil {
		r.Handle("/ws/tasks", deps.Realtime)
	}

	r.Get("/health", healthHandler(deps.DB))

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, shared.CodeInternalError,
					"Database unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
