package api

import (
	"context"
	"net/http"
	"time"

	"github.com/futig/ragchat/internal/api/docs"
	"github.com/futig/ragchat/internal/api/middleware"
	sessionapi "github.com/futig/ragchat/internal/api/session"
	"github.com/futig/ragchat/internal/entity"
	"github.com/futig/ragchat/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// HealthChecker reports the RAG backend health payload
type HealthChecker interface {
	Health(ctx context.Context) (map[string]any, error)
}

// SessionCounter reports how many sessions the process holds
type SessionCounter interface {
	Count() int
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(sessionHandler *sessionapi.Handler, backend HealthChecker, sessions SessionCounter, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(90 * time.Second))

	r.Get("/health", healthHandler(backend, sessions))

	docs.RegisterRoutes(r)

	sessionapi.RegisterRoutes(r, sessionHandler)

	return r
}

func healthHandler(backend HealthChecker, sessions SessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := backend.Health(r.Context())
		if err != nil {
			ctxzap.Warn(r.Context(), "backend health check failed", zap.Error(err))
			response.JSON(w, http.StatusServiceUnavailable, entity.HealthResponse{
				Status:   "unavailable",
				Sessions: sessions.Count(),
				Error:    err.Error(),
			})
			return
		}

		response.Success(w, entity.HealthResponse{
			Status:   "healthy",
			Backend:  payload,
			Sessions: sessions.Count(),
		})
	}
}
