package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hack2infi/mindmate/backend/internal/handler/voice"
	middlewarePkg "github.com/hack2infi/mindmate/backend/internal/middleware"
	"github.com/hack2infi/mindmate/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(voiceHandler *voice.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		voiceHandler.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
