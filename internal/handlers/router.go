package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RouterConfig collects what the API router serves
type RouterConfig struct {
	AllowedOrigins []string
	StaticDir      string // Optional directory served at /

	Health   *HealthHandler
	Journey  *JourneyHandler
	Sessions *SessionHandler
}

// NewRouter sets up the API routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health
	r.Get("/health", cfg.Health.GetHealth)
	r.Get("/healthz", cfg.Health.GetHealthz)

	// Journey data
	r.Get("/api/journey/points", cfg.Journey.GetPoints)
	r.Get("/api/journey/segments", cfg.Journey.GetSegments)
	r.Get("/api/i18n/{locale}", cfg.Journey.GetTranslations)

	// Map sessions
	r.Post("/api/sessions", cfg.Sessions.CreateSession)
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/style", cfg.Sessions.GetStyle)
		r.Put("/basemap", cfg.Sessions.SetBasemap)
		r.Put("/locale", cfg.Sessions.SetLocale)
		r.Post("/hover", cfg.Sessions.Hover)
		r.Post("/leave", cfg.Sessions.Leave)
	})

	// Static file serving (if configured)
	if cfg.StaticDir != "" {
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}
