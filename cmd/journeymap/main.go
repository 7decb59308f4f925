package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ludobegins/por-ai/internal/config"
	"github.com/ludobegins/por-ai/internal/db"
	"github.com/ludobegins/por-ai/internal/handlers"
	"github.com/ludobegins/por-ai/internal/journey"
	"github.com/ludobegins/por-ai/internal/locale"
	"github.com/ludobegins/por-ai/internal/session"
	"github.com/ludobegins/por-ai/internal/static"
)

func main() {
	config.InitLogging()
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Config loaded: source=%s, basemap=%s, session_ttl=%v", cfg.JourneySource, cfg.Map.DefaultBasemap, cfg.SessionTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ═══════════════════════════════════════════════════════
	// PHASE 1: Journey data
	// ═══════════════════════════════════════════════════════
	client := &http.Client{Timeout: cfg.FetchTimeout}
	j, err := journey.Load(ctx, client, cfg.JourneySource)
	if err != nil {
		log.Fatalf("Failed to load journey: %v", err)
	}
	log.Printf("Journey loaded: %d stops", len(j.Stops))

	log.Println("Checking static data freshness...")
	if _, err := static.RefreshIfStale(cfg, j); err != nil {
		log.Printf("Warning: static data refresh failed: %v", err)
		// Continue anyway - the API serves the journey directly
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 2: Preference storage
	// ═══════════════════════════════════════════════════════
	store, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize preference storage: %v", err)
	}
	defer store.Close()
	if cfg.DatabaseURL != "" {
		log.Println("Using PostgreSQL preference storage")
	}

	// ═══════════════════════════════════════════════════════
	// PHASE 3: Sessions and routes
	// ═══════════════════════════════════════════════════════
	sessions := session.NewManager(cfg.Map, j, locale.NewProvider(store), session.Options{
		Capacity: cfg.SessionCapacity,
		TTL:      cfg.SessionTTL,
	})
	defer sessions.Close()

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		Health:         handlers.NewHealthHandler(store, j, sessions.Len),
		Journey:        handlers.NewJourneyHandler(j),
		Sessions:       handlers.NewSessionHandler(sessions, cfg.Map),
	})

	// ═══════════════════════════════════════════════════════
	// PHASE 4: Background maintenance
	// ═══════════════════════════════════════════════════════
	go func() {
		// Check every 24 hours
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				log.Println("Running daily maintenance...")
				if err := db.Cleanup(ctx, store, cfg.PreferenceRetention); err != nil {
					log.Printf("Cleanup error: %v", err)
				}
				if _, err := static.RefreshIfStale(cfg, j); err != nil {
					log.Printf("Static refresh failed: %v", err)
				}
			case <-ctx.Done():
				log.Println("Maintenance loop stopped")
				return
			}
		}
	}()

	// ═══════════════════════════════════════════════════════
	// PHASE 5: Serve until signalled
	// ═══════════════════════════════════════════════════════
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("API server starting on :%s", cfg.Port)
		log.Println("Journey endpoints:")
		log.Println("  GET /api/journey/points")
		log.Println("  GET /api/journey/segments")
		log.Println("  GET /api/i18n/{locale}")
		log.Println("Session endpoints:")
		log.Println("  POST /api/sessions")
		log.Println("  GET /api/sessions/{sessionID}/style")
		log.Println("  PUT /api/sessions/{sessionID}/basemap")
		log.Println("  PUT /api/sessions/{sessionID}/locale")
		log.Println("  POST /api/sessions/{sessionID}/hover")
		log.Println("  POST /api/sessions/{sessionID}/leave")
		log.Println("Health:")
		log.Println("  GET /health (with database check)")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}
	log.Println("Goodbye!")
}
