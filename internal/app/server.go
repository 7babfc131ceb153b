package app

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/artintx/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/artintx/internal/api/middlewares"
	"github.com/markdave123-py/artintx/internal/config"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, svc *Services) *Server {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{httpServer: httpSrv}
}

func NewRouter(cfg *config.Config, svc *Services) http.Handler {
	authHandler := handlers.NewAuthHandler(svc.Users, cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	chatHandler := handlers.NewChatHandler(svc.Chat)
	moodHandler := handlers.NewMoodHandler(svc.Moods)
	assessmentHandler := handlers.NewAssessmentHandler(svc.Assessments)
	reminderHandler := handlers.NewReminderHandler(svc.Reminders)
	insightHandler := handlers.NewInsightHandler(svc.Risk, svc.Analytics, svc.Export)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Serve the frontend from the static directory
	if cfg.StaticDir != "" {
		r.Handle("/*", spaHandler(cfg.StaticDir))
	}

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Get("/health", handlers.Health)
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))

			protected.Get("/auth/profile", authHandler.Profile)
			protected.Put("/auth/profile", authHandler.UpdateProfile)

			protected.Post("/chat/message", chatHandler.SendMessage)
			protected.Get("/chat/history", chatHandler.History)
			protected.Get("/chat/sessions", chatHandler.Sessions)

			protected.Post("/mood/log", moodHandler.Log)
			protected.Get("/mood/history", moodHandler.History)
			protected.Get("/mood/stats", moodHandler.Stats)

			protected.Post("/assessment/phq9", assessmentHandler.SubmitPHQ9)
			protected.Get("/assessment/history", assessmentHandler.History)

			protected.Get("/risk/scores", insightHandler.RiskScores)
			protected.Get("/analytics/summary", insightHandler.Summary)
			protected.Get("/analytics/mood-trend", insightHandler.MoodTrend)
			protected.Get("/analytics/phq9-trend", insightHandler.PHQ9Trend)

			protected.Get("/reminders", reminderHandler.List)
			protected.Post("/reminders", reminderHandler.Create)
			protected.Delete("/reminders/{id}", reminderHandler.Delete)

			protected.Post("/export", insightHandler.Export)
			protected.Get("/export/{name}", insightHandler.DownloadExport)
			protected.Delete("/export/{name}", insightHandler.DeleteExport)
		})
	})

	return r
}

// spaHandler serves files from dir and answers unknown paths with index.html,
// leaving routing to the frontend.
func spaHandler(dir string) http.Handler {
	root := http.Dir(dir)
	files := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := root.Open(path.Clean("/" + r.URL.Path))
		if err == nil {
			f.Close()
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}

// Start runs the HTTP server until Shutdown. It returns nil on a clean stop.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
