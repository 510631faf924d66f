package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/pickleball-scorecard/handlers"
	"github.com/Dosada05/pickleball-scorecard/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router chi.Router,
	logger *slog.Logger,
	allowedOrigins []string,
	matchHandler *handlers.MatchHandler,
	gameHandler *handlers.GameHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler.Healthz)

	router.Route("/matches", func(r chi.Router) {
		r.Post("/", matchHandler.CreateMatch)
		r.Get("/", matchHandler.ListMatches)

		r.Route("/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.Patch("/", matchHandler.UpdateMatch)
			r.Delete("/", matchHandler.DeleteMatch)
			r.Post("/archive", matchHandler.ArchiveMatch)
			r.Post("/games", gameHandler.CreateGame)
		})
	})

	router.Route("/games/{gameID}", func(r chi.Router) {
		r.Get("/", gameHandler.GetGame)
		r.Patch("/", gameHandler.UpdateGame)
		r.Post("/start", gameHandler.StartGame)
		r.Post("/complete", gameHandler.CompleteGame)
		r.Post("/events", gameHandler.AddEvent)

		// Scoreboard shortcuts: one referee action per request.
		r.Post("/score", gameHandler.RecordScore)
		r.Post("/timeouts", gameHandler.RecordTimeout)
		r.Post("/reset", gameHandler.ResetGame)
		r.Post("/forfeit", gameHandler.RecordForfeit)
	})
}
