package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps, spaDir string) {
	sessions := NewRegistry()
	broker := NewBroker()

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("TerraCaughta API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.Countries, deps.Catalog))

	r.Post("/api/sessions", handleCreateSession(sessions))

	// Player routes — {sessionID} resolved by sessionMiddleware.
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Use(sessionMiddleware(sessions))
		r.Post("/round", handleNewRound(logger, deps, broker))
		r.Get("/round", handleRoundState())
		r.Post("/round/guess", handleGuess(broker))
		r.Post("/round/skip", handleSkip(broker))
		r.Get("/events", handleEvents(broker))
		r.Delete("/", handleEndSession(sessions))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
