package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/terracaughta/geoguess/internal/countries"
)

// Pinger verifies the country directory upstream is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Catalog CatalogHealth `json:"catalog"`
}

type CatalogHealth struct {
	Cached     bool  `json:"cached"`
	AgeSeconds int64 `json:"ageSeconds"`
}

func handleHealth(logger *slog.Logger, upstream Pinger, catalog *countries.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{Status: "ok"}
		status := http.StatusOK

		if age, cached := catalog.Age(); cached {
			resp.Catalog = CatalogHealth{Cached: true, AgeSeconds: int64(age.Seconds())}
		}

		// A warm catalog keeps the game playable even when the directory is
		// briefly unreachable, so only an unreachable upstream with a cold
		// cache degrades the status.
		if err := upstream.Ping(ctx); err != nil {
			logger.Error("health check failed", "name", "countries", "error", err)
			if !resp.Catalog.Cached {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, resp)
	}
}
