package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/terracaughta/geoguess/internal/countries"
	"github.com/terracaughta/geoguess/internal/game"
)

type RoundResponse struct {
	Outcome       string      `json:"outcome"`
	ClueIndex     int         `json:"clueIndex"`
	Clues         []string    `json:"clues"`
	PointsAtStake int         `json:"pointsAtStake"`
	Reveal        *RevealInfo `json:"reveal,omitempty"`
}

// RevealInfo is disclosed to the presentation layer only once the round is
// over: the answer, its flag and map coordinates.
type RevealInfo struct {
	Country string  `json:"country"`
	Capital string  `json:"capital"`
	FlagURL string  `json:"flagUrl"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func handleNewRound(logger *slog.Logger, deps Deps, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		defer sess.mu.Unlock()

		if sess.Round != nil && sess.Round.Outcome() == game.OutcomeInProgress {
			writeError(w, http.StatusConflict, "a round is already in progress")
			return
		}

		pool, err := deps.Catalog.Pool(r.Context())
		if err != nil {
			logger.Error("country pool fetch failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "country data unavailable")
			return
		}

		target, geo, err := deps.Selector.Select(r.Context(), pool, sess.State.Used)
		if errors.Is(err, game.ErrNoEligibleCountry) {
			logger.Error("country selection exhausted retries", "session", sess.ID)
			writeError(w, http.StatusServiceUnavailable, "no eligible country could be selected")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		clues := deps.Resolver.BuildClues(r.Context(), target, geo)

		round := game.NewRound(deps.Evaluator)
		if err := round.Start(target, geo, clues); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		sess.Round = round

		broker.Publish(sess.ID, Event{Type: "round_started"})

		writeJSON(w, http.StatusCreated, roundPayload(sess))
	}
}

func handleRoundState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		defer sess.mu.Unlock()

		if sess.Round == nil {
			writeError(w, http.StatusNotFound, "no round in this session")
			return
		}

		writeJSON(w, http.StatusOK, roundPayload(sess))
	}
}

// roundPayload builds the round view. Caller holds the session lock.
func roundPayload(sess *Session) RoundResponse {
	round := sess.Round

	resp := RoundResponse{
		Outcome:   string(round.Outcome()),
		ClueIndex: round.ClueIndex(),
		Clues:     round.Clues(),
	}
	if round.Outcome() == game.OutcomeInProgress {
		resp.PointsAtStake = game.PointsAt(round.ClueIndex())
	}
	if round.Outcome().Terminal() {
		resp.Reveal = revealInfo(round.Target(), round.Geo())
	}
	return resp
}

func revealInfo(c countries.Country, geo countries.GeoClue) *RevealInfo {
	info := &RevealInfo{
		Country: c.Name,
		Capital: c.Capital,
		FlagURL: c.FlagURL,
	}
	if geo.HasCoordinates() {
		info.Lat = *geo.Lat
		info.Lng = *geo.Lng
	}
	return info
}
