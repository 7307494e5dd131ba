package server

import (
	"errors"
	"net/http"

	"github.com/terracaughta/geoguess/internal/game"
)

type GuessRequest struct {
	Guess string `json:"guess"`
}

type StepResponse struct {
	Outcome       string      `json:"outcome"`
	Correct       bool        `json:"correct"`
	Guess         string      `json:"guess,omitempty"`
	PointsAwarded int         `json:"pointsAwarded,omitempty"`
	ClueIndex     int         `json:"clueIndex"`
	Clues         []string    `json:"clues"`
	Points        int         `json:"points"`
	CurrentStreak int         `json:"currentStreak"`
	LastStreak    int         `json:"lastStreak"`
	Reveal        *RevealInfo `json:"reveal,omitempty"`
}

func handleGuess(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		var req GuessRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sess.mu.Lock()
		defer sess.mu.Unlock()

		if sess.Round == nil {
			writeError(w, http.StatusConflict, "no round in this session")
			return
		}

		res, err := sess.Round.SubmitGuess(req.Guess)
		if err != nil {
			writeStepError(w, err)
			return
		}

		sess.State.Apply(res, sess.Round.Target().Name)
		publishStep(broker, sess, res)

		writeJSON(w, http.StatusOK, stepPayload(sess, res))
	}
}

func handleSkip(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		sess.mu.Lock()
		defer sess.mu.Unlock()

		if sess.Round == nil {
			writeError(w, http.StatusConflict, "no round in this session")
			return
		}

		res, err := sess.Round.Skip()
		if err != nil {
			writeStepError(w, err)
			return
		}

		sess.State.Apply(res, sess.Round.Target().Name)
		publishStep(broker, sess, res)

		writeJSON(w, http.StatusOK, stepPayload(sess, res))
	}
}

// writeStepError maps state machine errors onto HTTP statuses. An empty
// guess is invalid input to re-prompt on, not a wrong answer.
func writeStepError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrEmptyGuess):
		writeError(w, http.StatusBadRequest, "guess is required")
	case errors.Is(err, game.ErrRoundFinished):
		writeError(w, http.StatusConflict, "round already finished")
	case errors.Is(err, game.ErrRoundNotStarted):
		writeError(w, http.StatusConflict, "round not started")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func publishStep(broker *Broker, sess *Session, res game.StepResult) {
	switch res.Outcome {
	case game.OutcomeWon:
		broker.Publish(sess.ID, Event{
			Type:          "round_won",
			PointsAwarded: res.PointsAwarded,
			Streak:        sess.State.CurrentStreak,
		})
	case game.OutcomeLost:
		broker.Publish(sess.ID, Event{Type: "round_lost"})
	default:
		broker.Publish(sess.ID, Event{Type: "clue_revealed", ClueIndex: res.ClueIndex})
	}
}

// stepPayload builds the response to a guess or skip. Caller holds the
// session lock.
func stepPayload(sess *Session, res game.StepResult) StepResponse {
	resp := StepResponse{
		Outcome:       string(res.Outcome),
		Correct:       res.Correct,
		Guess:         res.Guess,
		PointsAwarded: res.PointsAwarded,
		ClueIndex:     res.ClueIndex,
		Clues:         sess.Round.Clues(),
		Points:        sess.State.Points,
		CurrentStreak: sess.State.CurrentStreak,
		LastStreak:    sess.State.LastStreak,
	}
	if res.Outcome.Terminal() {
		resp.Reveal = revealInfo(sess.Round.Target(), sess.Round.Geo())
	}
	return resp
}
